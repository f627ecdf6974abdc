// Package plaid is a minimal client for the Plaid REST API covering Link,
// item, account, processor token and transaction endpoints.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	sandboxURL     = "https://sandbox.plaid.com"
	developmentURL = "https://development.plaid.com"
	productionURL  = "https://production.plaid.com"

	apiVersion     = "2020-09-14"
	defaultTimeout = 30 * time.Second
	maxSyncPages   = 100

	linkTokenCreatePath     = "/link/token/create"
	publicTokenExchangePath = "/item/public_token/exchange"
	accountsGetPath         = "/accounts/get"
	processorTokenPath      = "/processor/token/create"
	itemGetPath             = "/item/get"
	institutionGetPath      = "/institutions/get_by_id"
	transactionsSyncPath    = "/transactions/sync"
)

// Client handles communication with the Plaid API
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a Plaid client for the given environment
// (sandbox, development or production).
func NewClient(clientID, secret, env string) (*Client, error) {
	baseURL, err := BaseURL(env)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
	}, nil
}

// BaseURL maps an environment name to its API host.
func BaseURL(env string) (string, error) {
	switch env {
	case "sandbox":
		return sandboxURL, nil
	case "development":
		return developmentURL, nil
	case "production":
		return productionURL, nil
	default:
		return "", fmt.Errorf("unknown plaid environment %q", env)
	}
}

// CreateLinkToken creates a short-lived token that initializes Plaid Link
func (c *Client) CreateLinkToken(ctx context.Context, req LinkTokenRequest) (*LinkTokenResponse, error) {
	var resp LinkTokenResponse
	if err := c.post(ctx, linkTokenCreatePath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExchangePublicToken trades a Link public token for a permanent access token
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error) {
	body := map[string]string{"public_token": publicToken}

	var resp ExchangeResponse
	if err := c.post(ctx, publicTokenExchangePath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccounts lists the accounts of the item behind accessToken
func (c *Client) GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error) {
	body := map[string]string{"access_token": accessToken}

	var resp AccountsResponse
	if err := c.post(ctx, accountsGetPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateProcessorToken creates a token a payments processor can use to pull
// account and routing numbers for one account
func (c *Client) CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error) {
	body := map[string]string{
		"access_token": accessToken,
		"account_id":   accountID,
		"processor":    processor,
	}

	var resp struct {
		ProcessorToken string `json:"processor_token"`
	}
	if err := c.post(ctx, processorTokenPath, body, &resp); err != nil {
		return "", err
	}
	return resp.ProcessorToken, nil
}

// GetItem returns the item metadata, including its institution id
func (c *Client) GetItem(ctx context.Context, accessToken string) (*Item, error) {
	body := map[string]string{"access_token": accessToken}

	var resp struct {
		Item Item `json:"item"`
	}
	if err := c.post(ctx, itemGetPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// GetInstitution returns the institution's display data
func (c *Client) GetInstitution(ctx context.Context, institutionID string, countryCodes []string) (*Institution, error) {
	body := map[string]any{
		"institution_id": institutionID,
		"country_codes":  countryCodes,
		"options":        map[string]bool{"include_optional_metadata": true},
	}

	var resp struct {
		Institution Institution `json:"institution"`
	}
	if err := c.post(ctx, institutionGetPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Institution, nil
}

// SyncTransactions pages through /transactions/sync from the beginning and
// returns the resulting transaction set with modifications and removals applied.
func (c *Client) SyncTransactions(ctx context.Context, accessToken string) ([]Transaction, error) {
	byID := make(map[string]Transaction)
	var order []string

	cursor := ""
	for page := 0; ; page++ {
		if page == maxSyncPages {
			return nil, fmt.Errorf("transactions sync did not finish after %d pages", maxSyncPages)
		}

		body := map[string]string{"access_token": accessToken}
		if cursor != "" {
			body["cursor"] = cursor
		}

		var resp transactionsSyncResponse
		if err := c.post(ctx, transactionsSyncPath, body, &resp); err != nil {
			return nil, err
		}

		for _, tx := range resp.Added {
			if _, seen := byID[tx.TransactionID]; !seen {
				order = append(order, tx.TransactionID)
			}
			byID[tx.TransactionID] = tx
		}
		for _, tx := range resp.Modified {
			if _, seen := byID[tx.TransactionID]; seen {
				byID[tx.TransactionID] = tx
			}
		}
		for _, removed := range resp.Removed {
			delete(byID, removed.TransactionID)
		}

		cursor = resp.NextCursor
		if !resp.HasMore {
			break
		}
	}

	transactions := make([]Transaction, 0, len(byID))
	for _, id := range order {
		if tx, ok := byID[id]; ok {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

// post sends a JSON body to path and decodes a 200 response into out.
// Non-200 responses are returned as *Error when the body parses as one.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PLAID-CLIENT-ID", c.clientID)
	req.Header.Set("PLAID-SECRET", c.secret)
	req.Header.Set("Plaid-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		plaidErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, plaidErr); err != nil || plaidErr.ErrorCode == "" {
			return fmt.Errorf("plaid request %s failed with status %d: %s", path, resp.StatusCode, string(respBody))
		}
		return plaidErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
