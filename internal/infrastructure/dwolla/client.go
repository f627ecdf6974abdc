// Package dwolla is a minimal client for the Dwolla ACH API: customers,
// funding sources and transfers.
package dwolla

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	sandboxURL    = "https://api-sandbox.dwolla.com"
	productionURL = "https://api.dwolla.com"

	halContentType = "application/vnd.dwolla.v1.hal+json"
	defaultTimeout = 30 * time.Second
	currency       = "USD"
)

var errNoLocation = errors.New("response has no Location header")

// Client handles communication with the Dwolla API. Access tokens come from
// the client credentials grant and are refreshed automatically.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a Dwolla client for sandbox or production.
func NewClient(key, secret, env string) (*Client, error) {
	var baseURL string
	switch env {
	case "sandbox":
		baseURL = sandboxURL
	case "production":
		baseURL = productionURL
	default:
		return nil, fmt.Errorf("unknown dwolla environment %q", env)
	}
	return newClient(key, secret, baseURL), nil
}

func newClient(key, secret, baseURL string) *Client {
	creds := clientcredentials.Config{
		ClientID:     key,
		ClientSecret: secret,
		TokenURL:     baseURL + "/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: defaultTimeout})
	httpClient := creds.Client(ctx)
	httpClient.Timeout = defaultTimeout

	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// CreateCustomer creates a verified personal customer and returns its URL
func (c *Client) CreateCustomer(ctx context.Context, customer Customer) (string, error) {
	if customer.Type == "" {
		customer.Type = "personal"
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/customers", customer)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return location(resp)
}

// CreateOnDemandAuthorization creates the authorization a bank funding source
// needs for later debits and returns its URL
func (c *Client) CreateOnDemandAuthorization(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/on-demand-authorizations", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create on-demand authorization: %w", err)
	}

	var res halResource
	if err := json.Unmarshal(resp.body, &res); err != nil {
		return "", fmt.Errorf("failed to unmarshal on-demand authorization: %w", err)
	}
	href := res.Links["self"].Href
	if href == "" {
		return "", errors.New("on-demand authorization has no self link")
	}
	return href, nil
}

// CreateFundingSource attaches a bank account to a customer using a Plaid
// processor token and returns the funding source URL
func (c *Client) CreateFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error) {
	authURL, err := c.CreateOnDemandAuthorization(ctx)
	if err != nil {
		return "", err
	}

	body := fundingSourceRequest{
		PlaidToken: processorToken,
		Name:       bankName,
		Links: map[string]link{
			"on-demand-authorization": {Href: authURL},
		},
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/customers/"+customerID+"/funding-sources", body)
	if err != nil {
		return "", fmt.Errorf("failed to create funding source: %w", err)
	}
	return location(resp)
}

// RemoveFundingSource soft-deletes a funding source
func (c *Client) RemoveFundingSource(ctx context.Context, fundingSourceURL string) error {
	if !strings.HasPrefix(fundingSourceURL, c.baseURL+"/funding-sources/") {
		return fmt.Errorf("funding source %q does not belong to %s", fundingSourceURL, c.baseURL)
	}

	if _, err := c.do(ctx, http.MethodPost, fundingSourceURL, map[string]bool{"removed": true}); err != nil {
		return fmt.Errorf("failed to remove funding source: %w", err)
	}
	return nil
}

// CreateTransfer moves amount USD between two funding sources and returns
// the transfer URL
func (c *Client) CreateTransfer(ctx context.Context, sourceURL, destinationURL string, value decimal.Decimal) (string, error) {
	body := transferRequest{
		Links: map[string]link{
			"source":      {Href: sourceURL},
			"destination": {Href: destinationURL},
		},
		Amount: amount{Currency: currency, Value: value.StringFixed(2)},
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/transfers", body)
	if err != nil {
		return "", fmt.Errorf("failed to create transfer: %w", err)
	}
	return location(resp)
}

type response struct {
	header http.Header
	body   []byte
}

func location(resp *response) (string, error) {
	loc := resp.header.Get("Location")
	if loc == "" {
		return "", errNoLocation
	}
	return loc, nil
}

func (c *Client) do(ctx context.Context, method, url string, body any) (*response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", halContentType)
	if body != nil {
		req.Header.Set("Content-Type", halContentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 300 {
		dwollaErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, dwollaErr); err != nil || dwollaErr.Code == "" {
			return nil, fmt.Errorf("dwolla request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, dwollaErr
	}

	return &response{header: resp.Header, body: respBody}, nil
}
