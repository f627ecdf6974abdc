package plaid

import (
	"context"
)

// ClientInterface defines the calls the service makes to Plaid
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, req LinkTokenRequest) (*LinkTokenResponse, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error)
	GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error)
	GetItem(ctx context.Context, accessToken string) (*Item, error)
	GetInstitution(ctx context.Context, institutionID string, countryCodes []string) (*Institution, error)
	SyncTransactions(ctx context.Context, accessToken string) ([]Transaction, error)
}
