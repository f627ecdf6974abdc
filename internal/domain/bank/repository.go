package bank

import (
	"context"

	"paynex/internal/infrastructure/plaid"
)

// Repository stores BankAccount documents. Lookups of unknown documents
// return ErrNotFound.
type Repository interface {
	// Create stores b and sets b.ID
	Create(ctx context.Context, b *BankAccount) error

	// ListByUserID returns the accounts owned by userID, filtered by the store
	ListByUserID(ctx context.Context, userID string) ([]*BankAccount, error)

	GetByID(ctx context.Context, id string) (*BankAccount, error)

	// GetByAccountID finds the account linked for a Plaid account id
	GetByAccountID(ctx context.Context, accountID string) (*BankAccount, error)
}

// AggregationClient is the part of Plaid the linking workflow needs.
type AggregationClient interface {
	CreateLinkToken(ctx context.Context, req plaid.LinkTokenRequest) (*plaid.LinkTokenResponse, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResponse, error)
	GetAccounts(ctx context.Context, accessToken string) (*plaid.AccountsResponse, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error)
}

// PaymentsClient is the part of Dwolla the linking workflow needs.
type PaymentsClient interface {
	CreateFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error)
	RemoveFundingSource(ctx context.Context, fundingSourceURL string) error
}

// Cipher turns account ids into shareable ids and back.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}

// Invalidator drops cached dashboard data of a user.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Notifier announces a finished link to the user.
type Notifier interface {
	BankLinked(ctx context.Context, userID, bankName, bankID string)
}
