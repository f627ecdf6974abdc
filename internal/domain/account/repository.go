package account

import (
	"context"

	"paynex/internal/domain/bank"
	"paynex/internal/domain/transfer"
	"paynex/internal/infrastructure/plaid"
)

// BankLister reads a user's linked bank accounts.
type BankLister interface {
	GetBanks(ctx context.Context, userID string) ([]*bank.BankAccount, error)
	GetBank(ctx context.Context, id, userID string) (*bank.BankAccount, error)
}

// AggregationClient is the read side of Plaid.
type AggregationClient interface {
	GetAccounts(ctx context.Context, accessToken string) (*plaid.AccountsResponse, error)
	GetItem(ctx context.Context, accessToken string) (*plaid.Item, error)
	GetInstitution(ctx context.Context, institutionID string, countryCodes []string) (*plaid.Institution, error)
	SyncTransactions(ctx context.Context, accessToken string) ([]plaid.Transaction, error)
}

// TransferLister reads recorded transfers of a bank.
type TransferLister interface {
	ListByBankID(ctx context.Context, bankID string) ([]*transfer.Transfer, error)
}

// SummaryCache holds dashboard summaries per user.
type SummaryCache interface {
	Get(ctx context.Context, userID string) (*Summary, bool)
	Set(ctx context.Context, userID string, s *Summary)
	Invalidate(ctx context.Context, userID string) error
}
