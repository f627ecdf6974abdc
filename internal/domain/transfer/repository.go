package transfer

import (
	"context"

	"github.com/shopspring/decimal"

	"paynex/internal/domain/bank"
)

// Repository stores Transfer documents.
type Repository interface {
	// Create stores t and sets t.ID
	Create(ctx context.Context, t *Transfer) error

	// ListByBankID returns transfers where bankID is sender or receiver,
	// newest first
	ListByBankID(ctx context.Context, bankID string) ([]*Transfer, error)
}

// BankFinder resolves the two ends of a transfer.
type BankFinder interface {
	GetBank(ctx context.Context, id, userID string) (*bank.BankAccount, error)
	GetBankByShareableID(ctx context.Context, shareableID string) (*bank.BankAccount, error)
}

// PaymentsClient moves money between funding sources.
type PaymentsClient interface {
	CreateTransfer(ctx context.Context, sourceURL, destinationURL string, amount decimal.Decimal) (string, error)
}

// Invalidator drops cached dashboard data of a user.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Notifier tells both sides about a transfer.
type Notifier interface {
	TransferSent(ctx context.Context, senderID, receiverID, senderName, amount string)
}
