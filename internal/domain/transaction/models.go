package transaction

import (
	"log"
	"time"

	"github.com/shopspring/decimal"

	"paynex/internal/domain/transfer"
	"paynex/internal/infrastructure/plaid"
)

const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Transaction is a dashboard row. Amount is always non-negative; Type
// carries the direction.
type Transaction struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	PaymentChannel string          `json:"paymentChannel"`
	Type           string          `json:"type"`
	AccountID      string          `json:"accountId"`
	Amount         decimal.Decimal `json:"amount"`
	Pending        bool            `json:"pending"`
	Category       string          `json:"category"`
	Date           time.Time       `json:"date"`
	Image          string          `json:"image,omitempty"`
}

// FromPlaid converts a synced transaction. Plaid reports money leaving the
// account as a positive amount.
func FromPlaid(t plaid.Transaction) Transaction {
	typ := TypeCredit
	if t.Amount.IsPositive() {
		typ = TypeDebit
	}

	date, err := t.GetDate()
	if err != nil {
		log.Printf("Transaction %s: %v", t.TransactionID, err)
	}

	return Transaction{
		ID:             t.TransactionID,
		Name:           t.Name,
		PaymentChannel: t.PaymentChannel,
		Type:           typ,
		AccountID:      t.AccountID,
		Amount:         t.Amount.Abs(),
		Pending:        t.Pending,
		Category:       TranslateCategory(t.PrimaryCategory()),
		Date:           date,
		Image:          t.LogoURL,
	}
}

// FromTransfer converts a transfer as seen from the bank with id bankID.
func FromTransfer(t *transfer.Transfer, bankID, accountID string) Transaction {
	typ := TypeCredit
	if t.SenderBankID == bankID {
		typ = TypeDebit
	}

	return Transaction{
		ID:             t.ID,
		Name:           t.Name,
		PaymentChannel: t.Channel,
		Type:           typ,
		AccountID:      accountID,
		Amount:         t.AmountValue().Abs(),
		Category:       t.Category,
		Date:           t.CreatedAt,
	}
}

// signed returns the amount as seen by the account: credits positive.
func (t Transaction) signed() decimal.Decimal {
	if t.Type == TypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
