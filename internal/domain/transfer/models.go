package transfer

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSameAccount      = errors.New("source and destination are the same account")
	ErrReceiverNotFound = errors.New("receiver account not found")
	ErrPayments         = errors.New("transfer could not be created")
	ErrPersistence      = errors.New("transfer could not be stored")
)

// Transfer records a completed ACH transfer between two linked bank accounts.
// Amount is kept as a fixed two-decimal string so documents never carry
// floating point money.
type Transfer struct {
	ID             string    `firestore:"-" json:"id"`
	Name           string    `firestore:"name" json:"name"`
	Amount         string    `firestore:"amount" json:"amount"`
	Note           string    `firestore:"note" json:"note,omitempty"`
	SenderID       string    `firestore:"senderId" json:"senderId"`
	SenderBankID   string    `firestore:"senderBankId" json:"senderBankId"`
	ReceiverID     string    `firestore:"receiverId" json:"receiverId"`
	ReceiverBankID string    `firestore:"receiverBankId" json:"receiverBankId"`
	Email          string    `firestore:"email" json:"email"`
	Channel        string    `firestore:"channel" json:"channel"`
	Category       string    `firestore:"category" json:"category"`
	TransferURL    string    `firestore:"transferUrl" json:"-"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
}

// AmountValue parses Amount. Malformed amounts read as zero.
func (t *Transfer) AmountValue() decimal.Decimal {
	d, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}

const (
	ChannelOnline    = "online"
	CategoryTransfer = "Transfer"
)

// Params is the transfer form.
type Params struct {
	SourceBankID        string          `json:"sourceBankId" validate:"required"`
	ReceiverShareableID string          `json:"receiverShareableId" validate:"required"`
	Amount              decimal.Decimal `json:"amount" validate:"money"`
	Note                string          `json:"note" validate:"max=200"`
	Email               string          `json:"email" validate:"omitempty,email"`
}
