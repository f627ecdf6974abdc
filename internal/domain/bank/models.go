package bank

import (
	"errors"
	"time"
)

// Linking chain errors, one per step, plus lookup errors.
var (
	ErrLinkToken      = errors.New("link token could not be created")
	ErrTokenExchange  = errors.New("public token exchange failed")
	ErrAccountFetch   = errors.New("no account could be fetched for the item")
	ErrProcessorToken = errors.New("processor token could not be created")
	ErrFundingSource  = errors.New("funding source could not be created")
	ErrPersistence    = errors.New("bank account could not be stored")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("bank account not found")
	ErrForbidden      = errors.New("access forbidden")
)

// Processor is the Plaid processor name for the payments network
const Processor = "dwolla"

// BankAccount is a linked, transfer-capable bank account. It is only written
// once every upstream step has succeeded, so FundingSourceURL is never empty.
// AccessToken is plaintext in memory; the repository encrypts it at rest.
type BankAccount struct {
	ID               string    `firestore:"-" json:"id"`
	UserID           string    `firestore:"userId" json:"userId"`
	BankID           string    `firestore:"bankId" json:"bankId"`
	AccountID        string    `firestore:"accountId" json:"accountId"`
	AccessToken      string    `firestore:"accessToken" json:"-"`
	FundingSourceURL string    `firestore:"fundingSourceUrl" json:"fundingSourceUrl"`
	ShareableID      string    `firestore:"shareableId" json:"shareableId"`
	CreatedAt        time.Time `firestore:"createdAt" json:"createdAt"`
}

// LinkConfig holds the Link settings shared by every link token.
type LinkConfig struct {
	Products     []string
	CountryCodes []string
	Language     string
}
