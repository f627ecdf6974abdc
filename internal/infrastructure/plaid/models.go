package plaid

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LinkUser identifies the end user a link token is created for
type LinkUser struct {
	ClientUserID string `json:"client_user_id"`
}

// LinkTokenRequest is the body of /link/token/create
type LinkTokenRequest struct {
	User         LinkUser `json:"user"`
	ClientName   string   `json:"client_name"`
	Products     []string `json:"products"`
	CountryCodes []string `json:"country_codes"`
	Language     string   `json:"language"`
}

type LinkTokenResponse struct {
	LinkToken  string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
	RequestID  string    `json:"request_id"`
}

type ExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

// Balances are nullable on Plaid's side; available is often missing for
// credit accounts.
type Balances struct {
	Available       decimal.NullDecimal `json:"available"`
	Current         decimal.NullDecimal `json:"current"`
	ISOCurrencyCode string              `json:"iso_currency_code"`
}

type Account struct {
	AccountID    string   `json:"account_id"`
	Balances     Balances `json:"balances"`
	Mask         string   `json:"mask"`
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
}

type Item struct {
	ItemID        string `json:"item_id"`
	InstitutionID string `json:"institution_id"`
}

type AccountsResponse struct {
	Accounts  []Account `json:"accounts"`
	Item      Item      `json:"item"`
	RequestID string    `json:"request_id"`
}

type Institution struct {
	InstitutionID string `json:"institution_id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Logo          string `json:"logo"`
	PrimaryColor  string `json:"primary_color"`
}

type PersonalFinanceCategory struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
}

// Transaction amounts follow Plaid's sign convention: positive values are
// money leaving the account.
type Transaction struct {
	TransactionID           string                   `json:"transaction_id"`
	AccountID               string                   `json:"account_id"`
	Name                    string                   `json:"name"`
	MerchantName            string                   `json:"merchant_name"`
	Amount                  decimal.Decimal          `json:"amount"`
	ISOCurrencyCode         string                   `json:"iso_currency_code"`
	Date                    string                   `json:"date"`
	Pending                 bool                     `json:"pending"`
	PaymentChannel          string                   `json:"payment_channel"`
	Category                []string                 `json:"category"`
	PersonalFinanceCategory *PersonalFinanceCategory `json:"personal_finance_category"`
	LogoURL                 string                   `json:"logo_url"`
}

// GetDate parses the YYYY-MM-DD posting date
func (t *Transaction) GetDate() (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date '%s': %w", t.Date, err)
	}
	return parsed, nil
}

// PrimaryCategory prefers the personal finance category and falls back to
// the first legacy category.
func (t *Transaction) PrimaryCategory() string {
	if t.PersonalFinanceCategory != nil && t.PersonalFinanceCategory.Primary != "" {
		return t.PersonalFinanceCategory.Primary
	}
	if len(t.Category) > 0 {
		return t.Category[0]
	}
	return ""
}

type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

type transactionsSyncResponse struct {
	Added      []Transaction        `json:"added"`
	Modified   []Transaction        `json:"modified"`
	Removed    []RemovedTransaction `json:"removed"`
	NextCursor string               `json:"next_cursor"`
	HasMore    bool                 `json:"has_more"`
}

// Error is the error body Plaid returns with non-200 responses
type Error struct {
	StatusCode   int    `json:"-"`
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("plaid error %s (%s, status %d): %s", e.ErrorCode, e.ErrorType, e.StatusCode, e.ErrorMessage)
}
