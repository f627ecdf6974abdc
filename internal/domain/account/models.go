package account

import (
	"errors"

	"github.com/shopspring/decimal"

	"paynex/internal/domain/transaction"
	"paynex/internal/infrastructure/plaid"
)

var ErrAggregation = errors.New("account data could not be fetched")

// Account is the dashboard view of one linked bank account.
type Account struct {
	ID               string          `json:"id"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	InstitutionID    string          `json:"institutionId"`
	InstitutionName  string          `json:"institutionName,omitempty"`
	Name             string          `json:"name"`
	OfficialName     string          `json:"officialName"`
	Mask             string          `json:"mask"`
	Type             string          `json:"type"`
	Subtype          string          `json:"subtype"`
	BankID           string          `json:"bankId"`
	ShareableID      string          `json:"shareableId"`
}

// Summary is the dashboard header: every linked account of a user.
type Summary struct {
	Accounts            []Account       `json:"accounts"`
	TotalBanks          int             `json:"totalBanks"`
	TotalCurrentBalance decimal.Decimal `json:"totalCurrentBalance"`
}

// Detail is one account with its transactions, newest first.
type Detail struct {
	Account      Account                   `json:"account"`
	Transactions []transaction.Transaction `json:"transactions"`
}

func fromPlaid(a plaid.Account, institutionID, bankID, shareableID string) Account {
	return Account{
		ID:               a.AccountID,
		AvailableBalance: a.Balances.Available.Decimal,
		CurrentBalance:   a.Balances.Current.Decimal,
		InstitutionID:    institutionID,
		Name:             a.Name,
		OfficialName:     a.OfficialName,
		Mask:             a.Mask,
		Type:             a.Type,
		Subtype:          a.Subtype,
		BankID:           bankID,
		ShareableID:      shareableID,
	}
}
