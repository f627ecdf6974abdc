package bank

import (
	"context"

	"paynex/internal/infrastructure/plaid"
)

type MockRepository struct {
	CreateFunc         func(ctx context.Context, b *BankAccount) error
	ListByUserIDFunc   func(ctx context.Context, userID string) ([]*BankAccount, error)
	GetByIDFunc        func(ctx context.Context, id string) (*BankAccount, error)
	GetByAccountIDFunc func(ctx context.Context, accountID string) (*BankAccount, error)
	created            []*BankAccount
}

func (m *MockRepository) Create(ctx context.Context, b *BankAccount) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, b); err != nil {
			return err
		}
	}
	if b.ID == "" {
		b.ID = "bank-doc-1"
	}
	m.created = append(m.created, b)
	return nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID string) ([]*BankAccount, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*BankAccount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockRepository) GetByAccountID(ctx context.Context, accountID string) (*BankAccount, error) {
	if m.GetByAccountIDFunc != nil {
		return m.GetByAccountIDFunc(ctx, accountID)
	}
	return nil, ErrNotFound
}

type MockPlaid struct {
	CreateLinkTokenFunc      func(ctx context.Context, req plaid.LinkTokenRequest) (*plaid.LinkTokenResponse, error)
	ExchangePublicTokenFunc  func(ctx context.Context, publicToken string) (*plaid.ExchangeResponse, error)
	GetAccountsFunc          func(ctx context.Context, accessToken string) (*plaid.AccountsResponse, error)
	CreateProcessorTokenFunc func(ctx context.Context, accessToken, accountID, processor string) (string, error)
	calls                    []string
}

func (m *MockPlaid) CreateLinkToken(ctx context.Context, req plaid.LinkTokenRequest) (*plaid.LinkTokenResponse, error) {
	m.calls = append(m.calls, "CreateLinkToken")
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, req)
	}
	return &plaid.LinkTokenResponse{LinkToken: "link-sandbox-1"}, nil
}

func (m *MockPlaid) ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResponse, error) {
	m.calls = append(m.calls, "ExchangePublicToken")
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken)
	}
	return &plaid.ExchangeResponse{AccessToken: "acc-1", ItemID: "item-1"}, nil
}

func (m *MockPlaid) GetAccounts(ctx context.Context, accessToken string) (*plaid.AccountsResponse, error) {
	m.calls = append(m.calls, "GetAccounts")
	if m.GetAccountsFunc != nil {
		return m.GetAccountsFunc(ctx, accessToken)
	}
	return &plaid.AccountsResponse{
		Accounts: []plaid.Account{{AccountID: "accX", Name: "Plaid Checking"}},
		Item:     plaid.Item{ItemID: "item-1"},
	}, nil
}

func (m *MockPlaid) CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error) {
	m.calls = append(m.calls, "CreateProcessorToken")
	if m.CreateProcessorTokenFunc != nil {
		return m.CreateProcessorTokenFunc(ctx, accessToken, accountID, processor)
	}
	return "proc-1", nil
}

type MockPayments struct {
	CreateFundingSourceFunc func(ctx context.Context, customerID, processorToken, bankName string) (string, error)
	RemoveFundingSourceFunc func(ctx context.Context, fundingSourceURL string) error
	removed                 []string
}

func (m *MockPayments) CreateFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error) {
	if m.CreateFundingSourceFunc != nil {
		return m.CreateFundingSourceFunc(ctx, customerID, processorToken, bankName)
	}
	return "https://dwolla/funding/1", nil
}

func (m *MockPayments) RemoveFundingSource(ctx context.Context, fundingSourceURL string) error {
	m.removed = append(m.removed, fundingSourceURL)
	if m.RemoveFundingSourceFunc != nil {
		return m.RemoveFundingSourceFunc(ctx, fundingSourceURL)
	}
	return nil
}

type MockInvalidator struct {
	InvalidateFunc func(ctx context.Context, userID string) error
	invalidated    []string
}

func (m *MockInvalidator) Invalidate(ctx context.Context, userID string) error {
	m.invalidated = append(m.invalidated, userID)
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, userID)
	}
	return nil
}

type MockNotifier struct {
	linked []string
}

func (m *MockNotifier) BankLinked(ctx context.Context, userID, bankName, bankID string) {
	m.linked = append(m.linked, userID+"|"+bankName+"|"+bankID)
}
