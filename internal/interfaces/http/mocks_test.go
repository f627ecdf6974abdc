package http

import (
	"context"
	"net/http"

	"paynex/internal/domain/account"
	"paynex/internal/domain/bank"
	"paynex/internal/domain/transfer"
	"paynex/internal/domain/user"
	"paynex/internal/shared/middleware"
)

type MockUserService struct {
	SignUpFunc          func(ctx context.Context, params user.SignUpParams) (*user.User, *user.Session, error)
	SignInFunc          func(ctx context.Context, email, password string) (*user.User, *user.Session, error)
	GetLoggedInUserFunc func(ctx context.Context, secret string) *user.User
	GetUserFunc         func(ctx context.Context, userID string) (*user.User, error)
	LogoutFunc          func(ctx context.Context, secret string) error
}

func (m *MockUserService) SignUp(ctx context.Context, params user.SignUpParams) (*user.User, *user.Session, error) {
	return m.SignUpFunc(ctx, params)
}

func (m *MockUserService) SignIn(ctx context.Context, email, password string) (*user.User, *user.Session, error) {
	return m.SignInFunc(ctx, email, password)
}

func (m *MockUserService) GetLoggedInUser(ctx context.Context, secret string) *user.User {
	if m.GetLoggedInUserFunc != nil {
		return m.GetLoggedInUserFunc(ctx, secret)
	}
	return nil
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*user.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, userID)
	}
	return &user.User{UserID: userID, DwollaCustomerID: "cust-1"}, nil
}

func (m *MockUserService) Logout(ctx context.Context, secret string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, secret)
	}
	return nil
}

type MockBankService struct {
	CreateLinkTokenFunc func(ctx context.Context, u *user.User) (string, error)
	LinkBankAccountFunc func(ctx context.Context, publicToken string, u *user.User) (*bank.BankAccount, error)
	GetBanksFunc        func(ctx context.Context, userID string) ([]*bank.BankAccount, error)
	GetBankFunc         func(ctx context.Context, id, userID string) (*bank.BankAccount, error)
}

func (m *MockBankService) CreateLinkToken(ctx context.Context, u *user.User) (string, error) {
	return m.CreateLinkTokenFunc(ctx, u)
}

func (m *MockBankService) LinkBankAccount(ctx context.Context, publicToken string, u *user.User) (*bank.BankAccount, error) {
	return m.LinkBankAccountFunc(ctx, publicToken, u)
}

func (m *MockBankService) GetBanks(ctx context.Context, userID string) ([]*bank.BankAccount, error) {
	return m.GetBanksFunc(ctx, userID)
}

func (m *MockBankService) GetBank(ctx context.Context, id, userID string) (*bank.BankAccount, error) {
	return m.GetBankFunc(ctx, id, userID)
}

type MockAccountService struct {
	GetAccountsFunc func(ctx context.Context, userID string) (*account.Summary, error)
	GetAccountFunc  func(ctx context.Context, bankID, userID string) (*account.Detail, error)
}

func (m *MockAccountService) GetAccounts(ctx context.Context, userID string) (*account.Summary, error) {
	return m.GetAccountsFunc(ctx, userID)
}

func (m *MockAccountService) GetAccount(ctx context.Context, bankID, userID string) (*account.Detail, error) {
	return m.GetAccountFunc(ctx, bankID, userID)
}

type MockTransferService struct {
	CreateTransferFunc func(ctx context.Context, sender *user.User, p transfer.Params) (*transfer.Transfer, error)
}

func (m *MockTransferService) CreateTransfer(ctx context.Context, sender *user.User, p transfer.Params) (*transfer.Transfer, error) {
	return m.CreateTransferFunc(ctx, sender, p)
}

// withUser returns r as the auth middleware would pass it on.
func withUser(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}
