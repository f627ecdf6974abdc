package bank

import (
	"context"
	"errors"
	"fmt"

	"paynex/internal/domain/user"
	"paynex/internal/infrastructure/plaid"
)

// Service links bank accounts and serves the linked account records
type Service struct {
	repo        Repository
	plaid       AggregationClient
	payments    PaymentsClient
	cipher      Cipher
	invalidator Invalidator
	notifier    Notifier
	linkConfig  LinkConfig
}

// NewService creates a bank service. invalidator and notifier may be nil.
func NewService(
	repo Repository,
	plaidClient AggregationClient,
	payments PaymentsClient,
	cipher Cipher,
	invalidator Invalidator,
	notifier Notifier,
	link LinkConfig,
) *Service {
	if link.Language == "" {
		link.Language = "en"
	}
	return &Service{
		repo:        repo,
		plaid:       plaidClient,
		payments:    payments,
		cipher:      cipher,
		invalidator: invalidator,
		notifier:    notifier,
		linkConfig:  link,
	}
}

// CreateLinkToken starts a bank-login flow for u
func (s *Service) CreateLinkToken(ctx context.Context, u *user.User) (string, error) {
	if u == nil || u.UserID == "" {
		return "", ErrInvalidInput
	}

	resp, err := s.plaid.CreateLinkToken(ctx, plaid.LinkTokenRequest{
		User:         plaid.LinkUser{ClientUserID: u.UserID},
		ClientName:   u.FullName(),
		Products:     s.linkConfig.Products,
		CountryCodes: s.linkConfig.CountryCodes,
		Language:     s.linkConfig.Language,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLinkToken, err)
	}
	return resp.LinkToken, nil
}

// GetBanks returns the bank accounts owned by userID
func (s *Service) GetBanks(ctx context.Context, userID string) ([]*BankAccount, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUserID(ctx, userID)
}

// GetBank returns one bank account after checking ownership
func (s *Service) GetBank(ctx context.Context, id, userID string) (*BankAccount, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

// GetBankByShareableID resolves a shareable id to its bank account. Ids
// that do not decrypt are reported as ErrNotFound.
func (s *Service) GetBankByShareableID(ctx context.Context, shareableID string) (*BankAccount, error) {
	if shareableID == "" {
		return nil, ErrInvalidInput
	}

	accountID, err := s.cipher.Decrypt(shareableID)
	if err != nil || accountID == "" {
		return nil, ErrNotFound
	}

	b, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	return b, nil
}
