package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"paynex/internal/domain/bank"
	"paynex/internal/domain/user"
	"paynex/internal/shared/validation"
)

type Service struct {
	repo        Repository
	banks       BankFinder
	payments    PaymentsClient
	invalidator Invalidator
	notifier    Notifier
}

// NewService creates a transfer service. invalidator and notifier may be nil.
func NewService(repo Repository, banks BankFinder, payments PaymentsClient, invalidator Invalidator, notifier Notifier) *Service {
	return &Service{
		repo:        repo,
		banks:       banks,
		payments:    payments,
		invalidator: invalidator,
		notifier:    notifier,
	}
}

// CreateTransfer sends p.Amount from one of sender's banks to the bank
// behind p.ReceiverShareableID and records the transfer.
func (s *Service) CreateTransfer(ctx context.Context, sender *user.User, p Params) (*Transfer, error) {
	if sender == nil || sender.UserID == "" {
		return nil, ErrInvalidInput
	}
	if err := validation.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	source, err := s.banks.GetBank(ctx, p.SourceBankID, sender.UserID)
	if err != nil {
		return nil, err
	}

	receiver, err := s.banks.GetBankByShareableID(ctx, p.ReceiverShareableID)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	if receiver.ID == source.ID {
		return nil, ErrSameAccount
	}

	amount := p.Amount.StringFixed(2)
	transferURL, err := s.payments.CreateTransfer(ctx, source.FundingSourceURL, receiver.FundingSourceURL, p.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayments, err)
	}

	t := &Transfer{
		Name:           sender.FullName(),
		Amount:         amount,
		Note:           p.Note,
		SenderID:       sender.UserID,
		SenderBankID:   source.ID,
		ReceiverID:     receiver.UserID,
		ReceiverBankID: receiver.ID,
		Email:          p.Email,
		Channel:        ChannelOnline,
		Category:       CategoryTransfer,
		TransferURL:    transferURL,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		// The money has already moved; keep the URL for reconciliation.
		log.Printf("Unrecorded transfer %s from user %s: %v", transferURL, sender.UserID, err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.invalidate(ctx, sender.UserID)
	if receiver.UserID != sender.UserID {
		s.invalidate(ctx, receiver.UserID)
	}
	if s.notifier != nil {
		s.notifier.TransferSent(ctx, sender.UserID, receiver.UserID, sender.FullName(), amount)
	}

	log.Printf("User %s transferred %s from bank %s to bank %s", sender.UserID, amount, source.ID, receiver.ID)
	return t, nil
}

// ListByBankID returns the transfers touching a bank, newest first.
func (s *Service) ListByBankID(ctx context.Context, bankID string) ([]*Transfer, error) {
	transfers, err := s.repo.ListByBankID(ctx, bankID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, userID); err != nil {
		log.Printf("Failed to invalidate dashboard cache for user %s: %v", userID, err)
	}
}
