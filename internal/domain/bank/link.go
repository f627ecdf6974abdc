package bank

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"paynex/internal/domain/user"
)

var (
	linkTracer      = otel.Tracer("paynex/bank")
	linkMeter       = otel.Meter("paynex/bank")
	linkAttempts, _ = linkMeter.Int64Counter("paynex.bank_link.attempts",
		metric.WithDescription("Bank link attempts by outcome"),
	)
)

// outcome labels for the attempts counter
const (
	outcomeSuccess        = "success"
	outcomeInvalidInput   = "invalid_input"
	outcomeTokenExchange  = "token_exchange"
	outcomeAccountFetch   = "account_fetch"
	outcomeProcessorToken = "processor_token"
	outcomeFundingSource  = "funding_source"
	outcomePersistence    = "persistence"
)

// LinkBankAccount turns a Link public token into a stored, transfer-capable
// bank account:
//
//  1. exchange the public token for an access token and item id
//  2. take the first account of the item
//  3. create a processor token for the payments network
//  4. create a funding source for the user's payments customer
//  5. treat a missing funding source URL as failure
//  6. store the bank account with a shareable id for the account id
//  7. invalidate the user's cached dashboard
//
// Steps run in order and stop at the first failure; nothing is retried.
// When storing fails after the funding source exists, the funding source is
// removed again before ErrPersistence is returned.
func (s *Service) LinkBankAccount(ctx context.Context, publicToken string, u *user.User) (*BankAccount, error) {
	ctx, span := linkTracer.Start(ctx, "bank.LinkBankAccount")
	defer span.End()

	b, outcome, err := s.link(ctx, publicToken, u)

	linkAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}

	span.SetAttributes(attribute.String("bank.id", b.ID))
	return b, nil
}

func (s *Service) link(ctx context.Context, publicToken string, u *user.User) (*BankAccount, string, error) {
	if publicToken == "" {
		return nil, outcomeInvalidInput, fmt.Errorf("%w: public token is required", ErrInvalidInput)
	}
	if u == nil || u.UserID == "" || u.DwollaCustomerID == "" {
		return nil, outcomeInvalidInput, fmt.Errorf("%w: user has no payments customer", ErrInvalidInput)
	}

	var (
		accessToken, itemID string
		accountID, bankName string
		processorToken      string
		fundingSourceURL    string
	)

	err := step(ctx, "exchange_public_token", func(ctx context.Context) error {
		resp, err := s.plaid.ExchangePublicToken(ctx, publicToken)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTokenExchange, err)
		}
		if resp.AccessToken == "" {
			return fmt.Errorf("%w: empty access token", ErrTokenExchange)
		}
		accessToken, itemID = resp.AccessToken, resp.ItemID
		return nil
	})
	if err != nil {
		return nil, outcomeTokenExchange, err
	}

	err = step(ctx, "get_accounts", func(ctx context.Context) error {
		resp, err := s.plaid.GetAccounts(ctx, accessToken)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAccountFetch, err)
		}
		// Only the first account of an item is linked.
		if len(resp.Accounts) == 0 {
			return fmt.Errorf("%w: item %s has no accounts", ErrAccountFetch, itemID)
		}
		accountID, bankName = resp.Accounts[0].AccountID, resp.Accounts[0].Name
		return nil
	})
	if err != nil {
		return nil, outcomeAccountFetch, err
	}

	err = step(ctx, "create_processor_token", func(ctx context.Context) error {
		token, err := s.plaid.CreateProcessorToken(ctx, accessToken, accountID, Processor)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrProcessorToken, err)
		}
		if token == "" {
			return fmt.Errorf("%w: empty processor token", ErrProcessorToken)
		}
		processorToken = token
		return nil
	})
	if err != nil {
		return nil, outcomeProcessorToken, err
	}

	err = step(ctx, "create_funding_source", func(ctx context.Context) error {
		url, err := s.payments.CreateFundingSource(ctx, u.DwollaCustomerID, processorToken, bankName)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFundingSource, err)
		}
		if url == "" {
			return fmt.Errorf("%w: no funding source URL returned", ErrFundingSource)
		}
		fundingSourceURL = url
		return nil
	})
	if err != nil {
		return nil, outcomeFundingSource, err
	}

	b := &BankAccount{
		UserID:           u.UserID,
		BankID:           itemID,
		AccountID:        accountID,
		AccessToken:      accessToken,
		FundingSourceURL: fundingSourceURL,
	}
	err = step(ctx, "store_bank_account", func(ctx context.Context) error {
		shareableID, err := s.cipher.Encrypt(accountID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		b.ShareableID = shareableID

		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		s.removeFundingSource(ctx, fundingSourceURL)
		return nil, outcomePersistence, err
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, u.UserID); err != nil {
			log.Printf("Failed to invalidate dashboard cache for user %s: %v", u.UserID, err)
		}
	}
	if s.notifier != nil {
		s.notifier.BankLinked(ctx, u.UserID, bankName, b.ID)
	}

	log.Printf("User %s linked bank account %s (item %s)", u.UserID, b.ID, itemID)
	return b, outcomeSuccess, nil
}

// compensationTimeout bounds the funding source removal, which runs detached
// from the request so a disconnect does not orphan the funding source.
const compensationTimeout = 30 * time.Second

// removeFundingSource undoes step 4 after a failed write. A failure here
// leaves an orphaned funding source, which is logged for reconciliation.
func (s *Service) removeFundingSource(ctx context.Context, fundingSourceURL string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	err := step(ctx, "remove_funding_source", func(ctx context.Context) error {
		return s.payments.RemoveFundingSource(ctx, fundingSourceURL)
	})
	if err != nil {
		log.Printf("Orphaned funding source %s: %v", fundingSourceURL, err)
	}
}

// step runs fn inside a child span named after the step.
func step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := linkTracer.Start(ctx, "bank.link."+name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
