package account

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"paynex/internal/domain/bank"
	"paynex/internal/domain/transaction"
)

// maxConcurrentBanks bounds the parallel Plaid calls of one dashboard load.
const maxConcurrentBanks = 4

// Service builds the dashboard read models from linked banks and Plaid.
type Service struct {
	banks        BankLister
	plaid        AggregationClient
	transfers    TransferLister
	cache        SummaryCache
	countryCodes []string
}

// NewService creates an account service. cache may be nil.
func NewService(banks BankLister, plaidClient AggregationClient, transfers TransferLister, cache SummaryCache) *Service {
	return &Service{
		banks:        banks,
		plaid:        plaidClient,
		transfers:    transfers,
		cache:        cache,
		countryCodes: []string{"US"},
	}
}

// SetCountryCodes sets the countries used for institution lookups.
func (s *Service) SetCountryCodes(codes []string) {
	if len(codes) > 0 {
		s.countryCodes = codes
	}
}

// GetAccounts returns the summary of every bank userID has linked. Summaries
// are cached until the next link or transfer invalidates them.
func (s *Service) GetAccounts(ctx context.Context, userID string) (*Summary, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID); ok {
			return cached, nil
		}
	}

	banks, err := s.banks.GetBanks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}

	accounts := make([]Account, len(banks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBanks)
	for i, b := range banks {
		g.Go(func() error {
			a, err := s.loadAccount(gctx, b)
			if err != nil {
				return err
			}
			accounts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Accounts:            accounts,
		TotalBanks:          len(accounts),
		TotalCurrentBalance: decimal.Zero,
	}
	for _, a := range accounts {
		summary.TotalCurrentBalance = summary.TotalCurrentBalance.Add(a.CurrentBalance)
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, summary)
	}
	return summary, nil
}

// GetAccount returns one bank's account with its Plaid transactions and
// recorded transfers merged, newest first.
func (s *Service) GetAccount(ctx context.Context, bankID, userID string) (*Detail, error) {
	b, err := s.banks.GetBank(ctx, bankID, userID)
	if err != nil {
		return nil, err
	}

	a, err := s.loadAccount(ctx, b)
	if err != nil {
		return nil, err
	}
	a.InstitutionName = s.institutionName(ctx, a.InstitutionID)

	synced, err := s.plaid.SyncTransactions(ctx, b.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAggregation, err)
	}

	transfers, err := s.transfers.ListByBankID(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	txs := make([]transaction.Transaction, 0, len(synced)+len(transfers))
	for _, t := range synced {
		if t.AccountID != b.AccountID {
			continue
		}
		txs = append(txs, transaction.FromPlaid(t))
	}
	for _, t := range transfers {
		txs = append(txs, transaction.FromTransfer(t, b.ID, b.AccountID))
	}
	transaction.SortNewestFirst(txs)

	return &Detail{Account: a, Transactions: txs}, nil
}

// Invalidate drops the cached summary of userID.
func (s *Service) Invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, userID)
}

// institutionName looks up the display name of an institution. Lookup
// failures only cost the name.
func (s *Service) institutionName(ctx context.Context, institutionID string) string {
	if institutionID == "" {
		return ""
	}
	inst, err := s.plaid.GetInstitution(ctx, institutionID, s.countryCodes)
	if err != nil {
		log.Printf("Failed to load institution %s: %v", institutionID, err)
		return ""
	}
	return inst.Name
}

// loadAccount fetches the linked account of b and its institution.
func (s *Service) loadAccount(ctx context.Context, b *bank.BankAccount) (Account, error) {
	resp, err := s.plaid.GetAccounts(ctx, b.AccessToken)
	if err != nil {
		return Account{}, fmt.Errorf("%w: bank %s: %w", ErrAggregation, b.ID, err)
	}

	var found bool
	var acct Account
	for _, a := range resp.Accounts {
		if a.AccountID == b.AccountID {
			acct, found = fromPlaid(a, "", b.ID, b.ShareableID), true
			break
		}
	}
	if !found {
		if len(resp.Accounts) == 0 {
			return Account{}, fmt.Errorf("%w: bank %s has no accounts", ErrAggregation, b.ID)
		}
		acct = fromPlaid(resp.Accounts[0], "", b.ID, b.ShareableID)
	}

	institutionID := resp.Item.InstitutionID
	if institutionID == "" {
		item, err := s.plaid.GetItem(ctx, b.AccessToken)
		if err != nil {
			return Account{}, fmt.Errorf("%w: bank %s: %w", ErrAggregation, b.ID, err)
		}
		institutionID = item.InstitutionID
	}
	acct.InstitutionID = institutionID
	return acct, nil
}
