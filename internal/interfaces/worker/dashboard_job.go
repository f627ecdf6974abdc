package worker

import (
	"context"
	"fmt"

	"paynex/internal/domain/account"
)

// DashboardLoader rebuilds the cached dashboard of a user.
type DashboardLoader interface {
	Invalidate(ctx context.Context, userID string) error
	GetAccounts(ctx context.Context, userID string) (*account.Summary, error)
}

// DashboardWarmJob drops a user's cached dashboard and loads it again, so
// the next page view is served from the cache with fresh balances.
type DashboardWarmJob struct {
	userID   string
	accounts DashboardLoader
}

func NewDashboardWarmJob(userID string, accounts DashboardLoader) *DashboardWarmJob {
	return &DashboardWarmJob{userID: userID, accounts: accounts}
}

func (j *DashboardWarmJob) Execute(ctx context.Context) error {
	if err := j.accounts.Invalidate(ctx, j.userID); err != nil {
		return fmt.Errorf("failed to invalidate dashboard: %w", err)
	}

	if _, err := j.accounts.GetAccounts(ctx, j.userID); err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	return nil
}

func (j *DashboardWarmJob) Description() string { return "dashboard warm-up" }

func (j *DashboardWarmJob) UserID() string { return j.userID }
