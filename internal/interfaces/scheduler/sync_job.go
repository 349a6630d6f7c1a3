package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bostrovsky/tastyreport02/internal/domain/account"
	"github.com/bostrovsky/tastyreport02/internal/domain/reconcile"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/tastytrade"
)

// AccountSyncJob implements the Job interface for syncing one brokerage
// account.
type AccountSyncJob struct {
	accountID   string
	userID      int64
	syncService *reconcile.Service
}

// NewAccountSyncJob creates a new sync job for a brokerage account
func NewAccountSyncJob(accountID string, userID int64, syncService *reconcile.Service) *AccountSyncJob {
	return &AccountSyncJob{
		accountID:   accountID,
		userID:      userID,
		syncService: syncService,
	}
}

// Execute runs the sync job
func (j *AccountSyncJob) Execute(ctx context.Context) error {
	log.Printf("Starting scheduled sync for account %s", j.accountID)

	result, err := j.syncService.SyncAccount(ctx, j.accountID, j.userID)

	var partial *tastytrade.PartialFetchError
	if errors.As(err, &partial) {
		// Balances and positions were still written; the next run picks up
		// the missing transactions.
		log.Printf("Scheduled sync for account %s fetched transactions partially: %v", j.accountID, partial)
		return fmt.Errorf("partial fetch: %w", partial)
	}
	if err != nil {
		log.Printf("Scheduled sync failed for account %s: %v", j.accountID, err)
		return fmt.Errorf("sync failed: %w", err)
	}

	if len(result.Errors) > 0 {
		log.Printf("Scheduled sync for account %s completed with errors: inserted=%d, skipped=%d, errors=%d",
			j.accountID, result.TransactionsInserted, result.TransactionsSkipped, len(result.Errors))
		return fmt.Errorf("sync completed with %d record errors", len(result.Errors))
	}

	log.Printf("Scheduled sync for account %s completed: balances=%d, positions=%d, transactions inserted=%d",
		j.accountID, result.BalancesWritten, result.PositionsWritten, result.TransactionsInserted)

	return nil
}

// AccountID returns the brokerage account this job syncs
func (j *AccountSyncJob) AccountID() string {
	return j.accountID
}

// Description returns a human-readable description of the job
func (j *AccountSyncJob) Description() string {
	return fmt.Sprintf("Brokerage sync for account %s", j.accountID)
}

// NewAllAccountsJobProvider returns a job provider that syncs every stored
// brokerage account. Used as the scheduler's nightly batch.
func NewAllAccountsJobProvider(accountRepo account.Repository, syncService *reconcile.Service) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		accounts, err := accountRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}

		jobs := make([]Job, 0, len(accounts))
		for i := range accounts {
			jobs = append(jobs, NewAccountSyncJob(accounts[i].ID, accounts[i].UserID, syncService))
		}
		return jobs, nil
	}
}
