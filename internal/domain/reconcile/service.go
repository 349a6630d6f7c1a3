package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bostrovsky/tastyreport02/internal/domain/account"
	"github.com/bostrovsky/tastyreport02/internal/domain/snapshot"
	"github.com/bostrovsky/tastyreport02/internal/domain/transaction"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/tastytrade"
)

// Decryptor opens vault-sealed brokerage credentials.
type Decryptor interface {
	Decrypt(token string) (string, error)
}

// Snapshot bundles everything fetched from the brokerage for one account in
// one sync run.
type Snapshot struct {
	Balance      *tastytrade.BalanceFacts
	Positions    []tastytrade.PositionFacts
	Transactions []tastytrade.TransactionFacts
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	AccountID            string   `json:"accountId"`
	UserID               int64    `json:"userId"`
	BalancesWritten      int      `json:"balancesWritten"`
	PositionsWritten     int      `json:"positionsWritten"`
	TransactionsFound    int      `json:"transactionsFound"`
	TransactionsInserted int      `json:"transactionsInserted"`
	TransactionsSkipped  int      `json:"transactionsSkipped"`
	Errors               []string `json:"errors"`
}

// Service orchestrates a full account sync: decrypt credentials, fetch the
// brokerage snapshot, and reconcile it against stored state.
type Service struct {
	client       tastytrade.ClientInterface
	decryptor    Decryptor
	accountRepo  account.Repository
	balanceRepo  snapshot.BalanceRepository
	positionRepo snapshot.PositionRepository
	txnRepo      transaction.Repository
	lookbackDays int

	group singleflight.Group
	now   func() time.Time
}

// NewService creates a new sync service
func NewService(
	client tastytrade.ClientInterface,
	decryptor Decryptor,
	accountRepo account.Repository,
	balanceRepo snapshot.BalanceRepository,
	positionRepo snapshot.PositionRepository,
	txnRepo transaction.Repository,
	lookbackDays int,
) *Service {
	return &Service{
		client:       client,
		decryptor:    decryptor,
		accountRepo:  accountRepo,
		balanceRepo:  balanceRepo,
		positionRepo: positionRepo,
		txnRepo:      txnRepo,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// SyncAccount runs a full sync for one account after verifying ownership.
// Concurrent calls for the same account share a single in-flight run; the
// duplicate caller receives the same result instead of triggering a second
// fetch.
func (s *Service) SyncAccount(ctx context.Context, accountID string, userID int64) (*SyncResult, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.UserID != userID {
		return nil, ErrOwnershipViolation
	}

	v, err, shared := s.group.Do(accountID, func() (interface{}, error) {
		return s.syncAccount(ctx, acc)
	})
	if shared {
		log.Printf("Sync for account %s joined an in-flight run", accountID)
	}
	result, _ := v.(*SyncResult)
	return result, err
}

func (s *Service) syncAccount(ctx context.Context, acc *account.Account) (*SyncResult, error) {
	password, err := s.decryptor.Decrypt(acc.EncryptedPassword)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredential, err)
	}

	session, err := s.client.Login(ctx, acc.BrokerageUsername, password)
	if err != nil {
		return nil, fmt.Errorf("brokerage login failed: %w", err)
	}

	accountNumbers, err := s.client.FetchAccountNumbers(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account numbers: %w", err)
	}
	if len(accountNumbers) == 0 {
		return nil, fmt.Errorf("brokerage login %s has no accounts", acc.BrokerageUsername)
	}
	accountNumber := accountNumbers[0]

	snap := &Snapshot{}
	snap.Balance, err = s.client.FetchBalances(ctx, session, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}
	snap.Positions, err = s.client.FetchPositions(ctx, session, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}

	snap.Transactions, err = s.client.FetchTransactions(ctx, session, accountNumber)
	var partial *tastytrade.PartialFetchError
	if err != nil && !errors.As(err, &partial) {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	if partial != nil {
		// An incomplete transaction page set cannot be reconciled safely, so
		// the transaction phase is dropped for this run. Balances and
		// positions are still complete and get written.
		log.Printf("Partial transaction fetch for account %s: %v", acc.ID, partial)
		snap.Transactions = nil
	}

	result, rerr := s.Reconcile(ctx, acc, snap)
	if rerr != nil {
		return result, rerr
	}
	if partial != nil {
		return result, partial
	}
	return result, nil
}

// Reconcile persists a fetched snapshot for the given account. Balances
// append to the time series, positions upsert on their identity key, and
// transactions insert only when absent from the dedup window. A bad record
// is logged, counted, and skipped without failing the run.
func (s *Service) Reconcile(ctx context.Context, acc *account.Account, snap *Snapshot) (*SyncResult, error) {
	result := &SyncResult{
		AccountID: acc.ID,
		UserID:    acc.UserID,
		Errors:    []string{},
	}
	capturedAt := s.now().UTC()

	if snap.Balance != nil {
		balance, err := balanceFromFacts(snap.Balance, acc.ID, acc.UserID, capturedAt)
		if err != nil {
			return result, fmt.Errorf("failed to build balance row: %w", err)
		}
		if err := s.balanceRepo.Insert(ctx, balance); err != nil {
			return result, fmt.Errorf("failed to write balance: %w", err)
		}
		result.BalancesWritten++
	}

	for i := range snap.Positions {
		position, err := positionFromFacts(&snap.Positions[i], acc.ID, acc.UserID, capturedAt)
		if err != nil {
			errMsg := fmt.Sprintf("failed to build position %s: %v", snap.Positions[i].Symbol, err)
			result.Errors = append(result.Errors, errMsg)
			log.Printf("Error: %s", errMsg)
			continue
		}
		if err := s.positionRepo.Upsert(ctx, position); err != nil {
			return result, fmt.Errorf("failed to write position %s: %w", position.Symbol, err)
		}
		result.PositionsWritten++
	}

	if err := s.reconcileTransactions(ctx, acc, snap.Transactions, result); err != nil {
		return result, err
	}

	log.Printf("Sync completed for account %s: balances=%d, positions=%d, transactions found=%d, inserted=%d, skipped=%d, errors=%d",
		acc.ID, result.BalancesWritten, result.PositionsWritten,
		result.TransactionsFound, result.TransactionsInserted, result.TransactionsSkipped, len(result.Errors))

	return result, nil
}

func (s *Service) reconcileTransactions(ctx context.Context, acc *account.Account, facts []tastytrade.TransactionFacts, result *SyncResult) error {
	result.TransactionsFound = len(facts)
	if len(facts) == 0 {
		return nil
	}

	latest, err := s.txnRepo.LatestExecutionDate(ctx, acc.ID, acc.UserID)
	if err != nil {
		return fmt.Errorf("failed to read latest transaction date: %w", err)
	}
	window := computeWindow(latest, s.lookbackDays, s.now())

	existing := map[int64]struct{}{}
	if !window.Unbounded {
		existing, err = s.txnRepo.BrokerageIDsInWindow(ctx, acc.ID, acc.UserID, window.Start, window.End)
		if err != nil {
			return fmt.Errorf("failed to read stored transaction ids: %w", err)
		}
	}

	seen := make(map[int64]struct{}, len(facts))
	for i := range facts {
		f := &facts[i]

		txn, err := transactionFromFacts(f, acc.ID, acc.UserID, s.now().UTC())
		if err != nil {
			errMsg := fmt.Sprintf("failed to build transaction %d: %v", f.ID, err)
			result.Errors = append(result.Errors, errMsg)
			log.Printf("Error: %s", errMsg)
			continue
		}

		isNew, err := s.isNewTransaction(ctx, txn, window, existing, seen)
		if err != nil {
			errMsg := fmt.Sprintf("failed to dedup transaction %d: %v", f.ID, err)
			result.Errors = append(result.Errors, errMsg)
			log.Printf("Error: %s", errMsg)
			continue
		}
		if !isNew {
			result.TransactionsSkipped++
			continue
		}

		if err := s.txnRepo.Insert(ctx, txn); err != nil {
			errMsg := fmt.Sprintf("failed to insert transaction %d: %v", f.ID, err)
			result.Errors = append(result.Errors, errMsg)
			log.Printf("Error: %s", errMsg)
			continue
		}
		result.TransactionsInserted++
		if txn.HasBrokerageID() {
			seen[txn.BrokerageID] = struct{}{}
		}
	}

	return nil
}

// isNewTransaction decides whether a fetched record should be inserted. The
// native brokerage id is the primary key for the set difference; records
// without one fall back to the composite key lookup. Records executed before
// the window start were ingested by an earlier run. On a bounded run a record
// with no execution time is excluded outright: its stored row has a NULL
// executed_at, so it can never show up in the windowed id set and would be
// re-inserted on every sync.
func (s *Service) isNewTransaction(ctx context.Context, txn *transaction.Transaction, window dedupWindow, existing, seen map[int64]struct{}) (bool, error) {
	if !window.Unbounded {
		if txn.ExecutedAt == nil {
			return false, nil
		}
		if !window.Contains(*txn.ExecutedAt) {
			return false, nil
		}
	}

	if txn.HasBrokerageID() {
		if _, ok := existing[txn.BrokerageID]; ok {
			return false, nil
		}
		if _, ok := seen[txn.BrokerageID]; ok {
			return false, nil
		}
		return true, nil
	}

	if txn.ExecutedAt == nil {
		return false, fmt.Errorf("record has neither a native id nor an execution time")
	}
	exists, err := s.txnRepo.ExistsByCompositeKey(ctx, txn.AccountID, txn.UserID, txn.Symbol, txn.TransactionType, truncateToDate(*txn.ExecutedAt))
	if err != nil {
		return false, err
	}
	return !exists, nil
}
