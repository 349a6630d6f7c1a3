package transaction

import (
	"context"
	"time"
)

// Repository persists brokerage transaction records. Every operation takes
// the owning user ID alongside the account ID.
type Repository interface {
	Insert(ctx context.Context, txn *Transaction) error
	// LatestExecutionDate returns the most recent execution date stored for
	// the account, or nil when the account has no transactions yet.
	LatestExecutionDate(ctx context.Context, accountID string, userID int64) (*time.Time, error)
	// BrokerageIDsInWindow returns the native ids of stored transactions whose
	// execution date falls inside [start, end] inclusive.
	BrokerageIDsInWindow(ctx context.Context, accountID string, userID int64, start, end time.Time) (map[int64]struct{}, error)
	// ExistsByCompositeKey checks for a stored record matching the fallback
	// dedup key used when the brokerage supplies no native id.
	ExistsByCompositeKey(ctx context.Context, accountID string, userID int64, symbol, transactionType string, executedAt time.Time) (bool, error)
	ListByAccountID(ctx context.Context, accountID string, userID int64, limit, offset int) ([]Transaction, error)
	CountByAccountID(ctx context.Context, accountID string, userID int64) (int, error)
}
