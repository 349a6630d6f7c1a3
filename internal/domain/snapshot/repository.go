package snapshot

import "context"

// BalanceRepository persists balance time-series rows. Every read and write
// takes the owning user ID so a row can never cross user boundaries.
type BalanceRepository interface {
	Insert(ctx context.Context, balance *Balance) error
	ListByAccountID(ctx context.Context, accountID string, userID int64, limit, offset int) ([]Balance, error)
	CountByAccountID(ctx context.Context, accountID string, userID int64) (int, error)
}

// PositionRepository persists holding snapshots. Upsert resolves conflicts on
// (account, user, symbol, capturedAt).
type PositionRepository interface {
	Upsert(ctx context.Context, position *Position) error
	ListByAccountID(ctx context.Context, accountID string, userID int64, limit, offset int) ([]Position, error)
	CountByAccountID(ctx context.Context, accountID string, userID int64) (int, error)
}
