package postgres

import (
	"context"
	"fmt"

	"github.com/bostrovsky/tastyreport02/internal/domain/snapshot"
)

// BalanceRepository implements the snapshot.BalanceRepository interface for
// PostgreSQL. Balance rows form an append-only time series; there is no
// update path.
type BalanceRepository struct {
	db *DB
}

// NewBalanceRepository creates a new PostgreSQL balance repository
func NewBalanceRepository(db *DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) Insert(ctx context.Context, b *snapshot.Balance) error {
	query := `
		INSERT INTO balances (id, account_id, user_id, cash_balance, long_equity_value,
		                      short_equity_value, net_liquidating_value, captured_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.AccountID, b.UserID,
		b.CashBalance, b.LongEquityValue, b.ShortEquityValue, b.NetLiquidatingValue,
		b.CapturedAt, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert balance: %w", err)
	}
	return nil
}

func (r *BalanceRepository) ListByAccountID(ctx context.Context, accountID string, userID int64, limit, offset int) ([]snapshot.Balance, error) {
	query := `
		SELECT id, account_id, user_id, cash_balance, long_equity_value,
		       short_equity_value, net_liquidating_value, captured_at, created_at
		FROM balances
		WHERE account_id = $1 AND user_id = $2
		ORDER BY captured_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	var balances []snapshot.Balance
	for rows.Next() {
		var b snapshot.Balance
		if err := rows.Scan(
			&b.ID, &b.AccountID, &b.UserID,
			&b.CashBalance, &b.LongEquityValue, &b.ShortEquityValue, &b.NetLiquidatingValue,
			&b.CapturedAt, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *BalanceRepository) CountByAccountID(ctx context.Context, accountID string, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM balances WHERE account_id = $1 AND user_id = $2`,
		accountID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count balances: %w", err)
	}
	return count, nil
}
