package postgres

import (
	"context"
	"fmt"

	"github.com/bostrovsky/tastyreport02/internal/domain/snapshot"
)

// PositionRepository implements the snapshot.PositionRepository interface for
// PostgreSQL.
type PositionRepository struct {
	db *DB
}

// NewPositionRepository creates a new PostgreSQL position repository
func NewPositionRepository(db *DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Upsert writes a holding snapshot. Conflicts on the identity key
// (account_id, user_id, symbol, captured_at) update the row in place, so a
// rerun for the same capture date refreshes values instead of duplicating.
func (r *PositionRepository) Upsert(ctx context.Context, p *snapshot.Position) error {
	query := `
		INSERT INTO positions (id, account_id, user_id, symbol, instrument_type, underlying_symbol,
		                       quantity, average_open_price, mark_price, market_value, multiplier,
		                       captured_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (account_id, user_id, symbol, captured_at)
		DO UPDATE SET
			instrument_type = EXCLUDED.instrument_type,
			underlying_symbol = EXCLUDED.underlying_symbol,
			quantity = EXCLUDED.quantity,
			average_open_price = EXCLUDED.average_open_price,
			mark_price = EXCLUDED.mark_price,
			market_value = EXCLUDED.market_value,
			multiplier = EXCLUDED.multiplier,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.AccountID, p.UserID, p.Symbol, p.InstrumentType, p.UnderlyingSymbol,
		p.Quantity, p.AverageOpenPrice, p.MarkPrice, p.MarketValue, p.Multiplier,
		p.CapturedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}
	return nil
}

func (r *PositionRepository) ListByAccountID(ctx context.Context, accountID string, userID int64, limit, offset int) ([]snapshot.Position, error) {
	query := `
		SELECT id, account_id, user_id, symbol, instrument_type, underlying_symbol,
		       quantity, average_open_price, mark_price, market_value, multiplier,
		       captured_at, created_at, updated_at
		FROM positions
		WHERE account_id = $1 AND user_id = $2
		ORDER BY captured_at DESC, symbol
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []snapshot.Position
	for rows.Next() {
		var p snapshot.Position
		if err := rows.Scan(
			&p.ID, &p.AccountID, &p.UserID, &p.Symbol, &p.InstrumentType, &p.UnderlyingSymbol,
			&p.Quantity, &p.AverageOpenPrice, &p.MarkPrice, &p.MarketValue, &p.Multiplier,
			&p.CapturedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (r *PositionRepository) CountByAccountID(ctx context.Context, accountID string, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM positions WHERE account_id = $1 AND user_id = $2`,
		accountID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count positions: %w", err)
	}
	return count, nil
}
