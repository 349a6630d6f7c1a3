package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bostrovsky/tastyreport02/internal/domain/transaction"
)

// TransactionRepository implements the transaction.Repository interface for
// PostgreSQL. Transaction rows are immutable once written.
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Insert(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, user_id, brokerage_id, transaction_type,
		                          transaction_sub_type, description, action, symbol, instrument_type,
		                          underlying_symbol, value, price, quantity, commission,
		                          regulatory_fees, clearing_fees, other_charge, multiplier,
		                          executed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	var brokerageID sql.NullInt64
	if t.BrokerageID > 0 {
		brokerageID = sql.NullInt64{Int64: t.BrokerageID, Valid: true}
	}
	var executedAt sql.NullTime
	if t.ExecutedAt != nil {
		executedAt = sql.NullTime{Time: *t.ExecutedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.AccountID, t.UserID, brokerageID, t.TransactionType,
		t.TransactionSubType, t.Description, t.Action, t.Symbol, t.InstrumentType,
		t.UnderlyingSymbol, t.Value, t.Price, t.Quantity, t.Commission,
		t.RegulatoryFees, t.ClearingFees, t.OtherCharge, t.Multiplier,
		executedAt, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) LatestExecutionDate(ctx context.Context, accountID string, userID int64) (*time.Time, error) {
	query := `
		SELECT MAX(executed_at)
		FROM transactions
		WHERE account_id = $1 AND user_id = $2
	`

	var latest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, accountID, userID).Scan(&latest); err != nil {
		return nil, fmt.Errorf("failed to get latest execution date: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

func (r *TransactionRepository) BrokerageIDsInWindow(ctx context.Context, accountID string, userID int64, start, end time.Time) (map[int64]struct{}, error) {
	// The end bound is exclusive at the start of the next day so records
	// executed any time on the end date are included.
	query := `
		SELECT brokerage_id
		FROM transactions
		WHERE account_id = $1 AND user_id = $2
		  AND brokerage_id IS NOT NULL
		  AND executed_at >= $3 AND executed_at < $4
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan transaction id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (r *TransactionRepository) ExistsByCompositeKey(ctx context.Context, accountID string, userID int64, symbol, transactionType string, executedAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE account_id = $1 AND user_id = $2
			  AND symbol = $3 AND transaction_type = $4
			  AND executed_at >= $5 AND executed_at < $6
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query,
		accountID, userID, symbol, transactionType,
		executedAt, executedAt.AddDate(0, 0, 1),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}
	return exists, nil
}

func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID string, userID int64, limit, offset int) ([]transaction.Transaction, error) {
	query := `
		SELECT id, account_id, user_id, brokerage_id, transaction_type,
		       transaction_sub_type, description, action, symbol, instrument_type,
		       underlying_symbol, value, price, quantity, commission,
		       regulatory_fees, clearing_fees, other_charge, multiplier,
		       executed_at, created_at
		FROM transactions
		WHERE account_id = $1 AND user_id = $2
		ORDER BY executed_at DESC NULLS LAST
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		var brokerageID sql.NullInt64
		var executedAt sql.NullTime
		if err := rows.Scan(
			&t.ID, &t.AccountID, &t.UserID, &brokerageID, &t.TransactionType,
			&t.TransactionSubType, &t.Description, &t.Action, &t.Symbol, &t.InstrumentType,
			&t.UnderlyingSymbol, &t.Value, &t.Price, &t.Quantity, &t.Commission,
			&t.RegulatoryFees, &t.ClearingFees, &t.OtherCharge, &t.Multiplier,
			&executedAt, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if brokerageID.Valid {
			t.BrokerageID = brokerageID.Int64
		}
		if executedAt.Valid {
			at := executedAt.Time
			t.ExecutedAt = &at
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) CountByAccountID(ctx context.Context, accountID string, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1 AND user_id = $2`,
		accountID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
