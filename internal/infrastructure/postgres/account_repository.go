package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bostrovsky/tastyreport02/internal/domain/account"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO brokerage_accounts (id, user_id, nickname, brokerage_username, encrypted_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		acc.ID, acc.UserID, acc.Nickname, acc.BrokerageUsername, acc.EncryptedPassword,
		acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, user_id, nickname, brokerage_username, encrypted_password, created_at, updated_at
		FROM brokerage_accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&acc.ID, &acc.UserID, &acc.Nickname, &acc.BrokerageUsername, &acc.EncryptedPassword,
		&acc.CreatedAt, &acc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]account.Account, error) {
	query := `
		SELECT id, user_id, nickname, brokerage_username, encrypted_password, created_at, updated_at
		FROM brokerage_accounts
		WHERE user_id = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, userID)
}

func (r *AccountRepository) ListAll(ctx context.Context) ([]account.Account, error) {
	query := `
		SELECT id, user_id, nickname, brokerage_username, encrypted_password, created_at, updated_at
		FROM brokerage_accounts
		ORDER BY user_id, created_at
	`
	return r.list(ctx, query)
}

func (r *AccountRepository) list(ctx context.Context, query string, args ...any) ([]account.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []account.Account
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(
			&acc.ID, &acc.UserID, &acc.Nickname, &acc.BrokerageUsername, &acc.EncryptedPassword,
			&acc.CreatedAt, &acc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM brokerage_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if affected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}
