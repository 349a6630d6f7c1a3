package account

import "context"

// Repository defines persistence operations for brokerage accounts.
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	ListByUserID(ctx context.Context, userID int64) ([]Account, error)
	ListAll(ctx context.Context) ([]Account, error)
	Delete(ctx context.Context, id string) error
}
