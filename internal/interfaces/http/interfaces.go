package http

import (
	"context"

	"github.com/bostrovsky/tastyreport02/internal/domain/account"
	"github.com/bostrovsky/tastyreport02/internal/domain/reconcile"
)

// AccountService is the slice of account.Service the handlers need.
type AccountService interface {
	RegisterAccount(ctx context.Context, params account.RegisterParams) (*account.Account, error)
	GetAccount(ctx context.Context, accountID string, userID int64) (*account.Account, error)
	ListAccountsByUserID(ctx context.Context, userID int64) ([]account.Account, error)
	DeleteAccount(ctx context.Context, accountID string, userID int64) error
}

// SyncService is the slice of reconcile.Service the handlers need.
type SyncService interface {
	SyncAccount(ctx context.Context, accountID string, userID int64) (*reconcile.SyncResult, error)
}

var (
	_ AccountService = (*account.Service)(nil)
	_ SyncService    = (*reconcile.Service)(nil)
)
