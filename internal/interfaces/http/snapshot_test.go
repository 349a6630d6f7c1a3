package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bostrovsky/tastyreport02/internal/domain/account"
	"github.com/bostrovsky/tastyreport02/internal/domain/snapshot"
)

// MockBalanceRepo implements snapshot.BalanceRepository for testing
type MockBalanceRepo struct {
	ListFunc  func(ctx context.Context, accountID string, userID int64, limit, offset int) ([]snapshot.Balance, error)
	CountFunc func(ctx context.Context, accountID string, userID int64) (int, error)
}

func (m *MockBalanceRepo) Insert(ctx context.Context, balance *snapshot.Balance) error { return nil }

func (m *MockBalanceRepo) ListByAccountID(ctx context.Context, accountID string, userID int64, limit, offset int) ([]snapshot.Balance, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, accountID, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockBalanceRepo) CountByAccountID(ctx context.Context, accountID string, userID int64) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, accountID, userID)
	}
	return 0, nil
}

// MockPositionRepo implements snapshot.PositionRepository for testing
type MockPositionRepo struct{}

func (m *MockPositionRepo) Upsert(ctx context.Context, position *snapshot.Position) error { return nil }
func (m *MockPositionRepo) ListByAccountID(ctx context.Context, accountID string, userID int64, limit, offset int) ([]snapshot.Position, error) {
	return nil, nil
}
func (m *MockPositionRepo) CountByAccountID(ctx context.Context, accountID string, userID int64) (int, error) {
	return 0, nil
}

func TestHandleListBalances(t *testing.T) {
	balanceRepo := &MockBalanceRepo{
		ListFunc: func(ctx context.Context, accountID string, userID int64, limit, offset int) ([]snapshot.Balance, error) {
			if limit != 10 || offset != 20 {
				t.Errorf("pagination = (%d, %d), want (10, 20)", limit, offset)
			}
			return []snapshot.Balance{{ID: "b1", AccountID: accountID, NetLiquidatingValue: decimal.RequireFromString("100.50")}}, nil
		},
		CountFunc: func(ctx context.Context, accountID string, userID int64) (int, error) {
			return 42, nil
		},
	}
	handler := NewSnapshotHandler(&MockAccountService{}, balanceRepo, &MockPositionRepo{})

	req := authedRequest(http.MethodGet, "/api/brokerage/accounts/acc-1/balances?limit=10&offset=20", "", 1)
	req.SetPathValue("id", "acc-1")
	rec := httptest.NewRecorder()
	handler.HandleListBalances(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("X-Total-Count"); got != "42" {
		t.Errorf("X-Total-Count = %s, want 42", got)
	}
}

func TestHandleListBalancesOwnership(t *testing.T) {
	accountService := &MockAccountService{
		GetAccountFunc: func(ctx context.Context, accountID string, userID int64) (*account.Account, error) {
			return nil, account.ErrForbidden
		},
	}
	handler := NewSnapshotHandler(accountService, &MockBalanceRepo{}, &MockPositionRepo{})

	req := authedRequest(http.MethodGet, "/api/brokerage/accounts/acc-1/balances", "", 2)
	req.SetPathValue("id", "acc-1")
	rec := httptest.NewRecorder()
	handler.HandleListBalances(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleListPositionsEmpty(t *testing.T) {
	handler := NewSnapshotHandler(&MockAccountService{}, &MockBalanceRepo{}, &MockPositionRepo{})

	req := authedRequest(http.MethodGet, "/api/brokerage/accounts/acc-1/positions", "", 1)
	req.SetPathValue("id", "acc-1")
	rec := httptest.NewRecorder()
	handler.HandleListPositions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("empty list should encode as [], got %q", body)
	}
}
