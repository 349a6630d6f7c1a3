package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bostrovsky/tastyreport02/internal/domain/account"
	"github.com/bostrovsky/tastyreport02/internal/domain/reconcile"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/tastytrade"
	"github.com/bostrovsky/tastyreport02/internal/shared/middleware"
)

// MockAccountService implements AccountService for testing
type MockAccountService struct {
	RegisterAccountFunc      func(ctx context.Context, params account.RegisterParams) (*account.Account, error)
	GetAccountFunc           func(ctx context.Context, accountID string, userID int64) (*account.Account, error)
	ListAccountsByUserIDFunc func(ctx context.Context, userID int64) ([]account.Account, error)
	DeleteAccountFunc        func(ctx context.Context, accountID string, userID int64) error
}

func (m *MockAccountService) RegisterAccount(ctx context.Context, params account.RegisterParams) (*account.Account, error) {
	if m.RegisterAccountFunc != nil {
		return m.RegisterAccountFunc(ctx, params)
	}
	return &account.Account{ID: "acc-1", UserID: params.UserID}, nil
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID string, userID int64) (*account.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, accountID, userID)
	}
	return &account.Account{ID: accountID, UserID: userID}, nil
}

func (m *MockAccountService) ListAccountsByUserID(ctx context.Context, userID int64) ([]account.Account, error) {
	if m.ListAccountsByUserIDFunc != nil {
		return m.ListAccountsByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, userID int64) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, accountID, userID)
	}
	return nil
}

// MockSyncService implements SyncService for testing
type MockSyncService struct {
	SyncAccountFunc func(ctx context.Context, accountID string, userID int64) (*reconcile.SyncResult, error)
}

func (m *MockSyncService) SyncAccount(ctx context.Context, accountID string, userID int64) (*reconcile.SyncResult, error) {
	if m.SyncAccountFunc != nil {
		return m.SyncAccountFunc(ctx, accountID, userID)
	}
	return &reconcile.SyncResult{AccountID: accountID, UserID: userID}, nil
}

func authedRequest(method, target, body string, userID int64) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestHandleCreateAccount(t *testing.T) {
	handler := NewAccountHandler(&MockAccountService{}, &MockSyncService{})

	req := authedRequest(http.MethodPost, "/api/brokerage/accounts",
		`{"nickname":"Main","username":"trader@example.com","password":"secret"}`, 1)
	rec := httptest.NewRecorder()
	handler.HandleCreateAccount(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if body := rec.Body.String(); strings.Contains(body, "secret") {
		t.Error("response must not contain the plaintext password")
	}
}

func TestHandleCreateAccountMissingFields(t *testing.T) {
	handler := NewAccountHandler(&MockAccountService{}, &MockSyncService{})

	req := authedRequest(http.MethodPost, "/api/brokerage/accounts", `{"nickname":"Main"}`, 1)
	rec := httptest.NewRecorder()
	handler.HandleCreateAccount(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleCreateAccountUnauthenticated(t *testing.T) {
	handler := NewAccountHandler(&MockAccountService{}, &MockSyncService{})

	req := httptest.NewRequest(http.MethodPost, "/api/brokerage/accounts",
		strings.NewReader(`{"username":"u","password":"p"}`))
	rec := httptest.NewRecorder()
	handler.HandleCreateAccount(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleSyncAccount(t *testing.T) {
	tests := []struct {
		name       string
		syncErr    error
		wantStatus int
	}{
		{"success", nil, http.StatusAccepted},
		{"account not found", account.ErrAccountNotFound, http.StatusNotFound},
		{"not the owner", reconcile.ErrOwnershipViolation, http.StatusForbidden},
		{"unusable credentials", reconcile.ErrCredential, http.StatusConflict},
		{"brokerage rejected login", tastytrade.ErrAuthenticationFailed, http.StatusUnauthorized},
		{"brokerage unreachable", tastytrade.ErrUnreachable, http.StatusBadGateway},
		{"unexpected failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncService := &MockSyncService{
				SyncAccountFunc: func(ctx context.Context, accountID string, userID int64) (*reconcile.SyncResult, error) {
					if tt.syncErr != nil {
						return nil, tt.syncErr
					}
					return &reconcile.SyncResult{AccountID: accountID, UserID: userID, TransactionsInserted: 3}, nil
				},
			}
			handler := NewAccountHandler(&MockAccountService{}, syncService)

			req := authedRequest(http.MethodPost, "/api/brokerage/accounts/acc-1/sync", "", 1)
			req.SetPathValue("id", "acc-1")
			rec := httptest.NewRecorder()
			handler.HandleSyncAccount(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleSyncAccountPartialFetch(t *testing.T) {
	syncService := &MockSyncService{
		SyncAccountFunc: func(ctx context.Context, accountID string, userID int64) (*reconcile.SyncResult, error) {
			result := &reconcile.SyncResult{AccountID: accountID, UserID: userID, BalancesWritten: 1}
			return result, &tastytrade.PartialFetchError{Resource: "transactions", Got: 100, Reason: "3 pages available"}
		},
	}
	handler := NewAccountHandler(&MockAccountService{}, syncService)

	req := authedRequest(http.MethodPost, "/api/brokerage/accounts/acc-1/sync", "", 1)
	req.SetPathValue("id", "acc-1")
	rec := httptest.NewRecorder()
	handler.HandleSyncAccount(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	var result reconcile.SyncResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Errorf("partial fetch should surface in result errors, got %v", result.Errors)
	}
}

func TestHandleDeleteAccount(t *testing.T) {
	handler := NewAccountHandler(&MockAccountService{
		DeleteAccountFunc: func(ctx context.Context, accountID string, userID int64) error {
			if userID != 1 {
				return account.ErrForbidden
			}
			return nil
		},
	}, &MockSyncService{})

	req := authedRequest(http.MethodDelete, "/api/brokerage/accounts/acc-1", "", 1)
	req.SetPathValue("id", "acc-1")
	rec := httptest.NewRecorder()
	handler.HandleDeleteAccount(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	req = authedRequest(http.MethodDelete, "/api/brokerage/accounts/acc-1", "", 2)
	req.SetPathValue("id", "acc-1")
	rec = httptest.NewRecorder()
	handler.HandleDeleteAccount(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
