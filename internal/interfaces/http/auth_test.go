package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bostrovsky/tastyreport02/internal/domain/user"
	"github.com/bostrovsky/tastyreport02/internal/shared/auth"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc     func(ctx context.Context, params user.CreateUserParams) (*user.User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	ListFunc       func(ctx context.Context) ([]*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &user.User{ID: 1, Email: params.Email, Name: params.Name, PasswordHash: params.PasswordHash}, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &user.User{ID: id}, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) List(ctx context.Context) ([]*user.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func TestHandleRegister(t *testing.T) {
	handler := NewAuthHandler(&MockUserRepo{}, auth.NewJWT("test-secret"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"New@Example.com","name":"New User","password":"longenough"}`))
	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
	if resp.User.Email != "new@example.com" {
		t.Errorf("email should be normalized, got %q", resp.User.Email)
	}
	if strings.Contains(rec.Body.String(), "longenough") {
		t.Error("response must not echo the password")
	}
}

func TestHandleRegisterShortPassword(t *testing.T) {
	handler := NewAuthHandler(&MockUserRepo{}, auth.NewJWT("test-secret"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"a@b.com","password":"short"}`))
	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleRegisterDuplicateEmail(t *testing.T) {
	handler := NewAuthHandler(&MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{ID: 1, Email: email}, nil
		},
	}, auth.NewJWT("test-secret"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"a@b.com","password":"longenough"}`))
	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	repo := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
			if email == "a@b.com" {
				return &user.User{ID: 1, Email: email, PasswordHash: &hash}, nil
			}
			return nil, nil
		},
	}
	handler := NewAuthHandler(repo, auth.NewJWT("test-secret"))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid credentials", `{"email":"a@b.com","password":"correct-password"}`, http.StatusOK},
		{"wrong password", `{"email":"a@b.com","password":"wrong"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"nobody@b.com","password":"correct-password"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.HandleLogin(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleLoginSetsCookie(t *testing.T) {
	hash, _ := auth.HashPassword("correct-password")
	handler := NewAuthHandler(&MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{ID: 1, Email: email, PasswordHash: &hash}, nil
		},
	}, auth.NewJWT("test-secret"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"a@b.com","password":"correct-password"}`))
	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, req)

	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "access_token" && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("expected an HttpOnly access_token cookie")
	}
}
