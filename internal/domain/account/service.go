package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Encryptor seals brokerage credentials before they reach the repository.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
}

// Service contains the business logic for brokerage account operations
type Service struct {
	repo      Repository
	encryptor Encryptor
}

// NewService creates a new account service
func NewService(repo Repository, encryptor Encryptor) *Service {
	return &Service{repo: repo, encryptor: encryptor}
}

// RegisterParams carries the plaintext credentials handed in at the API
// boundary. The plaintext password never leaves this call.
type RegisterParams struct {
	UserID            int64
	Nickname          string
	BrokerageUsername string
	BrokeragePassword string
}

// RegisterAccount encrypts the brokerage password and stores the account.
func (s *Service) RegisterAccount(ctx context.Context, params RegisterParams) (*Account, error) {
	encrypted, err := s.encryptor.Encrypt(params.BrokeragePassword)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	createParams := CreateParams{
		UserID:            params.UserID,
		Nickname:          params.Nickname,
		BrokerageUsername: params.BrokerageUsername,
		EncryptedPassword: encrypted,
	}
	if err := createParams.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acc := &Account{
		ID:                uuid.New().String(),
		UserID:            createParams.UserID,
		Nickname:          createParams.Nickname,
		BrokerageUsername: createParams.BrokerageUsername,
		EncryptedPassword: createParams.EncryptedPassword,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// GetAccount retrieves an account by ID and verifies user ownership
func (s *Service) GetAccount(ctx context.Context, accountID string, userID int64) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Business rule: verify ownership
	if acc.UserID != userID {
		return nil, ErrForbidden
	}

	return acc, nil
}

// ListAccountsByUserID retrieves all accounts for a specific user
func (s *Service) ListAccountsByUserID(ctx context.Context, userID int64) ([]Account, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUserID(ctx, userID)
}

// DeleteAccount deletes an account after verifying ownership
func (s *Service) DeleteAccount(ctx context.Context, accountID string, userID int64) error {
	if _, err := s.GetAccount(ctx, accountID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, accountID)
}
