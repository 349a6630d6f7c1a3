package account

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidInput    = errors.New("invalid input")
)

// Account identifies one brokerage login owned by exactly one user. The
// brokerage password is held only as a vault-encrypted blob; nothing in this
// package can see the plaintext.
type Account struct {
	ID                string    `json:"id"`
	UserID            int64     `json:"userId"`
	Nickname          string    `json:"nickname"`
	BrokerageUsername string    `json:"brokerageUsername"`
	EncryptedPassword string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CreateParams carries the fields needed to register a brokerage account.
// EncryptedPassword must already have passed through the credential vault.
type CreateParams struct {
	UserID            int64
	Nickname          string
	BrokerageUsername string
	EncryptedPassword string
}

func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(p.BrokerageUsername) == "" {
		return ErrInvalidInput
	}
	if p.EncryptedPassword == "" {
		return ErrInvalidInput
	}
	return nil
}
