package reconcile

import "errors"

var (
	// ErrOwnershipViolation is returned when a sync is requested for an
	// account the caller does not own.
	ErrOwnershipViolation = errors.New("account does not belong to user")

	// ErrCredential is returned when the stored brokerage credential cannot
	// be decrypted. The token itself is never included in the error.
	ErrCredential = errors.New("stored credential is unusable")
)
