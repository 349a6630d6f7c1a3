package user

import "context"

// Repository defines the interface for user data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, params CreateUserParams) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email; returns nil when not found
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List retrieves all users (scheduler job provider)
	List(ctx context.Context) ([]*User, error)
}
