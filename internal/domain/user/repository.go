package user

import (
	"context"

	"paynex/internal/infrastructure/dwolla"
)

// CredentialRepository is the account side of the credential store.
// Lookups of unknown accounts return ErrNotFound; duplicate emails ErrEmailTaken.
type CredentialRepository interface {
	Create(ctx context.Context, email, name, passwordHash string) (*Credential, error)
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	Delete(ctx context.Context, id string) error
}

// Repository stores User documents. Missing documents return ErrNotFound.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
}

// SessionStore issues and resolves login sessions. Unknown or expired
// secrets resolve to ErrSessionNotFound.
type SessionStore interface {
	Create(ctx context.Context, userID string) (*Session, error)
	Resolve(ctx context.Context, secret string) (string, error)
	Delete(ctx context.Context, secret string) error
}

// PaymentsClient creates the payments-network customer for a new user.
type PaymentsClient interface {
	CreateCustomer(ctx context.Context, customer dwolla.Customer) (string, error)
}
