// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"accounts/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	TaxID    string
	Email    string
	Password string
	Role     entity.Role
}

// LoginInput defines the data required to check a login attempt.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account.
type RegisterOutput struct {
	User *entity.User
}

// UserUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// Register validates the tax identifier, enforces uniqueness, hashes
	// the credential and persists the new account.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Authenticate reports whether email and password identify a stored
	// account. An unknown email or wrong password is (false, nil); only a
	// store failure produces an error.
	Authenticate(ctx context.Context, input LoginInput) (bool, error)

	// FindAuthenticated is Authenticate returning the matched account
	// instead of a boolean. Absence or a password mismatch yields
	// (nil, nil), never an error.
	FindAuthenticated(ctx context.Context, input LoginInput) (*entity.User, error)
}
