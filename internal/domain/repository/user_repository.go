// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"accounts/internal/domain/entity"

	"github.com/google/uuid"
)

// Sentinel errors returned by UserRepository implementations. The usecase
// layer matches on these with errors.Is to translate them into the
// client-facing error taxonomy.
var (
	// ErrUserNotFound is returned by the Find methods when no record matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateTaxID is returned by Save when the tax identifier is
	// already registered. The insert is conditional at the store, so this is
	// authoritative even when a prior existence check raced.
	ErrDuplicateTaxID = errors.New("tax id already registered")

	// ErrDuplicateEmail is returned by Save when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not on a concrete
// backend; Redis and PostgreSQL implementations live under internal/infra.
// All lookups are exact-match. No update or delete operations exist:
// accounts are created once and never modified through this contract.
type UserRepository interface {
	// Save persists a new user. It assigns user.ID when it is zero and
	// fills in the store-generated timestamps. Duplicate tax id or email
	// surfaces as ErrDuplicateTaxID / ErrDuplicateEmail.
	Save(ctx context.Context, user *entity.User) error

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByTaxID retrieves a single user by their tax identifier.
	FindByTaxID(ctx context.Context, taxID string) (*entity.User, error)

	// ExistsByTaxID reports whether a user with the tax identifier exists.
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)

	// ExistsByEmail reports whether a user with the email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
