// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a registered account.
// It carries the fields shared by every role; the store assigns the ID on
// first persistence and it is never reassigned afterwards.
type User struct {
	ID           uuid.UUID // The unique identifier for the account, generated by the store.
	Name         string    // The account holder's display name.
	TaxID        string    // The 11-digit national tax identifier, unique across all users.
	Email        string    // The login email, unique across all users (stored lowercased).
	PasswordHash string    // The bcrypt digest of the credential. Plaintext is never stored.
	Role         Role      // The account category (customer, supplier or admin).
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account's data.
}
