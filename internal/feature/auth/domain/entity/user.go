// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered marketplace account.
type User struct {
	// ID is the storage key assigned by the credential store.
	ID string

	// Username is the display name chosen at signup.
	Username string

	// Email is the login identifier. It is unique across all users.
	Email string

	// Phone is the contact number given at signup.
	Phone string

	// PasswordHash is the bcrypt hash of the user's password.
	// Plaintext passwords are never stored.
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
