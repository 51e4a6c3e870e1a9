// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when no account exists for the given email.
	ErrUserNotFound = errors.New("User not found. Please sign up first.")

	// ErrEmailAlreadyExists is returned when signing up with an email that is already registered.
	ErrEmailAlreadyExists = errors.New("Email already registered")

	// ErrInvalidPassword is returned when the supplied password does not match the stored hash.
	ErrInvalidPassword = errors.New("Invalid password")

	// ErrVerificationNotFound is returned when no reset code is pending for the email.
	ErrVerificationNotFound = errors.New("No verification request found for this email")

	// ErrVerificationExpired is returned when a reset code is presented after its expiry.
	// The pending entry is removed before this error is returned.
	ErrVerificationExpired = errors.New("Verification code expired")

	// ErrVerificationMismatch is returned when the presented code differs from the pending one.
	ErrVerificationMismatch = errors.New("Invalid verification code")
)

// ValidationError reports missing or malformed input.
// Its message is meant to be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
