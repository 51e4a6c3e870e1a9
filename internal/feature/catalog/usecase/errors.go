// Package usecase implements the business logic for the catalog feature.
package usecase

// ValidationError reports a listing that cannot be accepted.
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
