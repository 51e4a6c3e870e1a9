// Package usecase implements the navigation flow: role choice, category choice
// and the dashboard each role lands on.
package usecase

// ValidationError reports a choice that is not one of the allowed values.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
