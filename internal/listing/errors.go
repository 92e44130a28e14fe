package listing

import "errors"

var (
	// ErrNotFound means the listing id does not resolve.
	ErrNotFound = errors.New("listing not found")

	// ErrForbidden means the caller is authenticated but does not own
	// the listing it tried to mutate.
	ErrForbidden = errors.New("not the listing owner")
)

// ValidationError reports the first field constraint a payload
// violates. Always client-recoverable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a payload validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
