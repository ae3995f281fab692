package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the common failure classes. NotFound covers both
// "absent" and "owned by someone else" so callers cannot probe for
// resources across accounts.
var (
	ErrNotFound     = errors.New("Not found")
	ErrUnauthorized = errors.New("Unauthorized")
	ErrEmailTaken   = errors.New("Email already registered")
)

// ValidationError is malformed input or a bad status-transition value.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation builds a ValidationError.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// QuotaError means the account's tier does not allow another active
// listing. Limit is included for user messaging.
type QuotaError struct {
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("Free tier limited to %d active listings. Upgrade to add more.", e.Limit)
}

// LimitError means a per-listing media cap was hit.
type LimitError struct {
	Resource string
	Limit    int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("Maximum %d %s per listing", e.Limit, e.Resource)
}

// UpstreamError wraps a provider call failure that should surface to the
// caller (e.g. image upload or delete).
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps an error from the taxonomy to its response status code.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var qe *QuotaError
	var le *LimitError
	var ue *UpstreamError
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrUnauthorized):
		return 401
	case errors.Is(err, ErrEmailTaken):
		return 409
	case errors.As(err, &qe):
		return 403
	case errors.As(err, &le):
		return 400
	case errors.As(err, &ve):
		return 400
	case errors.As(err, &ue):
		return 502
	default:
		return 500
	}
}
