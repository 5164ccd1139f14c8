package booking

import (
	"errors"
	"fmt"

	"github.com/npezzotti/homeease/internal/types"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrDuplicateReview   = errors.New("review already exists for booking")
	ErrForbidden         = errors.New("forbidden")
	// ErrUnavailable marks transient store failures. Callers may retry with backoff.
	ErrUnavailable = errors.New("store unavailable")
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransitionError reports a refused status change together with the status the
// booking is actually in.
type TransitionError struct {
	BookingId int64
	From      types.Status
	To        types.Status
	Role      types.Role
	Reason    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking %d: cannot move from %q to %q as %s: %s",
		e.BookingId, e.From, e.To, e.Role, e.Reason)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// CurrentStatus extracts the booking status carried by a transition refusal.
func CurrentStatus(err error) (types.Status, bool) {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.From, true
	}
	return "", false
}
