package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the codec, lifecycle, and transaction layers.
// Callers match with errors.Is; every kind maps to a distinct user-facing
// message, nothing collapses into a generic failure.
var (
	// ErrInvalidFormat: malformed identifier or payload. User-correctable.
	ErrInvalidFormat = errors.New("invalid identifier format")

	// ErrTypeMismatch: a valid code of the wrong category was scanned
	// (user code where a container was expected, or vice versa).
	ErrTypeMismatch = errors.New("scanned code is the wrong type")

	// ErrContainerUnavailable: checkout attempted on a container that is not
	// AVAILABLE, including the loser of a concurrent checkout race.
	ErrContainerUnavailable = errors.New("container is not available")

	// ErrNotCheckedOut: return attempted on a container that is not checked
	// out, including a re-submitted return.
	ErrNotCheckedOut = errors.New("container is not checked out")

	// ErrUserLimitReached: the user already holds the maximum number of
	// containers. Wrapped by LimitError which carries the counts.
	ErrUserLimitReached = errors.New("container limit reached")

	// ErrReaderInactive: RFID read attempted while the reader is off.
	// Recoverable; re-issue after activating.
	ErrReaderInactive = errors.New("RFID reader is not active")

	// ErrTagReadFailure: transient RFID read failure. Recoverable by
	// re-issuing the read.
	ErrTagReadFailure = errors.New("tag read failed")

	// ErrNotFound: entity does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: acting user's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted for role")
)

// LimitError reports how many containers the user currently holds against
// the configured maximum.
type LimitError struct {
	Current int
	Max     int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("container limit reached: %d of %d checked out", e.Current, e.Max)
}

func (e *LimitError) Unwrap() error {
	return ErrUserLimitReached
}
