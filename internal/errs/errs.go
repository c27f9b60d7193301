// Package errs holds the sentinel errors shared by the settlement,
// distribution and wallet write paths. Handlers match them with errors.Is
// and map them to HTTP status codes.
package errs

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInsufficientInventory = errors.New("insufficient available tokens")
	ErrInsufficientFunds     = errors.New("insufficient wallet balance")
	ErrNoActiveInvestments   = errors.New("no active investments for property")
	ErrInvalidArgument       = errors.New("invalid argument")
	// ErrLockTimeout is retryable: the row lock could not be acquired
	// within the configured lock_timeout.
	ErrLockTimeout = errors.New("lock wait timeout")
)
