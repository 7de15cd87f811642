package domain

import "errors"

// Sentinel error kinds returned by the engines. Callers classify failures
// with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientFunds marks a debit exceeding the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound marks a reference to a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAuthentication marks a PIN or credential mismatch.
	ErrAuthentication = errors.New("authentication failed")

	// ErrLocked marks an attempt against a locked user, a terminal state
	// cleared only by an administrative unlock.
	ErrLocked = errors.New("account locked")
)
