package sync

import "errors"

// Remote failures. Local counterparts live in the record package.
var (
	ErrNotConfigured = errors.New("remote not configured")
	ErrNetwork       = errors.New("remote unreachable")
	ErrTimeout       = errors.New("remote timed out")
	ErrUnauthorized  = errors.New("remote rejected api key")
	ErrNotFound      = errors.New("remote record not found")
	ErrDuplicate     = errors.New("remote duplicate")
	ErrInvalidFormat = errors.New("remote response malformed")
	ErrRemote        = errors.New("remote failure")
	ErrLocalOnly     = errors.New("table is local only")
)
