package models

import "errors"

// Domain errors surfaced by the storage and service layers. Handlers map these
// to HTTP status codes; everything else is wrapped and treated as internal.
var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrBlobNotFound        = errors.New("blob not found")
	ErrUnknownPlan         = errors.New("unknown plan")
	ErrVersionConflict     = errors.New("user record version conflict")
	ErrHistoryNotFound     = errors.New("history record not found")
)
