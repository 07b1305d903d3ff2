package types

import "errors"

// Store errors. ErrNotFound is never returned by store mutations: a missing
// ID is a benign no-op. It is exported for callers that look items up
// directly.
var (
	ErrNotFound     = errors.New("item not found")
	ErrInvalidKind  = errors.New("invalid kind")
	ErrInvalidField = errors.New("invalid field")
)

// Persistence errors.
var (
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrSlotEmpty              = errors.New("slot is empty")
	ErrCorruptSnapshot        = errors.New("corrupt snapshot")
)
