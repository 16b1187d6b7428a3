package core

import "errors"

// Sentinel errors shared by every layer. Callers match with errors.Is.
var (
	// ErrConfiguration marks programming or wiring mistakes: unknown column
	// types, malformed descriptors, duplicate registrations.
	ErrConfiguration = errors.New("configuration error")

	// ErrStorage marks a failed statement or transaction at the storage layer.
	ErrStorage = errors.New("storage error")

	// ErrReadOnly is returned when a write is attempted on a read-only book.
	ErrReadOnly = errors.New("book is read-only")

	// ErrUnknownType is returned when no handler is registered for an entity type.
	ErrUnknownType = errors.New("unknown object type")

	// ErrBusy is returned when a session operation overlaps another one.
	ErrBusy = errors.New("session busy")

	// ErrInvalidTransition is returned for an illegal lifecycle change.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)
