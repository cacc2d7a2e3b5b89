package storage

import "errors"

// Sentinel errors shared by every backend so the service layer can branch on
// storage outcomes without knowing which implementation is underneath.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when creating a user whose email is
	// already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateJoinCode is returned when creating a group whose join
	// code collides with an existing group. Callers retry with a new code.
	ErrDuplicateJoinCode = errors.New("join code already in use")

	// ErrAlreadyClaimed is returned when a conditional claim finds the
	// item already claimed.
	ErrAlreadyClaimed = errors.New("gift already claimed")

	// ErrNotClaimer is returned when unclaiming an item the requester has
	// not claimed.
	ErrNotClaimer = errors.New("gift not claimed by requester")

	// ErrExchangeStarted is returned when starting an exchange for a group
	// whose exchange has already been started.
	ErrExchangeStarted = errors.New("gift exchange already started")
)
