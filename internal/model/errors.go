package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExists     = errors.New("session with this name already exists")
	ErrSessionFull       = errors.New("session is full")
	ErrEmptySessionName  = errors.New("session name cannot be empty")
	ErrInvalidMaxPlayers = errors.New("max players must be between 2 and 5")
	ErrInvalidAccessKey  = errors.New("invalid access key")

	// Assassin errors
	ErrAssassinNotFound = errors.New("assassin not found")

	// Store errors
	ErrStoreUnavailable = errors.New("document store unavailable")
	ErrUpdateConflict   = errors.New("conflicting concurrent update")
)
