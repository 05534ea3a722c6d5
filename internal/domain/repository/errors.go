package repository

import "errors"

var (
	// ErrNotFound is returned by setter-style updates that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an account email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)
