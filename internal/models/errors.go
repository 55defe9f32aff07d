package models

import "errors"

var (
	// ErrNotFound is returned by point lookups when no row matches
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when registering a username that is taken
	ErrAlreadyExists = errors.New("account already exists")

	// ErrInvalidCredentials is returned when no account matches a login attempt
	ErrInvalidCredentials = errors.New("invalid username or password")
)
