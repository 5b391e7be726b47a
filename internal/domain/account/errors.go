package account

import "errors"

var (
	// ErrInvalidInput indicates missing or malformed credentials.
	ErrInvalidInput = errors.New("invalid account input")
	// ErrConfirmationMismatch indicates the delete confirmation did not match the username.
	ErrConfirmationMismatch = errors.New("confirmation does not match username")
	// ErrNotAuthenticated indicates no user is logged in.
	ErrNotAuthenticated = errors.New("not authenticated")
)
