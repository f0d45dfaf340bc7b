package usecase

import "errors"

var (
	// ErrInvalidCredentials covers unknown users, wrong passwords, and invalid
	// or expired sessions and remember cookies. Callers must not be able to
	// tell which case occurred.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrValidation indicates the request payload failed input validation.
	ErrValidation = errors.New("validation failed")
	// ErrAccountUnavailable indicates the account could not be created. It
	// deliberately does not reveal which field collided.
	ErrAccountUnavailable = errors.New("account cannot be created")
)
