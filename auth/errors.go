package auth

import "errors"

var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrTokenMalformed     = errors.New("auth: token malformed")
	ErrMissingSecret      = errors.New("auth: signing secret not configured")

	// ErrForbidden is returned when a valid identity lacks the required role.
	ErrForbidden = errors.New("auth: access denied")
)
