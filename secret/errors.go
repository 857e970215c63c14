package secret

import "errors"

var (
	// ErrProviderNotRegistered indicates a reference to an unknown provider.
	ErrProviderNotRegistered = errors.New("secret: provider not registered")

	// ErrDuplicateProvider indicates a second registration under one name.
	ErrDuplicateProvider = errors.New("secret: provider already registered")

	// ErrInvalidRef indicates a malformed secret reference.
	ErrInvalidRef = errors.New("secret: invalid reference")

	// ErrEmptySecret indicates a strict resolver received an empty value.
	ErrEmptySecret = errors.New("secret: empty value")

	// ErrNotFound indicates the provider has no secret under the reference.
	ErrNotFound = errors.New("secret: not found")

	// ErrMissingEnv indicates ${VAR} references to unset variables.
	ErrMissingEnv = errors.New("secret: missing environment variables")
)
