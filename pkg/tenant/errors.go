package tenant

import "errors"

// Predefined errors for the tenant package.
var (
	// ErrTenantNotFound indicates no tenant matches the lookup.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrEmailAlreadyExists indicates a registration with a taken email.
	ErrEmailAlreadyExists = errors.New("email already registered")

	// ErrInvalidCredentials is the single error returned for any
	// authentication failure, preventing user enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidEmail indicates a malformed registration email.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrEmptyPassword indicates a registration with no password.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrTenantInactive indicates a deactivated tenant attempting access.
	ErrTenantInactive = errors.New("tenant is deactivated")
)
