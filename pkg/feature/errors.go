package feature

import "errors"

// Predefined errors for the feature package.
var (
	// ErrFlagNotFound indicates the tenant has no flag with the requested key.
	ErrFlagNotFound = errors.New("feature flag not found")

	// ErrInvalidFlag indicates a malformed flag configuration rejected at
	// write time: empty key, unknown operator, or a value shape that does
	// not fit the operator.
	ErrInvalidFlag = errors.New("invalid feature flag configuration")

	// ErrStoreConflict indicates a concurrent upsert race at the storage
	// layer that should be retried.
	ErrStoreConflict = errors.New("feature flag store conflict")
)
