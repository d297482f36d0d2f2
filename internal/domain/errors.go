package domain

import "errors"

// Error categories. Package-level sentinels wrap one of these so callers can
// branch on either the specific error or its category.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrExternal   = errors.New("external failure")
)
