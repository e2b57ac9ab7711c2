package sanitize

import "errors"

// Sentinel errors for sanitizer construction.
var (
	ErrConfiguration = errors.New("sanitizer configuration error")
	ErrInvalidPolicy = errors.New("invalid sanitization policy")
	ErrCacheMiss     = errors.New("definition not cached")
)
