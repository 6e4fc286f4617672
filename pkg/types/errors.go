package types

import "errors"

// Only these failures surface to callers. Everything else in the filter
// pipeline degrades to a well-defined default instead of erroring.
var (
	// ErrUnauthorized marks a request that failed the token integrity check.
	ErrUnauthorized = errors.New("unauthorized request")
	// ErrUpstream marks a catalog store failure.
	ErrUpstream = errors.New("catalog query failed")
	// ErrTimeout marks a catalog query that exceeded its deadline.
	ErrTimeout = errors.New("catalog query timed out")
)
