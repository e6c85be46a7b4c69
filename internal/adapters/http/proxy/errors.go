package proxy

import "errors"

// Error constants.
var (
	ErrInvalidTarget = errors.New("invalid proxy target")
	ErrUpstream      = errors.New("upstream unreachable")
)
