package site

import "errors"

// Error constants.
var (
	ErrUnknownRoute = errors.New("unknown navigation route")
	ErrView         = errors.New("embedded view unavailable")
)
