package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNoProxy        = errors.New("api proxy not configured")
	ErrInvalidAPIBase = errors.New("invalid api base path")
)
