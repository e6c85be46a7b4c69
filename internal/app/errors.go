package service

import "errors"

// Error constants.
var (
	ErrNoConfig = errors.New("console config is nil")
	ErrWiring   = errors.New("console wiring failed")
)
