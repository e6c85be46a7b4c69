package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrStarted = errors.New("worker pool already started")
)
