package probe

import "errors"

// Error constants.
var (
	ErrNoClient = errors.New("probe needs a client")
	ErrEnqueue  = errors.New("probe check not queued")
)
