package cli

import "errors"

// Error constants.
var (
	ErrOutputFormat = errors.New("unknown output format")
	ErrEmptyInput   = errors.New("empty input")
	ErrInvalidJSON  = errors.New("input is not valid JSON")
	ErrProbeFailed  = errors.New("probe checks failed")
)
