package client

import (
	"errors"
	"fmt"
)

// Sentinel kinds for facade errors. Every typed error below matches exactly
// one of them through errors.Is.
var (
	ErrTransport      = errors.New("transport failure")
	ErrHTTPStatus     = errors.New("unexpected http status")
	ErrDecode         = errors.New("response decode failed")
	ErrEncode         = errors.New("request encode failed")
	ErrInvalidBaseURL = errors.New("invalid base url")
)

// TransportError reports a failure below HTTP: unreachable host, DNS,
// aborted connection, cancelled context, or a body cut off mid-read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports kind equality so errors.Is(err, ErrTransport) holds.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// HTTPStatusError reports a response whose status is outside 200-299.
type HTTPStatusError struct {
	Method string
	URL    string
	Status int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s %s: http error status %d", e.Method, e.URL, e.Status)
}

func (e *HTTPStatusError) Is(target error) bool { return target == ErrHTTPStatus }

// DecodeError reports a body that does not parse as its declared content type.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q body: %v", e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// StatusCode extracts the status carried by an HTTPStatusError anywhere in
// err's chain.
func StatusCode(err error) (int, bool) {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}

// errorKind is the metrics label for err.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrHTTPStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrEncode):
		return "encode"
	default:
		return "transport"
	}
}
