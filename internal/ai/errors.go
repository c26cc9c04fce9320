// Package ai wraps the external completion endpoint used to enrich
// marketplace operations. Every caller owns a deterministic fallback;
// nothing in this package is allowed on the critical path for correctness.
package ai

import "errors"

// UpstreamError marks a failed call to the model provider: network error,
// timeout, auth failure or a non-200 response.
type UpstreamError struct {
	err error
}

func (e *UpstreamError) Error() string {
	return "ai upstream: " + e.err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.err
}

func NewUpstreamError(err error) error {
	return &UpstreamError{err: err}
}

// ParseError marks model output that could not be decoded into the shape a
// caller asked for. Callers treat it exactly like UpstreamError.
type ParseError struct {
	err error
}

func (e *ParseError) Error() string {
	return "ai parse: " + e.err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.err
}

func NewParseError(err error) error {
	return &ParseError{err: err}
}

// IsUpstream reports whether err originates from the provider call itself.
func IsUpstream(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream)
}

// IsParse reports whether err originates from decoding model output.
func IsParse(err error) bool {
	var parse *ParseError
	return errors.As(err, &parse)
}
