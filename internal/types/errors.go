package types

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed, missing or unrecognized input. It is
// always local to the request and never retried.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return "validation: " + e.Msg + ": " + e.Err.Error()
	}
	return "validation: " + e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error with a plain message
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// UpstreamError marks a broker or catalog-fetch failure. It carries the
// raw status and body so the run log can show exactly what the broker said.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("upstream: %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NotFoundError marks an instrument that is absent from the precision
// table, i.e. a pair the broker does not support.
type NotFoundError struct {
	Instrument string
}

func (e *NotFoundError) Error() string {
	return "not found: instrument " + e.Instrument
}

// NotificationError marks a mail delivery failure. It is logged and
// reported but must never replace the primary outcome of a request.
type NotificationError struct {
	StatusCode int
	Err        error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return "notification: " + e.Err.Error()
	}
	return fmt.Sprintf("notification: mail transport returned status %d", e.StatusCode)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError anywhere in its chain
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsUpstream reports whether err is an UpstreamError anywhere in its chain
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
