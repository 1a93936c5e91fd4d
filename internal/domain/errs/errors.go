// Package errs holds the error taxonomy shared by the borrowing core and the
// store adapters. Callers match with errors.Is / errors.As.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the requested entity does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when an operation is not valid for the record's current status.
	ErrInvalidState = errors.New("invalid state for operation")
)

// Eligibility reasons surfaced to callers.
const (
	ReasonResourceUnavailable = "resource unavailable"
	ReasonDuplicatePending    = "duplicate pending request"
	ReasonLimitReached        = "borrowing limit reached"
)

// ConflictError reports a failed eligibility check.
type ConflictError struct {
	Reason         string
	ResourceStatus string
}

func (e *ConflictError) Error() string {
	if e.ResourceStatus != "" {
		return fmt.Sprintf("conflict: %s (status=%s)", e.Reason, e.ResourceStatus)
	}
	return "conflict: " + e.Reason
}

// StoreError is a transport, HTTP or validation failure reported by the remote store.
// StatusCode is 0 when the request never produced a response.
type StoreError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *StoreError) Error() string {
	msg := e.Message
	if msg == "" && e.StatusCode != 0 {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("store error (HTTP %d): %s", e.StatusCode, msg)
	}
	return "store error: " + msg
}

func (e *StoreError) Unwrap() error { return e.Err }

// ValidationError is a local input problem, detected before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// IsStoreError reports whether err carries a *StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
