package core

import (
	"errors"
	"fmt"
)

// Run lifecycle errors
var (
	ErrRunNotFound = errors.New("onboarding run not found")
	ErrRunExpired  = errors.New("onboarding run expired")
	ErrRunBusy     = errors.New("a submission for this run is already in flight")
)

// Wizard transition errors
var (
	ErrWrongStep           = errors.New("operation not valid for the current step")
	ErrArtifactsIncomplete = errors.New("session artifacts incomplete")
	ErrUnknownWidget       = errors.New("unknown widget")
	ErrCopyFailed          = errors.New("failed to copy to clipboard")
)

// Transaction entry errors
var (
	ErrLastDraft     = errors.New("cannot remove the last transaction draft")
	ErrDraftIndex    = errors.New("transaction draft index out of range")
	ErrUnknownField  = errors.New("unknown transaction field")
	ErrEmptyBatch    = errors.New("transaction batch is empty")
	ErrSubmitBlocked = errors.New("submission blocked by validation errors")
)

// Config errors (wiring-time)
var (
	ErrAPIClientRequired = errors.New("api client is required")
	ErrStorageRequired   = errors.New("run storage is required")
)

// ErrorKind classifies server-originated failures.
type ErrorKind int

const (
	// KindTransport covers network failures and unreadable responses.
	KindTransport ErrorKind = iota
	// KindAuth covers rejected credentials or bad/expired tokens.
	KindAuth
	// KindValidation covers server-side input rejection.
	KindValidation
	// KindNotFound covers well-formed responses missing the expected
	// success field, e.g. a session response without a token.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "transport"
	}
}

// APIError is a normalized server-originated failure. Detail prefers the
// structured detail field from the response body (first element when the
// server sends a list) over a generic message.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Op         string
	Detail     string
	Err        error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: request failed with status %d", e.Op, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// Message returns the single displayable string for this failure.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "Something went wrong."
}

// DisplayMessage converts any error into the string shown to the user,
// preferring a structured server detail when one exists.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}
