package errors

import (
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when the auth service or a downstream
// service rejects the current token. The stored session has already been
// cleared by the time a caller sees it.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Message
}

// ErrValidation is returned before any network call when input is rejected
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// ErrUpstream wraps a non-2xx response or transport failure from a
// backend service
type ErrUpstream struct {
	Service string
	Status  int
	Body    string
	Err     error
}

func (e *ErrUpstream) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s service error", e.Service)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ", body: %s", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// ErrCheckoutFailed reports a checkout that stopped at the line item
// with FailedSKU. The Placed items before it were already ordered and the
// cart was left untouched.
type ErrCheckoutFailed struct {
	Placed        int
	FailedSKU     string
	Confirmations []string
	Cause         error
}

func (e *ErrCheckoutFailed) Error() string {
	return fmt.Sprintf("checkout failed at %s after %d placed: %v", e.FailedSKU, e.Placed, e.Cause)
}

func (e *ErrCheckoutFailed) Unwrap() error {
	return e.Cause
}
