// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed controller operation
type ErrorKind int

const (
	// ErrorKindUnknown is the zero value and never produced by the client
	ErrorKindUnknown ErrorKind = iota

	// ErrorKindConnection indicates a transport failure (connect, TLS, timeout)
	ErrorKindConnection

	// ErrorKindLoginRequired indicates a call that needs a session was made without one
	ErrorKindLoginRequired

	// ErrorKindLoginFailed indicates bad credentials or an unexpected login response
	ErrorKindLoginFailed

	// ErrorKindUnauthorized indicates the session expired and could not be renewed
	ErrorKindUnauthorized

	// ErrorKindDecode indicates the response body was not the expected JSON
	ErrorKindDecode

	// ErrorKindAPI indicates the controller answered with an error envelope
	ErrorKindAPI
)

// Sentinel errors for use with errors.Is
//
// Example:
//
//	_, err := client.Get(ctx, "/api/self/sites")
//	if errors.Is(err, unifi.ErrLoginRequired) {
//	    // call client.Login first
//	}
var (
	ErrConnection    = errors.New("connection error")
	ErrLoginRequired = errors.New("login required")
	ErrLoginFailed   = errors.New("login failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrDecode        = errors.New("decode error")
	ErrAPI           = errors.New("api error")
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindConnection:
		return "connection"
	case ErrorKindLoginRequired:
		return "login_required"
	case ErrorKindLoginFailed:
		return "login_failed"
	case ErrorKindUnauthorized:
		return "unauthorized"
	case ErrorKindDecode:
		return "decode"
	case ErrorKindAPI:
		return "api"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrorKindConnection:
		return ErrConnection
	case ErrorKindLoginRequired:
		return ErrLoginRequired
	case ErrorKindLoginFailed:
		return ErrLoginFailed
	case ErrorKindUnauthorized:
		return ErrUnauthorized
	case ErrorKindDecode:
		return ErrDecode
	case ErrorKindAPI:
		return ErrAPI
	default:
		return nil
	}
}

// Error represents a structured controller error with operation context
type Error struct {
	// Operation name that failed (Login, Logout, Exec)
	Operation string

	// Kind classifies the failure
	Kind ErrorKind

	// StatusCode is the HTTP status that caused the failure, if any
	StatusCode int

	// Human-readable error message
	Message string

	// InternalMsg contains detailed error information for internal logging
	InternalMsg string

	// Number of re-authentication retries made before giving up
	Retries int

	// Err is the underlying cause, if any
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("unifi: %s failed: %s", e.Operation, e.Message)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status: %d)", e.StatusCode)
	}
	if e.Retries > 0 {
		msg += fmt.Sprintf(" (retries: %d)", e.Retries)
	}
	return msg
}

// DetailedError returns the full error message including internal details
//
// This should only be used in secure logging contexts where sensitive information
// disclosure is acceptable (e.g., server-side logs, debug output).
func (e *Error) DetailedError() string {
	if e.InternalMsg == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s (internal: %s)", e.Error(), e.InternalMsg)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching this error's kind
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the ErrorKind of err, or ErrorKindUnknown if err is not an *Error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindUnknown
}
