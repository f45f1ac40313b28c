// Package errors provides structured error types for meshview.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP service and the engine
//   - Machine-readable error codes for programmatic handling
//   - Enough context (core id, direction, configuration key) to display a failure
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - CONNECTION_LOOKUP, TOPOLOGY_MISMATCH, CONFIGURATION_SHAPE: render engine failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Engine Errors
//
// The render engine reports three typed failures:
//
//   - [ConnectionLookupError]: the engine asked its connection index for a
//     (core, direction, role) that was never registered. This is an engine
//     inconsistency, not bad input.
//   - [TopologyMismatchError]: live topology data references something the
//     geometry never built (a channel, a task, a source load).
//   - [ConfigurationShapeError]: a configuration slot received a variant it
//     cannot hold.
//
// None of them is fatal. [Is] and [GetCode] understand both [Error] and the
// typed engine errors:
//
//	if errors.Is(err, errors.ErrCodeTopologyMismatch) {
//	    // report the offending core to the user
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidTopology Code = "INVALID_TOPOLOGY"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Render engine errors
	ErrCodeConnectionLookup   Code = "CONNECTION_LOOKUP"
	ErrCodeTopologyMismatch   Code = "TOPOLOGY_MISMATCH"
	ErrCodeConfigurationShape Code = "CONFIGURATION_SHAPE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coded is implemented by the typed engine errors.
type coded interface {
	error
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed engine error
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ConnectionLookupError reports a miss in the connection index.
type ConnectionLookupError struct {
	CoreID    int
	Direction string
	Role      string
}

func (e *ConnectionLookupError) Error() string {
	return fmt.Sprintf("%s: no %s connection registered for core %d towards %s",
		ErrCodeConnectionLookup, e.Role, e.CoreID, e.Direction)
}

// ErrorCode returns ErrCodeConnectionLookup.
func (e *ConnectionLookupError) ErrorCode() Code { return ErrCodeConnectionLookup }

// TopologyMismatchError reports topology data that references an element the
// geometry never built. Subject names the missing element ("channel",
// "task", "source").
type TopologyMismatchError struct {
	CoreID    int    // -1 when the subject is not tied to a core
	Direction string // empty when the subject is not directional
	Subject   string
	Detail    string
}

func (e *TopologyMismatchError) Error() string {
	msg := string(ErrCodeTopologyMismatch)
	if e.CoreID >= 0 {
		msg += fmt.Sprintf(": core %d", e.CoreID)
		if e.Direction != "" {
			msg += " " + e.Direction
		}
	}
	msg += ": unknown " + e.Subject
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// ErrorCode returns ErrCodeTopologyMismatch.
func (e *TopologyMismatchError) ErrorCode() Code { return ErrCodeTopologyMismatch }

// ConfigurationShapeError reports a configuration slot holding a variant it
// cannot accept.
type ConfigurationShapeError struct {
	Section string // "core", "router" or "channel"
	Key     string
	Want    string
	Got     string
}

func (e *ConfigurationShapeError) Error() string {
	return fmt.Sprintf("%s: %s.%s must be %s, got %s",
		ErrCodeConfigurationShape, e.Section, e.Key, e.Want, e.Got)
}

// ErrorCode returns ErrCodeConfigurationShape.
func (e *ConfigurationShapeError) ErrorCode() Code { return ErrCodeConfigurationShape }
