// Package errors provides error types and handling for aws-butler operations.
package errors

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Error represents a failed operation with context about what was being
// touched when it failed. It wraps the underlying AWS SDK or local error
// so callers can still use errors.Is / errors.As on the chain.
type Error struct {
	// Op is the operation that failed (e.g. "describeParameters", "getLogEvents")
	Op string

	// Group is the log group name (if applicable)
	Group string

	// Name is the log stream or parameter name (if applicable)
	Name string

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Group != "" && e.Name != "" {
		return fmt.Sprintf("butler.%s %s/%s: %v", e.Op, e.Group, e.Name, e.Err)
	}
	if e.Group != "" {
		return fmt.Sprintf("butler.%s group %s: %v", e.Op, e.Group, e.Err)
	}
	if e.Name != "" {
		return fmt.Sprintf("butler.%s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("butler.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithGroup adds log group context to an existing error.
func (e *Error) WithGroup(group string) *Error {
	e.Group = group
	return e
}

// WithName adds stream or parameter name context to an existing error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewGroupError creates a new Error with log group context.
func NewGroupError(op, group string, err error) *Error {
	return &Error{
		Op:    op,
		Group: group,
		Err:   err,
	}
}

// NewNameError creates a new Error with stream or parameter name context.
func NewNameError(op, name string, err error) *Error {
	return &Error{
		Op:   op,
		Name: name,
		Err:  err,
	}
}

// Sentinel errors for common aws-butler failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidName indicates a parameter name violating the SSM name contract
	ErrInvalidName = errors.New("butler: invalid parameter name")

	// ErrMalformedEnvFile indicates an env-file line without a KEY=VALUE shape
	ErrMalformedEnvFile = errors.New("butler: malformed env file line")

	// ErrMissingValue indicates a parameter that resolved without a value
	ErrMissingValue = errors.New("butler: parameter has no value")
)

// IsInvalidName checks if an error indicates a rejected parameter name.
func IsInvalidName(err error) bool {
	return errors.Is(err, ErrInvalidName)
}

// IsMalformedEnvFile checks if an error indicates a bad env-file line.
func IsMalformedEnvFile(err error) bool {
	return errors.Is(err, ErrMalformedEnvFile)
}

// APIErrorCode returns the AWS error code (e.g. "ResourceNotFoundException",
// "AccessDeniedException") when err chains to a smithy API error, or ""
// when it does not. Used for presentation only; callers never branch on it.
func APIErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}
