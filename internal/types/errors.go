package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for planner errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Preference validation error codes
const (
	DEST_EMPTY              ErrorCode = "DEST_EMPTY"
	DEST_NOT_RECOGNIZED     ErrorCode = "DEST_NOT_RECOGNIZED"
	DATES_INCOMPLETE        ErrorCode = "DATES_INCOMPLETE"
	DATES_INVERTED          ErrorCode = "DATES_INVERTED"
	DEMOGRAPHICS_MISSING    ErrorCode = "DEMOGRAPHICS_MISSING"
	FIXED_PLAN_OUT_OF_RANGE ErrorCode = "FIXED_PLAN_OUT_OF_RANGE"
	DRAFT_FROZEN            ErrorCode = "DRAFT_FROZEN"
)

// Wizard error codes
const (
	WIZARD_INVALID_TRANSITION ErrorCode = "WIZARD_INVALID_TRANSITION"
	GENERATION_FAILED         ErrorCode = "GENERATION_FAILED"
	SLOT_NOT_FOUND            ErrorCode = "SLOT_NOT_FOUND"
)

// Session and store error codes
const (
	SESSION_NOT_FOUND  ErrorCode = "SESSION_NOT_FOUND"
	STORE_OPEN_FAILED  ErrorCode = "STORE_OPEN_FAILED"
	STORE_QUERY_FAILED ErrorCode = "STORE_QUERY_FAILED"
)

// Payment error codes
const (
	PAYMENT_CHECKOUT_FAILED     ErrorCode = "PAYMENT_CHECKOUT_FAILED"
	PAYMENT_VERIFICATION_FAILED ErrorCode = "PAYMENT_VERIFICATION_FAILED"
)

// PlannerError represents a structured error with error code, message, and
// optional cause. It supports error wrapping via Unwrap and comparison by
// code via Is.
type PlannerError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *PlannerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *PlannerError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *PlannerError) Is(target error) bool {
	var plannerErr *PlannerError
	if errors.As(target, &plannerErr) {
		return e.Code == plannerErr.Code
	}
	return false
}

// NewError creates a new PlannerError with the given code and message.
func NewError(code ErrorCode, message string) *PlannerError {
	return &PlannerError{
		Code:    code,
		Message: message,
	}
}

// NewErrorf creates a new PlannerError with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *PlannerError {
	return &PlannerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError creates a new PlannerError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *PlannerError {
	return &PlannerError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the error code of err if it is a PlannerError, or an
// empty code otherwise.
func CodeOf(err error) ErrorCode {
	var plannerErr *PlannerError
	if errors.As(err, &plannerErr) {
		return plannerErr.Code
	}
	return ""
}
