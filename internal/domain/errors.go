package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies every failure this layer can surface.
type ErrorCode string

const (
	// ErrorCodePreconditionFailed means the local payment state does not
	// permit the requested operation. Caller bug; never retried.
	ErrorCodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"

	// ErrorCodeInvalidRequest means the request parameters are invalid
	// (e.g. refund exceeds the remaining balance). User-correctable.
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrorCodeHardDecline means the gateway permanently rejected the
	// operation. Never retried; may invalidate the stored payment method.
	ErrorCodeHardDecline ErrorCode = "HARD_DECLINE"

	// ErrorCodeSoftValidation means the gateway rejected with a reason the
	// end user can fix. The gateway message text is surfaced verbatim.
	ErrorCodeSoftValidation ErrorCode = "SOFT_VALIDATION"

	// ErrorCodeStaleReference means a remote customer or payment profile id
	// is no longer known to the gateway and the local mapping needs repair.
	ErrorCodeStaleReference ErrorCode = "STALE_REFERENCE"

	// ErrorCodeInfrastructure covers transport failures, timeouts, and
	// malformed gateway payloads. Safe to retry with backoff at the
	// caller's discretion.
	ErrorCodeInfrastructure ErrorCode = "INFRASTRUCTURE"

	// ErrorCodeNotFound means a referenced local record does not exist.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
)

// DomainError is the structured error type for the payment layer. The
// gateway's original message code and text are preserved for diagnostics.
type DomainError struct {
	Code           ErrorCode
	Message        string
	GatewayCode    string
	GatewayMessage string
	Err            error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.GatewayCode != "" || e.GatewayMessage != "" {
		msg += fmt.Sprintf(" (gateway %s: %s)", e.GatewayCode, e.GatewayMessage)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithGateway attaches the gateway's original message code and text.
func (e *DomainError) WithGateway(code, message string) *DomainError {
	e.GatewayCode = code
	e.GatewayMessage = message
	return e
}

// NewPreconditionError reports an operation attempted in an invalid local state.
func NewPreconditionError(format string, args ...any) *DomainError {
	return &DomainError{Code: ErrorCodePreconditionFailed, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidRequestError reports user-correctable invalid request parameters.
func NewInvalidRequestError(format string, args ...any) *DomainError {
	return &DomainError{Code: ErrorCodeInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// NewHardDeclineError reports a permanent gateway rejection.
func NewHardDeclineError(format string, args ...any) *DomainError {
	return &DomainError{Code: ErrorCodeHardDecline, Message: fmt.Sprintf(format, args...)}
}

// NewSoftValidationError reports a gateway rejection the end user can fix.
func NewSoftValidationError(message string) *DomainError {
	return &DomainError{Code: ErrorCodeSoftValidation, Message: message}
}

// NewStaleReferenceError reports a remote id the gateway no longer recognizes.
func NewStaleReferenceError(message string) *DomainError {
	return &DomainError{Code: ErrorCodeStaleReference, Message: message}
}

// NewInfrastructureError wraps a transport-level failure.
func NewInfrastructureError(message string, err error) *DomainError {
	return &DomainError{Code: ErrorCodeInfrastructure, Message: message, Err: err}
}

// NewNotFoundError reports a missing local record.
func NewNotFoundError(format string, args ...any) *DomainError {
	return &DomainError{Code: ErrorCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// GetErrorCode extracts the error code, or "" if err is not a DomainError.
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsPreconditionError checks for an invalid-local-state failure.
func IsPreconditionError(err error) bool {
	return GetErrorCode(err) == ErrorCodePreconditionFailed
}

// IsInvalidRequestError checks for user-correctable invalid parameters.
func IsInvalidRequestError(err error) bool {
	return GetErrorCode(err) == ErrorCodeInvalidRequest
}

// IsHardDeclineError checks for a permanent gateway rejection.
func IsHardDeclineError(err error) bool {
	return GetErrorCode(err) == ErrorCodeHardDecline
}

// IsSoftValidationError checks for a user-fixable gateway rejection.
func IsSoftValidationError(err error) bool {
	return GetErrorCode(err) == ErrorCodeSoftValidation
}

// IsStaleReferenceError checks for an unknown-remote-id failure.
func IsStaleReferenceError(err error) bool {
	return GetErrorCode(err) == ErrorCodeStaleReference
}

// IsInfrastructureError checks for a transport-level failure.
func IsInfrastructureError(err error) bool {
	return GetErrorCode(err) == ErrorCodeInfrastructure
}

// IsNotFoundError checks for a missing local record.
func IsNotFoundError(err error) bool {
	return GetErrorCode(err) == ErrorCodeNotFound
}
