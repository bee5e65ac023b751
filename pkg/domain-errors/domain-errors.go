package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in verification terms, not HTTP terms.
type Code string

const (
	// Statement validation failures.
	CodeMalformedStatement   Code = "malformed_statement"
	CodeUnsupportedStatement Code = "unsupported_statement"

	// Proof verification failures.
	CodeProofMalformed     Code = "proof_malformed"
	CodeVerificationFailed Code = "verification_failed"

	// Ledger query failures.
	CodeAccountNotFound   Code = "account_not_found"
	CodeLedgerUnreachable Code = "ledger_unreachable"
	CodeLedgerQueryFailed Code = "ledger_query_failed"

	// Ambient codes used at the transport edge.
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal_error"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across all layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the domain code from an error, or CodeInternal when the
// error carries no code. Used when recording rejection reasons.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsRejection reports whether the error belongs to the per-request rejection
// taxonomy. Rejections leave the process healthy; anything else is an
// internal fault.
func IsRejection(err error) bool {
	switch CodeOf(err) {
	case CodeMalformedStatement, CodeUnsupportedStatement,
		CodeProofMalformed, CodeVerificationFailed,
		CodeAccountNotFound, CodeLedgerUnreachable, CodeLedgerQueryFailed,
		CodeBadRequest:
		return true
	}
	return false
}
