package errors

import (
	"errors"
	"fmt"
)

// Domain error kinds for the bank accounts service.
var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountAlreadyExists   = errors.New("account already exists")
	ErrClientNotFound         = errors.New("client not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrSameAccount            = errors.New("source and target accounts cannot be the same")
	ErrMonthlyLimitExceeded   = errors.New("exceeded number of transactions allowed per month for fixed-term account")
	ErrUnsupportedAccountType = errors.New("unsupported account type")
	ErrDirectoryUnavailable   = errors.New("client directory unavailable")

	// ErrTxCommit marks a failed transaction commit. The outcome on the
	// server is ambiguous, so callers treat it as possibly applied.
	ErrTxCommit = errors.New("failed to commit transaction")
)

// OnlyOneAccountPerTypeError rejects a second account of the same type for a
// personal client.
type OnlyOneAccountPerTypeError struct {
	AccountType string
}

func (e *OnlyOneAccountPerTypeError) Error() string {
	return fmt.Sprintf("you can only have one %s account", e.AccountType)
}

// ClientTypeNotAllowedError rejects an account type the client category may
// not open, e.g. a business client requesting a fixed-term account.
type ClientTypeNotAllowedError struct {
	ClientType  string
	AccountType string
}

func (e *ClientTypeNotAllowedError) Error() string {
	return fmt.Sprintf("%s type customer cannot create %s account", e.ClientType, e.AccountType)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConfigurationError signals invalid strategy wiring detected at startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// TransferError wraps a failure inside a multi-step transfer. Stage names the
// step that failed. Committed reports whether any write may have reached the
// store, distinguishing partial application from a clean rollback.
type TransferError struct {
	Stage     string
	Committed bool
	Cause     error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed during '%s': %v", e.Stage, e.Cause)
}

func (e *TransferError) Unwrap() error {
	return e.Cause
}

func NewTransferError(stage string, cause error) error {
	return &TransferError{Stage: stage, Cause: cause}
}

// Is and As re-export the standard library helpers so callers need a single
// errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrClientNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAccountAlreadyExists)
}

func IsDependencyUnavailable(err error) bool {
	return errors.Is(err, ErrDirectoryUnavailable)
}

// IsValidation reports whether err is a domain rule violation the caller can
// correct, as opposed to an infrastructure failure.
func IsValidation(err error) bool {
	var (
		validationErr *ValidationError
		onePerType    *OnlyOneAccountPerTypeError
		notAllowed    *ClientTypeNotAllowedError
	)
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrMonthlyLimitExceeded) ||
		errors.Is(err, ErrSameAccount) ||
		errors.As(err, &validationErr) ||
		errors.As(err, &onePerType) ||
		errors.As(err, &notAllowed)
}

// IsPartialFailure reports whether a transfer may have left partially applied
// state behind, so operators can reconcile instead of retrying blindly.
func IsPartialFailure(err error) bool {
	var transferErr *TransferError
	return errors.As(err, &transferErr) && transferErr.Committed
}
