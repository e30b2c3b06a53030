// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Ingestion errors.
	ErrNoDecodableEncoding = errors.New("no decodable encoding found")
	ErrNoTransactions      = errors.New("no transactions found in statement")
	ErrUnsupportedFormat   = errors.New("unsupported statement format")

	// Model errors.
	ErrModelNotTrained     = errors.New("model not trained")
	ErrModelAlreadyTrained = errors.New("model already trained")
	ErrEmptyLedger         = errors.New("ledger is empty")

	// Storage errors.
	ErrNotFound = errors.New("not found")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsIngestionFailure reports whether the error is one of the closed ingestion
// failure kinds, as opposed to a programmer error.
func IsIngestionFailure(err error) bool {
	return errors.Is(err, ErrNoDecodableEncoding) ||
		errors.Is(err, ErrNoTransactions) ||
		errors.Is(err, ErrUnsupportedFormat)
}
