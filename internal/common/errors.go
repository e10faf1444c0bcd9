// Package common provides the logging, error, and retry plumbing
// shared across tally's packages.
package common

import "errors"

var (
	// ErrNoDocuments is returned when an import produces nothing to save.
	ErrNoDocuments = errors.New("no documents found")

	// ErrInvalidConfig flags configuration values that fail validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError pairs a short presentable message with the underlying
// cause. Commands return one when the raw error would be unhelpful on
// a terminal; main prints UserMessage and demotes the cause to debug
// logging.
type UserError struct {
	UserMessage string
	Err         error
}

// NewUserError wraps err behind a presentable message.
func NewUserError(message string, err error) error {
	return &UserError{UserMessage: message, Err: err}
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return e.UserMessage + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error { return e.Err }
