// Package errors carries coded errors between the poster pipeline, the web
// server and the CLI.
//
// A code decides how a failure is surfaced: INVALID_* re-renders the form
// with the message, *_NOT_FOUND becomes a 404, ENGINE_* means an external
// converter (soffice, pdftoppm) is missing or broke. An [Error] may carry a
// Hint with a fix the user can apply, such as the package to install.
//
//	err := errors.New(errors.ErrCodeInvalidDate, "end time %s is before start %s", end, start)
//	if errors.IsInvalid(err) {
//	    // show errors.UserMessage(err) next to the form
//	}
//
//	err = errors.Wrap(errors.ErrCodeEngineMissing, lookErr, "pdftoppm not found").
//	    WithHint("install poppler")
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
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidBox      Code = "INVALID_BOX"
	ErrCodeInvalidDate     Code = "INVALID_DATE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Asset errors
	ErrCodeFontLoad  Code = "FONT_LOAD"
	ErrCodeAssetLoad Code = "ASSET_LOAD"

	// External engine errors
	ErrCodeEngineMissing Code = "ENGINE_MISSING"
	ErrCodeEngineFailed  Code = "ENGINE_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Message is shown to users; Cause and Hint are
// optional.
type Error struct {
	Code    Code
	Message string
	Hint    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithHint sets the remedy shown below the message and returns e.
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// as finds the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error, or "" for plain errors.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// Hint returns the first non-empty hint along err's chain.
func Hint(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Hint != "" {
			return e.Hint
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// IsInvalid reports whether err carries one of the INVALID_* codes.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidTemplate,
		ErrCodeInvalidBox, ErrCodeInvalidDate, ErrCodeInvalidPath, ErrCodeInvalidConfig:
		return true
	}
	return false
}

// UserMessage is the message without the code prefix or cause chain. Plain
// errors are returned as their Error string.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}
