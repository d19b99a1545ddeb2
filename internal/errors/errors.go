// Package errors is the error surface for the domain layer. Sentinels come
// from the standard library so they stay cheap comparable values; wrapping
// goes through pkg/errors so causes keep a stack trace.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

// New returns a sentinel error with the given text.
func New(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Wrap annotates err with a message and a stack trace.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message and a stack trace.
func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}
