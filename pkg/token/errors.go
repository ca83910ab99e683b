package token

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these, so callers can
// use errors.Is to classify a failure.
var (
	ErrUnclosedComment = errors.New("unclosed comment")
	ErrUnclosedQuote   = errors.New("unclosed quote")
	ErrUnclosedParen   = errors.New("unclosed parenthesis")
	ErrUnexpectedEOF   = errors.New("unexpected end of file")
	ErrStrayCharacter  = errors.New("stray character")

	ErrExpectedName    = errors.New("expected name")
	ErrExpectedInteger = errors.New("expected integer")
	ErrExpectedString  = errors.New("expected string literal")
	ErrExpectedToken   = errors.New("expected token")

	ErrDuplicateTable      = errors.New("duplicate table")
	ErrDuplicatePrimaryKey = errors.New("duplicate primary key")
	ErrDuplicateColumn     = errors.New("duplicate column")
	ErrNotFound            = errors.New("not found")
)

// Error is a failure anchored to a source location.
type Error struct {
	Loc     Location
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Errorf builds a positioned error of the given kind.
func Errorf(loc Location, kind error, format string, args ...any) *Error {
	return &Error{
		Loc:     loc,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
