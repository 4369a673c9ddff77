package errorx

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    Code
	Message string

	// Subject identifies the entity the error is about, e.g. the trainer without pokemons.
	Subject string

	cause error
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// Wrap creates an Error which keeps err as its cause, so errors.Is and errors.As still reach the
// original failure.
func Wrap(err error, code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...), cause: err}
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) Unwrap() error {
	return e.cause
}

func (e Error) WithSubject(subject string) Error {
	e.Subject = subject
	return e
}

// Is reports whether any error in err's chain is an Error with the given code.
func Is(err error, code Code) bool {
	var e Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Code == code
}
