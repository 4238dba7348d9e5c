package utils

import (
	"errors"
	"fmt"
)

// ErrInternal classifies translator defects. It is never caused by the input program.
var ErrInternal = errors.New("internal invariant violated")

// InternalError is the panic payload used for translator defects.
// It is only recovered at the translation boundary.
type InternalError struct {
	msg string
}

func (e *InternalError) Error() string {
	return ErrInternal.Error() + ": " + e.msg
}

func (e *InternalError) Unwrap() error { return ErrInternal }

// Bug panics with an InternalError carrying the formatted message.
func Bug(format string, a ...interface{}) {
	panic(&InternalError{fmt.Sprintf(format, a...)})
}

// Must panics with an InternalError if err is not nil.
func Must(err error) {
	if err != nil {
		panic(&InternalError{err.Error()})
	}
}
