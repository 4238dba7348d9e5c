package translator

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/petrify/utils"
)

var (
	// ErrUnsupported is wrapped by every error caused by a construct of the
	// input program that the translation does not model.
	ErrUnsupported = errors.New("unsupported construct")
	// ErrRecursion is returned when a function is entered while it is already on the call stack,
	// or when a thread runs the body of the entry function or of a thread that spawned it.
	ErrRecursion = fmt.Errorf("%w: recursion", ErrUnsupported)

	// ErrInternal classifies defects of the translator itself.
	ErrInternal = utils.ErrInternal
)

// InternalError is the panic payload of translator defects. Translate
// recovers it and returns it as an error.
type InternalError = utils.InternalError
