package utils

import (
	"errors"
	"flag"
)

var ErrNoProgram = errors.New("no program given")

// ProgramPath returns the path of the program to translate, which is the
// first non-flag argument.
func ProgramPath() (string, error) {
	args := flag.Args()
	if len(args) == 0 {
		return "", ErrNoProgram
	}
	return args[0], nil
}
