package vsprojm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/n2code/vsprojm/internal/fault"
	"github.com/n2code/vsprojm/internal/project"
)

type CommandError struct {
	message string
	cause   error
}

func (e *CommandError) Error() string {
	var msg strings.Builder
	fmt.Fprint(&msg, e.message)
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *CommandError) Unwrap() error {
	return e.cause
}

func newCommandError(message string, cause error) *CommandError {
	return &CommandError{message: message, cause: cause}
}

// error kinds, test with errors.Is
var (
	ErrInvalidPath   = fault.ErrInvalidPath
	ErrParse         = fault.ErrParse
	ErrNotFound      = fault.ErrNotFound
	ErrAlreadyExists = fault.ErrAlreadyExists
	ErrIoFailure     = fault.ErrIoFailure
	ErrProjectLocked = project.ErrLocked
)

// ErrCancelled signals that the user declined or aborted a confirmation. Nothing was changed.
var ErrCancelled = errors.New("cancelled by user")
