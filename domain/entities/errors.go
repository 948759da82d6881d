package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection marks transport-level failures (unreachable host, auth failure, broken session).
	ErrConnection = errors.New("connection error")
	// ErrInvalidParser is returned when a parse mode is not recognized.
	ErrInvalidParser = errors.New("invalid parser")
	// ErrMissingArgument is returned when a getter requiring an identifier gets none.
	ErrMissingArgument = errors.New("missing argument")
	// ErrEmptyCommand is returned when an empty command is submitted for execution.
	ErrEmptyCommand = fmt.Errorf("%w: command is empty", ErrMissingArgument)
	// ErrNotFound is returned when a key path is absent from a structured result.
	ErrNotFound = errors.New("not found")
	// ErrUnexpectedPrompt is returned when the CLI prompt ends neither in '#' nor in '>'.
	ErrUnexpectedPrompt = errors.New("unexpected prompt format")
	// ErrUnreachable is returned when a device fails its reachability probe.
	ErrUnreachable = errors.New("device unreachable")
)

// ExecError wraps any failure that happened while turning command output into a structured result.
type ExecError struct {
	Command string
	Mode    ParseMode
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("executing %q (parser %s): %v", e.Command, e.Mode, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
