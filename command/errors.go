package command

import (
	"fmt"

	"github.com/pingcap/errors"
)

// ErrUnbound is returned by Send once the registry has been cleared
var ErrUnbound = errors.New("command: registry is not bound to a session")

// DuplicateRegistrationError is returned when a command name is registered
// twice on one registry
type DuplicateRegistrationError struct {
	Name string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("command: %q already registered", e.Name)
}

// DecodeError reports a payload that could not be decoded. It is handed to
// the error reporter and never returned from Dispatch.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("command: decode %q: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
