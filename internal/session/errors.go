package session

import (
	"errors"
	"fmt"
)

// ErrOffline marks a PermissionError caused by the judging service being
// unreachable, so screens can distinguish it from a microphone failure.
var ErrOffline = errors.New("judging service unreachable")

// ValidationError reports caller-supplied input that failed a domain
// check, such as a malformed IC number or an empty name.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PermissionError reports a denied capability, such as recording while
// the judging service is unreachable.
type PermissionError struct {
	Msg string
	Err error
}

func (e *PermissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *PermissionError) Unwrap() error { return e.Err }

// ServiceError wraps a failure from an external collaborator, the
// judging service or the audio recorder.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NotFoundError reports a directory lookup that matched no learner.
type NotFoundError struct {
	IC string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no learner registered with IC %s", e.IC)
}

// TransitionError reports an operation invoked from a state that does
// not permit it. These indicate a wiring bug in the calling screen, not
// a user mistake.
type TransitionError struct {
	Op    string
	State State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s in %s state", e.Op, e.State)
}
