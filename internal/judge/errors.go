package judge

import (
	"encoding/json"
	"fmt"
)

// ErrUnavailable indicates the judging service could not be reached or
// refused the request.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("judging service unavailable: %v", e.Err)
	}
	return "judging service unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrInvalidVerdict indicates the service responded with content that does
// not conform to the verdict schema.
type ErrInvalidVerdict struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidVerdict) Error() string {
	return fmt.Sprintf("invalid verdict: %v", e.Err)
}

func (e *ErrInvalidVerdict) Unwrap() error { return e.Err }
