package codec

import (
	"errors"
	"fmt"
)

// ErrCodec is matched by every decoding failure. Callers drop the message
// and keep the receive loop running.
var ErrCodec = errors.New("codec error")

// Error describes why a buffer could not be decoded.
type Error struct {
	Cause  error
	Op     string
	Reason string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("codec: %s: %s: %v", e.Op, e.Reason, e.Cause)
	}
	return fmt.Sprintf("codec: %s: %s", e.Op, e.Reason)
}

// Is makes errors.Is(err, ErrCodec) true for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrCodec
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(op, reason string, cause error) error {
	return &Error{Op: op, Reason: reason, Cause: cause}
}
