package ads131a0x

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAddress = errors.New("register address exceeds 5 bits")
	ErrInvalidCommand = errors.New("invalid system command")
	ErrFrameLength    = errors.New("frame length mismatch")
	ErrInvalidChannel = errors.New("invalid channel")
	ErrInvalidCount   = errors.New("register count out of range")
	ErrInvalidVariant = errors.New("invalid device variant")

	// ErrTransport is matched by every *TransportError.
	ErrTransport = errors.New("transport error")

	// ErrNoAcknowledge is returned when acknowledgement checks are enabled
	// and the device answers a command with an unexpected status word.
	ErrNoAcknowledge = errors.New("device did not acknowledge command")
)

// TransportError wraps a failure of the underlying [SerialInterface].
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// AckError reports the status word that failed an acknowledgement check.
type AckError struct {
	Command string
	Want    uint16
	Got     uint16
}

func (e *AckError) Error() string {
	return fmt.Sprintf("%s: %v: want 0x%04X, got 0x%04X", e.Command, ErrNoAcknowledge, e.Want, e.Got)
}

func (e *AckError) Is(target error) bool {
	return target == ErrNoAcknowledge
}
