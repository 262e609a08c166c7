package eventbus

import (
	"errors"
	"strings"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrEventNotFound       = errors.New("event not found")
	ErrMissingCallback     = errors.New("subscription has no callback")
	ErrDuplicateIdentifier = errors.New("duplicate event identifier")
	ErrInvalidEventType    = errors.New("invalid event type")
	ErrTypeMismatch        = errors.New("event type mismatch")
	ErrCallbackPanic       = errors.New("subscription callback panicked")
	ErrNotInitialized      = errors.New("event bus is not initialized")
)

// Op names the bus operation that produced a [DispatchError].
type Op string

const (
	OpRaise      Op = "raise"
	OpRegister   Op = "register"
	OpDeregister Op = "deregister"
	OpDecode     Op = "decode"
	OpLookup     Op = "lookup"
)

// DispatchError describes a problem routing an event or a subscription at runtime.
// These are reported to the bus' [Reporter] rather than returned to the code raising the event.
type DispatchError struct {
	Op           Op
	EventID      string // EventID is the identifier of the event type involved, if known.
	Subscription string // Subscription is the label of the subscription involved, if any.
	Err          error
}

func (e *DispatchError) Error() string {
	var buf strings.Builder
	buf.WriteString(string(e.Op))
	if len(e.EventID) > 0 {
		buf.WriteString(" ")
		buf.WriteString(e.EventID)
	}
	if len(e.Subscription) > 0 {
		buf.WriteString(" (subscription ")
		buf.WriteString(e.Subscription)
		buf.WriteString(")")
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
