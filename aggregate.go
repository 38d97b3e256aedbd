package ragchat

import (
	"fmt"
	"strings"
)

// unknownErrorMessage is used when an error event carries no message.
const unknownErrorMessage = "Unknown error"

// Apply folds one event into msg in place.
//
//   - EventContent appends its text.
//   - EventTokenUsage and EventReferences replace the field wholesale.
//   - EventDone changes nothing.
//   - EventError changes nothing and returns an *ApplicationError.
func Apply(msg *Message, evt Event) error {
	switch e := evt.(type) {
	case EventContent:
		msg.Content += e.Text
	case EventTokenUsage:
		u := e.Usage
		msg.TokenUsage = &u
	case EventReferences:
		msg.References = e.References
	case EventDone:
	case EventError:
		text := e.Message
		if strings.TrimSpace(text) == "" {
			text = unknownErrorMessage
		}
		return &ApplicationError{Message: text}
	default:
		return fmt.Errorf("%T: %w", evt, ErrUnknownEvent)
	}
	return nil
}

// Aggregator applies the events of one stream to one assistant message and
// freezes the message after the first terminal event.
type Aggregator struct {
	msg       *Message
	finalized bool
}

// NewAggregator returns an Aggregator writing into msg.
func NewAggregator(msg *Message) *Aggregator {
	return &Aggregator{msg: msg}
}

// Apply folds evt into the message. It returns ErrMessageFinalized for any
// event after done or error, and the *ApplicationError of an error event.
func (a *Aggregator) Apply(evt Event) error {
	if a.finalized {
		return fmt.Errorf("%s event: %w", evt.Type(), ErrMessageFinalized)
	}
	if evt.Type().Terminal() {
		a.finalized = true
	}
	return Apply(a.msg, evt)
}

// Finalize freezes the message without a terminal event, e.g. after a
// transport failure or cancellation.
func (a *Aggregator) Finalize() {
	a.finalized = true
}

// Finalized reports whether the message accepts no more events.
func (a *Aggregator) Finalized() bool {
	return a.finalized
}

// Message returns the message being aggregated.
func (a *Aggregator) Message() *Message {
	return a.msg
}
