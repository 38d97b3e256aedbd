package ragchat

// EventType is the wire discriminator carried in the event_type field.
type EventType string

const (
	EventTypeContent    EventType = "content"
	EventTypeTokenUsage EventType = "token_usage"
	EventTypeReferences EventType = "references"
	EventTypeDone       EventType = "done"
	EventTypeError      EventType = "error"
)

// Terminal reports whether an event of this type ends the stream.
func (t EventType) Terminal() bool {
	return t == EventTypeDone || t == EventTypeError
}

// Event is a sealed interface representing one decoded stream event.
// Transport failures come from Stream.Next's error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
	Type() EventType
}

// EventContent is an incremental text fragment. Fragments are appended.
type EventContent struct {
	Text string
}

func (EventContent) event() {}

// Type returns EventTypeContent.
func (EventContent) Type() EventType { return EventTypeContent }

// EventTokenUsage is a token accounting snapshot. The latest one wins.
type EventTokenUsage struct {
	Usage TokenUsage
}

func (EventTokenUsage) event() {}

// Type returns EventTypeTokenUsage.
func (EventTokenUsage) Type() EventType { return EventTypeTokenUsage }

// EventReferences is the set of retrieved source documents. The latest one wins.
type EventReferences struct {
	References []ReferenceDocument
}

func (EventReferences) event() {}

// Type returns EventTypeReferences.
func (EventReferences) Type() EventType { return EventTypeReferences }

// EventDone terminates the stream successfully.
type EventDone struct{}

func (EventDone) event() {}

// Type returns EventTypeDone.
func (EventDone) Type() EventType { return EventTypeDone }

// EventError terminates the stream with a backend-reported failure.
type EventError struct {
	Message string
}

func (EventError) event() {}

// Type returns EventTypeError.
func (EventError) Type() EventType { return EventTypeError }

// Interface compliance checks.
var (
	_ Event = EventContent{}
	_ Event = EventTokenUsage{}
	_ Event = EventReferences{}
	_ Event = EventDone{}
	_ Event = EventError{}
)
