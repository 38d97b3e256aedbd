package ragchat

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrTransport indicates the backend rejected or could not serve a request.
	ErrTransport = errors.New("transport error")

	// ErrDecode indicates a single stream record could not be decoded.
	// The stream controller absorbs it and skips the record.
	ErrDecode = errors.New("decode error")

	// ErrApplication indicates the backend reported a failure through an
	// error event on the stream.
	ErrApplication = errors.New("application error")

	// ErrUnknownEvent indicates an Event variant the aggregator does not handle.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrMessageFinalized indicates an event arrived after the message was
	// terminated by a done or error event.
	ErrMessageFinalized = errors.New("message finalized")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrSessionBusy indicates a send was started while the session already
	// has an open assistant message.
	ErrSessionBusy = errors.New("session is streaming")

	// ErrSessionNotFound indicates the backend has no session with the given ID.
	ErrSessionNotFound = errors.New("session not found")
)

// TransportError is returned when the backend answers with a non-success
// status or a response without a readable body. No event has been produced
// when it is returned.
type TransportError struct {
	StatusCode int    // 0 when the failure is not status related
	Detail     string // backend "detail" field or raw body
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport: %s", e.Detail)
	}
	if e.Detail == "" {
		return fmt.Sprintf("transport: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("transport: HTTP %d: %s", e.StatusCode, e.Detail)
}

// Unwrap maps 404 to ErrSessionNotFound and everything else to ErrTransport.
func (e *TransportError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrSessionNotFound
	}
	return ErrTransport
}

// ApplicationError carries the message of an error event. Content, usage and
// references applied before it stay on the message.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("backend: %s", e.Message)
}

// Unwrap returns ErrApplication.
func (e *ApplicationError) Unwrap() error {
	return ErrApplication
}
