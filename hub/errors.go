package hub

import "errors"

var (
	// ErrInvalidState rejects mutating events from connections that have
	// not joined a user room yet.
	ErrInvalidState = errors.New("connection has not joined a user room")

	// ErrMalformedPayload rejects events missing a required field. The
	// event is dropped whole: no mutation, no broadcast.
	ErrMalformedPayload = errors.New("malformed event payload")

	// ErrUnknownEvent rejects event names outside the protocol.
	ErrUnknownEvent = errors.New("unknown event")
)
