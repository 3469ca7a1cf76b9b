// Package ipc carries commands and events between webview pages and the host.
//
// Pages post JSON envelopes through window.ipc.postMessage. Commands are
// dispatched to registered handlers and answered through __resolveIpc;
// events are decoded into typed per-tick streams.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageKind tags the two envelope variants.
type MessageKind string

const (
	KindCommand MessageKind = "Command"
	KindEvent   MessageKind = "Event"
)

var errMalformed = errors.New("malformed ipc message")

// Command is a correlated request. Args is the JSON-encoded argument value,
// or nil when the page passed none.
type Command struct {
	ID        string  `json:"id"`
	Args      *string `json:"args"`
	ResolveID uint64  `json:"resolve_id"`
}

// Event is a one-way notification. Payload is JSON text.
type Event struct {
	EventID string `json:"event_id"`
	Payload string `json:"payload"`
}

// Message is a decoded envelope. Exactly one of Command and Event is set.
type Message struct {
	Kind    MessageKind
	Command *Command
	Event   *Event
}

type envelope struct {
	Type    MessageKind     `json:"type"`
	Message json.RawMessage `json:"message"`
}

// ParseMessage decodes a raw postMessage body.
func ParseMessage(raw string) (Message, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return Message{}, fmt.Errorf("%w: %w", errMalformed, err)
	}
	if len(env.Message) == 0 {
		return Message{}, fmt.Errorf("%w: missing message body", errMalformed)
	}

	switch env.Type {
	case KindCommand:
		var cmd Command
		if err := json.Unmarshal(env.Message, &cmd); err != nil {
			return Message{}, fmt.Errorf("%w: command: %w", errMalformed, err)
		}
		if cmd.ID == "" {
			return Message{}, fmt.Errorf("%w: command without id", errMalformed)
		}
		return Message{Kind: KindCommand, Command: &cmd}, nil
	case KindEvent:
		var ev Event
		if err := json.Unmarshal(env.Message, &ev); err != nil {
			return Message{}, fmt.Errorf("%w: event: %w", errMalformed, err)
		}
		if ev.EventID == "" {
			return Message{}, fmt.Errorf("%w: event without id", errMalformed)
		}
		return Message{Kind: KindEvent, Event: &ev}, nil
	default:
		return Message{}, fmt.Errorf("%w: unknown type %q", errMalformed, env.Type)
	}
}
