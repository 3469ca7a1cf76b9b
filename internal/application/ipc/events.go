package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/flurx/internal/application/fanout"
	"github.com/bnema/flurx/internal/domain/world"
)

// IpcEvent is a decoded page event.
type IpcEvent[P any] struct {
	Webview world.Entity
	Payload P
}

type eventRoute struct {
	decode func(webview world.Entity, payload string) error
	reset  func()
	stream any
}

// EventBus maps event ids to typed streams. It is main-thread only.
type EventBus struct {
	routes map[string]*eventRoute
	order  []string
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{routes: make(map[string]*eventRoute)}
}

// RegisterEvent declares that eventID carries payloads of type P and
// returns the stream they are published on. The first registration for an
// id decides its payload type; a later registration with the same type
// returns the same stream.
func RegisterEvent[P any](bus *EventBus, eventID string) *fanout.Stream[IpcEvent[P]] {
	if route, ok := bus.routes[eventID]; ok {
		if s, ok := route.stream.(*fanout.Stream[IpcEvent[P]]); ok {
			return s
		}
		return &fanout.Stream[IpcEvent[P]]{}
	}

	s := &fanout.Stream[IpcEvent[P]]{}
	bus.routes[eventID] = &eventRoute{
		stream: s,
		reset:  s.Reset,
		decode: func(webview world.Entity, payload string) error {
			var p P
			if payload == "" {
				payload = "null"
			}
			if err := json.Unmarshal([]byte(payload), &p); err != nil {
				return fmt.Errorf("decode %s payload: %w", eventID, err)
			}
			s.Publish(IpcEvent[P]{Webview: webview, Payload: p})
			return nil
		},
	}
	bus.order = append(bus.order, eventID)
	return s
}

// Events returns the stream for eventID. It is empty when the id was never
// registered with payload type P.
func Events[P any](bus *EventBus, eventID string) *fanout.Stream[IpcEvent[P]] {
	if route, ok := bus.routes[eventID]; ok {
		if s, ok := route.stream.(*fanout.Stream[IpcEvent[P]]); ok {
			return s
		}
	}
	return &fanout.Stream[IpcEvent[P]]{}
}

// Registered reports whether eventID has a decoder.
func (b *EventBus) Registered(eventID string) bool {
	_, ok := b.routes[eventID]
	return ok
}

func (b *EventBus) publish(webview world.Entity, ev *Event) (known bool, err error) {
	route, ok := b.routes[ev.EventID]
	if !ok {
		return false, nil
	}
	return true, route.decode(webview, ev.Payload)
}

func (b *EventBus) resetAll() {
	for _, id := range b.order {
		b.routes[id].reset()
	}
}
