// Package emitter sends host events to page listeners registered with
// window.__FLURX__.listen.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/application/port"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/infrastructure/script"
	"github.com/bnema/flurx/internal/logging"
)

// Handles finds native handles by webview.
type Handles interface {
	Get(id world.Entity) (port.NativeHandle, bool)
}

type outgoing struct {
	eventID string
	payload string
}

// EventEmitter buffers events per webview until the next Flush. Emit is
// safe for concurrent use.
type EventEmitter struct {
	mu      sync.Mutex
	buffers map[world.Entity][]outgoing
	order   []world.Entity
	logger  zerolog.Logger
}

// New returns an empty emitter.
func New(ctx context.Context) *EventEmitter {
	log := logging.FromContext(ctx)
	return &EventEmitter{
		buffers: make(map[world.Entity][]outgoing),
		logger:  log.With().Str("component", "emitter").Logger(),
	}
}

// Emit queues payload for delivery to webview's eventID listeners.
func Emit[P any](e *EventEmitter, webview world.Entity, eventID string, payload P) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.buffers[webview]; !ok {
		e.order = append(e.order, webview)
	}
	e.buffers[webview] = append(e.buffers[webview], outgoing{eventID: eventID, payload: string(data)})
	return nil
}

// Pending returns the number of buffered events.
func (e *EventEmitter) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, buf := range e.buffers {
		n += len(buf)
	}
	return n
}

// Flush delivers every buffered event in emit order per webview. Events
// for webviews without a handle or identifier are dropped.
func (e *EventEmitter) Flush(ctx context.Context, w *world.World, handles Handles) {
	e.mu.Lock()
	buffers, order := e.buffers, e.order
	e.buffers = make(map[world.Entity][]outgoing)
	e.order = nil
	e.mu.Unlock()

	for _, webview := range order {
		h, ok := handles.Get(webview)
		if !ok {
			continue
		}
		name, ok := world.Get[entity.Identifier](w, webview)
		if !ok {
			continue
		}
		for _, ev := range buffers[webview] {
			if err := h.EvaluateScript(ctx, script.EmitEvent(string(name), ev.eventID, ev.payload)); err != nil {
				e.logger.Error().Err(err).Uint64("webview", uint64(webview)).Str("event_id", ev.eventID).Msg("failed to emit event")
			}
		}
	}
}
