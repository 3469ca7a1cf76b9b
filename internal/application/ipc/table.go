package ipc

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateCommand is returned when a command id is registered twice in
// the same table.
var ErrDuplicateCommand = errors.New("duplicate command")

// CommandTable maps command ids to handlers.
type CommandTable struct {
	handlers map[string]Handler
}

// NewCommandTable builds a table from handlers. Duplicates are rejected.
func NewCommandTable(handlers ...Handler) (*CommandTable, error) {
	t := &CommandTable{handlers: make(map[string]Handler, len(handlers))}
	if err := t.Add(handlers...); err != nil {
		return nil, err
	}
	return t, nil
}

// Add registers handlers.
func (t *CommandTable) Add(handlers ...Handler) error {
	if t.handlers == nil {
		t.handlers = make(map[string]Handler)
	}
	for _, h := range handlers {
		if h.id == "" {
			return errors.New("command id cannot be empty")
		}
		if _, exists := t.handlers[h.id]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, h.id)
		}
		t.handlers[h.id] = h
	}
	return nil
}

// Lookup returns the handler for id.
func (t *CommandTable) Lookup(id string) (Handler, bool) {
	if t == nil {
		return Handler{}, false
	}
	h, ok := t.handlers[id]
	return h, ok
}

// Len returns the number of registered commands.
func (t *CommandTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.handlers)
}

// IDs returns the registered command ids, sorted.
func (t *CommandTable) IDs() []string {
	if t == nil {
		return nil
	}
	ids := make([]string, 0, len(t.handlers))
	for id := range t.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LocalCommands is a per-webview command table, consulted before the
// global one.
type LocalCommands struct {
	Table *CommandTable
}
