package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/logging"
)

type phase struct {
	name string
	dur  time.Duration
}

// StartupTimer tracks how long each startup phase takes.
// Thread-safe for use with parallel initialization.
type StartupTimer struct {
	mu     sync.Mutex
	start  time.Time
	last   time.Time
	phases []phase
	now    func() time.Time
}

// NewStartupTimer creates a new timer starting from now.
func NewStartupTimer() *StartupTimer {
	return newStartupTimer(time.Now)
}

func newStartupTimer(now func() time.Time) *StartupTimer {
	t := now()
	return &StartupTimer{start: t, last: t, now: now}
}

// Mark records the duration since the last mark (or start) for the given phase.
func (t *StartupTimer) Mark(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.phases = append(t.phases, phase{name: name, dur: now.Sub(t.last)})
	t.last = now
}

// MarkDuration records a phase timed independently, e.g. in a goroutine.
func (t *StartupTimer) MarkDuration(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, phase{name: name, dur: d})
}

// Phase returns the recorded duration of name.
func (t *StartupTimer) Phase(name string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.phases {
		if p.name == name {
			return p.dur, true
		}
	}
	return 0, false
}

// Total returns the elapsed time since the timer was created.
func (t *StartupTimer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.start)
}

// Log writes every phase at debug level.
func (t *StartupTimer) Log(ctx context.Context) {
	t.log(logging.FromContext(ctx).Debug())
}

func (t *StartupTimer) log(event *zerolog.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event = event.Dur("total", t.now().Sub(t.start))
	for _, p := range t.phases {
		event = event.Dur(p.name, p.dur)
	}
	event.Msg("startup timing")
}
