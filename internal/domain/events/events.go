package events

import (
	"context"
	"sync"
	"time"
)

// Name identifies a live update event on the wire.
type Name string

const (
	GenerationUpdate Name = "generation_update"
	GridCellUpdate   Name = "grid_cell_update"
)

// Event is a fire-and-forget notification for connected observers.
type Event struct {
	Name Name      `json:"event"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

// New stamps an event with the current time.
func New(name Name, data any) Event {
	return Event{Name: name, Data: data, At: time.Now().UTC()}
}

// Publisher delivers events to observers. Implementations must not block the
// caller and must swallow delivery failures.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// Recorder keeps published events in memory; handy in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

// All returns a copy of every recorded event.
func (r *Recorder) All() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Named returns the recorded events with the given name.
func (r *Recorder) Named(name Name) []Event {
	var out []Event
	for _, evt := range r.All() {
		if evt.Name == name {
			out = append(out, evt)
		}
	}
	return out
}
