package regions

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a poll outcome.
type EventKind string

const (
	EventSnapshotReplaced EventKind = "snapshot_replaced"
	EventFetchFailed      EventKind = "fetch_failed"
	EventDecodeFailed     EventKind = "decode_failed"
	EventStaleDiscarded   EventKind = "stale_discarded"
)

// Event describes one fetch cycle.
type Event struct {
	Kind       EventKind
	CycleID    uuid.UUID // Unique per fetch
	Generation uint64
	Regions    int // Regions in the served snapshot after this event
	Duration   time.Duration
	Err        error
}

// EventHandler receives poll outcomes. Handlers run on the fetching
// goroutine and must not block.
type EventHandler interface {
	HandleEvent(Event)
}

// EventHandlerFunc is a function adapter for EventHandler.
type EventHandlerFunc func(Event)

func (f EventHandlerFunc) HandleEvent(e Event) {
	f(e)
}

// MultiHandler fans an event out to several handlers in order.
type MultiHandler []EventHandler

func (m MultiHandler) HandleEvent(e Event) {
	for _, h := range m {
		if h != nil {
			h.HandleEvent(e)
		}
	}
}
