package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"jukebox/internal/logging"
)

// Kind identifies an event variant.
type Kind string

const (
	KindEntryAdded        Kind = "entry_added"
	KindEntryRemoved      Kind = "entry_removed"
	KindQueueCleared      Kind = "queue_cleared"
	KindDownloadStarted   Kind = "download_started"
	KindDownloadCompleted Kind = "download_completed"
	KindDownloadFailed    Kind = "download_failed"
)

// Event is implemented by every variant the bus carries.
type Event interface {
	Kind() Kind
}

// EntryAdded fires when an entry is appended to the queue.
type EntryAdded struct {
	EntryID   uuid.UUID
	URL       string
	Title     string
	Position  int
	Requester string
}

// EntryRemoved fires when an entry is popped or dropped from the queue.
type EntryRemoved struct {
	EntryID uuid.UUID
	Title   string
}

// QueueCleared fires when the queue is emptied wholesale.
type QueueCleared struct {
	Count int
}

// DownloadStarted fires when an entry's download actually begins (cache
// misses only).
type DownloadStarted struct {
	EntryID uuid.UUID
	URL     string
}

// DownloadCompleted fires when an entry becomes ready, whether through a real
// download or a cache match.
type DownloadCompleted struct {
	EntryID  uuid.UUID
	Filename string
	Cached   bool
	Elapsed  time.Duration
}

// DownloadFailed fires when an entry's download settles with an error.
type DownloadFailed struct {
	EntryID uuid.UUID
	URL     string
	Title   string
	Err     error
}

func (EntryAdded) Kind() Kind        { return KindEntryAdded }
func (EntryRemoved) Kind() Kind      { return KindEntryRemoved }
func (QueueCleared) Kind() Kind      { return KindQueueCleared }
func (DownloadStarted) Kind() Kind   { return KindDownloadStarted }
func (DownloadCompleted) Kind() Kind { return KindDownloadCompleted }
func (DownloadFailed) Kind() Kind    { return KindDownloadFailed }

// Handler receives published events of the kind it subscribed to.
type Handler func(Event)

// Bus is a process-local publish/subscribe hub.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	logger   *slog.Logger
}

// NewBus constructs an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[Kind][]Handler),
		logger:   logging.WithComponent(logger, "events"),
	}
}

// Subscribe registers a handler for one event kind. Handlers for the same
// kind fire in registration order.
func (b *Bus) Subscribe(kind Kind, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// Publish synchronously invokes every handler registered for the event's
// kind. Handler panics are logged and swallowed.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Kind()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.invoke(event, handler)
	}
}

func (b *Bus) invoke(event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "kind", string(event.Kind()), "panic", r)
		}
	}()
	handler(event)
}
