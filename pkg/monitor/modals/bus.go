package modals

import (
	"log/slog"
	"sync"
)

// EventKind identifies one of the four stack events.
type EventKind int

const (
	EventPush EventKind = iota
	EventReplace
	EventPop
	EventUnshift
)

func (k EventKind) String() string {
	switch k {
	case EventPush:
		return "push"
	case EventReplace:
		return "replace"
	case EventPop:
		return "pop"
	case EventUnshift:
		return "unshift"
	default:
		return "unknown"
	}
}

// Event is the payload carried by the bus.
//
// push and replace use Name and Props. pop uses Name (empty means the top
// entry) or, when Key is set, removes the entry with that key. unshift uses
// Name.
type Event struct {
	Name  Name
	Props any
	Key   string
}

// Handler receives bus events.
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	kind EventKind
	id   uint64
}

type subscriber struct {
	id uint64
	fn Handler
}

// Bus is a synchronous publish/subscribe channel for stack events. Emit
// delivers to every handler of the kind, in registration order, on the
// calling goroutine before returning.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[EventKind][]subscriber
	logger   *slog.Logger
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventKind][]subscriber),
		logger:   slog.Default(),
	}
}

// On registers fn for events of the given kind.
func (b *Bus) On(kind EventKind, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[kind] = append(b.handlers[kind], subscriber{id: b.nextID, fn: fn})
	return Subscription{kind: kind, id: b.nextID}
}

// Off removes a single handler. Unknown subscriptions are ignored.
func (b *Bus) Off(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[sub.kind]
	for i, s := range subs {
		if s.id == sub.id {
			b.handlers[sub.kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Clear removes every handler of every kind.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[EventKind][]subscriber)
}

// HandlerCount returns the number of handlers registered for kind.
func (b *Bus) HandlerCount(kind EventKind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

// Emit delivers ev to the handlers of kind. Handlers registered or removed
// during delivery take effect from the next Emit.
func (b *Bus) Emit(kind EventKind, ev Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.handlers[kind]))
	copy(subs, b.handlers[kind])
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(kind, s, ev)
	}
}

// deliver runs one handler. A panicking handler is logged and does not stop
// delivery to the rest.
func (b *Bus) deliver(kind EventKind, s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("modal bus handler panicked", "event", kind.String(), "name", string(ev.Name), "panic", r)
		}
	}()
	s.fn(ev)
}
