package assist

import (
	"sync"

	"github.com/google/uuid"
)

// EventType names one of the cache or run lifecycle events.
type EventType string

// Cache events. cacheInserted, updated, cacheRemoved, and fetched are
// derived from cache mutations; created and deleted are semantic (the
// resource was created or destroyed remotely) and are announced by the
// per-kind operations, not by the cache itself.
const (
	EventCacheInserted EventType = "cacheInserted"
	EventUpdated       EventType = "updated"
	EventCacheRemoved  EventType = "cacheRemoved"
	EventFetched       EventType = "fetched"
	EventCreated       EventType = "created"
	EventDeleted       EventType = "deleted"
)

// Run polling events, emitted on Run handles only.
const (
	EventStatusChanged  EventType = "statusChanged"
	EventActionRequired EventType = "actionRequired"
	EventFinished       EventType = "finished"
)

// EventAny subscribes a listener to every event type on an emitter.
const EventAny EventType = "*"

// Event is the payload delivered to listeners. Value is the raw record for
// cache-level events, the handle itself for handle-level re-publications,
// and event-specific data (status, required action, PollResult) for run
// polling events.
type Event struct {
	Type  EventType
	Ref   Ref
	Value any
}

// Listener receives events from an Emitter.
type Listener func(Event)

// Subscription identifies one attached listener so it can be detached.
type Subscription struct {
	id    string
	event EventType
}

type registration struct {
	id string
	fn Listener
}

// Emitter is an observer list keyed by event type. Listeners attached under
// EventAny receive every event. Delivery is synchronous and in attach order,
// with EventAny listeners after type-specific ones.
type Emitter struct {
	mu        sync.Mutex
	listeners map[EventType][]registration
}

func newEmitter() *Emitter {
	return &Emitter{listeners: make(map[EventType][]registration)}
}

// On attaches fn for the given event type and returns its Subscription.
func (e *Emitter) On(event EventType, fn Listener) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := uuid.New().String()
	e.listeners[event] = append(e.listeners[event], registration{id: id, fn: fn})
	return Subscription{id: id, event: event}
}

// Once attaches fn so that it fires for at most one event, detaching itself
// on first delivery.
func (e *Emitter) Once(event EventType, fn Listener) Subscription {
	var (
		once sync.Once
		sub  Subscription
	)
	sub = e.On(event, func(ev Event) {
		once.Do(func() {
			e.Off(sub)
			fn(ev)
		})
	})
	return sub
}

// Off detaches the listener identified by sub. Detaching an unknown or
// already-detached subscription is a no-op.
func (e *Emitter) Off(sub Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	regs := e.listeners[sub.event]
	for i, reg := range regs {
		if reg.id == sub.id {
			e.listeners[sub.event] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// removeAll detaches every listener. Used when a cache entry is removed so
// its emitter cannot fire again.
func (e *Emitter) removeAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = make(map[EventType][]registration)
}

// emit delivers ev to type-specific listeners, then EventAny listeners.
// The listener list is snapshotted so listeners may detach during delivery.
func (e *Emitter) emit(ev Event) {
	e.mu.Lock()
	regs := make([]registration, 0, len(e.listeners[ev.Type])+len(e.listeners[EventAny]))
	regs = append(regs, e.listeners[ev.Type]...)
	if ev.Type != EventAny {
		regs = append(regs, e.listeners[EventAny]...)
	}
	e.mu.Unlock()

	for _, reg := range regs {
		reg.fn(ev)
	}
}
