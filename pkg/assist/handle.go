package assist

import (
	"context"
	"fmt"
	"sync"
)

// handle binds one (kind, id) to the session cache. It holds no resource
// data of its own: reads go through the cache, Load and Reload populate it,
// and every cache event observed for the ref is re-published on the handle
// with the variant handle as payload, so callers subscribe to the handle
// without knowing about the cache.
//
// Constructing a handle never subscribes it, even when the entry already
// exists; Load and Reload establish the subscription. Repeated calls replace
// the previous subscription, so exactly one handle-to-entry subscription
// exists at a time.
type handle struct {
	session *Session
	ref     Ref
	emitter *Emitter

	// self is the variant handle delivered as the payload of re-published
	// events; set by the variant constructor.
	self any

	subMu sync.Mutex
	src   *Emitter
	sub   Subscription
}

// Ref returns the (kind, id) this handle fronts.
func (h *handle) Ref() Ref {
	return h.ref
}

// Session returns the session the handle was created from.
func (h *handle) Session() *Session {
	return h.session
}

// value returns the cached raw record, or ErrNotLoaded when the cache holds
// no entry for the ref.
func (h *handle) value() (any, error) {
	v, ok, err := h.session.cache.Get(h.ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, h.ref)
	}
	return v, nil
}

// Load ensures the cache holds a value for the ref, fetching only when
// absent, then subscribes the handle to the entry's events.
func (h *handle) Load(ctx context.Context) error {
	if _, err := h.session.cache.GetOrFetch(ctx, h.ref); err != nil {
		return err
	}
	return h.resubscribe()
}

// Reload unconditionally refetches the ref, overwriting the cached value,
// then subscribes the handle to the entry's events.
func (h *handle) Reload(ctx context.Context) error {
	if _, err := h.session.cache.Fetch(ctx, h.ref); err != nil {
		return err
	}
	return h.resubscribe()
}

// On attaches a listener for the handle's own events: the six cache events
// re-published for this ref and, on Run handles, the polling events.
func (h *handle) On(event EventType, fn Listener) Subscription {
	return h.emitter.On(event, fn)
}

// Once attaches a listener that fires at most once.
func (h *handle) Once(event EventType, fn Listener) Subscription {
	return h.emitter.Once(event, fn)
}

// Off detaches a listener attached with On or Once.
func (h *handle) Off(sub Subscription) {
	h.emitter.Off(sub)
}

// resubscribe attaches the handle to its entry's emitter, dropping any
// prior subscription first. The entry emitter is re-resolved each time
// because removal and re-insertion of the entry replaces its emitter.
func (h *handle) resubscribe() error {
	obj, err := h.session.cache.ObjectEmitter(h.ref)
	if err != nil {
		return err
	}
	h.subMu.Lock()
	defer h.subMu.Unlock()
	if h.src != nil {
		h.src.Off(h.sub)
	}
	h.src = obj
	h.sub = obj.On(EventAny, h.republish)
	return nil
}

// republish re-emits a cache event on the handle with the variant handle as
// payload in place of the raw record.
func (h *handle) republish(ev Event) {
	h.emitter.emit(Event{Type: ev.Type, Ref: h.ref, Value: h.self})
}
