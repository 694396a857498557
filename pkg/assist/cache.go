package assist

import (
	"context"
	"reflect"
	"sync"
)

// entry is the cache record for one (kind, id): the last known raw value
// plus a dedicated emitter whose identity is stable for the entry's
// lifetime. Removing and re-inserting an entry creates a fresh emitter.
type entry struct {
	value   any
	emitter *Emitter
}

// partition holds one kind's entries plus the kind-scoped emitter. Exactly
// one partition exists per kind, created at cache construction.
type partition struct {
	entries map[string]*entry
	emitter *Emitter
}

// Cache is the single source of truth for the last known value of every
// remote object, keyed by (kind, id), and the event-propagation backbone.
// Every mutation fans out to three scopes in a fixed order: the entry's own
// emitter, then the kind emitter, then the global emitter.
//
// The cache takes no compare-and-swap measures against concurrent fetches of
// the same ref: redundant remote calls may be issued and the last write
// wins. Events are delivered outside the cache lock, so listeners may call
// back into the cache.
type Cache struct {
	transport Transport

	mu         sync.Mutex
	partitions map[Kind]*partition
	global     *Emitter
}

// NewCache builds an empty cache that resolves fetches through transport.
func NewCache(transport Transport) *Cache {
	c := &Cache{
		transport:  transport,
		partitions: make(map[Kind]*partition, len(kinds)),
		global:     newEmitter(),
	}
	for _, k := range kinds {
		c.partitions[k] = &partition{
			entries: make(map[string]*entry),
			emitter: newEmitter(),
		}
	}
	return c
}

// Get returns the cached value for ref, with ok reporting presence. It has
// no side effects.
func (c *Cache) Get(ref Ref) (value any, ok bool, err error) {
	if err := ref.validate(); err != nil {
		return nil, false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ent, ok := c.partitions[ref.Kind].entries[ref.key()]
	if !ok {
		return nil, false, nil
	}
	return ent.value, true, nil
}

// Set inserts or overwrites the value for ref. Inserts emit cacheInserted;
// overwrites with a distinct value emit updated; storing the identical value
// again is a no-op with no event.
func (c *Cache) Set(ref Ref, value any) error {
	if err := ref.validate(); err != nil {
		return err
	}
	c.mu.Lock()
	p := c.partitions[ref.Kind]
	key := ref.key()
	ent, ok := p.entries[key]
	var event EventType
	if !ok {
		ent = &entry{value: value, emitter: newEmitter()}
		p.entries[key] = ent
		event = EventCacheInserted
	} else {
		if identical(ent.value, value) {
			c.mu.Unlock()
			return nil
		}
		ent.value = value
		event = EventUpdated
	}
	obj, kind := ent.emitter, p.emitter
	c.mu.Unlock()

	c.fanOut(obj, kind, Event{Type: event, Ref: ref, Value: value})
	return nil
}

// Remove deletes the entry for ref if present, emitting cacheRemoved at all
// three scopes before the entry's listeners are detached. Absent refs are a
// no-op.
func (c *Cache) Remove(ref Ref) error {
	if err := ref.validate(); err != nil {
		return err
	}
	c.mu.Lock()
	p := c.partitions[ref.Kind]
	key := ref.key()
	ent, ok := p.entries[key]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	delete(p.entries, key)
	c.mu.Unlock()

	c.fanOut(ent.emitter, p.emitter, Event{Type: EventCacheRemoved, Ref: ref, Value: ent.value})
	ent.emitter.removeAll()
	return nil
}

// Fetch invokes the remote read for ref's kind, stores the result via Set,
// emits fetched at all three scopes, and returns the value. Remote failures
// propagate unmodified and are not retried.
func (c *Cache) Fetch(ctx context.Context, ref Ref) (any, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	value, err := c.retrieve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ref, value); err != nil {
		return nil, err
	}
	if err := c.Announce(EventFetched, ref, value); err != nil {
		return nil, err
	}
	return value, nil
}

// GetOrFetch returns the cached value when present and delegates to Fetch
// otherwise. It never overwrites an existing cached value.
func (c *Cache) GetOrFetch(ctx context.Context, ref Ref) (any, error) {
	value, ok, err := c.Get(ref)
	if err != nil {
		return nil, err
	}
	if ok {
		return value, nil
	}
	return c.Fetch(ctx, ref)
}

// GlobalEmitter returns the emitter that observes every cache event.
func (c *Cache) GlobalEmitter() *Emitter {
	return c.global
}

// KindEmitter returns the emitter scoped to one kind.
func (c *Cache) KindEmitter(kind Kind) (*Emitter, error) {
	if !kind.valid() {
		return nil, ErrInvalidKind
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.partitions[kind].emitter, nil
}

// ObjectEmitter returns the emitter scoped to one entry. It fails with
// ErrNoEntry when the ref has no entry: per-object subscriptions require the
// object to already be known.
func (c *Cache) ObjectEmitter(ref Ref) (*Emitter, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ent, ok := c.partitions[ref.Kind].entries[ref.key()]
	if !ok {
		return nil, ErrNoEntry
	}
	return ent.emitter, nil
}

// Announce fans an event out to all three scopes without touching the
// stored value. The per-kind operations use it for the semantic created,
// deleted, and fetched events that do not flow through Set or Remove.
func (c *Cache) Announce(event EventType, ref Ref, value any) error {
	if err := ref.validate(); err != nil {
		return err
	}
	c.mu.Lock()
	p := c.partitions[ref.Kind]
	var obj *Emitter
	if ent, ok := p.entries[ref.key()]; ok {
		obj = ent.emitter
	}
	kind := p.emitter
	c.mu.Unlock()

	c.fanOut(obj, kind, Event{Type: event, Ref: ref, Value: value})
	return nil
}

// fanOut delivers ev at object, kind, and global scope, in that order.
func (c *Cache) fanOut(obj, kind *Emitter, ev Event) {
	if obj != nil {
		obj.emit(ev)
	}
	kind.emit(ev)
	c.global.emit(ev)
}

// retrieve dispatches the remote read for ref's kind. Records are stored
// behind pointers so that overwrite detection in Set is pointer identity: a
// fresh fetch is always a new record, re-storing the same record is a no-op.
func (c *Cache) retrieve(ctx context.Context, ref Ref) (any, error) {
	switch ref.Kind {
	case KindAssistant:
		rec, err := c.transport.RetrieveAssistant(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &rec, nil
	case KindThread:
		rec, err := c.transport.RetrieveThread(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &rec, nil
	case KindMessage:
		rec, err := c.transport.RetrieveMessage(ctx, ref.ThreadID, ref.ID)
		if err != nil {
			return nil, err
		}
		return &rec, nil
	case KindRun:
		rec, err := c.transport.RetrieveRun(ctx, ref.ThreadID, ref.ID)
		if err != nil {
			return nil, err
		}
		return &rec, nil
	}
	return nil, ErrInvalidKind
}

// identical reports whether two stored values are the same record: the same
// pointer (or map/slice header), or equal values of a comparable type.
// Freshly fetched record structs are never identical to the stored copy, so
// every refetch that reaches Set counts as an update.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Len() == rb.Len() && (ra.Len() == 0 || ra.Pointer() == rb.Pointer())
	}
	if ra.Type().Comparable() {
		return a == b
	}
	return false
}
