package assist

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"
)

// Thread is the handle variant for thread records. Message and run handles
// are derived from it and reference it as their owner.
type Thread struct {
	handle
}

// Thread returns an unloaded handle for the given thread id.
func (s *Session) Thread(id string) *Thread {
	t := &Thread{handle: handle{session: s, ref: ThreadRef(id), emitter: newEmitter()}}
	t.self = t
	return t
}

// LoadThread returns a handle for id with its value loaded and its event
// subscription attached.
func (s *Session) LoadThread(ctx context.Context, id string) (*Thread, error) {
	t := s.Thread(id)
	if err := t.Load(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateThread creates a thread remotely, caches the record, and announces
// the created event.
func (s *Session) CreateThread(ctx context.Context, req openai.ThreadRequest) (*Thread, error) {
	rec, err := s.transport.CreateThread(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	t := s.Thread(rec.ID)
	if err := s.cache.Set(t.ref, &rec); err != nil {
		return nil, err
	}
	if err := s.cache.Announce(EventCreated, t.ref, &rec); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateThreadAndRun creates a thread and starts a run against it in one
// remote call. The run record is cached, the created event announced, and
// the run's polling session started.
func (s *Session) CreateThreadAndRun(ctx context.Context, req openai.CreateThreadAndRunRequest) (*Run, error) {
	rec, err := s.transport.CreateThreadAndRun(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create thread and run: %w", err)
	}
	r := s.Thread(rec.ThreadID).Run(rec.ID)
	if err := s.cache.Set(r.ref, &rec); err != nil {
		return nil, err
	}
	if err := s.cache.Announce(EventCreated, r.ref, &rec); err != nil {
		return nil, err
	}
	r.StartPolling()
	return r, nil
}

// Value returns the cached thread record.
func (t *Thread) Value() (openai.Thread, error) {
	v, err := t.value()
	if err != nil {
		return openai.Thread{}, err
	}
	rec, ok := v.(*openai.Thread)
	if !ok {
		return openai.Thread{}, fmt.Errorf("thread %s: cached record has unexpected type %T", t.ref.ID, v)
	}
	return *rec, nil
}

// Update modifies the thread's metadata remotely and overwrites the cached
// record.
func (t *Thread) Update(ctx context.Context, metadata map[string]any) error {
	rec, err := t.session.transport.ModifyThread(ctx, t.ref.ID, metadata)
	if err != nil {
		return fmt.Errorf("update thread %s: %w", t.ref.ID, err)
	}
	return t.session.cache.Set(t.ref, &rec)
}

// Message returns an unloaded handle for a message id within this thread.
func (t *Thread) Message(id string) *Message {
	m := &Message{
		handle: handle{session: t.session, ref: MessageRef(t.ref.ID, id), emitter: newEmitter()},
		thread: t,
	}
	m.self = m
	return m
}

// LoadMessage returns a loaded, subscribed handle for a message id within
// this thread.
func (t *Thread) LoadMessage(ctx context.Context, id string) (*Message, error) {
	m := t.Message(id)
	if err := m.Load(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateMessage appends a message to the thread remotely, caches the
// record, and announces the created event.
func (t *Thread) CreateMessage(ctx context.Context, req openai.MessageRequest) (*Message, error) {
	rec, err := t.session.transport.CreateMessage(ctx, t.ref.ID, req)
	if err != nil {
		return nil, fmt.Errorf("create message in thread %s: %w", t.ref.ID, err)
	}
	m := t.Message(rec.ID)
	if err := t.session.cache.Set(m.ref, &rec); err != nil {
		return nil, err
	}
	if err := t.session.cache.Announce(EventCreated, m.ref, &rec); err != nil {
		return nil, err
	}
	return m, nil
}

// Messages lists the thread's messages as a paged facade.
func (t *Thread) Messages(ctx context.Context, opts *ListOptions) (*Page[*Message], error) {
	return t.listMessages(ctx, mergeListOptions(t.session.defaults, opts))
}

func (t *Thread) listMessages(ctx context.Context, opts ListOptions) (*Page[*Message], error) {
	records, hasMore, err := t.session.transport.ListMessages(ctx, t.ref.ID, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages in thread %s: %w", t.ref.ID, err)
	}
	items := make([]*Message, len(records))
	for i := range records {
		rec := records[i]
		m := t.Message(rec.ID)
		if err := t.session.cache.Set(m.ref, &rec); err != nil {
			return nil, err
		}
		items[i] = m
	}
	var firstID, lastID string
	if len(records) > 0 {
		firstID, lastID = records[0].ID, records[len(records)-1].ID
	}
	return newPage(items, firstID, lastID, hasMore, func(ctx context.Context, after string) (*Page[*Message], error) {
		next := opts
		next.After = &after
		return t.listMessages(ctx, next)
	}), nil
}

// Run returns an unloaded handle for a run id within this thread.
func (t *Thread) Run(id string) *Run {
	r := &Run{
		handle: handle{session: t.session, ref: RunRef(t.ref.ID, id), emitter: newEmitter()},
		thread: t,
	}
	r.self = r
	r.poller = newPoller(r)
	return r
}

// LoadRun returns a loaded, subscribed handle for a run id within this
// thread, with its polling session started.
func (t *Thread) LoadRun(ctx context.Context, id string) (*Run, error) {
	r := t.Run(id)
	if err := r.Load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateRun starts a run of an assistant against this thread, caches the
// record, announces the created event, and starts the run's polling
// session.
func (t *Thread) CreateRun(ctx context.Context, req openai.RunRequest) (*Run, error) {
	rec, err := t.session.transport.CreateRun(ctx, t.ref.ID, req)
	if err != nil {
		return nil, fmt.Errorf("create run in thread %s: %w", t.ref.ID, err)
	}
	r := t.Run(rec.ID)
	if err := t.session.cache.Set(r.ref, &rec); err != nil {
		return nil, err
	}
	if err := t.session.cache.Announce(EventCreated, r.ref, &rec); err != nil {
		return nil, err
	}
	r.StartPolling()
	return r, nil
}

// Runs lists the thread's runs as a paged facade.
func (t *Thread) Runs(ctx context.Context, opts *ListOptions) (*Page[*Run], error) {
	return t.listRuns(ctx, mergeListOptions(t.session.defaults, opts))
}

func (t *Thread) listRuns(ctx context.Context, opts ListOptions) (*Page[*Run], error) {
	records, hasMore, err := t.session.transport.ListRuns(ctx, t.ref.ID, opts)
	if err != nil {
		return nil, fmt.Errorf("list runs in thread %s: %w", t.ref.ID, err)
	}
	items := make([]*Run, len(records))
	for i := range records {
		rec := records[i]
		r := t.Run(rec.ID)
		if err := t.session.cache.Set(r.ref, &rec); err != nil {
			return nil, err
		}
		items[i] = r
	}
	var firstID, lastID string
	if len(records) > 0 {
		firstID, lastID = records[0].ID, records[len(records)-1].ID
	}
	return newPage(items, firstID, lastID, hasMore, func(ctx context.Context, after string) (*Page[*Run], error) {
		next := opts
		next.After = &after
		return t.listRuns(ctx, next)
	}), nil
}

// Sync refreshes the thread record and the first page of its messages and
// runs concurrently, so the cached view of the thread reflects the remote
// side after out-of-band changes.
func (t *Thread) Sync(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return t.Reload(ctx) })
	g.Go(func() error {
		_, err := t.Messages(ctx, nil)
		return err
	})
	g.Go(func() error {
		_, err := t.Runs(ctx, nil)
		return err
	})
	return g.Wait()
}
