package assist

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Assistant is the handle variant for assistant records.
type Assistant struct {
	handle
}

// Assistant returns an unloaded handle for the given assistant id.
func (s *Session) Assistant(id string) *Assistant {
	a := &Assistant{handle: handle{session: s, ref: AssistantRef(id), emitter: newEmitter()}}
	a.self = a
	return a
}

// LoadAssistant returns a handle for id with its value loaded (fetched only
// if not already cached) and its event subscription attached.
func (s *Session) LoadAssistant(ctx context.Context, id string) (*Assistant, error) {
	a := s.Assistant(id)
	if err := a.Load(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAssistant creates an assistant remotely, caches the record, and
// announces the created event. The returned handle is not yet subscribed;
// call Load to attach it.
func (s *Session) CreateAssistant(ctx context.Context, req openai.AssistantRequest) (*Assistant, error) {
	rec, err := s.transport.CreateAssistant(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create assistant: %w", err)
	}
	a := s.Assistant(rec.ID)
	if err := s.cache.Set(a.ref, &rec); err != nil {
		return nil, err
	}
	if err := s.cache.Announce(EventCreated, a.ref, &rec); err != nil {
		return nil, err
	}
	return a, nil
}

// Assistants lists assistants as a paged facade. opts merge over the
// session's list defaults.
func (s *Session) Assistants(ctx context.Context, opts *ListOptions) (*Page[*Assistant], error) {
	return s.listAssistants(ctx, mergeListOptions(s.defaults, opts))
}

func (s *Session) listAssistants(ctx context.Context, opts ListOptions) (*Page[*Assistant], error) {
	records, hasMore, err := s.transport.ListAssistants(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}
	items := make([]*Assistant, len(records))
	for i := range records {
		rec := records[i]
		a := s.Assistant(rec.ID)
		if err := s.cache.Set(a.ref, &rec); err != nil {
			return nil, err
		}
		items[i] = a
	}
	var firstID, lastID string
	if len(records) > 0 {
		firstID, lastID = records[0].ID, records[len(records)-1].ID
	}
	return newPage(items, firstID, lastID, hasMore, func(ctx context.Context, after string) (*Page[*Assistant], error) {
		next := opts
		next.After = &after
		return s.listAssistants(ctx, next)
	}), nil
}

// Value returns the cached assistant record. It fails with ErrNotLoaded
// when the cache holds no entry for this id.
func (a *Assistant) Value() (openai.Assistant, error) {
	v, err := a.value()
	if err != nil {
		return openai.Assistant{}, err
	}
	rec, ok := v.(*openai.Assistant)
	if !ok {
		return openai.Assistant{}, fmt.Errorf("assistant %s: cached record has unexpected type %T", a.ref.ID, v)
	}
	return *rec, nil
}

// Update modifies the assistant remotely and overwrites the cached record.
func (a *Assistant) Update(ctx context.Context, req openai.AssistantRequest) error {
	rec, err := a.session.transport.ModifyAssistant(ctx, a.ref.ID, req)
	if err != nil {
		return fmt.Errorf("update assistant %s: %w", a.ref.ID, err)
	}
	return a.session.cache.Set(a.ref, &rec)
}

// Delete destroys the assistant remotely, announces the deleted event while
// the entry's emitter is still subscribable, and then removes the cache
// entry. It returns the remote deletion acknowledgement.
func (a *Assistant) Delete(ctx context.Context) (bool, error) {
	deleted, err := a.session.transport.DeleteAssistant(ctx, a.ref.ID)
	if err != nil {
		return false, fmt.Errorf("delete assistant %s: %w", a.ref.ID, err)
	}
	v, _, _ := a.session.cache.Get(a.ref)
	if err := a.session.cache.Announce(EventDeleted, a.ref, v); err != nil {
		return deleted, err
	}
	if err := a.session.cache.Remove(a.ref); err != nil {
		return deleted, err
	}
	return deleted, nil
}
