package assist

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Message is the handle variant for message records. It references its
// owning thread handle and can derive optional assistant and run handles
// from the record's assistant_id and run_id fields.
type Message struct {
	handle
	thread *Thread
}

// Thread returns the owning thread handle.
func (m *Message) Thread() *Thread {
	return m.thread
}

// Value returns the cached message record.
func (m *Message) Value() (openai.Message, error) {
	v, err := m.value()
	if err != nil {
		return openai.Message{}, err
	}
	rec, ok := v.(*openai.Message)
	if !ok {
		return openai.Message{}, fmt.Errorf("message %s: cached record has unexpected type %T", m.ref.ID, v)
	}
	return *rec, nil
}

// Assistant returns a fresh, unloaded handle for the assistant that
// authored this message, or nil when the record is absent or carries no
// assistant id.
func (m *Message) Assistant() *Assistant {
	rec, err := m.Value()
	if err != nil || rec.AssistantID == nil || *rec.AssistantID == "" {
		return nil
	}
	return m.session.Assistant(*rec.AssistantID)
}

// Run returns a fresh, unloaded handle for the run that produced this
// message, or nil when the record is absent or carries no run id.
func (m *Message) Run() *Run {
	rec, err := m.Value()
	if err != nil || rec.RunID == nil || *rec.RunID == "" {
		return nil
	}
	return m.thread.Run(*rec.RunID)
}

// Update modifies the message's metadata remotely and overwrites the cached
// record.
func (m *Message) Update(ctx context.Context, metadata map[string]any) error {
	rec, err := m.session.transport.ModifyMessage(ctx, m.ref.ThreadID, m.ref.ID, metadata)
	if err != nil {
		return fmt.Errorf("update message %s: %w", m.ref.ID, err)
	}
	return m.session.cache.Set(m.ref, &rec)
}

// Files lists the message's attached files. This is an uncached passthrough
// to the remote API.
func (m *Message) Files(ctx context.Context) ([]openai.MessageFile, error) {
	return m.session.transport.ListMessageFiles(ctx, m.ref.ThreadID, m.ref.ID)
}

// File retrieves one attached file. Uncached passthrough.
func (m *Message) File(ctx context.Context, fileID string) (openai.MessageFile, error) {
	return m.session.transport.RetrieveMessageFile(ctx, m.ref.ThreadID, m.ref.ID, fileID)
}
