package assist

import "fmt"

// Kind identifies one of the four remote resource families. It selects both
// the cache partition and the remote endpoint group for a Ref.
type Kind string

const (
	KindAssistant Kind = "assistant"
	KindThread    Kind = "thread"
	KindMessage   Kind = "message"
	KindRun       Kind = "run"
)

// kinds lists every recognized Kind; the cache creates one partition per
// entry at construction.
var kinds = []Kind{KindAssistant, KindThread, KindMessage, KindRun}

func (k Kind) valid() bool {
	switch k {
	case KindAssistant, KindThread, KindMessage, KindRun:
		return true
	}
	return false
}

// compound reports whether ids of this kind are scoped to a parent thread.
// Message and run ids are unique only within their thread.
func (k Kind) compound() bool {
	return k == KindMessage || k == KindRun
}

// Ref identifies one remote object. Assistant and thread refs carry a bare
// id; message and run refs additionally carry the owning thread's id.
type Ref struct {
	Kind     Kind
	ThreadID string
	ID       string
}

// AssistantRef builds a Ref for an assistant id.
func AssistantRef(id string) Ref {
	return Ref{Kind: KindAssistant, ID: id}
}

// ThreadRef builds a Ref for a thread id.
func ThreadRef(id string) Ref {
	return Ref{Kind: KindThread, ID: id}
}

// MessageRef builds a Ref for a message id within its thread.
func MessageRef(threadID, id string) Ref {
	return Ref{Kind: KindMessage, ThreadID: threadID, ID: id}
}

// RunRef builds a Ref for a run id within its thread.
func RunRef(threadID, id string) Ref {
	return Ref{Kind: KindRun, ThreadID: threadID, ID: id}
}

// validate checks the kind and the id shape. A bare-id kind must not carry a
// thread id, and a compound kind must carry both ids.
func (r Ref) validate() error {
	if !r.Kind.valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, string(r.Kind))
	}
	if r.ID == "" {
		return fmt.Errorf("%w: %s ref has empty id", ErrInvalidRef, r.Kind)
	}
	if r.Kind.compound() && r.ThreadID == "" {
		return fmt.Errorf("%w: %s ref requires a thread id", ErrInvalidRef, r.Kind)
	}
	if !r.Kind.compound() && r.ThreadID != "" {
		return fmt.Errorf("%w: %s ref must not carry a thread id", ErrInvalidRef, r.Kind)
	}
	return nil
}

// key returns the cache key within the ref's partition.
func (r Ref) key() string {
	if r.Kind.compound() {
		return r.ThreadID + "/" + r.ID
	}
	return r.ID
}

func (r Ref) String() string {
	return string(r.Kind) + ":" + r.key()
}
