package assist

import (
	"context"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// fakeTransport is a scripted Transport for tests. Each hook, when set,
// handles the corresponding call; unset hooks return zero values. Call
// counts are recorded for the cached read paths.
type fakeTransport struct {
	mu sync.Mutex

	retrieveAssistantCalls int
	retrieveThreadCalls    int
	retrieveMessageCalls   int
	retrieveRunCalls       int

	onRetrieveAssistant func(id string) (openai.Assistant, error)
	onRetrieveThread    func(id string) (openai.Thread, error)
	onRetrieveMessage   func(threadID, id string) (openai.Message, error)
	onRetrieveRun       func(threadID, id string) (openai.Run, error)

	onCreateAssistant    func(req openai.AssistantRequest) (openai.Assistant, error)
	onCreateThread       func(req openai.ThreadRequest) (openai.Thread, error)
	onCreateMessage      func(threadID string, req openai.MessageRequest) (openai.Message, error)
	onCreateRun          func(threadID string, req openai.RunRequest) (openai.Run, error)
	onCreateThreadAndRun func(req openai.CreateThreadAndRunRequest) (openai.Run, error)

	onListAssistants func(opts ListOptions) ([]openai.Assistant, bool, error)
	onListMessages   func(threadID string, opts ListOptions) ([]openai.Message, bool, error)
	onListRuns       func(threadID string, opts ListOptions) ([]openai.Run, bool, error)

	onDeleteAssistant   func(id string) (bool, error)
	onCancelRun         func(threadID, id string) (openai.Run, error)
	onSubmitToolOutputs func(threadID, id string, req openai.SubmitToolOutputsRequest) (openai.Run, error)
}

func (f *fakeTransport) count(n *int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *n
}

func (f *fakeTransport) CreateAssistant(_ context.Context, req openai.AssistantRequest) (openai.Assistant, error) {
	if f.onCreateAssistant != nil {
		return f.onCreateAssistant(req)
	}
	return openai.Assistant{}, nil
}

func (f *fakeTransport) RetrieveAssistant(_ context.Context, id string) (openai.Assistant, error) {
	f.mu.Lock()
	f.retrieveAssistantCalls++
	f.mu.Unlock()
	if f.onRetrieveAssistant != nil {
		return f.onRetrieveAssistant(id)
	}
	return openai.Assistant{ID: id}, nil
}

func (f *fakeTransport) ModifyAssistant(_ context.Context, id string, req openai.AssistantRequest) (openai.Assistant, error) {
	return openai.Assistant{ID: id, Model: req.Model}, nil
}

func (f *fakeTransport) DeleteAssistant(_ context.Context, id string) (bool, error) {
	if f.onDeleteAssistant != nil {
		return f.onDeleteAssistant(id)
	}
	return true, nil
}

func (f *fakeTransport) ListAssistants(_ context.Context, opts ListOptions) ([]openai.Assistant, bool, error) {
	if f.onListAssistants != nil {
		return f.onListAssistants(opts)
	}
	return nil, false, nil
}

func (f *fakeTransport) CreateThread(_ context.Context, req openai.ThreadRequest) (openai.Thread, error) {
	if f.onCreateThread != nil {
		return f.onCreateThread(req)
	}
	return openai.Thread{}, nil
}

func (f *fakeTransport) RetrieveThread(_ context.Context, id string) (openai.Thread, error) {
	f.mu.Lock()
	f.retrieveThreadCalls++
	f.mu.Unlock()
	if f.onRetrieveThread != nil {
		return f.onRetrieveThread(id)
	}
	return openai.Thread{ID: id}, nil
}

func (f *fakeTransport) ModifyThread(_ context.Context, id string, metadata map[string]any) (openai.Thread, error) {
	return openai.Thread{ID: id, Metadata: metadata}, nil
}

func (f *fakeTransport) CreateThreadAndRun(_ context.Context, req openai.CreateThreadAndRunRequest) (openai.Run, error) {
	if f.onCreateThreadAndRun != nil {
		return f.onCreateThreadAndRun(req)
	}
	return openai.Run{}, nil
}

func (f *fakeTransport) CreateMessage(_ context.Context, threadID string, req openai.MessageRequest) (openai.Message, error) {
	if f.onCreateMessage != nil {
		return f.onCreateMessage(threadID, req)
	}
	return openai.Message{}, nil
}

func (f *fakeTransport) RetrieveMessage(_ context.Context, threadID, id string) (openai.Message, error) {
	f.mu.Lock()
	f.retrieveMessageCalls++
	f.mu.Unlock()
	if f.onRetrieveMessage != nil {
		return f.onRetrieveMessage(threadID, id)
	}
	return openai.Message{ID: id, ThreadID: threadID}, nil
}

func (f *fakeTransport) ModifyMessage(_ context.Context, threadID, id string, metadata map[string]any) (openai.Message, error) {
	return openai.Message{ID: id, ThreadID: threadID, Metadata: metadata}, nil
}

func (f *fakeTransport) ListMessages(_ context.Context, threadID string, opts ListOptions) ([]openai.Message, bool, error) {
	if f.onListMessages != nil {
		return f.onListMessages(threadID, opts)
	}
	return nil, false, nil
}

func (f *fakeTransport) ListMessageFiles(_ context.Context, threadID, id string) ([]openai.MessageFile, error) {
	return nil, nil
}

func (f *fakeTransport) RetrieveMessageFile(_ context.Context, threadID, id, fileID string) (openai.MessageFile, error) {
	return openai.MessageFile{ID: fileID, MessageID: id}, nil
}

func (f *fakeTransport) CreateRun(_ context.Context, threadID string, req openai.RunRequest) (openai.Run, error) {
	if f.onCreateRun != nil {
		return f.onCreateRun(threadID, req)
	}
	return openai.Run{}, nil
}

func (f *fakeTransport) RetrieveRun(_ context.Context, threadID, id string) (openai.Run, error) {
	f.mu.Lock()
	f.retrieveRunCalls++
	f.mu.Unlock()
	if f.onRetrieveRun != nil {
		return f.onRetrieveRun(threadID, id)
	}
	return openai.Run{ID: id, ThreadID: threadID}, nil
}

func (f *fakeTransport) ModifyRun(_ context.Context, threadID, id string, metadata map[string]any) (openai.Run, error) {
	return openai.Run{ID: id, ThreadID: threadID, Metadata: metadata}, nil
}

func (f *fakeTransport) CancelRun(_ context.Context, threadID, id string) (openai.Run, error) {
	if f.onCancelRun != nil {
		return f.onCancelRun(threadID, id)
	}
	return openai.Run{ID: id, ThreadID: threadID, Status: openai.RunStatusCancelling}, nil
}

func (f *fakeTransport) SubmitToolOutputs(_ context.Context, threadID, id string, req openai.SubmitToolOutputsRequest) (openai.Run, error) {
	if f.onSubmitToolOutputs != nil {
		return f.onSubmitToolOutputs(threadID, id, req)
	}
	return openai.Run{ID: id, ThreadID: threadID, Status: openai.RunStatusInProgress}, nil
}

func (f *fakeTransport) ListRuns(_ context.Context, threadID string, opts ListOptions) ([]openai.Run, bool, error) {
	if f.onListRuns != nil {
		return f.onListRuns(threadID, opts)
	}
	return nil, false, nil
}

func (f *fakeTransport) ListRunSteps(_ context.Context, threadID, id string, opts ListOptions) ([]openai.RunStep, bool, error) {
	return nil, false, nil
}

func (f *fakeTransport) RetrieveRunStep(_ context.Context, threadID, id, stepID string) (openai.RunStep, error) {
	return openai.RunStep{ID: stepID, RunID: id}, nil
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
