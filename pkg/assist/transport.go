package assist

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Transport is the remote API surface the session consumes: one call group
// per resource kind, plus the uncached file and step sub-resources. The
// production implementation is OpenAITransport; tests substitute scripted
// fakes. Failures propagate to callers unmodified, and nothing here is
// retried internally.
//
// List calls return the page's records plus the remote cursor's has-more
// flag; continuation cursors derive from the record ids themselves.
type Transport interface {
	CreateAssistant(ctx context.Context, req openai.AssistantRequest) (openai.Assistant, error)
	RetrieveAssistant(ctx context.Context, assistantID string) (openai.Assistant, error)
	ModifyAssistant(ctx context.Context, assistantID string, req openai.AssistantRequest) (openai.Assistant, error)
	DeleteAssistant(ctx context.Context, assistantID string) (bool, error)
	ListAssistants(ctx context.Context, opts ListOptions) ([]openai.Assistant, bool, error)

	CreateThread(ctx context.Context, req openai.ThreadRequest) (openai.Thread, error)
	RetrieveThread(ctx context.Context, threadID string) (openai.Thread, error)
	ModifyThread(ctx context.Context, threadID string, metadata map[string]any) (openai.Thread, error)
	CreateThreadAndRun(ctx context.Context, req openai.CreateThreadAndRunRequest) (openai.Run, error)

	CreateMessage(ctx context.Context, threadID string, req openai.MessageRequest) (openai.Message, error)
	RetrieveMessage(ctx context.Context, threadID, messageID string) (openai.Message, error)
	ModifyMessage(ctx context.Context, threadID, messageID string, metadata map[string]any) (openai.Message, error)
	ListMessages(ctx context.Context, threadID string, opts ListOptions) ([]openai.Message, bool, error)
	ListMessageFiles(ctx context.Context, threadID, messageID string) ([]openai.MessageFile, error)
	RetrieveMessageFile(ctx context.Context, threadID, messageID, fileID string) (openai.MessageFile, error)

	CreateRun(ctx context.Context, threadID string, req openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID, runID string) (openai.Run, error)
	ModifyRun(ctx context.Context, threadID, runID string, metadata map[string]any) (openai.Run, error)
	CancelRun(ctx context.Context, threadID, runID string) (openai.Run, error)
	SubmitToolOutputs(ctx context.Context, threadID, runID string, req openai.SubmitToolOutputsRequest) (openai.Run, error)
	ListRuns(ctx context.Context, threadID string, opts ListOptions) ([]openai.Run, bool, error)
	ListRunSteps(ctx context.Context, threadID, runID string, opts ListOptions) ([]openai.RunStep, bool, error)
	RetrieveRunStep(ctx context.Context, threadID, runID, stepID string) (openai.RunStep, error)
}
