package assist

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITransport implements Transport over the go-openai client.
type OpenAITransport struct {
	client *openai.Client
}

// NewOpenAITransport builds a transport for the given API key. baseURL
// overrides the default endpoint when non-empty.
func NewOpenAITransport(apiKey, baseURL string) *OpenAITransport {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAITransport{client: openai.NewClientWithConfig(cfg)}
}

// NewOpenAITransportWithClient wraps an already-configured client.
func NewOpenAITransportWithClient(client *openai.Client) *OpenAITransport {
	return &OpenAITransport{client: client}
}

func (t *OpenAITransport) CreateAssistant(ctx context.Context, req openai.AssistantRequest) (openai.Assistant, error) {
	return t.client.CreateAssistant(ctx, req)
}

func (t *OpenAITransport) RetrieveAssistant(ctx context.Context, assistantID string) (openai.Assistant, error) {
	return t.client.RetrieveAssistant(ctx, assistantID)
}

func (t *OpenAITransport) ModifyAssistant(ctx context.Context, assistantID string, req openai.AssistantRequest) (openai.Assistant, error) {
	return t.client.ModifyAssistant(ctx, assistantID, req)
}

func (t *OpenAITransport) DeleteAssistant(ctx context.Context, assistantID string) (bool, error) {
	resp, err := t.client.DeleteAssistant(ctx, assistantID)
	if err != nil {
		return false, err
	}
	return resp.Deleted, nil
}

func (t *OpenAITransport) ListAssistants(ctx context.Context, opts ListOptions) ([]openai.Assistant, bool, error) {
	list, err := t.client.ListAssistants(ctx, opts.Limit, opts.Order, opts.After, opts.Before)
	if err != nil {
		return nil, false, err
	}
	return list.Assistants, list.HasMore, nil
}

func (t *OpenAITransport) CreateThread(ctx context.Context, req openai.ThreadRequest) (openai.Thread, error) {
	return t.client.CreateThread(ctx, req)
}

func (t *OpenAITransport) RetrieveThread(ctx context.Context, threadID string) (openai.Thread, error) {
	return t.client.RetrieveThread(ctx, threadID)
}

func (t *OpenAITransport) ModifyThread(ctx context.Context, threadID string, metadata map[string]any) (openai.Thread, error) {
	return t.client.ModifyThread(ctx, threadID, openai.ModifyThreadRequest{Metadata: metadata})
}

func (t *OpenAITransport) CreateThreadAndRun(ctx context.Context, req openai.CreateThreadAndRunRequest) (openai.Run, error) {
	return t.client.CreateThreadAndRun(ctx, req)
}

func (t *OpenAITransport) CreateMessage(ctx context.Context, threadID string, req openai.MessageRequest) (openai.Message, error) {
	return t.client.CreateMessage(ctx, threadID, req)
}

func (t *OpenAITransport) RetrieveMessage(ctx context.Context, threadID, messageID string) (openai.Message, error) {
	return t.client.RetrieveMessage(ctx, threadID, messageID)
}

func (t *OpenAITransport) ModifyMessage(ctx context.Context, threadID, messageID string, metadata map[string]any) (openai.Message, error) {
	// The message endpoint takes string-valued metadata only.
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = fmt.Sprint(v)
	}
	return t.client.ModifyMessage(ctx, threadID, messageID, meta)
}

func (t *OpenAITransport) ListMessages(ctx context.Context, threadID string, opts ListOptions) ([]openai.Message, bool, error) {
	list, err := t.client.ListMessage(ctx, threadID, opts.Limit, opts.Order, opts.After, opts.Before, nil)
	if err != nil {
		return nil, false, err
	}
	return list.Messages, list.HasMore, nil
}

func (t *OpenAITransport) ListMessageFiles(ctx context.Context, threadID, messageID string) ([]openai.MessageFile, error) {
	list, err := t.client.ListMessageFiles(ctx, threadID, messageID)
	if err != nil {
		return nil, err
	}
	return list.MessageFiles, nil
}

func (t *OpenAITransport) RetrieveMessageFile(ctx context.Context, threadID, messageID, fileID string) (openai.MessageFile, error) {
	return t.client.RetrieveMessageFile(ctx, threadID, messageID, fileID)
}

func (t *OpenAITransport) CreateRun(ctx context.Context, threadID string, req openai.RunRequest) (openai.Run, error) {
	return t.client.CreateRun(ctx, threadID, req)
}

func (t *OpenAITransport) RetrieveRun(ctx context.Context, threadID, runID string) (openai.Run, error) {
	return t.client.RetrieveRun(ctx, threadID, runID)
}

func (t *OpenAITransport) ModifyRun(ctx context.Context, threadID, runID string, metadata map[string]any) (openai.Run, error) {
	return t.client.ModifyRun(ctx, threadID, runID, openai.RunModifyRequest{Metadata: metadata})
}

func (t *OpenAITransport) CancelRun(ctx context.Context, threadID, runID string) (openai.Run, error) {
	return t.client.CancelRun(ctx, threadID, runID)
}

func (t *OpenAITransport) SubmitToolOutputs(ctx context.Context, threadID, runID string, req openai.SubmitToolOutputsRequest) (openai.Run, error) {
	return t.client.SubmitToolOutputs(ctx, threadID, runID, req)
}

// defaultRunPageLimit mirrors the remote default page size, used when the
// caller sets no limit.
const defaultRunPageLimit = 20

func (t *OpenAITransport) ListRuns(ctx context.Context, threadID string, opts ListOptions) ([]openai.Run, bool, error) {
	// The run list response carries no has-more flag, so request one
	// record past the page size and truncate: an overflow record means
	// another page exists.
	limit := defaultRunPageLimit
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	over := limit + 1
	list, err := t.client.ListRuns(ctx, threadID, openai.Pagination{
		Limit:  &over,
		Order:  opts.Order,
		After:  opts.After,
		Before: opts.Before,
	})
	if err != nil {
		return nil, false, err
	}
	runs := list.Runs
	hasMore := false
	if len(runs) > limit {
		hasMore = true
		runs = runs[:limit]
	}
	return runs, hasMore, nil
}

func (t *OpenAITransport) ListRunSteps(ctx context.Context, threadID, runID string, opts ListOptions) ([]openai.RunStep, bool, error) {
	list, err := t.client.ListRunSteps(ctx, threadID, runID, openai.Pagination{
		Limit:  opts.Limit,
		Order:  opts.Order,
		After:  opts.After,
		Before: opts.Before,
	})
	if err != nil {
		return nil, false, err
	}
	return list.RunSteps, list.HasMore, nil
}

func (t *OpenAITransport) RetrieveRunStep(ctx context.Context, threadID, runID, stepID string) (openai.RunStep, error) {
	return t.client.RetrieveRunStep(ctx, threadID, runID, stepID)
}
