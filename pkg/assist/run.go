package assist

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Run is the handle variant for run records. It owns the polling session
// that tracks the run to a terminal status; polling starts at explicit
// creation, at Load, or at StartPolling/Wait, never at bare construction.
type Run struct {
	handle
	thread *Thread
	poller *poller
}

// Thread returns the owning thread handle.
func (r *Run) Thread() *Thread {
	return r.thread
}

// Value returns the cached run record.
func (r *Run) Value() (openai.Run, error) {
	v, err := r.value()
	if err != nil {
		return openai.Run{}, err
	}
	rec, ok := v.(*openai.Run)
	if !ok {
		return openai.Run{}, fmt.Errorf("run %s: cached record has unexpected type %T", r.ref.ID, v)
	}
	return *rec, nil
}

// Status returns the cached run status.
func (r *Run) Status() (openai.RunStatus, error) {
	rec, err := r.Value()
	if err != nil {
		return "", err
	}
	return rec.Status, nil
}

// Load ensures the run is cached and subscribed, then starts the polling
// session.
func (r *Run) Load(ctx context.Context) error {
	if err := r.handle.Load(ctx); err != nil {
		return err
	}
	r.StartPolling()
	return nil
}

// StartPolling begins (or restarts) the run's polling session: periodic
// forced refetches until a terminal status, a fetch failure, or the timeout
// bound. Progress is reported through statusChanged, actionRequired, and
// finished events on the handle.
func (r *Run) StartPolling() {
	r.poller.Start()
}

// StopPolling cancels the polling session. Idempotent; an in-flight tick's
// remote call is not aborted, but it reports nothing once stopped.
func (r *Run) StopPolling() {
	r.poller.Stop()
}

// Polling reports whether a polling session is active.
func (r *Run) Polling() bool {
	return r.poller.polling()
}

// Wait starts polling if idle and blocks until the run finishes: it returns
// the terminal status, or the error reported by the polling session (a
// remote failure or ErrPollTimeout), or ctx's error if ctx ends first.
func (r *Run) Wait(ctx context.Context) (openai.RunStatus, error) {
	return r.poller.wait(ctx)
}

// Update modifies the run's metadata remotely and overwrites the cached
// record.
func (r *Run) Update(ctx context.Context, metadata map[string]any) error {
	rec, err := r.session.transport.ModifyRun(ctx, r.ref.ThreadID, r.ref.ID, metadata)
	if err != nil {
		return fmt.Errorf("update run %s: %w", r.ref.ID, err)
	}
	return r.session.cache.Set(r.ref, &rec)
}

// Cancel requests cancellation of the run remotely and overwrites the
// cached record. The polling session, if active, observes the resulting
// status transition on a later tick.
func (r *Run) Cancel(ctx context.Context) error {
	rec, err := r.session.transport.CancelRun(ctx, r.ref.ThreadID, r.ref.ID)
	if err != nil {
		return fmt.Errorf("cancel run %s: %w", r.ref.ID, err)
	}
	return r.session.cache.Set(r.ref, &rec)
}

// SubmitToolOutputs submits tool outputs for a run in requires_action
// status and overwrites the cached record.
func (r *Run) SubmitToolOutputs(ctx context.Context, req openai.SubmitToolOutputsRequest) error {
	rec, err := r.session.transport.SubmitToolOutputs(ctx, r.ref.ThreadID, r.ref.ID, req)
	if err != nil {
		return fmt.Errorf("submit tool outputs for run %s: %w", r.ref.ID, err)
	}
	return r.session.cache.Set(r.ref, &rec)
}

// Steps lists the run's steps. Uncached passthrough; opts merge over the
// session's list defaults.
func (r *Run) Steps(ctx context.Context, opts *ListOptions) ([]openai.RunStep, error) {
	steps, _, err := r.session.transport.ListRunSteps(ctx, r.ref.ThreadID, r.ref.ID, mergeListOptions(r.session.defaults, opts))
	return steps, err
}

// Step retrieves one run step. Uncached passthrough.
func (r *Run) Step(ctx context.Context, stepID string) (openai.RunStep, error) {
	return r.session.transport.RetrieveRunStep(ctx, r.ref.ThreadID, r.ref.ID, stepID)
}
