package assist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// PollPolicy controls the run polling loop: how often a run is refetched
// and how long a polling session may last before it reports a timeout.
type PollPolicy struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultPollPolicy returns the standard policy: a 750ms tick with a
// 2 minute overall bound.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval: 750 * time.Millisecond,
		Timeout:  2 * time.Minute,
	}
}

// Clock abstracts wall-clock reads for the poll loop's timeout check, so
// tests can fast-forward instead of waiting out real intervals.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// PollResult is the payload of the finished event and the outcome of Wait.
// Exactly one of Status and Err is set: a terminal status on normal
// completion, or the fetch failure / ErrPollTimeout that ended the session.
type PollResult struct {
	Status openai.RunStatus
	Err    error
}

// poller drives one run's polling session. States: idle (no active loop),
// polling (loop active, session start recorded), and back to idle when the
// run reaches a terminal status, the session times out, or a fetch fails —
// the same step that reports the outcome through the finished event.
//
// The last observed status is read through the cache at session start, not
// duplicated from it, so a run cached as queued does not fire statusChanged
// for queued on the first tick.
type poller struct {
	run *Run

	mu      sync.Mutex
	gen     int
	active  bool
	started time.Time
	last    openai.RunStatus
	stop    chan struct{}
}

func newPoller(r *Run) *poller {
	return &poller{run: r}
}

// Start begins a polling session, cancelling any existing one first.
func (p *poller) Start() {
	gen, stop := p.begin()
	go p.loop(gen, stop)
}

// begin cancels any active session and arms a new one, returning its
// generation and stop channel. Split from Start so tests can drive ticks
// directly.
func (p *poller) begin() (int, chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	p.gen++
	p.active = true
	p.started = p.run.session.now()
	p.last = ""
	if rec, err := p.run.Value(); err == nil {
		p.last = rec.Status
	}
	p.stop = make(chan struct{})
	return p.gen, p.stop
}

// Stop cancels the active session, if any. Idempotent. A tick whose remote
// call is already in flight still writes its result to the cache, but emits
// no further polling events.
func (p *poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
}

func (p *poller) cancelLocked() {
	p.gen++
	p.active = false
	p.started = time.Time{}
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

func (p *poller) polling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *poller) loop(gen int, stop chan struct{}) {
	ticker := time.NewTicker(p.run.session.poll.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if done := p.tick(context.Background(), gen); done {
				return
			}
		}
	}
}

// tick runs one polling step and reports whether the session is over. Every
// failure inside a tick is translated into a finished report; nothing is
// ever thrown out of the loop goroutine.
func (p *poller) tick(ctx context.Context, gen int) bool {
	p.mu.Lock()
	if gen != p.gen || !p.active {
		p.mu.Unlock()
		return true
	}
	elapsed := p.run.session.now().Sub(p.started)
	p.mu.Unlock()

	timeout := p.run.session.poll.Timeout
	if elapsed > timeout {
		p.finish(gen, PollResult{Err: fmt.Errorf("%w: no terminal status after %s", ErrPollTimeout, timeout)})
		return true
	}

	// Forced refetch: always hits the remote, never the cache.
	v, err := p.run.session.cache.Fetch(ctx, p.run.ref)

	// The session may have been cancelled while the call was in flight;
	// the cache write above stands, but a stale tick reports nothing.
	p.mu.Lock()
	stale := gen != p.gen || !p.active
	p.mu.Unlock()
	if stale {
		return true
	}

	if err != nil {
		slog.Debug("run poll fetch failed", "run_id", p.run.ref.ID, "thread_id", p.run.ref.ThreadID, "error", err)
		p.finish(gen, PollResult{Err: err})
		return true
	}
	rec, ok := v.(*openai.Run)
	if !ok {
		p.finish(gen, PollResult{Err: fmt.Errorf("run %s: cached record has unexpected type %T", p.run.ref.ID, v)})
		return true
	}

	p.mu.Lock()
	prev := p.last
	p.last = rec.Status
	p.mu.Unlock()

	if rec.Status != prev {
		slog.Debug("run status changed", "run_id", p.run.ref.ID, "from", string(prev), "to", string(rec.Status))
		p.run.emitter.emit(Event{Type: EventStatusChanged, Ref: p.run.ref, Value: rec.Status})
	}
	if rec.Status == openai.RunStatusRequiresAction {
		p.run.emitter.emit(Event{Type: EventActionRequired, Ref: p.run.ref, Value: rec.RequiredAction})
	}
	if terminalStatus(rec.Status) {
		// The run's side effects live on the thread; refresh it so the
		// cached thread state reflects any new messages. A failure here
		// does not taint the run's own completion.
		if _, err := p.run.session.cache.Fetch(ctx, p.run.thread.ref); err != nil {
			slog.Debug("thread refresh after run completion failed", "thread_id", p.run.thread.ref.ID, "error", err)
		}
		p.finish(gen, PollResult{Status: rec.Status})
		return true
	}
	return false
}

// finish ends the session and reports the outcome through the finished
// event. Only the session that armed gen may report.
func (p *poller) finish(gen int, res PollResult) {
	p.mu.Lock()
	if gen != p.gen || !p.active {
		p.mu.Unlock()
		return
	}
	p.cancelLocked()
	p.mu.Unlock()

	p.run.emitter.emit(Event{Type: EventFinished, Ref: p.run.ref, Value: res})
}

// wait blocks until the next finished report, starting a session first if
// none is active. The one-shot subscription is attached before the session
// starts so the report cannot be missed.
func (p *poller) wait(ctx context.Context) (openai.RunStatus, error) {
	ch := make(chan PollResult, 1)
	sub := p.run.emitter.Once(EventFinished, func(ev Event) {
		if res, ok := ev.Value.(PollResult); ok {
			ch <- res
		}
	})
	if !p.polling() {
		p.Start()
	}
	select {
	case res := <-ch:
		return res.Status, res.Err
	case <-ctx.Done():
		p.run.emitter.Off(sub)
		return "", ctx.Err()
	}
}

// terminalStatus reports whether a run status admits no further
// transitions.
func terminalStatus(s openai.RunStatus) bool {
	switch s {
	case openai.RunStatusCancelled, openai.RunStatusExpired, openai.RunStatusCompleted, openai.RunStatusFailed:
		return true
	}
	return false
}
