package assist

import "time"

// Session is the shared execution context for one application: the remote
// transport, the single object cache, and session-wide defaults. Create one
// per application and derive every handle and page from it; they all share
// its cache, so multiple handles for the same (kind, id) stay consistent
// through cache events rather than handle-to-handle coordination.
type Session struct {
	transport Transport
	cache     *Cache
	defaults  ListOptions
	poll      PollPolicy
	clock     Clock
}

// SessionOption configures optional behavior on a Session.
type SessionOption func(*Session)

// WithListDefaults sets session-wide defaults merged under every list
// call's options.
func WithListDefaults(defaults ListOptions) SessionOption {
	return func(s *Session) { s.defaults = defaults }
}

// WithPollPolicy overrides the run polling interval and timeout.
func WithPollPolicy(policy PollPolicy) SessionOption {
	return func(s *Session) { s.poll = policy }
}

// WithClock injects the clock used by run pollers. Tests use it to
// fast-forward the timeout bound.
func WithClock(clock Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// NewSession creates a session around the given transport with a fresh,
// empty cache.
func NewSession(transport Transport, opts ...SessionOption) *Session {
	s := &Session{
		transport: transport,
		poll:      DefaultPollPolicy(),
		clock:     systemClock{},
	}
	s.cache = NewCache(transport)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the session's object cache.
func (s *Session) Cache() *Cache {
	return s.cache
}

// PollPolicy returns the session's run polling policy.
func (s *Session) PollPolicy() PollPolicy {
	return s.poll
}

// now reads the session clock.
func (s *Session) now() time.Time {
	return s.clock.Now()
}
