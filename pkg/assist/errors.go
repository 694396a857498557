package assist

import "errors"

var (
	// ErrInvalidKind reports a resource kind outside the four recognized
	// kinds. Always a programming error.
	ErrInvalidKind = errors.New("invalid resource kind")

	// ErrInvalidRef reports a ref whose id shape does not match its kind:
	// a bare id where a thread-scoped id is required, or vice versa.
	ErrInvalidRef = errors.New("invalid resource ref")

	// ErrNotLoaded reports a handle read before any successful load or
	// fetch. Load the handle first, or check the id.
	ErrNotLoaded = errors.New("resource not loaded; call Load first or check the id")

	// ErrNoEntry reports an attempt to obtain a per-object emitter for a
	// (kind, id) with no cache entry. Per-object subscriptions require the
	// object to already be known.
	ErrNoEntry = errors.New("no cache entry for ref")

	// ErrPollTimeout reports that a run was polled for the full timeout
	// bound without reaching a terminal status.
	ErrPollTimeout = errors.New("run polling timed out")

	// ErrNoNextPage reports a NextPage call on an exhausted cursor.
	ErrNoNextPage = errors.New("no next page")
)
