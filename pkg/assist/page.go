package assist

import (
	"context"
	"iter"
)

// Page is one page of a cursor-paginated listing. Every raw record on the
// page is written into the cache before the page is returned, and Items
// holds the corresponding handles. A page keeps no state beyond its items,
// its cursor bounds, and the closure that fetches the following page.
type Page[H any] struct {
	// Items are the realized handles for the current page, in remote order.
	Items []H

	firstID string
	lastID  string
	hasMore bool
	next    func(ctx context.Context, after string) (*Page[H], error)
}

func newPage[H any](items []H, firstID, lastID string, hasMore bool, next func(ctx context.Context, after string) (*Page[H], error)) *Page[H] {
	return &Page[H]{
		Items:   items,
		firstID: firstID,
		lastID:  lastID,
		hasMore: hasMore,
		next:    next,
	}
}

// HasNextPage reports whether the remote cursor has further pages.
func (p *Page[H]) HasNextPage() bool {
	return p.hasMore
}

// FirstID returns the id of the page's first record, empty for an empty
// page. It is the before-cursor for backward continuation.
func (p *Page[H]) FirstID() string {
	return p.firstID
}

// LastID returns the id of the page's last record, empty for an empty page.
// It is the after-cursor for forward continuation.
func (p *Page[H]) LastID() string {
	return p.lastID
}

// NextPage fetches the following page and wraps it as a new facade. It
// fails with ErrNoNextPage when the cursor is exhausted.
func (p *Page[H]) NextPage(ctx context.Context) (*Page[H], error) {
	if !p.hasMore {
		return nil, ErrNoNextPage
	}
	return p.next(ctx, p.lastID)
}

// Pages iterates forward from this page, lazily fetching each following
// page. The sequence is finite, forward-only, and not restartable once
// consumed; a fetch failure yields a nil page with the error and ends the
// sequence.
func (p *Page[H]) Pages(ctx context.Context) iter.Seq2[*Page[H], error] {
	return func(yield func(*Page[H], error) bool) {
		page := p
		for {
			if !yield(page, nil) {
				return
			}
			if !page.HasNextPage() {
				return
			}
			next, err := page.NextPage(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			page = next
		}
	}
}
