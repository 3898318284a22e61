// Package cursor drives token-paged remote list operations as a single
// logical sequence.
//
// Remote list APIs hand back a page of items plus an opaque continuation
// token. A Walker repeatedly invokes one page-fetch operation, forwarding
// the token, and yields items one at a time until a stop condition is met:
// the service stops returning a token, the token stops advancing (the same
// token is returned twice in a row), or the caller's item cap is reached.
// The non-advancing-token rule matters for APIs like GetLogEvents that
// never drop the token and signal exhaustion only by echoing it back.
//
// Traversal is lazy and pull-based: at most one page is held in memory and
// the next fetch is issued only when the buffered page is drained.
package cursor

import "context"

// PageFunc fetches a single page of items. token is nil on the first call;
// afterwards it carries the continuation token returned by the previous
// call. pageSize is a hint, already capped to the service maximum by the
// walker's constructor options.
type PageFunc[T any] func(ctx context.Context, token *string, pageSize int32) (items []T, next *string, err error)

// Walker is a lazy, finite iterator over a token-paged list operation.
// It is valid for a single traversal and is not safe for concurrent use.
type Walker[T any] struct {
	fetch    PageFunc[T]
	pageSize int32
	limit    int // 0 means unlimited

	token   *string
	buf     []T
	emitted int
	done    bool
}

// Option configures a Walker.
type Option func(*options)

type options struct {
	pageSize int32
	limit    int
}

// WithPageSize sets the page-size hint forwarded to the page-fetch
// operation. A non-positive size leaves the hint at zero, letting the
// fetch operation pick the service default.
func WithPageSize(size int32) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithLimit caps the total number of items the walker yields.
// A non-positive limit means unlimited.
func WithLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// NewWalker creates a Walker over the given page-fetch operation.
func NewWalker[T any](fetch PageFunc[T], opts ...Option) *Walker[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return &Walker[T]{
		fetch:    fetch,
		pageSize: o.pageSize,
		limit:    o.limit,
	}
}

// Next yields the next item in the traversal. It returns false once the
// sequence is exhausted. A fetch error propagates unchanged and terminates
// the traversal; no retry is attempted here since reliability policy
// belongs to the transport.
func (w *Walker[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	for len(w.buf) == 0 {
		if w.done {
			return zero, false, nil
		}

		items, next, err := w.fetch(ctx, w.token, w.pageSize)
		if err != nil {
			w.done = true
			return zero, false, err
		}

		w.buf = items

		// Stop conditions: no token, or the token did not advance.
		switch {
		case next == nil:
			w.done = true
		case w.token != nil && *next == *w.token:
			w.done = true
		default:
			w.token = next
		}
	}

	item := w.buf[0]
	w.buf = w.buf[1:]
	w.emitted++

	if w.limit > 0 && w.emitted >= w.limit {
		w.done = true
		w.buf = nil
	}

	return item, true, nil
}

// Collect drains the walker into a slice. Intended for callers that need
// the whole result set at once (e.g. client-side sorting); streaming
// consumers should pull via Next instead.
func Collect[T any](ctx context.Context, w *Walker[T]) ([]T, error) {
	var out []T
	for {
		item, ok, err := w.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}
