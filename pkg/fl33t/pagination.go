package fl33t

import (
	"context"
	"errors"
)

// PageFunc fetches one page of a listing: the items starting at offset, and
// the server-reported total record count for the whole listing.
type PageFunc[T any] func(ctx context.Context, offset, limit int) (items []T, total int, err error)

// Iterator lazily walks a paginated listing, yielding decoded records one at
// a time. Pages are fetched on demand, so a consumer that stops early incurs
// no further requests. It is driven by a single cooperative consumer and is
// not safe for concurrent use; restart by constructing a new iterator.
type Iterator[T any] struct {
	ctx   context.Context
	fetch PageFunc[T]

	offset     int
	limit      int
	singlePage bool

	started  bool
	done     bool
	total    int
	returned int

	buf []T
	pos int
	err error
}

// NewIterator builds an iterator over fetch. A non-nil explicit offset in
// opts requests exactly one page; otherwise the iterator auto-paginates
// from offset 0. A zero or negative limit falls back to defaultLimit.
func NewIterator[T any](ctx context.Context, fetch PageFunc[T], opts *PageOptions, defaultLimit int) *Iterator[T] {
	it := &Iterator[T]{
		ctx:   ctx,
		fetch: fetch,
		limit: defaultLimit,
	}

	if opts != nil {
		if opts.Limit > 0 {
			it.limit = opts.Limit
		}

		if opts.Offset != nil {
			it.singlePage = true

			if *opts.Offset > 0 {
				it.offset = *opts.Offset
			}
		}
	}

	return it
}

// HasNext reports whether another record is, or may be, available. Before
// the first fetch it is optimistically true; afterwards it reflects the
// buffered items and the server-reported total.
func (it *Iterator[T]) HasNext() bool {
	if it.pos < len(it.buf) {
		return true
	}

	if !it.started {
		return true
	}

	if it.done || it.singlePage {
		return false
	}

	return it.total > it.returned
}

// Next returns the next record. It returns ErrNoMoreItems once the listing
// is exhausted, or the fetch error that stopped iteration.
func (it *Iterator[T]) Next() (T, error) {
	var zero T

	if it.err != nil {
		return zero, it.err
	}

	if it.pos >= len(it.buf) {
		if it.started && (it.done || it.singlePage || it.total <= it.returned) {
			it.done = true

			return zero, ErrNoMoreItems
		}

		if err := it.fetchPage(); err != nil {
			return zero, err
		}

		if len(it.buf) == 0 {
			it.done = true

			return zero, ErrNoMoreItems
		}
	}

	item := it.buf[it.pos]
	it.pos++

	return item, nil
}

func (it *Iterator[T]) fetchPage() error {
	items, total, err := it.fetch(it.ctx, it.offset, it.limit)
	if err != nil {
		it.err = err
		it.done = true

		return err
	}

	if !it.started {
		// The server reports the listing's total record count alongside the
		// first page; absent means no more pages.
		it.total = total
		it.started = true
	}

	it.returned = it.offset + len(items)
	it.offset += it.limit
	it.buf = items
	it.pos = 0

	return nil
}

// All consumes the remainder of the listing into a slice.
func (it *Iterator[T]) All() ([]T, error) {
	var all []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				break
			}

			return nil, err
		}

		all = append(all, item)
	}

	return all, nil
}

// ForEach applies fn to each remaining record, stopping at the first error.
func (it *Iterator[T]) ForEach(fn func(T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return nil
			}

			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return nil
}
