// Package store holds the client-visible state of one remote collection and
// funnels every mutating operation through a uniform pending/fulfilled/
// rejected lifecycle.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/observability"
)

// Source performs the remote operations backing one collection. Operations
// the backend does not expose return domain.ErrNotSupported.
type Source[E any] interface {
	FetchAll(ctx context.Context) ([]E, error)
	Create(ctx context.Context, input E) (E, error)
	Update(ctx context.Context, id string, patch any) (E, error)
	Remove(ctx context.Context, id string) error
}

// Snapshot is a point-in-time copy of a collection's observable state.
type Snapshot[E any] struct {
	Data    []E
	Loading bool
	Err     string
}

// Collection mirrors one remote collection. Data, loading and the error
// string are mutated only inside the terminal transitions of the
// collection's own operations.
//
// Every invocation is tagged with a monotonically increasing sequence number
// at issue time; a successful response whose tag is below the last applied
// one is discarded instead of clobbering newer data.
type Collection[E any] struct {
	name     string
	src      Source[E]
	identify func(E) string
	log      *zap.Logger

	mu       sync.Mutex
	data     []E
	errMsg   string
	inflight int
	nextSeq  uint64
	applied  uint64

	onAuthError func()
}

// New builds a collection over src. identify extracts the entity id used by
// Update and Remove to locate records.
func New[E any](name string, src Source[E], identify func(E) string, log *zap.Logger) *Collection[E] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collection[E]{
		name:     name,
		src:      src,
		identify: identify,
		log:      log,
	}
}

// OnAuthorizationError registers a hook invoked whenever an operation fails
// with an authorization error, so the session guard can be dropped back to
// anonymous.
func (c *Collection[E]) OnAuthorizationError(hook func()) {
	c.mu.Lock()
	c.onAuthError = hook
	c.mu.Unlock()
}

// Snapshot returns a copy of the observable triple.
func (c *Collection[E]) Snapshot() Snapshot[E] {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := make([]E, len(c.data))
	copy(data, c.data)
	return Snapshot[E]{Data: data, Loading: c.inflight > 0, Err: c.errMsg}
}

// FetchAll replaces the collection wholesale with the server's current view.
// On failure the previous data is kept (stale but available) and only the
// error string changes.
func (c *Collection[E]) FetchAll(ctx context.Context) error {
	seq := c.begin(true)
	start := time.Now()

	items, err := c.src.FetchAll(ctx)
	if err != nil {
		c.reject(err, fmt.Sprintf("Failed to fetch %s", c.name))
		observability.ObserveCollectionOp(c.name, "fetch", "rejected", time.Since(start))
		return err
	}

	applied := c.fulfill(seq, func() {
		c.data = make([]E, len(items))
		copy(c.data, items)
	})
	observability.ObserveCollectionOp(c.name, "fetch", outcomeLabel(applied), time.Since(start))
	return nil
}

// Create issues the creation request and appends the returned entity on
// success. Failure surfaces the error without touching data.
func (c *Collection[E]) Create(ctx context.Context, input E) (E, error) {
	seq := c.begin(false)
	start := time.Now()

	created, err := c.src.Create(ctx, input)
	if err != nil {
		c.reject(err, fmt.Sprintf("Failed to create %s", c.name))
		observability.ObserveCollectionOp(c.name, "create", "rejected", time.Since(start))
		var zero E
		return zero, err
	}

	applied := c.fulfill(seq, func() {
		c.data = append(c.data, created)
	})
	observability.ObserveCollectionOp(c.name, "create", outcomeLabel(applied), time.Since(start))
	return created, nil
}

// Update issues the mutation and replaces the matching entity by id on
// success. The resolved entity is returned so callers can close editors
// only on success.
func (c *Collection[E]) Update(ctx context.Context, id string, patch any) (E, error) {
	seq := c.begin(false)
	start := time.Now()

	updated, err := c.src.Update(ctx, id, patch)
	if err != nil {
		c.reject(err, fmt.Sprintf("Failed to update %s", c.name))
		observability.ObserveCollectionOp(c.name, "update", "rejected", time.Since(start))
		var zero E
		return zero, err
	}

	applied := c.fulfill(seq, func() {
		for i := range c.data {
			if c.identify(c.data[i]) == id {
				c.data[i] = updated
				return
			}
		}
	})
	observability.ObserveCollectionOp(c.name, "update", outcomeLabel(applied), time.Since(start))
	return updated, nil
}

// Remove issues the deletion and drops the matching entity by id on success.
func (c *Collection[E]) Remove(ctx context.Context, id string) error {
	seq := c.begin(false)
	start := time.Now()

	if err := c.src.Remove(ctx, id); err != nil {
		c.reject(err, fmt.Sprintf("Failed to delete %s", c.name))
		observability.ObserveCollectionOp(c.name, "remove", "rejected", time.Since(start))
		return err
	}

	applied := c.fulfill(seq, func() {
		kept := c.data[:0]
		for _, e := range c.data {
			if c.identify(e) != id {
				kept = append(kept, e)
			}
		}
		c.data = kept
	})
	observability.ObserveCollectionOp(c.name, "remove", outcomeLabel(applied), time.Since(start))
	return nil
}

// begin marks an invocation pending and hands out its sequence tag.
// clearError matches the source behavior of resetting the error only when a
// fetch starts, so a form-level failure does not clobber an older fetch
// error and vice versa.
func (c *Collection[E]) begin(clearError bool) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	if clearError {
		c.errMsg = ""
	}
	c.nextSeq++
	return c.nextSeq
}

// fulfill applies the terminal success transition unless a later-issued
// invocation already applied. Reports whether the result was applied.
func (c *Collection[E]) fulfill(seq uint64, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if seq <= c.applied {
		c.log.Debug("stale response discarded",
			zap.String("collection", c.name),
			zap.Uint64("seq", seq),
			zap.Uint64("applied", c.applied),
		)
		observability.IncrementStaleDrop(c.name)
		return false
	}
	c.applied = seq
	apply()
	return true
}

// reject records the terminal failure. The structured cause is logged here
// and collapsed to a display string; data stays untouched.
func (c *Collection[E]) reject(err error, fallback string) {
	c.mu.Lock()
	c.inflight--
	c.errMsg = domain.Normalize(err, fallback)
	hook := c.onAuthError
	c.mu.Unlock()

	c.log.Warn("collection operation failed",
		zap.String("collection", c.name),
		zap.Error(err),
	)
	if hook != nil && domain.IsAuthorization(err) {
		observability.IncrementAuthFailure(c.name)
		hook()
	}
}

func outcomeLabel(applied bool) string {
	if applied {
		return "fulfilled"
	}
	return "stale"
}
