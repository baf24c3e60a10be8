// Package querycount counts store round trips made on behalf of one request.
//
// The counter travels in the context: the caller attaches it, the store
// increments it once per query it sends.
//
//	ctx, counter := querycount.WithCounter(ctx)
//	result, err := reader.Fetch(ctx, ...)
//	log.Info("served", "queries", counter.Load())
package querycount

import (
	"context"
	"sync/atomic"
)

type contextKey struct{}

// Counter is safe for concurrent use.
type Counter struct {
	n atomic.Int64
}

// Load returns the number of queries counted so far.
func (c *Counter) Load() int64 {
	if c == nil {
		return 0
	}
	return c.n.Load()
}

func (c *Counter) add() {
	if c != nil {
		c.n.Add(1)
	}
}

// WithCounter returns a derived context carrying a new Counter.
func WithCounter(ctx context.Context) (context.Context, *Counter) {
	c := &Counter{}
	return context.WithValue(ctx, contextKey{}, c), c
}

// FromContext returns the counter attached to ctx, or nil.
func FromContext(ctx context.Context) *Counter {
	c, _ := ctx.Value(contextKey{}).(*Counter)
	return c
}

// Inc counts one round trip against the counter in ctx, if any.
func Inc(ctx context.Context) {
	FromContext(ctx).add()
}
