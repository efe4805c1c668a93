package engine

import "sync/atomic"

// SeqClock stamps reduced actions. Values are strictly increasing within a
// store; traces order by seq, never by wall time.
type SeqClock interface {
	Next() int64
	Current() int64
}

// Counter is the default SeqClock. The zero value is ready to use and its
// first Next returns 1.
type Counter struct {
	n atomic.Int64
}

// CounterAt returns a counter whose first Next returns start+1, so a second
// store can continue the numbering of an earlier trace.
func CounterAt(start int64) *Counter {
	c := &Counter{}
	c.n.Store(start)
	return c
}

// Next advances the counter.
func (c *Counter) Next() int64 { return c.n.Add(1) }

// Current reads the counter without advancing it.
func (c *Counter) Current() int64 { return c.n.Load() }
