package metrics

import "sync/atomic"

// Counter is a monotonically increasing event count.
type Counter struct {
	name string
	n    atomic.Int64
}

func newCounter(name string) *Counter {
	return &Counter{name: name}
}

// Add increments the counter by delta.
func (c *Counter) Add(delta int64) {
	if !Enabled() || c == nil {
		return
	}
	c.n.Add(delta)
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	c.Add(1)
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	return c.n.Load()
}

// Name returns the counter name.
func (c *Counter) Name() string {
	return c.name
}

// Reset sets the counter back to zero.
func (c *Counter) Reset() {
	c.n.Store(0)
}

// Refresh-cycle counters.
var (
	MergeMatched   = newCounter("merge_matched")   // nodes that inherited a prior fold state
	MergeUnmatched = newCounter("merge_unmatched") // nodes left at the default
	FetchErrors    = newCounter("fetch_errors")
)

// AllCounters returns all registered counters.
func AllCounters() []*Counter {
	return []*Counter{MergeMatched, MergeUnmatched, FetchErrors}
}
