package engine

import "sync/atomic"

// Clock counts the samples ingested during one run.
//
// Every sample block gets a strictly increasing sequence number, and its
// occurrence count is added to the weighted total. Points ingest in
// parallel, so sequence numbers order ticks, not trace lines.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq         atomic.Int64
	occurrences atomic.Int64
}

// NewClock creates a clock with no samples.
func NewClock() *Clock {
	return &Clock{}
}

// Tick records one sample block standing for count occurrences and
// returns its sequence number, starting at 1.
func (c *Clock) Tick(count int) int64 {
	c.occurrences.Add(int64(count))
	return c.seq.Add(1)
}

// Samples returns the number of sample blocks ticked so far.
func (c *Clock) Samples() int64 {
	return c.seq.Load()
}

// Occurrences returns the weighted number of samples ticked so far.
func (c *Clock) Occurrences() int64 {
	return c.occurrences.Load()
}
