package warmer

import (
	"sync"

	errs "github.com/joe/dircacher/pkg/errors"
)

// DefaultRecordLimit is how many error records a run retains by default.
const DefaultRecordLimit = 1000

// Collector is the concurrency-safe sink for every non-fatal failure of a run.
// All failures are counted by kind; at most limit records are retained.
type Collector struct {
	mu      sync.Mutex
	limit   int
	records []*errs.Record
	counts  map[errs.Kind]int
	dropped int
}

// NewCollector creates a collector retaining at most limit records.
// A negative limit retains every record.
func NewCollector(limit int) *Collector {
	return &Collector{
		limit:  limit,
		counts: make(map[errs.Kind]int),
	}
}

// Add counts rec and retains it if the limit allows.
func (c *Collector) Add(rec *errs.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[rec.Kind]++

	if c.limit >= 0 && len(c.records) >= c.limit {
		c.dropped++

		return
	}

	c.records = append(c.records, rec)
}

// Counts returns a copy of the per-kind failure counts.
func (c *Collector) Counts() map[errs.Kind]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := make(map[errs.Kind]int, len(c.counts))
	for kind, n := range c.counts {
		counts[kind] = n
	}

	return counts
}

// Dropped returns how many records were counted but not retained.
func (c *Collector) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dropped
}

// Records returns the retained records in the order they were added.
func (c *Collector) Records() []*errs.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*errs.Record(nil), c.records...)
}

// Total returns the number of failures added.
func (c *Collector) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, n := range c.counts {
		total += n
	}

	return total
}
