package warmer

import "sync/atomic"

// Progress is a point-in-time snapshot of a running traversal.
type Progress struct {
	DirsVisited   int64
	Files         int64
	Symlinks      int64
	EntriesProbed int64
	Errors        int64
	Queued        int64 // directories waiting for a worker
	InFlight      int64 // directories being walked
}

// Active reports whether the snapshot was taken while work remained.
func (p Progress) Active() bool {
	return p.Queued > 0 || p.InFlight > 0
}

// counters are updated by every worker and read for progress and the summary.
type counters struct {
	rootsAccepted  atomic.Int64
	rootsRejected  atomic.Int64
	rootsFailed    atomic.Int64
	duplicateRoots atomic.Int64
	dirsVisited    atomic.Int64
	files          atomic.Int64
	symlinks       atomic.Int64
	entriesProbed  atomic.Int64
	mountsSkipped  atomic.Int64
	excluded       atomic.Int64
	duplicateDirs  atomic.Int64
	errors         atomic.Int64

	// Published by the scheduler's coordinator.
	queued   atomic.Int64
	inFlight atomic.Int64
}

func (c *counters) snapshot() Progress {
	return Progress{
		DirsVisited:   c.dirsVisited.Load(),
		Files:         c.files.Load(),
		Symlinks:      c.symlinks.Load(),
		EntriesProbed: c.entriesProbed.Load(),
		Errors:        c.errors.Load(),
		Queued:        c.queued.Load(),
		InFlight:      c.inFlight.Load(),
	}
}
