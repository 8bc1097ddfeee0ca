package warmer

import (
	"time"

	errs "github.com/joe/dircacher/pkg/errors"
)

// Summary is the result of one run, produced once at the end and owned by the caller.
type Summary struct {
	Roots          []string // canonical paths of the accepted roots, in argument order
	RootsAccepted  int
	RootsRejected  int
	RootsFailed    int // accepted roots that could not be opened or fully listed
	DuplicateRoots int

	DirsVisited   int64
	Files         int64 // regular files and other non-directory, non-symlink entries
	Symlinks      int64 // never followed
	EntriesProbed int64
	MountsSkipped int64
	Excluded      int64
	DuplicateDirs int64

	ErrorCounts   map[errs.Kind]int
	Errors        []*errs.Record // retained records, bounded by the record limit
	DroppedErrors int

	Workers   int
	Elapsed   time.Duration
	Cancelled bool
}

// Complete reports whether every root was valid and readable and the traversal
// ran to the end. Failures below a root do not affect it.
func (s *Summary) Complete() bool {
	return !s.Cancelled && s.RootsRejected == 0 && s.RootsFailed == 0
}

// TotalErrors returns the number of failures of every kind, invalid roots included.
func (s *Summary) TotalErrors() int {
	total := 0
	for _, n := range s.ErrorCounts {
		total += n
	}

	return total
}
