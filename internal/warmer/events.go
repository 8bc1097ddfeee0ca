package warmer

import (
	errs "github.com/joe/dircacher/pkg/errors"
)

// Event is the interface implemented by all engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
// Emit is called from worker goroutines and must not block for long.
type EventEmitter interface {
	Emit(event Event)
}

// WarmStarted is emitted once per run before any root is resolved.
type WarmStarted struct {
	Roots   int
	Workers int
}

func (WarmStarted) isEvent() {}

// RootAccepted is emitted for each root that will be walked.
type RootAccepted struct {
	Path   string // canonical path
	Device uint64
}

func (RootAccepted) isEvent() {}

// RootRejected is emitted for each root argument that cannot be walked.
type RootRejected struct {
	Record *errs.Record
}

func (RootRejected) isEvent() {}

// EntryFailed is emitted when an entry below a root cannot be listed or probed.
type EntryFailed struct {
	Record *errs.Record
}

func (EntryFailed) isEvent() {}

// WarmProgress is emitted at every progress interval.
type WarmProgress struct {
	Progress Progress
}

func (WarmProgress) isEvent() {}

// WarmComplete is emitted once the run has finished or was cancelled.
type WarmComplete struct {
	Summary *Summary
}

func (WarmComplete) isEvent() {}
