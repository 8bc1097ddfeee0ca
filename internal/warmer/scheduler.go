package warmer

import (
	"context"
	"sync"
)

const (
	// eventsPerWorker sizes the events buffer so workers rarely block on discovery.
	eventsPerWorker = 64
	// initialQueueCapacity is a typical tree breadth; the queue grows as needed.
	initialQueueCapacity = 1024
)

// schedEvent is sent by a worker for each discovered child directory, then
// once more with done set when its own item is finished. A worker sends its
// children before its done event on the same channel, so the coordinator can
// never see pending reach zero while discovered work is still in the buffer.
type schedEvent struct {
	item workItem
	done bool
}

// schedule walks every root and everything reachable from it with workers
// goroutines, and blocks until the work is exhausted or ctx is cancelled.
// Returns false if the run was cancelled before the work was exhausted.
func (t *traversal) schedule(ctx context.Context, roots []workItem, workers int) bool {
	jobs := make(chan workItem)
	events := make(chan schedEvent, workers*eventsPerWorker)

	var wg sync.WaitGroup //nolint:varnamelen // wg is idiomatic for WaitGroup
	for range workers {
		wg.Go(func() {
			push := func(child workItem) {
				events <- schedEvent{item: child}
			}

			for item := range jobs {
				// An item dispatched as the run was cancelled is reported without being opened.
				if ctx.Err() == nil {
					t.walk(ctx, item, push)
				}

				// Always report completion, cancelled or not, so pending drains.
				events <- schedEvent{done: true}
			}
		})
	}

	completed := t.coordinate(ctx, roots, jobs, events)

	wg.Wait()

	return completed
}

// coordinate owns the FIFO queue and the pending count (queued plus in
// flight). It dispatches queued items to idle workers and closes jobs once
// pending reaches zero. On cancellation it discards the queue, closes jobs,
// and keeps receiving until every in-flight item has reported done.
func (t *traversal) coordinate(ctx context.Context, roots []workItem, jobs chan<- workItem, events <-chan schedEvent) bool {
	queue := make([]workItem, 0, max(initialQueueCapacity, len(roots)))
	queue = append(queue, roots...)

	pending := len(queue)
	stopping := false
	cancelled := ctx.Done()

	for pending > 0 {
		if !stopping && ctx.Err() != nil {
			stopping = true
			cancelled = nil

			pending -= len(queue)
			queue = queue[:0]

			close(jobs)
		}

		t.publish(len(queue), pending)

		if pending == 0 {
			break
		}

		// The nil channel disables the send case while the queue is empty.
		var (
			next  workItem
			jobCh chan<- workItem
		)

		if !stopping && len(queue) > 0 {
			next = queue[0]
			jobCh = jobs
		}

		select {
		case <-cancelled:
			// Handled at the top of the loop.

		case ev := <-events:
			if ev.done {
				pending--
			} else if !stopping {
				pending++

				queue = append(queue, ev.item)
			}

		case jobCh <- next:
			queue[0] = workItem{}
			queue = queue[1:]
		}
	}

	if !stopping {
		close(jobs)
	}

	t.publish(0, 0)

	return !stopping
}

// publish exposes the queue depth and in-flight count for progress reporting.
func (t *traversal) publish(queued, pending int) {
	t.stats.queued.Store(int64(queued))
	t.stats.inFlight.Store(int64(pending - queued))
}
