// Package scheduler owns the sync loop and the poll/commit cycle driver.
//
// The engine's workers have single-goroutine affinity: the Loop here is that
// goroutine. Everything that touches a worker — update ingestion, commit
// assembly, cryptographer swaps, model-side enqueues — is posted into the
// loop as a task; nothing shares mutable worker state across goroutines.
package scheduler

import (
	"sync"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

// Loop is a single-goroutine task executor. Tasks posted from any goroutine
// run one at a time, in post order, on the loop's own goroutine.
type Loop struct {
	tasks chan func()
	quit  chan struct{}

	stopOnce sync.Once
	wg       sync.WaitGroup

	logger *logger.Logger
}

// NewLoop constructs a Loop with the given task-queue capacity and starts
// its goroutine. Capacity ≤ 0 falls back to a reasonable default.
func NewLoop(capacity int, log *logger.Logger) *Loop {
	if capacity <= 0 {
		capacity = 64
	}

	l := &Loop{
		tasks:  make(chan func(), capacity),
		quit:   make(chan struct{}),
		logger: log,
	}

	l.wg.Add(1)
	go l.run()

	return l
}

func (l *Loop) run() {
	defer l.wg.Done()

	for {
		select {
		case <-l.quit:
			// Drain what was already queued so posted work is not
			// silently lost on shutdown.
			for {
				select {
				case task := <-l.tasks:
					task()
				default:
					return
				}
			}
		case task := <-l.tasks:
			task()
		}
	}
}

// Post queues task for execution on the loop goroutine. Returns
// ErrLoopStopped if the loop has been stopped.
func (l *Loop) Post(task func()) error {
	// Checked first on its own: with both channels ready the select below
	// picks at random, and a stopped loop must never accept work.
	select {
	case <-l.quit:
		return ErrLoopStopped
	default:
	}

	select {
	case <-l.quit:
		return ErrLoopStopped
	case l.tasks <- task:
		return nil
	}
}

// PostWait queues task and blocks until it has run. Used by the cycle driver
// to interleave loop-side worker calls with network I/O on its own
// goroutine. Must not be called from the loop goroutine itself.
func (l *Loop) PostWait(task func()) error {
	done := make(chan struct{})
	err := l.Post(func() {
		defer close(done)
		task()
	})
	if err != nil {
		return err
	}
	<-done
	return nil
}

// Stop shuts the loop down and blocks until the goroutine has exited.
// Already-queued tasks still run; subsequent Post calls fail.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.quit)
	})
	l.wg.Wait()
}
