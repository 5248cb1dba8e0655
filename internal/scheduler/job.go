package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/adapter"
	"github.com/MKhiriev/go-sync-engine/internal/engine"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// Job drives the sync cycles for a set of workers sharing one loop and one
// server adapter. A cycle runs on the job's own goroutine; every worker call
// inside it is posted onto the loop, so network I/O never blocks the loop
// and the workers keep their single-goroutine affinity.
//
// Retry/backoff on adapter errors is deliberately simple: a failed cycle is
// logged and the next ticker tick (or nudge) tries again.
type Job struct {
	loop    *Loop
	adapter adapter.ServerAdapter
	workers []*engine.ModelTypeWorker
	nudger  *CommitNudger

	maxCommitEntries int

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewJob creates a Job. maxCommitEntries bounds every commit contribution;
// values ≤ 0 fall back to 25. The job is idle until Start is called.
func NewJob(
	loop *Loop,
	serverAdapter adapter.ServerAdapter,
	workers []*engine.ModelTypeWorker,
	nudger *CommitNudger,
	maxCommitEntries int,
	log *logger.Logger,
) *Job {
	if maxCommitEntries <= 0 {
		maxCommitEntries = 25
	}
	return &Job{
		loop:             loop,
		adapter:          serverAdapter,
		workers:          workers,
		nudger:           nudger,
		maxCommitEntries: maxCommitEntries,
		logger:           log,
	}
}

// Start stops any previously running job, then launches a background
// goroutine that runs a full poll+commit cycle every interval and a
// commit-only cycle on every nudge wakeup. If interval is zero or negative
// it defaults to 1 minute. The goroutine exits when ctx is cancelled or Stop
// is called.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		// One eager cycle so a freshly started client bootstraps
		// without waiting a full interval.
		j.RunCycle(jobCtx)

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.RunCycle(jobCtx)
			case modelType := <-j.nudger.Wakeups():
				j.commitCycle(jobCtx, modelType)
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until it has
// fully exited. Safe to call when the job is not running.
func (j *Job) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// RunCycle performs one full cycle for every worker: download and apply
// server updates, then ship pending local changes. Exported so callers can
// force a cycle (e.g. right after login) without waiting for the ticker.
func (j *Job) RunCycle(ctx context.Context) {
	for _, w := range j.workers {
		if ctx.Err() != nil {
			return
		}
		j.pollWorker(ctx, w)
		j.commitWorker(ctx, w)
	}
}

// commitCycle ships pending changes for the nudged type only; other workers
// wait for the regular ticker.
func (j *Job) commitCycle(ctx context.Context, modelType models.ModelType) {
	for _, w := range j.workers {
		if w.ModelType() == modelType {
			j.commitWorker(ctx, w)
			return
		}
	}
}

// pollWorker runs one GetUpdates round trip: read the stored marker on the
// loop, call the server, then ingest and apply the batch on the loop. The
// first batch of a worker's lifetime goes through the passive apply path.
func (j *Job) pollWorker(ctx context.Context, w *engine.ModelTypeWorker) {
	var marker models.ProgressMarker
	if err := j.loop.PostWait(func() { marker = w.GetDownloadProgress() }); err != nil {
		return
	}

	resp, err := j.adapter.GetUpdates(ctx, models.GetUpdatesRequest{
		ModelType:      w.ModelType(),
		ProgressMarker: marker,
	})
	if err != nil {
		j.logger.Error().Err(err).Str("model_type", w.ModelType().String()).
			Msg("get updates request failed")
		return
	}

	_ = j.loop.PostWait(func() {
		initial := !w.InitialSyncDone()
		if err := w.ProcessGetUpdatesResponse(resp.ProgressMarker, resp.TypeContext, resp.Entities); err != nil {
			j.logger.Error().Err(err).Str("model_type", w.ModelType().String()).
				Msg("rejected get updates response")
			return
		}
		if initial {
			w.PassiveApplyUpdates()
		} else {
			w.ApplyUpdates()
		}
	})
}

// commitWorker drains pending local changes in bounded contributions until
// the worker has nothing more to contribute or the server call fails.
func (j *Job) commitWorker(ctx context.Context, w *engine.ModelTypeWorker) {
	for {
		if ctx.Err() != nil {
			return
		}

		var contribution *engine.Contribution
		if err := j.loop.PostWait(func() { contribution = w.GetContribution(j.maxCommitEntries) }); err != nil {
			return
		}
		if contribution == nil {
			return
		}

		resp, err := j.adapter.Commit(ctx, contribution.BuildRequest())
		if err != nil {
			j.logger.Error().Err(err).Str("model_type", w.ModelType().String()).
				Msg("commit request failed")
			return
		}

		var before, after int
		_ = j.loop.PostWait(func() {
			before = w.PendingCommitCount()
			contribution.ProcessResponse(resp)
			after = w.PendingCommitCount()
		})
		if after >= before {
			// The server answered but settled nothing; avoid
			// re-sending the same contribution in a tight loop.
			j.logger.Warn().Str("model_type", w.ModelType().String()).
				Msg("commit cycle made no progress")
			return
		}
	}
}
