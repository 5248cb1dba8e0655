package scheduler

import "github.com/MKhiriev/go-sync-engine/models"

// CommitNudger implements engine.NudgeHandler. Nudges are coalesced: a burst
// of local changes produces at most one queued wakeup, and the job picks it
// up on its next select. NudgeForCommit never blocks.
type CommitNudger struct {
	wakeups chan models.ModelType
}

// NewCommitNudger constructs a nudger with a single coalescing slot.
func NewCommitNudger() *CommitNudger {
	return &CommitNudger{wakeups: make(chan models.ModelType, 1)}
}

// NudgeForCommit implements engine.NudgeHandler. Fire-and-forget: if a
// wakeup is already queued the nudge is absorbed by it.
func (n *CommitNudger) NudgeForCommit(modelType models.ModelType) {
	select {
	case n.wakeups <- modelType:
	default:
	}
}

// Wakeups exposes the wakeup channel for the job's select.
func (n *CommitNudger) Wakeups() <-chan models.ModelType {
	return n.wakeups
}
