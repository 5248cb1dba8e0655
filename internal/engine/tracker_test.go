package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-engine/models"
)

func TestEntityTracker_EnqueueCommit_SequencesIncrease(t *testing.T) {
	tracker := newEntityTracker("a")

	first := tracker.enqueueCommit(models.CommitRequestData{Specifics: json.RawMessage(`1`)})
	second := tracker.enqueueCommit(models.CommitRequestData{Specifics: json.RawMessage(`2`)})

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	require.True(t, tracker.hasPendingCommit())

	// only the latest request is pending; the old sequence is abandoned
	assert.Equal(t, int64(2), tracker.pending.SequenceNumber)
	assert.Equal(t, json.RawMessage(`2`), tracker.pending.Specifics)
	assert.Equal(t, "a", tracker.pending.ClientTag)
}

func TestEntityTracker_ClassifyUpdate_NoPending(t *testing.T) {
	tracker := newEntityTracker("a")
	tracker.recordServerState("srv", 5)

	assert.Equal(t, dispositionStale, tracker.classifyUpdate(4))
	assert.Equal(t, dispositionStale, tracker.classifyUpdate(5))
	assert.Equal(t, dispositionDeliver, tracker.classifyUpdate(6))
}

func TestEntityTracker_ClassifyUpdate_WithPending(t *testing.T) {
	tracker := newEntityTracker("a")
	tracker.recordServerState("srv", 5)
	tracker.enqueueCommit(models.CommitRequestData{BaseVersion: 5})

	assert.Equal(t, dispositionReflection, tracker.classifyUpdate(5))
	assert.Equal(t, dispositionReflection, tracker.classifyUpdate(4))
	assert.Equal(t, dispositionConflict, tracker.classifyUpdate(6))
}

func TestEntityTracker_RecordServerState_NeverRegresses(t *testing.T) {
	tracker := newEntityTracker("a")

	tracker.recordServerState("srv-1", 5)
	tracker.recordServerState("", 3)

	assert.Equal(t, "srv-1", tracker.serverID)
	assert.Equal(t, int64(5), tracker.highestVersion)
}

func TestEntityTracker_MatchesResponse(t *testing.T) {
	tracker := newEntityTracker("a")
	tracker.enqueueCommit(models.CommitRequestData{})
	tracker.enqueueCommit(models.CommitRequestData{})

	assert.False(t, tracker.matchesResponse(models.CommitResponseData{SequenceNumber: 1}))
	assert.True(t, tracker.matchesResponse(models.CommitResponseData{SequenceNumber: 2}))

	tracker.clearPending()
	assert.False(t, tracker.matchesResponse(models.CommitResponseData{SequenceNumber: 2}))
}

func TestEntityTracker_RecordCommitSuccess(t *testing.T) {
	tracker := newEntityTracker("a")
	tracker.enqueueCommit(models.CommitRequestData{BaseVersion: 0})

	tracker.recordCommitSuccess(models.CommitResponseData{
		SequenceNumber: 1,
		ServerID:       "srv-a",
		Version:        1,
	})

	assert.False(t, tracker.hasPendingCommit())
	assert.Equal(t, "srv-a", tracker.serverID)
	assert.Equal(t, int64(1), tracker.highestVersion)

	// a new request on the same tracker keeps counting sequences
	assert.Equal(t, int64(2), tracker.enqueueCommit(models.CommitRequestData{BaseVersion: 1}))
}

func TestEntityTracker_ParkAndTakeUndecrypted(t *testing.T) {
	tracker := newEntityTracker("a")

	_, ok := tracker.takeUndecrypted()
	assert.False(t, ok)

	tracker.parkUndecrypted(models.SyncEntity{ClientTag: "a", Version: 1})
	tracker.parkUndecrypted(models.SyncEntity{ClientTag: "a", Version: 2})
	require.True(t, tracker.hasUndecrypted())

	// the newer payload replaced the older one, and take empties the slot
	entity, ok := tracker.takeUndecrypted()
	require.True(t, ok)
	assert.Equal(t, int64(2), entity.Version)

	_, ok = tracker.takeUndecrypted()
	assert.False(t, ok)
}
