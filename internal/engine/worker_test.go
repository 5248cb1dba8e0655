package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-engine/internal/crypto"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/mock"
	"github.com/MKhiriev/go-sync-engine/models"
)

const testType = models.ModelType("bookmarks")

// newTestWorker creates a worker with mocked processor and nudge handler and
// a real keybag holding one key.
func newTestWorker(
	t *testing.T,
	ctrl *gomock.Controller,
) (
	*ModelTypeWorker,
	*mock.MockModelTypeProcessor,
	*mock.MockNudgeHandler,
	*crypto.Keybag,
) {
	t.Helper()

	processor := mock.NewMockModelTypeProcessor(ctrl)
	nudge := mock.NewMockNudgeHandler(ctrl)

	keybag, err := crypto.NewKeybag().WithKey([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	worker := NewModelTypeWorker(testType, keybag, processor, nudge, logger.Nop())
	return worker, processor, nudge, keybag
}

func testMarker(token string) models.ProgressMarker {
	return models.ProgressMarker{ModelType: testType, Token: []byte(token)}
}

func plainEntity(tag string, version int64, value string) models.SyncEntity {
	return models.SyncEntity{
		ClientTag: tag,
		ServerID:  "srv-" + tag,
		Version:   version,
		Specifics: models.EntitySpecifics{Value: json.RawMessage(value)},
	}
}

func sealedEntity(t *testing.T, keybag *crypto.Keybag, tag string, version int64, value string) models.SyncEntity {
	t.Helper()
	blob, err := keybag.Encrypt([]byte(value))
	require.NoError(t, err)
	return models.SyncEntity{
		ClientTag: tag,
		ServerID:  "srv-" + tag,
		Version:   version,
		Specifics: models.EntitySpecifics{Encrypted: &blob},
	}
}

// ── update ingestion ─────────────────────────────────────────────────────────

func TestWorker_ProcessGetUpdatesResponse_MalformedMarker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, _, _ := newTestWorker(t, ctrl)

	err := worker.ProcessGetUpdatesResponse(
		models.ProgressMarker{},
		models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{plainEntity("a", 1, `{"x":1}`)},
	)
	require.ErrorIs(t, err, ErrMalformedProgressMarker)

	// nothing stored, nothing queued
	assert.Empty(t, worker.GetDownloadProgress().Token)
	assert.Zero(t, worker.TrackerCount())
}

func TestWorker_ProcessGetUpdatesResponse_MarkerForOtherType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, _, _ := newTestWorker(t, ctrl)

	err := worker.ProcessGetUpdatesResponse(
		models.ProgressMarker{ModelType: "passwords", Token: []byte("tok")},
		models.DataTypeContext{ModelType: "passwords"},
		nil,
	)
	require.ErrorIs(t, err, ErrMalformedProgressMarker)
	assert.Empty(t, worker.GetDownloadProgress().Token)
}

func TestWorker_ProcessGetUpdatesResponse_EmptyBatchStoresMarker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, _, _ := newTestWorker(t, ctrl)

	// no processor expectations: an empty batch must never reach it
	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType, Version: 3}, nil))
	worker.ApplyUpdates()

	assert.Equal(t, []byte("t1"), worker.GetDownloadProgress().Token)
	assert.Equal(t, int64(3), worker.GetDataTypeContext().Version)
	assert.True(t, worker.InitialSyncDone())
}

func TestWorker_ProcessGetUpdatesResponse_DeliversPlaintext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, _, _ := newTestWorker(t, ctrl)

	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{plainEntity("a", 1, `{"x":1}`), plainEntity("b", 2, `{"x":2}`)}))

	processor.EXPECT().ApplyUpdates(gomock.Any(), true).Do(func(updates []models.UpdateResponseData, _ bool) {
		require.Len(t, updates, 2)
		assert.Equal(t, "a", updates[0].Entity.ClientTag)
		assert.Equal(t, "b", updates[1].Entity.ClientTag)
		assert.Empty(t, updates[0].EncryptionKeyName)
	})
	worker.PassiveApplyUpdates()
	assert.True(t, worker.InitialSyncDone())

	// a second flush has nothing left to deliver
	worker.ApplyUpdates()
}

func TestWorker_ProcessGetUpdatesResponse_DecryptsSealedSpecifics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, _, keybag := newTestWorker(t, ctrl)

	entity := sealedEntity(t, keybag, "a", 4, `{"secret":true}`)
	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{entity}))

	processor.EXPECT().ApplyUpdates(gomock.Any(), false).Do(func(updates []models.UpdateResponseData, _ bool) {
		require.Len(t, updates, 1)
		assert.JSONEq(t, `{"secret":true}`, string(updates[0].Entity.Specifics.Value))
		assert.False(t, updates[0].Entity.Specifics.IsEncrypted())
		assert.Equal(t, keybag.DefaultKeyName(), updates[0].EncryptionKeyName)
	})
	worker.ApplyUpdates()
}

func TestWorker_ProcessGetUpdatesResponse_DropsCorruptCiphertext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, _, keybag := newTestWorker(t, ctrl)

	corrupt := sealedEntity(t, keybag, "bad", 1, `{"x":1}`)
	corrupt.Specifics.Encrypted.Blob[len(corrupt.Specifics.Encrypted.Blob)-1] ^= 0xff
	good := plainEntity("good", 2, `{"x":2}`)

	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{corrupt, good}))

	processor.EXPECT().ApplyUpdates(gomock.Any(), false).Do(func(updates []models.UpdateResponseData, _ bool) {
		require.Len(t, updates, 1)
		assert.Equal(t, "good", updates[0].Entity.ClientTag)
	})
	worker.ApplyUpdates()

	// the corrupt entity is gone for good, not parked
	worker.UpdateCryptographer(keybag)
	worker.ApplyUpdates()
}

func TestWorker_ProcessGetUpdatesResponse_StaleVersionDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, _, _ := newTestWorker(t, ctrl)

	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{plainEntity("a", 3, `{"v":3}`)}))
	processor.EXPECT().ApplyUpdates(gomock.Any(), false)
	worker.ApplyUpdates()

	// an older duplicate of the same entity arrives later
	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t2"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{plainEntity("a", 2, `{"v":2}`)}))
	worker.ApplyUpdates()

	assert.Equal(t, []byte("t2"), worker.GetDownloadProgress().Token)
}

// ── encryption lifecycle ─────────────────────────────────────────────────────

func TestWorker_UpdateCryptographer_ParkedUpdateDeliveredOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, _, _ := newTestWorker(t, ctrl)

	otherBag, err := crypto.NewKeybag().WithKey([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)
	entity := sealedEntity(t, otherBag, "a", 1, `{"later":1}`)

	// key not held yet: parked, batch succeeds, nothing delivered
	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{entity}))
	worker.ApplyUpdates()

	// the key arrives: the parked payload is retried and delivered
	processor.EXPECT().OnEncryptionKeyChanged(otherBag.DefaultKeyName())
	worker.UpdateCryptographer(otherBag)

	processor.EXPECT().ApplyUpdates(gomock.Any(), false).Do(func(updates []models.UpdateResponseData, _ bool) {
		require.Len(t, updates, 1)
		assert.JSONEq(t, `{"later":1}`, string(updates[0].Entity.Specifics.Value))
	})
	worker.ApplyUpdates()

	// a second install of the same bag finds nothing parked and the key
	// set unchanged
	worker.UpdateCryptographer(otherBag)
	worker.ApplyUpdates()
}

func TestWorker_UpdateCryptographer_StillMissingKeyReparks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, _, _ := newTestWorker(t, ctrl)

	sealerBag, err := crypto.NewKeybag().WithKey([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)
	entity := sealedEntity(t, sealerBag, "a", 1, `{"later":1}`)

	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{entity}))

	// rotation to yet another key that still cannot open the payload
	wrongBag, err := crypto.NewKeybag().WithKey([]byte("00000000000000000000000000000000"))
	require.NoError(t, err)
	processor.EXPECT().OnEncryptionKeyChanged(wrongBag.DefaultKeyName())
	worker.UpdateCryptographer(wrongBag)
	worker.ApplyUpdates()

	// the right key finally arrives through a bag that kept the old one
	rightBag, err := wrongBag.WithKey([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)
	processor.EXPECT().OnEncryptionKeyChanged(rightBag.DefaultKeyName())
	worker.UpdateCryptographer(rightBag)

	processor.EXPECT().ApplyUpdates(gomock.Any(), false).Do(func(updates []models.UpdateResponseData, _ bool) {
		require.Len(t, updates, 1)
		assert.JSONEq(t, `{"later":1}`, string(updates[0].Entity.Specifics.Value))
	})
	worker.ApplyUpdates()
}

func TestWorker_UpdateCryptographer_SameKeySetNoNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, _, _ := newTestWorker(t, ctrl)

	sameBag, err := crypto.NewKeybag().WithKey([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	// no OnEncryptionKeyChanged expectation: same fingerprints, no call
	worker.UpdateCryptographer(sameBag)
}

// ── commit contribution ──────────────────────────────────────────────────────

func TestWorker_EnqueueForCommit_NudgesOncePerCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, nudge, _ := newTestWorker(t, ctrl)

	nudge.EXPECT().NudgeForCommit(testType).Times(1)
	worker.EnqueueForCommit([]models.CommitRequestData{
		{ClientTag: "a", Specifics: json.RawMessage(`{"x":1}`)},
		{ClientTag: "b", Specifics: json.RawMessage(`{"x":2}`)},
	})

	assert.True(t, worker.HasLocalChanges())
	assert.Equal(t, 2, worker.PendingCommitCount())
}

func TestWorker_EnqueueForCommit_EmptyTagDroppedNoNudge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, _, _ := newTestWorker(t, ctrl)

	worker.EnqueueForCommit([]models.CommitRequestData{{Specifics: json.RawMessage(`{"x":1}`)}})
	assert.False(t, worker.HasLocalChanges())
}

func TestWorker_GetContribution_BoundedAndOrdered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, nudge, _ := newTestWorker(t, ctrl)
	nudge.EXPECT().NudgeForCommit(testType)

	worker.EnqueueForCommit([]models.CommitRequestData{
		{ClientTag: "c", Specifics: json.RawMessage(`{"c":1}`)},
		{ClientTag: "a", Specifics: json.RawMessage(`{"a":1}`)},
		{ClientTag: "b", Specifics: json.RawMessage(`{"b":1}`)},
	})

	contribution := worker.GetContribution(2)
	require.NotNil(t, contribution)
	require.Equal(t, 2, contribution.Len())

	req := contribution.BuildRequest()
	assert.Equal(t, testType, req.ModelType)
	require.Len(t, req.Entities, 2)
	assert.Equal(t, "a", req.Entities[0].ClientTag)
	assert.Equal(t, "b", req.Entities[1].ClientTag)
	assert.True(t, req.Entities[0].Specifics.IsEncrypted())

	// "c" stays pending for the next cycle
	assert.Equal(t, 3, worker.PendingCommitCount())
}

func TestWorker_GetContribution_EmptyWhenNothingPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, _, _ := newTestWorker(t, ctrl)
	assert.Nil(t, worker.GetContribution(10))
	assert.Nil(t, worker.GetContribution(0))
}

func TestWorker_GetContribution_NoEncryptionKeySkipsEntity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	processor := mock.NewMockModelTypeProcessor(ctrl)
	nudge := mock.NewMockNudgeHandler(ctrl)
	worker := NewModelTypeWorker(testType, nil, processor, nudge, logger.Nop())

	nudge.EXPECT().NudgeForCommit(testType)
	worker.EnqueueForCommit([]models.CommitRequestData{
		{ClientTag: "a", Specifics: json.RawMessage(`{"x":1}`)},
		{ClientTag: "tombstone", Deleted: true},
	})

	// deletions carry no payload and need no key
	contribution := worker.GetContribution(10)
	require.NotNil(t, contribution)
	require.Equal(t, 1, contribution.Len())
	req := contribution.BuildRequest()
	assert.Equal(t, "tombstone", req.Entities[0].ClientTag)
	assert.True(t, req.Entities[0].Deleted)

	// "a" is still pending, not dropped
	assert.Equal(t, 2, worker.PendingCommitCount())
}

func TestWorker_OnCommitResponse_SuccessAdvancesVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, nudge, _ := newTestWorker(t, ctrl)
	nudge.EXPECT().NudgeForCommit(testType)

	worker.EnqueueForCommit([]models.CommitRequestData{{ClientTag: "a", Specifics: json.RawMessage(`{"x":1}`)}})

	processor.EXPECT().OnCommitSuccess("a", int64(7))
	worker.OnCommitResponse([]models.CommitResponseData{{
		ClientTag:      "a",
		SequenceNumber: 1,
		Status:         models.CommitSuccess,
		ServerID:       "srv-a",
		Version:        7,
	}})

	assert.False(t, worker.HasLocalChanges())

	// the acked version is now known server state: an equal-versioned
	// update is stale
	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{plainEntity("a", 7, `{"x":1}`)}))
	worker.ApplyUpdates()
}

func TestWorker_OnCommitResponse_ConflictAndRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, nudge, _ := newTestWorker(t, ctrl)
	nudge.EXPECT().NudgeForCommit(testType)

	worker.EnqueueForCommit([]models.CommitRequestData{
		{ClientTag: "a", Specifics: json.RawMessage(`{"x":1}`)},
		{ClientTag: "b", Specifics: json.RawMessage(`{"x":2}`)},
	})

	processor.EXPECT().OnCommitFailure("a", ErrCommitConflict)
	processor.EXPECT().OnCommitFailure("b", ErrCommitRejected)
	worker.OnCommitResponse([]models.CommitResponseData{
		{ClientTag: "a", SequenceNumber: 1, Status: models.CommitConflict},
		{ClientTag: "b", SequenceNumber: 1, Status: models.CommitError},
	})

	assert.False(t, worker.HasLocalChanges())
}

func TestWorker_OnCommitResponse_SupersededSequenceDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, nudge, _ := newTestWorker(t, ctrl)
	nudge.EXPECT().NudgeForCommit(testType).Times(2)

	worker.EnqueueForCommit([]models.CommitRequestData{{ClientTag: "a", Specifics: json.RawMessage(`{"v":1}`)}})
	// the user edits again before the first commit is answered
	worker.EnqueueForCommit([]models.CommitRequestData{{ClientTag: "a", Specifics: json.RawMessage(`{"v":2}`)}})

	// late answer to the superseded request: no processor call, the new
	// request stays pending
	worker.OnCommitResponse([]models.CommitResponseData{{
		ClientTag:      "a",
		SequenceNumber: 1,
		Status:         models.CommitSuccess,
		Version:        5,
	}})

	assert.True(t, worker.HasLocalChanges())
	assert.Equal(t, 1, worker.PendingCommitCount())
}

func TestWorker_OnCommitResponse_UnknownTagIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, _, _, _ := newTestWorker(t, ctrl)

	worker.OnCommitResponse([]models.CommitResponseData{{
		ClientTag:      "never-seen",
		SequenceNumber: 1,
		Status:         models.CommitSuccess,
	}})
	assert.Zero(t, worker.TrackerCount())
}

// ── conflict and reflection ──────────────────────────────────────────────────

func TestWorker_PendingCommit_ReflectionSuppressed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, nudge, _ := newTestWorker(t, ctrl)
	nudge.EXPECT().NudgeForCommit(testType)

	// known server state v5, local edit on top of it
	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{plainEntity("a", 5, `{"v":5}`)}))
	processor.EXPECT().ApplyUpdates(gomock.Any(), false)
	worker.ApplyUpdates()

	worker.EnqueueForCommit([]models.CommitRequestData{{
		ClientTag:   "a",
		BaseVersion: 5,
		Specifics:   json.RawMessage(`{"v":"local"}`),
	}})

	// the server echoes v5 back while the commit is pending: reflection,
	// dropped, the pending commit survives
	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t2"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{plainEntity("a", 5, `{"v":5}`)}))
	worker.ApplyUpdates()

	assert.True(t, worker.HasLocalChanges())
}

func TestWorker_PendingCommit_ConflictServerWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker, processor, nudge, _ := newTestWorker(t, ctrl)
	nudge.EXPECT().NudgeForCommit(testType)

	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t1"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{plainEntity("a", 5, `{"v":5}`)}))
	processor.EXPECT().ApplyUpdates(gomock.Any(), false)
	worker.ApplyUpdates()

	worker.EnqueueForCommit([]models.CommitRequestData{{
		ClientTag:   "a",
		BaseVersion: 5,
		Specifics:   json.RawMessage(`{"v":"local"}`),
	}})

	// another device committed v6: the pending local commit loses, but
	// the processor hears nothing until the flush (no expectations are
	// set here, so an early notification would fail the test)
	require.NoError(t, worker.ProcessGetUpdatesResponse(testMarker("t2"), models.DataTypeContext{ModelType: testType},
		[]models.SyncEntity{plainEntity("a", 6, `{"v":6}`)}))

	processor.EXPECT().OnCommitSuperseded("a")
	processor.EXPECT().ApplyUpdates(gomock.Any(), false).Do(func(updates []models.UpdateResponseData, _ bool) {
		require.Len(t, updates, 1)
		assert.Equal(t, int64(6), updates[0].Entity.Version)
	})
	worker.ApplyUpdates()

	assert.False(t, worker.HasLocalChanges())
	assert.Nil(t, worker.GetContribution(10))
}
