package engine

import (
	"fmt"
	"sort"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// ModelTypeWorker mediates between the local model and the sync server for
// one model type. It translates local mutations into outgoing commit
// contributions, applies server updates to the local model, keeps the
// per-type encryption state, and resolves conflicts between pending local
// commits and incoming server state (server wins).
//
// The worker has single-goroutine affinity: every method must be called from
// the sync loop that owns it. It holds no locks; cross-goroutine callers
// post into the loop (see the scheduler package).
type ModelTypeWorker struct {
	modelType models.ModelType

	state         models.DataTypeState
	cryptographer Cryptographer
	processor     ModelTypeProcessor
	nudge         NudgeHandler

	// trackers is keyed by client tag and only ever grows: entries are
	// retained for the worker's lifetime, even once fully resolved.
	trackers map[string]*entityTracker

	// queued holds decrypted, conflict-resolved updates awaiting the next
	// ApplyUpdates/PassiveApplyUpdates flush.
	queued []models.UpdateResponseData

	// superseded collects tags whose pending commit lost a conflict
	// during ingestion; the processor hears about them at the next flush,
	// together with the winning server update.
	superseded []string

	logger *logger.Logger
}

// NewModelTypeWorker constructs a worker for modelType. cryptographer may be
// nil until the first UpdateCryptographer call; encrypted updates received
// before then are parked, and no contribution entities are produced.
func NewModelTypeWorker(
	modelType models.ModelType,
	cryptographer Cryptographer,
	processor ModelTypeProcessor,
	nudge NudgeHandler,
	log *logger.Logger,
) *ModelTypeWorker {
	return &ModelTypeWorker{
		modelType:     modelType,
		cryptographer: cryptographer,
		processor:     processor,
		nudge:         nudge,
		trackers:      make(map[string]*entityTracker),
		logger:        log.WithType(modelType.String()),
		state: models.DataTypeState{
			ProgressMarker: models.ProgressMarker{ModelType: modelType},
			TypeContext:    models.DataTypeContext{ModelType: modelType},
		},
	}
}

// ModelType returns the data category this worker serves.
func (w *ModelTypeWorker) ModelType() models.ModelType { return w.modelType }

// ── update ingestion ─────────────────────────────────────────────────────────

// ProcessGetUpdatesResponse ingests one GetUpdates batch: it validates and
// stores the new progress marker and type context, then decrypts (or parks),
// conflict-resolves, and queues each entity for a later
// ApplyUpdates/PassiveApplyUpdates flush.
//
// A marker that is structurally unusable or addressed to a different model
// type fails the whole call with ErrMalformedProgressMarker and mutates no
// stored state. Per-entity problems never fail the batch: corrupt ciphertext
// drops that entity, a missing key parks it for retry.
func (w *ModelTypeWorker) ProcessGetUpdatesResponse(
	marker models.ProgressMarker,
	typeContext models.DataTypeContext,
	entities []models.SyncEntity,
) error {
	if !marker.IsValid() {
		return ErrMalformedProgressMarker
	}
	if marker.ModelType != w.modelType {
		return fmt.Errorf("%w: marker for type %q on worker for %q",
			ErrMalformedProgressMarker, marker.ModelType, w.modelType)
	}

	for _, entity := range entities {
		w.ingestUpdate(entity)
	}

	w.state.ProgressMarker = marker
	w.state.TypeContext = typeContext

	return nil
}

// ingestUpdate handles one raw server update: resolve the tracker, decrypt
// or park, classify against any pending commit, queue for delivery. Shared
// by batch ingestion and the post-rotation rescan.
func (w *ModelTypeWorker) ingestUpdate(entity models.SyncEntity) {
	if entity.ClientTag == "" {
		w.logger.Warn().Str("server_id", entity.ServerID).
			Msg("dropping update without client tag")
		return
	}
	tracker := w.trackerFor(entity.ClientTag)

	var keyName string
	if entity.Specifics.IsEncrypted() {
		blob := *entity.Specifics.Encrypted
		if w.cryptographer == nil || !w.cryptographer.CanDecrypt(blob) {
			// Not an error: park until a future key arrives.
			tracker.parkUndecrypted(entity)
			w.logger.Debug().Str("client_tag", entity.ClientTag).
				Str("key_name", blob.KeyName).
				Msg("update parked awaiting decryption key")
			return
		}

		plaintext, err := w.cryptographer.Decrypt(blob)
		if err != nil {
			// Corrupt ciphertext: drop this entity, keep the batch.
			w.logger.Error().Err(err).Str("client_tag", entity.ClientTag).
				Msg("dropping update with undecryptable specifics")
			return
		}
		keyName = blob.KeyName
		entity.Specifics = models.EntitySpecifics{
			Value:   plaintext,
			Unknown: entity.Specifics.Unknown,
		}
	}

	switch tracker.classifyUpdate(entity.Version) {
	case dispositionReflection:
		w.logger.Debug().Str("client_tag", entity.ClientTag).
			Int64("version", entity.Version).
			Msg("dropping reflection of own pending commit")

	case dispositionStale:
		w.logger.Debug().Str("client_tag", entity.ClientTag).
			Int64("version", entity.Version).
			Msg("dropping update older than known server state")

	case dispositionConflict:
		// Server-authoritative policy: the pending local commit loses.
		// The processor is not told yet: ingestion must stay free of
		// visible side effects, so the notification waits for the
		// flush that delivers the winning update.
		tracker.clearPending()
		w.superseded = append(w.superseded, entity.ClientTag)
		w.deliver(tracker, entity, keyName)
		w.logger.Info().Str("client_tag", entity.ClientTag).
			Int64("version", entity.Version).
			Msg("pending commit superseded by server update")

	case dispositionDeliver:
		w.deliver(tracker, entity, keyName)
	}
}

func (w *ModelTypeWorker) deliver(tracker *entityTracker, entity models.SyncEntity, keyName string) {
	tracker.recordServerState(entity.ServerID, entity.Version)
	w.queued = append(w.queued, models.UpdateResponseData{
		Entity:            entity,
		EncryptionKeyName: keyName,
	})
}

// ApplyUpdates flushes the queued resolved updates to the processor through
// its normal change-notification path, and marks the initial sync done.
// A flush with nothing queued is a no-op: the processor is never handed an
// empty batch.
func (w *ModelTypeWorker) ApplyUpdates() {
	w.flushQueued(false)
	w.state.InitialSyncDone = true
}

// PassiveApplyUpdates flushes the queued resolved updates for the bootstrap
// sync: the processor stores the data without firing reactive side effects.
func (w *ModelTypeWorker) PassiveApplyUpdates() {
	w.flushQueued(true)
	w.state.InitialSyncDone = true
}

func (w *ModelTypeWorker) flushQueued(initial bool) {
	for _, tag := range w.superseded {
		w.processor.OnCommitSuperseded(tag)
	}
	w.superseded = nil

	if len(w.queued) == 0 {
		return
	}
	batch := w.queued
	w.queued = nil
	w.processor.ApplyUpdates(batch, initial)
}

// GetDownloadProgress returns the stored progress marker. Pure accessor.
func (w *ModelTypeWorker) GetDownloadProgress() models.ProgressMarker {
	return w.state.ProgressMarker
}

// GetDataTypeContext returns the stored data type context. Pure accessor.
func (w *ModelTypeWorker) GetDataTypeContext() models.DataTypeContext {
	return w.state.TypeContext
}

// InitialSyncDone reports whether at least one update flush has completed;
// the owner uses it to pick the passive or active apply path.
func (w *ModelTypeWorker) InitialSyncDone() bool { return w.state.InitialSyncDone }

// ── commit contribution ──────────────────────────────────────────────────────

// EnqueueForCommit records local changes as pending commits. A request for
// an entity that already has a pending commit supersedes it: the old request
// is overwritten, its sequence number abandoned, and any late response for
// it will be discarded. Nudges the scheduler once per call that enqueued
// anything; performs no network I/O.
func (w *ModelTypeWorker) EnqueueForCommit(requests []models.CommitRequestData) {
	enqueued := 0
	for _, req := range requests {
		if req.ClientTag == "" {
			w.logger.Warn().Msg("dropping commit request without client tag")
			continue
		}
		tracker := w.trackerFor(req.ClientTag)
		seq := tracker.enqueueCommit(req)
		w.logger.Debug().Str("client_tag", req.ClientTag).
			Int64("sequence", seq).
			Int64("base_version", req.BaseVersion).
			Msg("commit request enqueued")
		enqueued++
	}

	if enqueued > 0 && w.nudge != nil {
		w.nudge.NudgeForCommit(w.modelType)
	}
}

// HasLocalChanges reports whether any entity has a pending commit.
func (w *ModelTypeWorker) HasLocalChanges() bool {
	return w.PendingCommitCount() > 0
}

// PendingCommitCount reports how many entities currently have a pending
// commit.
func (w *ModelTypeWorker) PendingCommitCount() int {
	n := 0
	for _, t := range w.trackers {
		if t.hasPendingCommit() {
			n++
		}
	}
	return n
}

// GetContribution assembles up to max pending entities into a commit
// contribution, walking entities in ascending client-tag order. Specifics
// are sealed with the held cryptographer; an entity that cannot currently be
// encrypted is skipped and stays pending rather than failing the whole
// contribution. Returns nil when nothing could be contributed.
func (w *ModelTypeWorker) GetContribution(max int) *Contribution {
	if max <= 0 {
		return nil
	}

	tags := make([]string, 0, len(w.trackers))
	for tag, t := range w.trackers {
		if t.hasPendingCommit() {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)

	entities := make([]models.SyncEntity, 0, max)
	refs := make([]commitRef, 0, max)
	for _, tag := range tags {
		if len(entities) >= max {
			break
		}
		tracker := w.trackers[tag]
		req := *tracker.pending

		var specifics models.EntitySpecifics
		if !req.Deleted {
			if w.cryptographer == nil || !w.cryptographer.CanEncrypt() {
				// Key rotation in progress: leave pending for a
				// later cycle.
				w.logger.Debug().Str("client_tag", tag).
					Msg("skipping contribution entity: no encryption key")
				continue
			}
			blob, err := w.cryptographer.Encrypt(req.Specifics)
			if err != nil {
				w.logger.Error().Err(err).Str("client_tag", tag).
					Msg("skipping contribution entity: encrypt failed")
				continue
			}
			specifics.Encrypted = &blob
		}

		entities = append(entities, models.SyncEntity{
			ServerID:  tracker.serverID,
			ClientTag: tag,
			Version:   req.BaseVersion,
			Deleted:   req.Deleted,
			Specifics: specifics,
		})
		refs = append(refs, commitRef{clientTag: tag, sequence: req.SequenceNumber})
	}

	if len(entities) == 0 {
		return nil
	}
	return &Contribution{
		modelType:   w.modelType,
		typeContext: w.state.TypeContext,
		entities:    entities,
		refs:        refs,
		worker:      w,
	}
}

// OnCommitResponse reconciles per-entity commit verdicts. A response is
// matched to the pending request by client tag and sequence number: a match
// settles the pending slot and notifies the processor; a stale sequence
// number (the request was superseded in the meantime) is discarded silently;
// an unknown client tag is logged and ignored.
func (w *ModelTypeWorker) OnCommitResponse(responses []models.CommitResponseData) {
	for _, resp := range responses {
		tracker, ok := w.trackers[resp.ClientTag]
		if !ok {
			// Should not happen with a correct caller.
			w.logger.Warn().Str("client_tag", resp.ClientTag).
				Msg("commit response for unknown entity ignored")
			continue
		}
		if !tracker.matchesResponse(resp) {
			w.logger.Debug().Str("client_tag", resp.ClientTag).
				Int64("sequence", resp.SequenceNumber).
				Msg("discarding commit response for superseded request")
			continue
		}

		switch resp.Status {
		case models.CommitSuccess:
			tracker.recordCommitSuccess(resp)
			w.processor.OnCommitSuccess(resp.ClientTag, resp.Version)

		case models.CommitConflict:
			tracker.clearPending()
			w.processor.OnCommitFailure(resp.ClientTag, ErrCommitConflict)

		default:
			tracker.clearPending()
			w.processor.OnCommitFailure(resp.ClientTag, ErrCommitRejected)
		}
	}
}

// ── encryption lifecycle ─────────────────────────────────────────────────────

// UpdateCryptographer replaces the held cryptographer wholesale and rescans
// every tracker with a parked payload: each is retried exactly once against
// the new key set — delivered on success, re-parked while the key is still
// missing, dropped if the ciphertext turns out to be corrupt. If the key set
// actually changed, the processor receives a single OnEncryptionKeyChanged
// notification.
func (w *ModelTypeWorker) UpdateCryptographer(cryptographer Cryptographer) {
	old := w.cryptographer
	w.cryptographer = cryptographer

	if cryptographer != nil {
		tags := make([]string, 0)
		for tag, t := range w.trackers {
			if t.hasUndecrypted() {
				tags = append(tags, tag)
			}
		}
		sort.Strings(tags)

		for _, tag := range tags {
			entity, ok := w.trackers[tag].takeUndecrypted()
			if !ok {
				continue
			}
			// ingestUpdate re-parks if the key is still missing,
			// so a payload is retried once and never delivered
			// twice.
			w.ingestUpdate(entity)
		}
	}

	if keySetChanged(old, cryptographer) {
		keyName := ""
		if cryptographer != nil {
			keyName = cryptographer.DefaultKeyName()
		}
		w.processor.OnEncryptionKeyChanged(keyName)
		w.logger.Info().Str("key_name", keyName).Msg("encryption key set changed")
	}
}

func keySetChanged(old, updated Cryptographer) bool {
	oldNames := cryptographerKeyNames(old)
	newNames := cryptographerKeyNames(updated)
	if len(oldNames) != len(newNames) {
		return true
	}
	for i := range oldNames {
		if oldNames[i] != newNames[i] {
			return true
		}
	}
	return false
}

func cryptographerKeyNames(c Cryptographer) []string {
	if c == nil {
		return nil
	}
	names := append([]string(nil), c.KeyNames()...)
	sort.Strings(names)
	return names
}

// ── bookkeeping ──────────────────────────────────────────────────────────────

// TrackerCount reports how many entity trackers the worker holds. Trackers
// are never evicted, so the count only grows; owners can watch it on
// long-lived, large accounts.
func (w *ModelTypeWorker) TrackerCount() int { return len(w.trackers) }

func (w *ModelTypeWorker) trackerFor(clientTag string) *entityTracker {
	tracker, ok := w.trackers[clientTag]
	if !ok {
		tracker = newEntityTracker(clientTag)
		w.trackers[clientTag] = tracker
	}
	return tracker
}
