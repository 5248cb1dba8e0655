package engine

import "github.com/MKhiriev/go-sync-engine/models"

// updateDisposition classifies one incoming server update against the
// tracker's current state.
type updateDisposition int

const (
	// dispositionDeliver: new server state, forward to the model.
	dispositionDeliver updateDisposition = iota + 1

	// dispositionReflection: the server echoing back the client's own
	// pending change; drop without forwarding.
	dispositionReflection

	// dispositionStale: version not newer than what was already seen;
	// drop.
	dispositionStale

	// dispositionConflict: real conflict with a pending local commit; the
	// pending commit is discarded and the server state wins.
	dispositionConflict
)

// entityTracker is the per-entity state slot. One tracker is created lazily
// on the first reference to an entity's identity — from either side of the
// protocol — and lives for the lifetime of the worker.
type entityTracker struct {
	// clientTag is the entity's stable identity.
	clientTag string

	// serverID is filled in once the server has assigned one.
	serverID string

	// highestVersion is the highest server version observed for this
	// entity, via updates or commit acks.
	highestVersion int64

	// lastSequence is the sequence number most recently assigned to a
	// commit request for this entity. Strictly increasing, never reused.
	lastSequence int64

	// pending is the one in-flight/unacked local commit, or nil.
	// Enqueuing a new request overwrites it (supersession).
	pending *models.CommitRequestData

	// undecrypted parks the raw update payload that the current
	// cryptographer could not open, awaiting a future key. At most one is
	// kept; a newer undecryptable update replaces an older one.
	undecrypted *models.SyncEntity
}

func newEntityTracker(clientTag string) *entityTracker {
	return &entityTracker{clientTag: clientTag}
}

// enqueueCommit stores req as the entity's pending commit, assigning it the
// next sequence number. Any previous pending request is superseded: its
// sequence number is abandoned and a late response for it will be discarded.
// Returns the sequence number assigned.
func (t *entityTracker) enqueueCommit(req models.CommitRequestData) int64 {
	t.lastSequence++
	req.ClientTag = t.clientTag
	req.SequenceNumber = t.lastSequence
	t.pending = &req
	return t.lastSequence
}

func (t *entityTracker) hasPendingCommit() bool { return t.pending != nil }

// classifyUpdate decides what to do with a server update at the given
// version. With a pending commit, the pending request's base version is the
// reflection boundary; without one, anything at or below the highest
// observed version is stale.
func (t *entityTracker) classifyUpdate(version int64) updateDisposition {
	if t.pending != nil {
		if version <= t.pending.BaseVersion {
			return dispositionReflection
		}
		return dispositionConflict
	}
	if version <= t.highestVersion {
		return dispositionStale
	}
	return dispositionDeliver
}

// recordServerState advances the tracker to the given server version/id.
// Called for every update forwarded to the model and for conflict
// resolutions that take the server side.
func (t *entityTracker) recordServerState(serverID string, version int64) {
	if serverID != "" {
		t.serverID = serverID
	}
	if version > t.highestVersion {
		t.highestVersion = version
	}
}

// clearPending drops the pending commit, abandoning its sequence number.
func (t *entityTracker) clearPending() {
	t.pending = nil
}

// matchesResponse reports whether a commit response belongs to the currently
// pending request. A false result with a pending request present means the
// response is stale (its request was superseded).
func (t *entityTracker) matchesResponse(resp models.CommitResponseData) bool {
	return t.pending != nil && t.pending.SequenceNumber == resp.SequenceNumber
}

// recordCommitSuccess applies a successful commit ack: the entity's version
// advances to the server-assigned one and the pending slot is cleared.
func (t *entityTracker) recordCommitSuccess(resp models.CommitResponseData) {
	t.recordServerState(resp.ServerID, resp.Version)
	t.pending = nil
}

// parkUndecrypted retains the raw entity until a cryptographer update makes
// decryption possible. A newer parked payload replaces an older one.
func (t *entityTracker) parkUndecrypted(entity models.SyncEntity) {
	e := entity
	t.undecrypted = &e
}

// takeUndecrypted removes and returns the parked payload, if any. The caller
// gets exactly one shot at it — a payload is never handed out twice.
func (t *entityTracker) takeUndecrypted() (models.SyncEntity, bool) {
	if t.undecrypted == nil {
		return models.SyncEntity{}, false
	}
	e := *t.undecrypted
	t.undecrypted = nil
	return e, true
}

func (t *entityTracker) hasUndecrypted() bool { return t.undecrypted != nil }
