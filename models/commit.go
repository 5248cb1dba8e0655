package models

import "encoding/json"

// CommitRequestData is a single local change handed to the engine by the
// model side. Requests for the same ClientTag supersede each other: only the
// most recently enqueued one is ever committed.
type CommitRequestData struct {
	// ClientTag identifies the entity being changed.
	ClientTag string `json:"client_tag"`

	// SequenceNumber is assigned by the engine when the request is
	// enqueued; it strictly increases per entity and is used to detect
	// responses to superseded requests.
	SequenceNumber int64 `json:"sequence_number"`

	// BaseVersion is the server version this change was computed against
	// (0 when the entity has never been committed).
	BaseVersion int64 `json:"base_version"`

	// Deleted marks the request as a deletion.
	Deleted bool `json:"deleted,omitempty"`

	// Specifics is the plaintext payload; the engine encrypts it while
	// assembling a contribution.
	Specifics json.RawMessage `json:"specifics,omitempty"`
}

// CommitResponseStatus classifies the server's verdict on one committed
// entity.
type CommitResponseStatus int

const (
	// CommitSuccess: the server accepted the change and assigned Version.
	CommitSuccess CommitResponseStatus = iota + 1

	// CommitConflict: the base version was stale; the client is expected
	// to pick up the server state through a later GetUpdates.
	CommitConflict

	// CommitError: the server rejected the change for any other reason.
	CommitError
)

// String returns the status name used in logs.
func (s CommitResponseStatus) String() string {
	switch s {
	case CommitSuccess:
		return "success"
	case CommitConflict:
		return "conflict"
	case CommitError:
		return "error"
	default:
		return "unknown"
	}
}

// CommitResponseData is the server's per-entity answer to a commit, paired
// with the originating request by ClientTag and SequenceNumber.
type CommitResponseData struct {
	// ClientTag identifies the entity the response is for.
	ClientTag string `json:"client_tag"`

	// SequenceNumber echoes the request's sequence number so the engine
	// can discard responses to superseded requests.
	SequenceNumber int64 `json:"sequence_number"`

	// Status is the server verdict.
	Status CommitResponseStatus `json:"status"`

	// ServerID is the server-assigned id (set on success, possibly for the
	// first time).
	ServerID string `json:"server_id,omitempty"`

	// Version is the new server version (set on success).
	Version int64 `json:"version,omitempty"`
}
