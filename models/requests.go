package models

// GetUpdatesRequest asks the server for every entity of one type changed
// since the given progress marker.
type GetUpdatesRequest struct {
	// ModelType names the data category being queried.
	ModelType ModelType `json:"model_type"`

	// ProgressMarker is the watermark from the previous successful cycle,
	// echoed back verbatim. An empty token requests the initial download.
	ProgressMarker ProgressMarker `json:"progress_marker"`
}

// GetUpdatesResponse carries one batch of changed entities together with the
// fresh watermark and type context the client must store.
type GetUpdatesResponse struct {
	// Entities changed since the request's marker, in server order.
	Entities []SyncEntity `json:"entities"`

	// ProgressMarker is the new watermark covering this batch.
	ProgressMarker ProgressMarker `json:"progress_marker"`

	// TypeContext is the server's current context for this type.
	TypeContext DataTypeContext `json:"type_context"`
}

// CommitRequest ships one bounded batch of local changes to the server.
type CommitRequest struct {
	// ModelType names the data category being committed.
	ModelType ModelType `json:"model_type"`

	// TypeContext is the newest context the client has seen, echoed back
	// so the server can detect a stale client.
	TypeContext DataTypeContext `json:"type_context"`

	// Entities are the committed entities; each Version field carries the
	// base version the change was computed against.
	Entities []SyncEntity `json:"entities"`
}

// CommitEntityResult is the server's per-entity commit verdict as it appears
// on the wire.
type CommitEntityResult struct {
	// ClientTag identifies the entity.
	ClientTag string `json:"client_tag"`

	// Status is the verdict.
	Status CommitResponseStatus `json:"status"`

	// ServerID is the (possibly newly assigned) server id on success.
	ServerID string `json:"server_id,omitempty"`

	// Version is the new server version on success.
	Version int64 `json:"version,omitempty"`
}

// CommitResponse answers a CommitRequest entity by entity, in request order.
type CommitResponse struct {
	// Results holds one entry per committed entity.
	Results []CommitEntityResult `json:"results"`
}
