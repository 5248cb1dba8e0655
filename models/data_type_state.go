package models

// ProgressMarker is the server-issued watermark for incremental GetUpdates
// queries. The Token is opaque to the client: it is stored and echoed back
// verbatim, never parsed.
type ProgressMarker struct {
	// ModelType names the data category the marker belongs to.
	ModelType ModelType `json:"model_type"`

	// Token is the opaque server watermark. A nil/empty token requests a
	// full (initial) download.
	Token []byte `json:"token,omitempty"`
}

// IsValid reports whether the marker is structurally usable: it must name a
// model type. An empty token is valid (initial sync).
func (m ProgressMarker) IsValid() bool { return m.ModelType != "" }

// DataTypeContext is an opaque, versioned metadata blob the server attaches
// to a data type. The client stores the highest-versioned context it has seen
// and sends it back with every commit.
type DataTypeContext struct {
	// ModelType names the data category the context belongs to.
	ModelType ModelType `json:"model_type"`

	// Version orders contexts; the client keeps the newest.
	Version int64 `json:"version"`

	// Context is the opaque payload, round-tripped verbatim.
	Context []byte `json:"context,omitempty"`
}

// DataTypeState bundles the per-type sync position: the progress marker and
// the data type context. Both are replaced wholesale by every successful
// ProcessGetUpdatesResponse call.
type DataTypeState struct {
	// ProgressMarker is the watermark for the next incremental query.
	ProgressMarker ProgressMarker `json:"progress_marker"`

	// TypeContext is the newest server-supplied context.
	TypeContext DataTypeContext `json:"type_context"`

	// InitialSyncDone is set once the first update batch has been applied;
	// until then updates are flushed through the passive apply path.
	InitialSyncDone bool `json:"initial_sync_done"`
}
