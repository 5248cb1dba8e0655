package engine

import "errors"

var (
	// ErrMalformedProgressMarker rejects a GetUpdates response whose
	// marker is structurally unusable or addressed to another model type.
	// The whole call fails without mutating stored state.
	ErrMalformedProgressMarker = errors.New("malformed progress marker")

	// ErrCommitRejected is the reason passed to OnCommitFailure when the
	// server answered with a plain error status.
	ErrCommitRejected = errors.New("commit rejected by server")

	// ErrCommitConflict is the reason passed to OnCommitFailure when the
	// server answered CONFLICT: the base version was stale and the
	// authoritative state will arrive with the next update batch.
	ErrCommitConflict = errors.New("commit conflicted with newer server version")
)
