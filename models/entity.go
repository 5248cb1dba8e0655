package models

import "encoding/json"

// EncryptedBlob is the envelope produced by a Cryptographer. The key name
// identifies which key of the keybag sealed the blob, so the receiving side
// can tell "I do not hold this key yet" apart from "this ciphertext is
// corrupt".
type EncryptedBlob struct {
	// KeyName is the fingerprint of the key that sealed Blob.
	KeyName string `json:"key_name"`

	// Blob is the ciphertext: nonce ‖ AES-GCM sealed payload.
	Blob []byte `json:"blob"`
}

// EntitySpecifics is the payload of a sync entity. Exactly one of Value or
// Encrypted is set: Value carries the plaintext model data, Encrypted carries
// the sealed form as it travels over the wire.
//
// Unknown holds any remainder of the payload this client version does not
// interpret. It is carried verbatim through receive → store → re-send cycles
// so that newer schema fields survive a round trip through an older client.
type EntitySpecifics struct {
	// Value is the plaintext model payload, opaque to the engine.
	Value json.RawMessage `json:"value,omitempty"`

	// Encrypted is the sealed payload envelope, set instead of Value when
	// the entity is encrypted.
	Encrypted *EncryptedBlob `json:"encrypted,omitempty"`

	// Unknown is the uninterpreted remainder of the specifics, preserved
	// byte-for-byte.
	Unknown json.RawMessage `json:"unknown,omitempty"`
}

// IsEncrypted reports whether the payload is carried in sealed form.
func (s EntitySpecifics) IsEncrypted() bool { return s.Encrypted != nil }

// SyncEntity is the unit of synchronization as it crosses the wire.
//
// Identity: ClientTag is the stable, client-assigned identity of the entity;
// ServerID is assigned by the server on first commit. Either may be empty
// during an entity's first round trip, but never both.
type SyncEntity struct {
	// ServerID is the server-assigned identifier, empty until the entity's
	// first successful commit.
	ServerID string `json:"server_id,omitempty"`

	// ClientTag is the client-assigned identity the entity keeps for life.
	ClientTag string `json:"client_tag"`

	// Version is assigned by the server and increases monotonically with
	// every accepted commit. In a commit request this field carries the
	// base version the change was computed against (0 for a creation).
	Version int64 `json:"version"`

	// Deleted marks a tombstone.
	Deleted bool `json:"deleted,omitempty"`

	// Specifics is the entity payload, possibly encrypted.
	Specifics EntitySpecifics `json:"specifics"`

	// Unknown is any entity-level field this client does not interpret,
	// preserved verbatim across round trips.
	Unknown json.RawMessage `json:"unknown,omitempty"`
}
