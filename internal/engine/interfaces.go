package engine

//go:generate mockgen -source=interfaces.go -destination=../mock/engine_mock.go -package=mock

import "github.com/MKhiriev/go-sync-engine/models"

// Cryptographer holds the symmetric keys for one account and seals/opens
// entity specifics. Implementations must be non-blocking and fallible: a key
// may simply not be present yet (rotation in progress), which is not an
// error condition for the engine.
//
// The engine never mutates a Cryptographer. A new key set is installed by
// handing a whole new instance to ModelTypeWorker.UpdateCryptographer.
type Cryptographer interface {
	// CanEncrypt reports whether an encryption key is currently held.
	CanEncrypt() bool

	// DefaultKeyName returns the fingerprint of the current encryption
	// key, or "" when CanEncrypt is false.
	DefaultKeyName() string

	// KeyNames returns the fingerprints of all held keys in a stable
	// order. The engine compares the sets of two instances to decide
	// whether a swap actually changed key material.
	KeyNames() []string

	// Encrypt seals plaintext with the default key.
	Encrypt(plaintext []byte) (models.EncryptedBlob, error)

	// CanDecrypt reports whether the key named by blob is held.
	CanDecrypt(blob models.EncryptedBlob) bool

	// Decrypt opens blob. An error means the ciphertext is corrupt or the
	// named key no longer matches; "key not held" must be pre-checked via
	// CanDecrypt.
	Decrypt(blob models.EncryptedBlob) ([]byte, error)
}

// ModelTypeProcessor is the model-side callback target. The engine calls it
// exactly once per distinguishable event: an update batch ready for
// application, a commit verdict for one entity, a supersession of a pending
// commit by server state, or a change of the encryption key set.
//
// All methods are invoked on the engine's home goroutine; implementations
// that talk to another goroutine must post, not block.
type ModelTypeProcessor interface {
	// ApplyUpdates applies one batch of decrypted, conflict-resolved
	// server updates to the local model. initial is true during the
	// bootstrap sync: the processor must store the data without firing
	// its normal change-notification fan-out.
	ApplyUpdates(updates []models.UpdateResponseData, initial bool)

	// OnCommitSuccess acknowledges that the entity's pending change was
	// accepted by the server at the given version.
	OnCommitSuccess(clientTag string, version int64)

	// OnCommitFailure reports that the entity's pending change was
	// rejected. Other pending entities are unaffected.
	OnCommitFailure(clientTag string, reason error)

	// OnCommitSuperseded reports that the entity's pending change was
	// discarded in favour of newer server state, which arrives through
	// ApplyUpdates. This is not a failure.
	OnCommitSuperseded(clientTag string)

	// OnEncryptionKeyChanged reports that the installed key set changed;
	// keyName is the new default encryption key. The model may react by
	// re-enqueuing entities for re-encryption.
	OnEncryptionKeyChanged(keyName string)
}

// NudgeHandler is notified, fire-and-forget, whenever new local work becomes
// available so the owning scheduler can arrange a commit cycle.
type NudgeHandler interface {
	NudgeForCommit(modelType models.ModelType)
}
