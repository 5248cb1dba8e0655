package models

// UpdateResponseData is a fully decrypted, conflict-resolved server update
// ready for application to the local model.
type UpdateResponseData struct {
	// Entity is the server state with plaintext specifics.
	Entity SyncEntity `json:"entity"`

	// EncryptionKeyName names the key the payload arrived sealed under,
	// or is empty if the payload was not encrypted on the wire.
	EncryptionKeyName string `json:"encryption_key_name,omitempty"`
}
