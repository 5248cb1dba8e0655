// Package crypto implements the engine's Cryptographer: a keybag of named
// AES-256-GCM keys. The bag is immutable — adding a key or changing the
// default produces a new *Keybag value — which is what lets the engine swap
// its cryptographer wholesale instead of mutating key material in place.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/MKhiriev/go-sync-engine/models"
)

// KeyName computes the public fingerprint of raw key material:
// the first 8 bytes of SHA-256(key), hex-encoded. The fingerprint travels in
// every EncryptedBlob so the receiver can tell a missing key apart from
// corrupt ciphertext without trial decryption.
func KeyName(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:8])
}

// Keybag holds zero or more named symmetric keys plus the name of the one
// used for encryption. The zero value is a usable empty bag that can neither
// encrypt nor decrypt.
type Keybag struct {
	keys        map[string][]byte
	defaultName string
}

// NewKeybag constructs an empty keybag.
func NewKeybag() *Keybag {
	return &Keybag{keys: map[string][]byte{}}
}

// WithKey returns a copy of the bag that additionally holds key. The new key
// becomes the default encryption key; existing keys stay available for
// decryption. key must be 32 bytes (AES-256).
func (k *Keybag) WithKey(key []byte) (*Keybag, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: %d", len(key))
	}

	name := KeyName(key)
	next := &Keybag{
		keys:        make(map[string][]byte, len(k.keys)+1),
		defaultName: name,
	}
	for n, material := range k.keys {
		next.keys[n] = material
	}
	next.keys[name] = append([]byte(nil), key...)

	return next, nil
}

// CanEncrypt reports whether the bag holds a default key.
func (k *Keybag) CanEncrypt() bool {
	_, ok := k.keys[k.defaultName]
	return ok
}

// DefaultKeyName returns the fingerprint of the current encryption key, or
// an empty string if the bag cannot encrypt.
func (k *Keybag) DefaultKeyName() string {
	if !k.CanEncrypt() {
		return ""
	}
	return k.defaultName
}

// KeyNames returns the fingerprints of every held key in sorted order.
// Used by the engine to detect whether a cryptographer swap actually changed
// the key set.
func (k *Keybag) KeyNames() []string {
	names := make([]string, 0, len(k.keys))
	for n := range k.keys {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Encrypt seals plaintext with the default key using AES-256-GCM and returns
// the envelope: the default key's fingerprint plus nonce ‖ ciphertext.
// Returns an error if the bag holds no default key.
func (k *Keybag) Encrypt(plaintext []byte) (models.EncryptedBlob, error) {
	key, ok := k.keys[k.defaultName]
	if !ok {
		return models.EncryptedBlob{}, ErrNoDefaultKey
	}

	gcm, err := newGCM(key)
	if err != nil {
		return models.EncryptedBlob{}, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("generate nonce: %w", err)
	}

	ct := gcm.Seal(nil, nonce, plaintext, nil)
	return models.EncryptedBlob{
		KeyName: k.defaultName,
		Blob:    append(nonce, ct...),
	}, nil
}

// CanDecrypt reports whether the bag holds the key named by the envelope.
func (k *Keybag) CanDecrypt(blob models.EncryptedBlob) bool {
	_, ok := k.keys[blob.KeyName]
	return ok
}

// Decrypt opens the envelope with the key named in it. Returns ErrKeyMissing
// when the bag does not hold that key, or a wrapped error when the
// ciphertext is malformed or fails authentication (corrupt data or a key
// that no longer matches).
func (k *Keybag) Decrypt(blob models.EncryptedBlob) ([]byte, error) {
	key, ok := k.keys[blob.KeyName]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", blob.KeyName, ErrKeyMissing)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(blob.Blob) < nonceSize {
		return nil, fmt.Errorf("key %q: ciphertext too short", blob.KeyName)
	}

	nonce, ct := blob.Blob[:nonceSize], blob.Blob[nonceSize:]
	pt, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("open ciphertext: %w", err)
	}
	return pt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
