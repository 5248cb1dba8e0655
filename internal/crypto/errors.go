package crypto

import "errors"

var (
	// ErrNoDefaultKey is returned by Encrypt when the bag holds no key to
	// encrypt with (e.g. mid key rotation).
	ErrNoDefaultKey = errors.New("keybag holds no default key")

	// ErrKeyMissing is returned by Decrypt when the envelope names a key
	// the bag does not hold. Callers treat this as "retry later", never as
	// corrupt data.
	ErrKeyMissing = errors.New("key not present in keybag")
)
