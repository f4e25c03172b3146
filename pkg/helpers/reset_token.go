package helpers

import (
	nanoid "github.com/jaevor/go-nanoid"
)

const resetTokenLength = 40

// NewResetToken returns a random plaintext token for out-of-band delivery and
// its SHA256Hex digest, which is what gets persisted.
func NewResetToken() (plain string, hash string, err error) {
	gen, err := nanoid.Standard(resetTokenLength)
	if err != nil {
		return "", "", err
	}
	plain = gen()
	return plain, SHA256Hex(plain), nil
}
