package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCodec hashes and verifies credentials using bcrypt. A legacy
// compatibility mode, resolved once at startup, degrades verification to exact
// string comparison for stores that still hold plaintext passwords from before
// the migration. Hashing is never disabled: new credentials are always stored
// as bcrypt hashes regardless of the mode.
type PasswordCodec struct {
	hashVerification bool
}

// NewPasswordCodec builds a codec. hashVerification should always be true in
// production; false is the plaintext migration mode.
func NewPasswordCodec(hashVerification bool) *PasswordCodec {
	return &PasswordCodec{hashVerification: hashVerification}
}

// Hash returns the bcrypt encoding of plaintext. Each call salts
// independently, so equal inputs produce different encodings.
func (c *PasswordCodec) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored encoding. In legacy
// mode the stored value is compared byte-for-byte instead.
func (c *PasswordCodec) Verify(plaintext, encoded string) bool {
	if !c.hashVerification {
		return subtle.ConstantTimeCompare([]byte(plaintext), []byte(encoded)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
}
