package service

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing parameters. The iteration count is the cost knob: it must
// stay high enough to make offline cracking expensive while keeping a single
// derivation under ~100ms on commodity hardware.
const (
	pbkdf2Iterations = 120000
	pbkdf2KeyLength  = 64
	saltLength       = 16
)

// HashPassword derives a fresh salt and a PBKDF2-SHA512 hash for the given
// password. Both return values are hex-encoded.
func HashPassword(password string) (salt, hash string, err error) {
	raw := make([]byte, saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(raw)
	return salt, hashWithSalt(password, salt), nil
}

// VerifyPassword recomputes the hash for a candidate password using the
// stored salt and compares it against the stored hash in constant time.
// Missing or malformed inputs fail verification rather than erroring.
func VerifyPassword(password, salt, hash string) bool {
	if password == "" || salt == "" || hash == "" {
		return false
	}

	candidate, err := hex.DecodeString(hashWithSalt(password, salt))
	if err != nil {
		return false
	}
	stored, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	if len(candidate) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare(candidate, stored) == 1
}

func hashWithSalt(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLength, sha512.New)
	return hex.EncodeToString(key)
}
