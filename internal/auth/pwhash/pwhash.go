// Package pwhash hashes admin passwords with PBKDF2-SHA256. The encoded form
// carries the iteration count and salt, so parameters can change without
// invalidating stored hashes.
package pwhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const keyLen = 32

type PasswordHasher struct {
	saltSize   int
	iterations int
}

func New(saltSize, iterations int) (*PasswordHasher, error) {
	if saltSize < 8 {
		return nil, fmt.Errorf("salt size too small: %d", saltSize)
	}
	if iterations < 1000 {
		return nil, fmt.Errorf("iteration count too small: %d", iterations)
	}
	return &PasswordHasher{
		saltSize:   saltSize,
		iterations: iterations,
	}, nil
}

// HashPassword returns "iterations$salt$key" with salt and key base64 encoded.
func (ph *PasswordHasher) HashPassword(password string) (string, error) {
	salt := make([]byte, ph.saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, ph.iterations, keyLen, sha256.New)
	return fmt.Sprintf("%d$%s$%s",
		ph.iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Validate returns nil when the password matches the encoded hash.
func (ph *PasswordHasher) Validate(password, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return fmt.Errorf("malformed password hash")
	}
	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations < 1 {
		return fmt.Errorf("malformed iteration count")
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return fmt.Errorf("malformed salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return fmt.Errorf("malformed key: %w", err)
	}

	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return fmt.Errorf("password mismatch")
	}
	return nil
}
