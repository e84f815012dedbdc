package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewAccessToken returns an opaque bearer credential: 64 bytes of
// cryptographically secure random data hex-encoded to 128 characters.
// The token is issued once at signup and validated by store lookup, so
// it carries no claims and never expires.
func NewAccessToken() (string, error) {
	return randomHex(64)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
