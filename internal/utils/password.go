// Package utils provides password hashing and access-token generation
// helpers shared by the user store and handlers.
package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the salted bcrypt hash of a plain password. The
// cost comes from configuration so tests can use a cheap factor.
func HashPassword(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// Any comparison failure, including a malformed hash, counts as a
// mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
