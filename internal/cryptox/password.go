// Package cryptox wraps the password-hashing primitives used for account
// credentials. Hashes are salted bcrypt strings; the plaintext is never
// stored, logged, or returned.
package cryptox

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted one-way hash from the plaintext password.
// The salt is generated per call and embedded in the returned opaque string,
// so two hashes of the same password differ.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash. Comparison time does not depend on how much of the hash matches.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
