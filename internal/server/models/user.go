// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Usernames are unique with case-sensitive
// exact matching; PasswordHash is an opaque salted hash, never the plaintext.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
