package model

import "time"

// Account is the credential record that owns a suggestion box. PasswordHash
// holds a bcrypt digest; the plaintext password is never persisted.
type Account struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
