package domain

import "time"

// Credential mirrors the persisted representation in the credentials table.
// PasswordHash holds the serialized key-derivation record
// (algorithm:iterations:salt:derivedKey); the plaintext password is never stored.
type Credential struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Enabled      bool
	CreatedAt    time.Time
}
