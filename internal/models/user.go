package models

import "time"

// User is an account stored in the auth database.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	// LastLogin is nil until the first successful login.
	LastLogin *time.Time
}
