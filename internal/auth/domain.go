package auth

import "time"

// User represents a registered account, the principal bound into tokens.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the outward view of a user. The password hash never leaves
// this package.
type Profile struct {
	ID    int64
	Name  string
	Email string
}

// TokenPair is the value returned to a client after login or refresh.
// Both tokens are bound to the same subject and issued at the same instant.
type TokenPair struct {
	AccessToken      string
	AccessExpiresIn  int64
	RefreshToken     string
	RefreshExpiresIn int64
}
