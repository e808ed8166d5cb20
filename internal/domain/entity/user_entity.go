package entity

import "time"

// User is the authenticated account as the client sees it.
// A fresh value is built from every successful auth, verify or fetch
// response; callers replace the old value instead of patching it.
type User struct {
	ID             string
	Name           string
	Email          string
	Phone          string // optional
	ProfilePicture string // optional URL
	IsVerified     bool
}

// Session is the credential set kept in the token store.
// AuthToken and RefreshToken are always persisted together.
type Session struct {
	AuthToken    string
	RefreshToken string
	UserID       string
	ExpiresAt    time.Time // informational, never persisted
}

// Valid reports whether both tokens are present.
func (s Session) Valid() bool {
	return s.AuthToken != "" && s.RefreshToken != ""
}
