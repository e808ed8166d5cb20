package entity

import "time"

// Account is the server-side record the dev backend keeps per user.
// It is never sent to clients as is; handlers project it into User.
type Account struct {
	ID         string
	Email      string
	Password   string // bcrypt hash, empty for OAuth accounts
	Name       string
	AvatarURL  string
	Provider   string // "" for password accounts
	ProviderID string
	Verified   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Profile projects the account into the client-facing user.
func (a *Account) Profile() User {
	return User{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		ProfilePicture: a.AvatarURL,
		IsVerified:     a.Verified,
	}
}
