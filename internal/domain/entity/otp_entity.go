package entity

import "time"

// OtpOutcome is the result of a verification. A verification either only
// confirms the code, or confirms it and opens a session; Session tells the
// two apart.
type OtpOutcome struct {
	Valid     bool
	Message   string
	ExpiresAt time.Time
	Session   *Session
	User      *User
}

// LoggedIn reports whether the verification also established a session.
func (o OtpOutcome) LoggedIn() bool {
	return o.Session != nil && o.Session.Valid()
}

// UploadResult describes a stored profile image.
type UploadResult struct {
	URL         string
	ContentType string
	Size        int64
}
