package remote

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResendOtpRequest struct {
	Email string `json:"email"`
}

type VerifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type OAuthLoginRequest struct {
	Provider string `json:"provider"`
	Token    string `json:"token"`
}

type OAuthRegisterRequest struct {
	Provider string `json:"provider"`
	Token    string `json:"token"`
	Email    string `json:"email"`
}

// UploadImageRequest is sent as multipart form data. Authorization is the
// raw token or a full "Bearer ..." value.
type UploadImageRequest struct {
	UserID        string
	Path          string
	Authorization string
}

// Timestamp accepts RFC 3339 strings, epoch seconds and epoch milliseconds.
// Values it cannot read are left zero; expiry is informational only.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		for _, l := range timestampLayouts {
			if v, err := time.Parse(l, s); err == nil {
				t.Time = v
				return nil
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			t.Time = fromEpoch(n)
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return nil
	}
	if i, err := n.Int64(); err == nil {
		t.Time = fromEpoch(i)
	}
	return nil
}

func fromEpoch(n int64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// UserDTO is the user object in any of the shapes the backend has used.
type UserDTO struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	ProfilePicture string
	IsVerified     bool
	Role           string
	CreatedAt      string
}

func (u *UserDTO) UnmarshalJSON(b []byte) error {
	var raw struct {
		UserIDSnake         string `json:"user_id"`
		UserID              string `json:"userId"`
		ID                  string `json:"id"`
		FullNameSnake       string `json:"full_name"`
		FullName            string `json:"fullName"`
		Name                string `json:"name"`
		Email               string `json:"email"`
		Phone               string `json:"phone"`
		ProfilePicture      string `json:"profilePicture"`
		ProfilePictureSnake string `json:"profile_picture"`
		AvatarURL           string `json:"avatar_url"`
		IsVerified          *bool  `json:"isVerified"`
		IsVerifiedSnake     *bool  `json:"is_verified"`
		Role                string `json:"role"`
		CreatedAt           string `json:"createdAt"`
		CreatedAtSnake      string `json:"created_at"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = UserDTO{
		ID:             firstNonEmpty(raw.UserIDSnake, raw.UserID, raw.ID),
		Name:           firstNonEmpty(raw.FullNameSnake, raw.FullName, raw.Name),
		Email:          raw.Email,
		Phone:          raw.Phone,
		ProfilePicture: firstNonEmpty(raw.ProfilePicture, raw.ProfilePictureSnake, raw.AvatarURL),
		Role:           raw.Role,
		CreatedAt:      firstNonEmpty(raw.CreatedAt, raw.CreatedAtSnake),
	}
	switch {
	case raw.IsVerified != nil:
		u.IsVerified = *raw.IsVerified
	case raw.IsVerifiedSnake != nil:
		u.IsVerified = *raw.IsVerifiedSnake
	}
	return nil
}

type SessionDTO struct {
	Token        string
	RefreshToken string
	ExpiresAt    Timestamp
}

func (s *SessionDTO) UnmarshalJSON(b []byte) error {
	var raw struct {
		Token             string    `json:"token"`
		AccessToken       string    `json:"accessToken"`
		AccessTokenSnake  string    `json:"access_token"`
		RefreshToken      string    `json:"refreshToken"`
		RefreshTokenSnake string    `json:"refresh_token"`
		ExpiresAt         Timestamp `json:"expiresAt"`
		ExpiresAtSnake    Timestamp `json:"expires_at"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = SessionDTO{
		Token:        firstNonEmpty(raw.Token, raw.AccessToken, raw.AccessTokenSnake),
		RefreshToken: firstNonEmpty(raw.RefreshToken, raw.RefreshTokenSnake),
		ExpiresAt:    raw.ExpiresAt,
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = raw.ExpiresAtSnake
	}
	return nil
}

// AuthEnvelope is the canonical auth response: {user, session}. Flat
// bodies that put the user and token fields at the top level are lifted
// into it.
type AuthEnvelope struct {
	User    *UserDTO
	Session *SessionDTO
}

func (e *AuthEnvelope) UnmarshalJSON(b []byte) error {
	var nested struct {
		User              *UserDTO    `json:"user"`
		Session           *SessionDTO `json:"session"`
		RefreshToken      string      `json:"refreshToken"`
		RefreshTokenSnake string      `json:"refresh_token"`
	}
	if err := json.Unmarshal(b, &nested); err != nil {
		return err
	}
	if nested.User != nil || nested.Session != nil {
		e.User, e.Session = nested.User, nested.Session
		if e.Session != nil && e.Session.RefreshToken == "" {
			e.Session.RefreshToken = firstNonEmpty(nested.RefreshToken, nested.RefreshTokenSnake)
		}
		return nil
	}

	var u UserDTO
	if err := json.Unmarshal(b, &u); err != nil {
		return err
	}
	if u.ID != "" {
		e.User = &u
	}
	var s SessionDTO
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s.Token != "" {
		e.Session = &s
	}
	return nil
}

// OtpEnvelope is the resend/verify response. Valid is nil when the
// backend did not say.
type OtpEnvelope struct {
	Valid     *bool
	Message   string
	ExpiresAt Timestamp
	User      *UserDTO
	Session   *SessionDTO
}

func (o *OtpEnvelope) UnmarshalJSON(b []byte) error {
	var raw struct {
		Valid          *bool     `json:"valid"`
		Message        string    `json:"message"`
		ExpiresAt      Timestamp `json:"expiresAt"`
		ExpiresAtSnake Timestamp `json:"expires_at"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var auth AuthEnvelope
	if err := json.Unmarshal(b, &auth); err != nil {
		return err
	}
	*o = OtpEnvelope{
		Valid:     raw.Valid,
		Message:   raw.Message,
		ExpiresAt: raw.ExpiresAt,
		User:      auth.User,
		Session:   auth.Session,
	}
	if o.ExpiresAt.IsZero() {
		o.ExpiresAt = raw.ExpiresAtSnake
	}
	return nil
}

type LogoutResponse struct {
	OK      bool
	Message string
}

func (l *LogoutResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		OK      *bool  `json:"ok"`
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	l.Message = raw.Message
	// a 2xx without an explicit flag still counts as logged out
	l.OK = true
	if raw.OK != nil {
		l.OK = *raw.OK
	} else if raw.Success != nil {
		l.OK = *raw.Success
	}
	return nil
}

type UploadResponse struct {
	URL         string
	ContentType string
	Size        int64
}

func (u *UploadResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		URL            string `json:"url"`
		ImageURL       string `json:"imageUrl"`
		ImageURLSnake  string `json:"image_url"`
		ProfilePicture string `json:"profilePicture"`
		ContentType    string `json:"contentType"`
		ContentSnake   string `json:"content_type"`
		Size           int64  `json:"size"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = UploadResponse{
		URL:         firstNonEmpty(raw.URL, raw.ImageURL, raw.ImageURLSnake, raw.ProfilePicture),
		ContentType: firstNonEmpty(raw.ContentType, raw.ContentSnake),
		Size:        raw.Size,
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
