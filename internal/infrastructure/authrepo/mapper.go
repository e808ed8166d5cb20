package authrepo

import (
	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/infrastructure/remote"
)

func toUser(d *remote.UserDTO) entity.User {
	if d == nil {
		return entity.User{}
	}
	return entity.User{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		ProfilePicture: d.ProfilePicture,
		IsVerified:     d.IsVerified,
	}
}

// refreshOrAuth returns the refresh token, or the auth token when the
// backend did not issue a distinct one.
func refreshOrAuth(s *remote.SessionDTO) string {
	if s.RefreshToken != "" {
		return s.RefreshToken
	}
	return s.Token
}

func toSession(s *remote.SessionDTO, userID string) entity.Session {
	return entity.Session{
		AuthToken:    s.Token,
		RefreshToken: refreshOrAuth(s),
		UserID:       userID,
		ExpiresAt:    s.ExpiresAt.Time,
	}
}

func toUpload(u *remote.UploadResponse) entity.UploadResult {
	if u == nil {
		return entity.UploadResult{}
	}
	return entity.UploadResult{
		URL:         u.URL,
		ContentType: u.ContentType,
		Size:        u.Size,
	}
}
