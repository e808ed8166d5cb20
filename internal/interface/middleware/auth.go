package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/realio-auth/pkg/helpers"
	"github.com/oksasatya/realio-auth/pkg/response"
)

// Authorizer resolves an access token to the claims of a live session.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) (*helpers.Claims, error)
}

// Auth requires "Authorization: Bearer <token>" and a live session.
// It sets userID and sessionID in the Gin context on success.
func Auth(a Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := a.Authorize(c.Request.Context(), token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired session", nil)
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("sessionID", claims.SessionID)
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
