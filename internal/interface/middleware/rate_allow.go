package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP matches loopback and RFC 1918 / RFC 4193 clients. Used
// to bypass rate limits and to gate debug endpoints.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}
