package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/realio-auth/internal/interface/http"
	"github.com/oksasatya/realio-auth/internal/interface/middleware"
)

// AuthModule mounts the auth API under /auth.
// Public: register, login, oauth/login, resend-otp, verify
// Protected: logout, user/:userId, upload-image
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    middleware.Authorizer
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, auth middleware.Authorizer, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	otpLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	g := rg.Group("/auth")
	g.POST("/register", loginLimiter, m.Handler.Register)
	g.POST("/login", loginLimiter, m.Handler.Login)
	g.POST("/oauth/login", loginLimiter, m.Handler.OAuthLogin)
	g.POST("/resend-otp", otpLimiter, m.Handler.ResendOtp)
	g.POST("/verify", verifyLimiter, m.Handler.VerifyOtp)

	auth := g.Group("/")
	auth.Use(middleware.Auth(m.Auth))
	auth.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/user/:userId", m.Handler.GetUser)
		auth.POST("/upload-image", m.Handler.UploadImage)
	}
}
