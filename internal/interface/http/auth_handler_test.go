package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/realio-auth/internal/devbackend"
	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/interface/middleware"
	"github.com/oksasatya/realio-auth/pkg/helpers"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

type codes map[string]string

func (c codes) NotifyOTP(_ context.Context, a *entity.Account, code string, _ time.Duration) error {
	c[a.Email] = code
	return nil
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   map[string]any  `json:"error"`
}

func newRouter(t *testing.T) (*gin.Engine, codes) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sent := codes{}
	svc := devbackend.NewService(
		devbackend.NewMemoryAccounts(),
		helpers.NewJWTManager("a", "r", time.Hour, time.Hour),
		devbackend.NewSessions(rdb, time.Hour),
		devbackend.NewOtpCodes(rdb, time.Minute),
		devbackend.NewMemoryAvatars(),
		sent,
		logger,
		time.Minute,
	)
	h := NewAuthHandler(svc, logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	g := r.Group("/v1/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/verify", h.VerifyOtp)
	g.POST("/resend-otp", h.ResendOtp)
	g.POST("/oauth/login", h.OAuthLogin)
	auth := g.Group("/", middleware.Auth(svc))
	auth.POST("/logout", h.Logout)
	auth.GET("/user/:userId", h.GetUser)
	auth.POST("/upload-image", h.UploadImage)
	return r, sent
}

func do(t *testing.T, r *gin.Engine, method, path string, body any, token string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestRegister_Validation(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"bad email", gin.H{"name": "Ann", "email": "ann@", "password": "password1"}, "email"},
		{"short password", gin.H{"name": "Ann", "email": "ann@example.com", "password": "short"}, "password"},
		{"blank name", gin.H{"name": "  ", "email": "ann@example.com", "password": "password1"}, "name"},
		{"oauth without token", gin.H{"provider": "google", "email": "ann@example.com"}, "token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, r, http.MethodPost, "/v1/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, env.Success)
			assert.Contains(t, env.Error, tt.field)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlow(t *testing.T) {
	r, sent := newRouter(t)

	status, env := do(t, r, http.MethodPost, "/v1/auth/register", gin.H{"name": "Ann", "email": "ann@example.com", "password": "password1"}, "")
	require.Equal(t, http.StatusCreated, status)
	var reg authDTO
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Nil(t, reg.Session)
	assert.False(t, reg.User.IsVerified)

	status, env = do(t, r, http.MethodPost, "/v1/auth/register", gin.H{"name": "Ann", "email": "ann@example.com", "password": "password1"}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", env.Message)

	status, env = do(t, r, http.MethodPost, "/v1/auth/login", gin.H{"email": "ann@example.com", "password": "password1"}, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Email not verified", env.Message)

	status, env = do(t, r, http.MethodPost, "/v1/auth/resend-otp", gin.H{"email": "ann@example.com"}, "")
	require.Equal(t, http.StatusOK, status)
	var resent otpDTO
	require.NoError(t, json.Unmarshal(env.Data, &resent))
	assert.True(t, resent.Valid)
	require.NotNil(t, resent.ExpiresAt)

	wrong := "000000"
	if sent["ann@example.com"] == wrong {
		wrong = "111111"
	}
	status, env = do(t, r, http.MethodPost, "/v1/auth/verify", gin.H{"email": "ann@example.com", "otp": wrong}, "")
	require.Equal(t, http.StatusOK, status)
	var bad otpDTO
	require.NoError(t, json.Unmarshal(env.Data, &bad))
	assert.False(t, bad.Valid)
	assert.Equal(t, devbackend.MsgInvalidOtp, bad.Message)

	status, env = do(t, r, http.MethodPost, "/v1/auth/verify", gin.H{"email": "ann@example.com", "otp": sent["ann@example.com"]}, "")
	require.Equal(t, http.StatusOK, status)
	var ok otpDTO
	require.NoError(t, json.Unmarshal(env.Data, &ok))
	require.True(t, ok.Valid)
	require.NotNil(t, ok.Session)
	token, uid := ok.Session.Token, ok.User.ID

	status, _ = do(t, r, http.MethodGet, "/v1/auth/user/"+uid, nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, env = do(t, r, http.MethodGet, "/v1/auth/user/someone-else", nil, token)
	assert.Equal(t, http.StatusForbidden, status)
	status, env = do(t, r, http.MethodGet, "/v1/auth/user/"+uid, nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"isVerified":true`)

	status, env = do(t, r, http.MethodPost, "/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, string(env.Data))

	status, _ = do(t, r, http.MethodPost, "/v1/auth/logout", nil, token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestOAuthRegisterAndLogin(t *testing.T) {
	r, _ := newRouter(t)

	status, env := do(t, r, http.MethodPost, "/v1/auth/oauth/login", gin.H{"provider": "google", "token": "t"}, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, env = do(t, r, http.MethodPost, "/v1/auth/register", gin.H{"provider": "myspace", "token": "t", "email": "ann@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unsupported provider", env.Message)

	status, env = do(t, r, http.MethodPost, "/v1/auth/register", gin.H{"provider": "google", "token": "t", "email": "ann@example.com"}, "")
	require.Equal(t, http.StatusCreated, status)
	var reg authDTO
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	require.NotNil(t, reg.Session)

	status, _ = do(t, r, http.MethodPost, "/v1/auth/oauth/login", gin.H{"provider": "google", "token": "t"}, "")
	assert.Equal(t, http.StatusOK, status)
}

func upload(t *testing.T, r *gin.Engine, token, userID string, content []byte) (int, envelope) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("userId", userID))
	if content != nil {
		part, err := mw.CreateFormFile("content", "a.bin")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/upload-image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestUploadImage(t *testing.T) {
	r, _ := newRouter(t)
	_, env := do(t, r, http.MethodPost, "/v1/auth/register", gin.H{"provider": "google", "token": "t", "email": "ann@example.com"}, "")
	var reg authDTO
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	token, uid := reg.Session.Token, reg.User.ID

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	status, env := upload(t, r, token, uid, gif)
	require.Equal(t, http.StatusOK, status)
	var out struct {
		URL         string `json:"url"`
		ContentType string `json:"contentType"`
		Size        int    `json:"size"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "image/gif", out.ContentType)
	assert.Equal(t, len(gif), out.Size)
	assert.Contains(t, out.URL, ".gif")

	status, _ = upload(t, r, token, uid, []byte("hello"))
	assert.Equal(t, http.StatusUnsupportedMediaType, status)

	status, _ = upload(t, r, token, uid, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = upload(t, r, token, "someone-else", gif)
	assert.Equal(t, http.StatusForbidden, status)
}
