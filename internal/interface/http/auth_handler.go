package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realio-auth/internal/devbackend"
	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/pkg/response"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

type AuthHandler struct {
	Svc    *devbackend.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *devbackend.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,authemail"`
	Password string `json:"password"`
	Provider string `json:"provider"`
	Token    string `json:"token"`
}

type passwordRegistration struct {
	Name     string `json:"name" binding:"nonblank"`
	Password string `json:"password" binding:"required,pwd"`
}

type oauthRegistration struct {
	Token string `json:"token" binding:"nonblank"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,authemail"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,authemail"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,authemail"`
	Otp   string `json:"otp" binding:"required,otp"`
}

type oauthLoginRequest struct {
	Provider string `json:"provider" binding:"nonblank"`
	Token    string `json:"token" binding:"nonblank"`
}

type userDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	IsVerified     bool   `json:"isVerified"`
}

type sessionDTO struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type authDTO struct {
	User    userDTO     `json:"user"`
	Session *sessionDTO `json:"session,omitempty"`
}

type otpDTO struct {
	Valid     bool        `json:"valid"`
	Message   string      `json:"message"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
	User      *userDTO    `json:"user,omitempty"`
	Session   *sessionDTO `json:"session,omitempty"`
}

func toUserDTO(a *entity.Account) userDTO {
	p := a.Profile()
	return userDTO{ID: p.ID, Name: p.Name, Email: p.Email, ProfilePicture: p.ProfilePicture, IsVerified: p.IsVerified}
}

func toSessionDTO(t devbackend.Tokens) *sessionDTO {
	return &sessionDTO{Token: t.AccessToken, RefreshToken: t.RefreshToken, ExpiresAt: t.ExpiresAt}
}

func toAuthDTO(res *devbackend.AuthResult) authDTO {
	return authDTO{User: toUserDTO(res.Account), Session: toSessionDTO(res.Tokens)}
}

// Register POST /v1/auth/register
// Carries either name+password or provider+token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if req.Provider != "" {
		if err := binding.Validator.ValidateStruct(oauthRegistration{Token: req.Token}); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
		res, err := h.Svc.OAuthRegister(c.Request.Context(), req.Provider, req.Token, req.Email)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusCreated, toAuthDTO(res), "registered", nil)
		return
	}

	if err := binding.Validator.ValidateStruct(passwordRegistration{Name: req.Name, Password: req.Password}); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, authDTO{User: toUserDTO(a)}, "registered, check your email for the code", nil)
}

// Login POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toAuthDTO(res), "login successful", nil)
}

// OAuthLogin POST /v1/auth/oauth/login
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	var req oauthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.OAuthLogin(c.Request.Context(), req.Provider, req.Token)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toAuthDTO(res), "login successful", nil)
}

// ResendOtp POST /v1/auth/resend-otp
func (h *AuthHandler) ResendOtp(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	exp, err := h.Svc.ResendOtp(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, otpDTO{Valid: true, Message: "OTP sent", ExpiresAt: &exp}, "OTP sent", nil)
}

// VerifyOtp POST /v1/auth/verify
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.VerifyOtp(c.Request.Context(), req.Email, req.Otp)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := otpDTO{Valid: res.Valid, Message: res.Message}
	if res.Valid {
		u := toUserDTO(res.Account)
		out.User = &u
		out.Session = toSessionDTO(*res.Tokens)
	}
	response.Success(c, http.StatusOK, out, res.Message, nil)
}

// Logout POST /v1/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString("userID")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ok": true}, "logged out", nil)
}

// GetUser GET /v1/auth/user/:userId (auth required)
func (h *AuthHandler) GetUser(c *gin.Context) {
	a, err := h.Svc.GetUser(c.Request.Context(), c.GetString("userID"), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, authDTO{User: toUserDTO(a)}, "user", nil)
}

// UploadImage POST /v1/auth/upload-image (auth required, multipart)
func (h *AuthHandler) UploadImage(c *gin.Context) {
	userID := c.PostForm("userId")
	fh, err := c.FormFile("content")
	if err != nil || userID == "" {
		response.Error[any](c, http.StatusBadRequest, "userId and content are required", nil)
		return
	}
	if fh.Size > devbackend.MaxAvatarBytes {
		h.fail(c, devbackend.ErrImageTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, devbackend.MaxAvatarBytes+1))
	if err != nil {
		h.fail(c, err)
		return
	}

	url, contentType, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString("userID"), userID, data)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"url":         url,
		"contentType": contentType,
		"size":        len(data),
	}, "image uploaded", nil)
}

var errStatus = []struct {
	err     error
	status  int
	message string
}{
	{devbackend.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{devbackend.ErrEmailNotVerified, http.StatusForbidden, "Email not verified"},
	{devbackend.ErrForbidden, http.StatusForbidden, "Not allowed for this user"},
	{devbackend.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{repository.ErrEmailTaken, http.StatusConflict, "Email already registered"},
	{devbackend.ErrAlreadyVerified, http.StatusConflict, "Email already verified"},
	{devbackend.ErrUnsupportedProvider, http.StatusBadRequest, "Unsupported provider"},
	{devbackend.ErrNotAnImage, http.StatusUnsupportedMediaType, "Content must be an image"},
	{devbackend.ErrImageTooLarge, http.StatusRequestEntityTooLarge, "Image too large"},
	{devbackend.ErrSessionNotFound, http.StatusUnauthorized, "Session expired"},
}

func (h *AuthHandler) fail(c *gin.Context, err error) {
	for _, e := range errStatus {
		if errors.Is(err, e.err) {
			response.Error[any](c, e.status, e.message, nil)
			return
		}
	}
	h.Logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}
