// Package devbackend is a reference implementation of the auth REST API the
// client talks to. It exists for local development and end-to-end tests.
package devbackend

import (
	"context"
	"expvar"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/pkg/helpers"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrSessionNotFound     = errors.New("session expired")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrForbidden           = errors.New("not allowed for this user")
	ErrNotAnImage          = errors.New("content must be an image")
	ErrImageTooLarge       = errors.New("image too large")
)

// MaxAvatarBytes bounds an uploaded profile image.
const MaxAvatarBytes = 5 << 20

const MsgInvalidOtp = "Invalid or expired OTP"

// stats is published at /v1/debug/vars.
var stats = expvar.NewMap("auth")

var providers = map[string]bool{"google": true, "facebook": true, "apple": true}

// Tokens is the session handed to a client.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthResult is an account with a freshly opened session.
type AuthResult struct {
	Account *entity.Account
	Tokens  Tokens
}

// OtpResult answers a verification. Account and Tokens are set only when
// Valid is true.
type OtpResult struct {
	Valid   bool
	Message string
	Account *entity.Account
	Tokens  *Tokens
}

type Service struct {
	Accounts repository.AccountRepository
	JWT      *helpers.JWTManager
	Sessions *Sessions
	Otps     *OtpCodes
	Avatars  AvatarStore
	Notifier Notifier
	Logger   *logrus.Logger
	OtpTTL   time.Duration
}

func NewService(accounts repository.AccountRepository, jwt *helpers.JWTManager, sessions *Sessions, otps *OtpCodes, avatars AvatarStore, notifier Notifier, logger *logrus.Logger, otpTTL time.Duration) *Service {
	return &Service{
		Accounts: accounts,
		JWT:      jwt,
		Sessions: sessions,
		Otps:     otps,
		Avatars:  avatars,
		Notifier: notifier,
		Logger:   logger,
		OtpTTL:   otpTTL,
	}
}

// Register creates an unverified password account and sends its first OTP.
func (s *Service) Register(ctx context.Context, name, email, password string) (*entity.Account, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	a := &entity.Account{Name: strings.TrimSpace(name), Email: email, Password: hash}
	if err := s.Accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	stats.Add("registrations", 1)
	if _, err := s.sendOtp(ctx, a); err != nil {
		s.Logger.WithError(err).WithField("user_id", a.ID).Warn("initial otp not sent")
	}
	return a, nil
}

// ResendOtp replaces the pending code for an unverified account.
func (s *Service) ResendOtp(ctx context.Context, email string) (time.Time, error) {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return time.Time{}, ErrUserNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	if a.Verified {
		return time.Time{}, ErrAlreadyVerified
	}
	return s.sendOtp(ctx, a)
}

// VerifyOtp checks the code, marks the account verified and opens a
// session. A wrong code is a normal answer with Valid false.
func (s *Service) VerifyOtp(ctx context.Context, email, code string) (*OtpResult, error) {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return &OtpResult{Valid: false, Message: MsgInvalidOtp}, nil
	}
	if err != nil {
		return nil, err
	}
	if a.Verified {
		return nil, ErrAlreadyVerified
	}
	uid, ok, err := s.Otps.Check(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if !ok || uid != a.ID {
		stats.Add("otp_rejected", 1)
		return &OtpResult{Valid: false, Message: MsgInvalidOtp}, nil
	}

	a.Verified = true
	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	tokens, err := s.openSession(ctx, a)
	if err != nil {
		return nil, err
	}
	return &OtpResult{Valid: true, Message: "Email verified", Account: a, Tokens: &tokens}, nil
}

// Login checks a password account and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if a.Password == "" || !helpers.CompareHashAndPassword(a.Password, password) {
		stats.Add("login_failed", 1)
		return nil, ErrInvalidCredentials
	}
	if !a.Verified {
		return nil, ErrEmailNotVerified
	}
	return s.authenticated(ctx, a)
}

// OAuthRegister links a provider identity to a new verified account. When
// the identity is already linked it behaves like OAuthLogin.
func (s *Service) OAuthRegister(ctx context.Context, provider, token, email string) (*AuthResult, error) {
	provider, pid, err := providerIdentity(provider, token)
	if err != nil {
		return nil, err
	}
	a, err := s.Accounts.GetByProvider(ctx, provider, pid)
	if err == nil {
		return s.authenticated(ctx, a)
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, err
	}

	email = normalizeEmail(email)
	a = &entity.Account{
		Name:       strings.SplitN(email, "@", 2)[0],
		Email:      email,
		Provider:   provider,
		ProviderID: pid,
		Verified:   true,
	}
	if err := s.Accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.authenticated(ctx, a)
}

// OAuthLogin opens a session for a linked provider identity.
func (s *Service) OAuthLogin(ctx context.Context, provider, token string) (*AuthResult, error) {
	provider, pid, err := providerIdentity(provider, token)
	if err != nil {
		return nil, err
	}
	a, err := s.Accounts.GetByProvider(ctx, provider, pid)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.authenticated(ctx, a)
}

// Authorize parses an access token and checks its session is still live.
func (s *Service) Authorize(ctx context.Context, accessToken string) (*helpers.Claims, error) {
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Check(ctx, claims.UserID, claims.SessionID); err != nil {
		return nil, err
	}
	return claims, nil
}

// Logout ends the caller's session.
func (s *Service) Logout(ctx context.Context, userID string) error {
	stats.Add("logouts", 1)
	return s.Sessions.Close(ctx, userID)
}

// GetUser returns the caller's own account.
func (s *Service) GetUser(ctx context.Context, callerID, userID string) (*entity.Account, error) {
	if callerID != userID {
		return nil, ErrForbidden
	}
	a, err := s.Accounts.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrUserNotFound
	}
	return a, err
}

// UploadAvatar stores data as the caller's profile picture and returns the
// detected content type and public URL.
func (s *Service) UploadAvatar(ctx context.Context, callerID, userID string, data []byte) (url, contentType string, err error) {
	if callerID != userID {
		return "", "", ErrForbidden
	}
	if len(data) > MaxAvatarBytes {
		return "", "", ErrImageTooLarge
	}
	contentType = http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", ErrNotAnImage
	}
	a, err := s.Accounts.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return "", "", ErrUserNotFound
	}
	if err != nil {
		return "", "", err
	}
	url, err = s.Avatars.Put(ctx, userID, contentType, data)
	if err != nil {
		return "", "", err
	}
	a.AvatarURL = url
	if err := s.Accounts.Update(ctx, a); err != nil {
		return "", "", err
	}
	return url, contentType, nil
}

func (s *Service) authenticated(ctx context.Context, a *entity.Account) (*AuthResult, error) {
	tokens, err := s.openSession(ctx, a)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: a, Tokens: tokens}, nil
}

// openSession rotates the user's sid so tokens from earlier logins stop
// working.
func (s *Service) openSession(ctx context.Context, a *entity.Account) (Tokens, error) {
	sid, err := s.Sessions.Open(ctx, a)
	if err != nil {
		return Tokens{}, err
	}
	stats.Add("sessions_opened", 1)
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", a.ID).Error("generate access token failed")
		return Tokens{}, err
	}
	refresh, _, err := s.JWT.GenerateRefreshToken(a.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", a.ID).Error("generate refresh token failed")
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh, ExpiresAt: aexp}, nil
}

func (s *Service) sendOtp(ctx context.Context, a *entity.Account) (time.Time, error) {
	code, exp, err := s.Otps.Issue(ctx, a.Email, a.ID)
	if err != nil {
		return time.Time{}, err
	}
	if err := s.Notifier.NotifyOTP(ctx, a, code, s.OtpTTL); err != nil {
		return time.Time{}, err
	}
	stats.Add("otp_sent", 1)
	return exp, nil
}

// providerIdentity derives a stable account key from a provider token. The
// dev backend does not call the provider; the token itself is the identity.
func providerIdentity(provider, token string) (string, string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !providers[provider] {
		return "", "", ErrUnsupportedProvider
	}
	sum := sha256.Sum256([]byte(provider + ":" + token))
	return provider, hex.EncodeToString(sum[:]), nil
}
