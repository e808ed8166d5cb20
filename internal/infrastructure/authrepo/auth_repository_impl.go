// Package authrepo implements repository.AuthRepository on top of the
// remote data source and a token store.
package authrepo

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realio-auth/internal/domain/autherr"
	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/internal/infrastructure/remote"
)

const (
	msgSaveSession  = "Could not save session"
	msgReadSession  = "Could not read session"
	msgClearSession = "Could not clear session"
	msgInvalidOtp   = "Invalid or expired OTP"
	msgLogoutFailed = "Logout failed"
)

// AuthRepository persists a session only after the backend accepted the
// request. mu serializes every sequence that writes or clears the store.
type AuthRepository struct {
	remote remote.AuthRemote
	store  repository.TokenStore
	logger *logrus.Logger
	mu     sync.Mutex
}

var _ repository.AuthRepository = (*AuthRepository)(nil)

func NewAuthRepository(r remote.AuthRemote, store repository.TokenStore, logger *logrus.Logger) *AuthRepository {
	return &AuthRepository{remote: r, store: store, logger: logger}
}

func (r *AuthRepository) Login(ctx context.Context, email, password string) (entity.User, error) {
	env, err := r.remote.Login(ctx, remote.LoginRequest{Email: email, Password: password})
	if err != nil {
		return entity.User{}, r.fail("login", err)
	}
	return r.establish(ctx, "login", env)
}

// Register creates the account only; the session comes from VerifyOtp or Login.
func (r *AuthRepository) Register(ctx context.Context, name, email, password string) (entity.User, error) {
	env, err := r.remote.Register(ctx, remote.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return entity.User{}, r.fail("register", err)
	}
	if env == nil || env.User == nil {
		return entity.User{}, r.fail("register", autherr.ErrInvalidResponse)
	}
	return toUser(env.User), nil
}

func (r *AuthRepository) VerifyOtp(ctx context.Context, email, otp string) (entity.OtpOutcome, error) {
	out, err := r.remote.VerifyOtp(ctx, remote.VerifyOtpRequest{Email: email, Otp: otp})
	if err != nil {
		return entity.OtpOutcome{}, r.fail("verify_otp", err)
	}
	if out == nil {
		return entity.OtpOutcome{}, r.fail("verify_otp", autherr.ErrInvalidResponse)
	}
	if out.Valid != nil && !*out.Valid {
		msg := out.Message
		if msg == "" {
			msg = msgInvalidOtp
		}
		return entity.OtpOutcome{}, r.fail("verify_otp", autherr.State(msg))
	}

	outcome := entity.OtpOutcome{
		Valid:     true,
		Message:   out.Message,
		ExpiresAt: out.ExpiresAt.Time,
	}
	userID := ""
	if out.User != nil {
		u := toUser(out.User)
		outcome.User = &u
		userID = u.ID
	}
	if out.Session != nil {
		if out.Session.Token == "" {
			return entity.OtpOutcome{}, r.fail("verify_otp", autherr.ErrInvalidResponse)
		}
		if err := r.persist(ctx, out.Session, userID); err != nil {
			return entity.OtpOutcome{}, r.fail("verify_otp", err)
		}
		s := toSession(out.Session, userID)
		outcome.Session = &s
	}
	return outcome, nil
}

func (r *AuthRepository) ResendOtp(ctx context.Context, email string) (bool, error) {
	if _, err := r.remote.ResendOtp(ctx, remote.ResendOtpRequest{Email: email}); err != nil {
		return false, r.fail("resend_otp", err)
	}
	return true, nil
}

// Logout revokes the session remotely, then forgets it locally. Without a
// stored token there is nothing to revoke and the store is cleared at once.
func (r *AuthRepository) Logout(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok, err := r.store.AuthToken(ctx)
	if err != nil {
		return false, r.fail("logout", autherr.StateWrap(msgReadSession, err))
	}
	if ok && token != "" {
		out, err := r.remote.Logout(ctx, remote.BearerToken(token))
		if err != nil {
			return false, r.fail("logout", err)
		}
		if out != nil && !out.OK {
			msg := out.Message
			if msg == "" {
				msg = msgLogoutFailed
			}
			return false, r.fail("logout", autherr.State(msg))
		}
	}
	if err := r.store.ClearTokens(ctx); err != nil {
		return false, r.fail("logout", autherr.StateWrap(msgClearSession, err))
	}
	r.logger.Debug("session cleared")
	return true, nil
}

func (r *AuthRepository) OAuthLogin(ctx context.Context, provider, token string) (entity.User, error) {
	env, err := r.remote.OAuthLogin(ctx, remote.OAuthLoginRequest{Provider: provider, Token: token})
	if err != nil {
		return entity.User{}, r.fail("oauth_login", err)
	}
	return r.establish(ctx, "oauth_login", env)
}

func (r *AuthRepository) OAuthRegister(ctx context.Context, provider, token, email string) (entity.User, error) {
	env, err := r.remote.OAuthRegister(ctx, remote.OAuthRegisterRequest{Provider: provider, Token: token, Email: email})
	if err != nil {
		return entity.User{}, r.fail("oauth_register", err)
	}
	return r.establish(ctx, "oauth_register", env)
}

func (r *AuthRepository) GetUserDetails(ctx context.Context, userID string) (entity.User, error) {
	token, err := r.requireToken(ctx)
	if err != nil {
		return entity.User{}, r.fail("get_user", err)
	}
	env, err := r.remote.GetUser(ctx, userID, remote.BearerToken(token))
	if err != nil {
		return entity.User{}, r.fail("get_user", err)
	}
	if env == nil || env.User == nil {
		return entity.User{}, r.fail("get_user", autherr.ErrInvalidResponse)
	}
	return toUser(env.User), nil
}

func (r *AuthRepository) UploadProfileImage(ctx context.Context, path string) (entity.UploadResult, error) {
	token, err := r.requireToken(ctx)
	if err != nil {
		return entity.UploadResult{}, r.fail("upload_image", err)
	}
	userID, ok, err := r.store.UserID(ctx)
	if err != nil {
		return entity.UploadResult{}, r.fail("upload_image", autherr.StateWrap(msgReadSession, err))
	}
	if !ok || userID == "" {
		return entity.UploadResult{}, r.fail("upload_image", autherr.ErrNoUserID)
	}
	out, err := r.remote.UploadImage(ctx, remote.UploadImageRequest{
		UserID:        userID,
		Path:          path,
		Authorization: token,
	})
	if err != nil {
		return entity.UploadResult{}, r.fail("upload_image", err)
	}
	return toUpload(out), nil
}

// CurrentSession reads the stored credentials. ExpiresAt is never stored
// and is always zero here.
func (r *AuthRepository) CurrentSession(ctx context.Context) (entity.Session, error) {
	token, err := r.requireToken(ctx)
	if err != nil {
		return entity.Session{}, err
	}
	refresh, _, err := r.store.RefreshToken(ctx)
	if err != nil {
		return entity.Session{}, autherr.StateWrap(msgReadSession, err)
	}
	userID, _, err := r.store.UserID(ctx)
	if err != nil {
		return entity.Session{}, autherr.StateWrap(msgReadSession, err)
	}
	return entity.Session{AuthToken: token, RefreshToken: refresh, UserID: userID}, nil
}

func (r *AuthRepository) requireToken(ctx context.Context) (string, error) {
	token, ok, err := r.store.AuthToken(ctx)
	if err != nil {
		return "", autherr.StateWrap(msgReadSession, err)
	}
	if !ok || token == "" {
		return "", autherr.ErrNoAuthToken
	}
	return token, nil
}

// establish validates an auth response and stores its session.
func (r *AuthRepository) establish(ctx context.Context, op string, env *remote.AuthEnvelope) (entity.User, error) {
	if env == nil || env.User == nil || env.User.ID == "" || env.Session == nil || env.Session.Token == "" {
		return entity.User{}, r.fail(op, autherr.ErrInvalidResponse)
	}
	if err := r.persist(ctx, env.Session, env.User.ID); err != nil {
		return entity.User{}, r.fail(op, err)
	}
	r.logger.WithFields(logrus.Fields{"op": op, "user_id": env.User.ID}).Info("session established")
	return toUser(env.User), nil
}

// persist writes the token pair, then the user id. A session without a
// user id replaces the whole stored session, so an id left by an earlier
// login never sits next to the new tokens. Nothing is written once the
// caller has gone away.
func (r *AuthRepository) persist(ctx context.Context, s *remote.SessionDTO, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return autherr.Transport(err)
	}
	if userID == "" {
		if err := r.store.ClearTokens(ctx); err != nil {
			return autherr.StateWrap(msgSaveSession, err)
		}
	}
	if err := r.store.SaveTokens(ctx, s.Token, refreshOrAuth(s)); err != nil {
		return autherr.StateWrap(msgSaveSession, err)
	}
	if userID == "" {
		return nil
	}
	if err := r.store.SaveUserID(ctx, userID); err != nil {
		// a token pair without its user id would break uploads later
		_ = r.store.ClearTokens(context.WithoutCancel(ctx))
		return autherr.StateWrap(msgSaveSession, err)
	}
	return nil
}

func (r *AuthRepository) fail(op string, err error) error {
	e := autherr.From(err)
	entry := r.logger.WithFields(logrus.Fields{"op": op, "kind": e.Kind.String()})
	if e.Code != 0 {
		entry = entry.WithField("status", e.Code)
	}
	if e.Internal != nil {
		entry = entry.WithError(e.Internal)
	}
	entry.Warn(e.Message)
	return e
}
