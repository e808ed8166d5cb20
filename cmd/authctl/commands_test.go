package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/realio-auth/internal/application"
	"github.com/oksasatya/realio-auth/internal/domain/autherr"
	"github.com/oksasatya/realio-auth/internal/domain/entity"
)

type fakeRepo struct {
	session *entity.Session
	err     error
}

var ann = entity.User{ID: "u1", Name: "Ann", Email: "ann@example.com", IsVerified: true}

func (f *fakeRepo) Login(context.Context, string, string) (entity.User, error) {
	if f.err != nil {
		return entity.User{}, f.err
	}
	f.session = &entity.Session{AuthToken: "a", RefreshToken: "r", UserID: ann.ID}
	return ann, nil
}
func (f *fakeRepo) Register(context.Context, string, string, string) (entity.User, error) {
	return entity.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}, f.err
}
func (f *fakeRepo) VerifyOtp(context.Context, string, string) (entity.OtpOutcome, error) {
	s := entity.Session{AuthToken: "a", RefreshToken: "r", UserID: ann.ID}
	return entity.OtpOutcome{Valid: true, User: &ann, Session: &s}, f.err
}
func (f *fakeRepo) ResendOtp(context.Context, string) (bool, error) { return f.err == nil, f.err }
func (f *fakeRepo) Logout(context.Context) (bool, error) {
	f.session = nil
	return true, nil
}
func (f *fakeRepo) OAuthLogin(context.Context, string, string) (entity.User, error) {
	return ann, f.err
}
func (f *fakeRepo) OAuthRegister(context.Context, string, string, string) (entity.User, error) {
	return ann, f.err
}
func (f *fakeRepo) GetUserDetails(_ context.Context, id string) (entity.User, error) {
	u := ann
	u.ID = id
	return u, f.err
}
func (f *fakeRepo) UploadProfileImage(context.Context, string) (entity.UploadResult, error) {
	return entity.UploadResult{URL: "https://cdn/x.png", ContentType: "image/png", Size: 42}, f.err
}
func (f *fakeRepo) CurrentSession(context.Context) (entity.Session, error) {
	if f.session == nil {
		return entity.Session{}, autherr.ErrNoAuthToken
	}
	return *f.session, nil
}

func newApp(repo *fakeRepo, verbose bool) (*app, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &app{uc: application.NewUseCases(repo), out: &out, errOut: &errOut, verbose: verbose}, &out, &errOut
}

func TestRun_LoginStatusLogout(t *testing.T) {
	repo := &fakeRepo{}
	a, out, _ := newApp(repo, false)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, "status", nil))
	assert.Equal(t, "not logged in\n", out.String())

	out.Reset()
	require.NoError(t, a.run(ctx, "login", []string{"ann@example.com", "password1"}))
	assert.Contains(t, out.String(), "id=u1")

	out.Reset()
	require.NoError(t, a.run(ctx, "status", nil))
	assert.Equal(t, "logged in user_id=u1\n", out.String())

	out.Reset()
	require.NoError(t, a.run(ctx, "me", nil))
	assert.Contains(t, out.String(), `name="Ann"`)

	out.Reset()
	require.NoError(t, a.run(ctx, "logout", nil))
	assert.Equal(t, "logged out\n", out.String())
}

func TestRun_VerboseShowsTransitions(t *testing.T) {
	a, _, errOut := newApp(&fakeRepo{}, true)
	require.NoError(t, a.run(context.Background(), "resend", []string{"ann@example.com"}))
	assert.Equal(t, "resend: loading\nresend: success\n", errOut.String())
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	a, _, _ := newApp(&fakeRepo{}, false)
	err := a.run(ctx, "login", []string{"not-an-email", "password1"})
	assert.Equal(t, "Invalid email format", autherr.UserMessage(err))

	err = a.run(ctx, "login", []string{"only-one"})
	assert.ErrorIs(t, err, errUsage)

	err = a.run(ctx, "frobnicate", nil)
	assert.True(t, autherr.IsValidation(err))

	a, _, _ = newApp(&fakeRepo{err: autherr.API(401, "Invalid email or password")}, false)
	err = a.run(ctx, "login", []string{"ann@example.com", "password1"})
	assert.Equal(t, "Invalid email or password", autherr.UserMessage(err))

	err = a.run(ctx, "me", nil)
	assert.Equal(t, "No auth token found", autherr.UserMessage(err))
}

func TestRun_OtherCommands(t *testing.T) {
	ctx := context.Background()
	a, out, _ := newApp(&fakeRepo{}, false)

	require.NoError(t, a.run(ctx, "register", []string{"Ann", "ann@example.com", "password1"}))
	assert.Contains(t, out.String(), "verification code")

	out.Reset()
	require.NoError(t, a.run(ctx, "verify", []string{"ann@example.com", "123456"}))
	assert.Contains(t, out.String(), "verified and logged in")

	out.Reset()
	require.NoError(t, a.run(ctx, "oauth-register", []string{"google", "tok", "ann@example.com"}))
	require.NoError(t, a.run(ctx, "oauth-login", []string{"google", "tok"}))
	require.NoError(t, a.run(ctx, "user", []string{"u9"}))
	assert.Contains(t, out.String(), "id=u9")

	out.Reset()
	require.NoError(t, a.run(ctx, "upload", []string{"/tmp/a.png"}))
	assert.Equal(t, "url=https://cdn/x.png content_type=image/png size=42\n", out.String())
}

func TestRun_Strength(t *testing.T) {
	a, out, _ := newApp(&fakeRepo{}, false)
	require.NoError(t, a.run(context.Background(), "strength", []string{"Abcdef1!"}))
	assert.Equal(t, "Strong\n", out.String())

	out.Reset()
	require.NoError(t, a.run(context.Background(), "strength", []string{"abc"}))
	assert.Contains(t, out.String(), "Weak\nPassword should have")
}
