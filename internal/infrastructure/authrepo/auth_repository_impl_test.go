package authrepo

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/realio-auth/internal/domain/autherr"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/internal/infrastructure/remote"
	"github.com/oksasatya/realio-auth/internal/infrastructure/tokenstore"
)

// --- mocks ---

type mockRemote struct {
	calls atomic.Int32

	loginFn         func(ctx context.Context, req remote.LoginRequest) (*remote.AuthEnvelope, error)
	registerFn      func(ctx context.Context, req remote.RegisterRequest) (*remote.AuthEnvelope, error)
	logoutFn        func(ctx context.Context, authorization string) (*remote.LogoutResponse, error)
	resendOtpFn     func(ctx context.Context, req remote.ResendOtpRequest) (*remote.OtpEnvelope, error)
	verifyOtpFn     func(ctx context.Context, req remote.VerifyOtpRequest) (*remote.OtpEnvelope, error)
	oauthLoginFn    func(ctx context.Context, req remote.OAuthLoginRequest) (*remote.AuthEnvelope, error)
	oauthRegisterFn func(ctx context.Context, req remote.OAuthRegisterRequest) (*remote.AuthEnvelope, error)
	getUserFn       func(ctx context.Context, userID, authorization string) (*remote.AuthEnvelope, error)
	uploadImageFn   func(ctx context.Context, req remote.UploadImageRequest) (*remote.UploadResponse, error)
}

var _ remote.AuthRemote = (*mockRemote)(nil)

var errUnexpected = errors.New("unexpected remote call")

func (m *mockRemote) Login(ctx context.Context, req remote.LoginRequest) (*remote.AuthEnvelope, error) {
	m.calls.Add(1)
	if m.loginFn == nil {
		return nil, errUnexpected
	}
	return m.loginFn(ctx, req)
}

func (m *mockRemote) Register(ctx context.Context, req remote.RegisterRequest) (*remote.AuthEnvelope, error) {
	m.calls.Add(1)
	if m.registerFn == nil {
		return nil, errUnexpected
	}
	return m.registerFn(ctx, req)
}

func (m *mockRemote) Logout(ctx context.Context, authorization string) (*remote.LogoutResponse, error) {
	m.calls.Add(1)
	if m.logoutFn == nil {
		return nil, errUnexpected
	}
	return m.logoutFn(ctx, authorization)
}

func (m *mockRemote) ResendOtp(ctx context.Context, req remote.ResendOtpRequest) (*remote.OtpEnvelope, error) {
	m.calls.Add(1)
	if m.resendOtpFn == nil {
		return nil, errUnexpected
	}
	return m.resendOtpFn(ctx, req)
}

func (m *mockRemote) VerifyOtp(ctx context.Context, req remote.VerifyOtpRequest) (*remote.OtpEnvelope, error) {
	m.calls.Add(1)
	if m.verifyOtpFn == nil {
		return nil, errUnexpected
	}
	return m.verifyOtpFn(ctx, req)
}

func (m *mockRemote) OAuthLogin(ctx context.Context, req remote.OAuthLoginRequest) (*remote.AuthEnvelope, error) {
	m.calls.Add(1)
	if m.oauthLoginFn == nil {
		return nil, errUnexpected
	}
	return m.oauthLoginFn(ctx, req)
}

func (m *mockRemote) OAuthRegister(ctx context.Context, req remote.OAuthRegisterRequest) (*remote.AuthEnvelope, error) {
	m.calls.Add(1)
	if m.oauthRegisterFn == nil {
		return nil, errUnexpected
	}
	return m.oauthRegisterFn(ctx, req)
}

func (m *mockRemote) GetUser(ctx context.Context, userID, authorization string) (*remote.AuthEnvelope, error) {
	m.calls.Add(1)
	if m.getUserFn == nil {
		return nil, errUnexpected
	}
	return m.getUserFn(ctx, userID, authorization)
}

func (m *mockRemote) UploadImage(ctx context.Context, req remote.UploadImageRequest) (*remote.UploadResponse, error) {
	m.calls.Add(1)
	if m.uploadImageFn == nil {
		return nil, errUnexpected
	}
	return m.uploadImageFn(ctx, req)
}

// failingStore wraps a real store and fails the selected operations.
type failingStore struct {
	repository.TokenStore
	saveTokensErr error
	saveUserErr   error
	clearErr      error
	readErr       error
}

func (f *failingStore) SaveTokens(ctx context.Context, a, r string) error {
	if f.saveTokensErr != nil {
		return f.saveTokensErr
	}
	return f.TokenStore.SaveTokens(ctx, a, r)
}

func (f *failingStore) SaveUserID(ctx context.Context, id string) error {
	if f.saveUserErr != nil {
		return f.saveUserErr
	}
	return f.TokenStore.SaveUserID(ctx, id)
}

func (f *failingStore) ClearTokens(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.TokenStore.ClearTokens(ctx)
}

func (f *failingStore) AuthToken(ctx context.Context) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	return f.TokenStore.AuthToken(ctx)
}

// --- helpers ---

func newRepo(t *testing.T, m *mockRemote, store repository.TokenStore) *AuthRepository {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewAuthRepository(m, store, logger)
}

func authEnv(userID, token, refresh string) *remote.AuthEnvelope {
	return &remote.AuthEnvelope{
		User:    &remote.UserDTO{ID: userID, Name: "Ann", Email: "ann@example.com", IsVerified: true},
		Session: &remote.SessionDTO{Token: token, RefreshToken: refresh},
	}
}

func boolPtr(b bool) *bool { return &b }

func assertTokens(t *testing.T, store repository.TokenStore, auth, refresh, userID string) {
	t.Helper()
	ctx := context.Background()
	a, aok, err := store.AuthToken(ctx)
	require.NoError(t, err)
	r, rok, err := store.RefreshToken(ctx)
	require.NoError(t, err)
	u, uok, err := store.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth != "", aok)
	assert.Equal(t, refresh != "", rok)
	assert.Equal(t, userID != "", uok)
	assert.Equal(t, auth, a)
	assert.Equal(t, refresh, r)
	assert.Equal(t, userID, u)
}

func assertEmpty(t *testing.T, store repository.TokenStore) {
	t.Helper()
	assertTokens(t, store, "", "", "")
}

// --- tests ---

func TestLogin_PersistsSessionAfterSuccess(t *testing.T) {
	store := tokenstore.NewMemory()
	m := &mockRemote{
		loginFn: func(_ context.Context, req remote.LoginRequest) (*remote.AuthEnvelope, error) {
			assert.Equal(t, "ann@example.com", req.Email)
			return authEnv("u1", "T1", ""), nil
		},
	}
	repo := newRepo(t, m, store)

	u, err := repo.Login(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.True(t, u.IsVerified)
	assertTokens(t, store, "T1", "T1", "u1")
	assert.Equal(t, int32(1), m.calls.Load())
}

func TestLogin_DistinctRefreshTokenIsKept(t *testing.T) {
	store := tokenstore.NewMemory()
	m := &mockRemote{
		loginFn: func(context.Context, remote.LoginRequest) (*remote.AuthEnvelope, error) {
			return authEnv("u1", "T1", "R1"), nil
		},
	}

	_, err := newRepo(t, m, store).Login(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	assertTokens(t, store, "T1", "R1", "u1")
}

func TestLogin_IncompleteResponseWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		env  *remote.AuthEnvelope
	}{
		{"nil envelope", nil},
		{"no session", &remote.AuthEnvelope{User: &remote.UserDTO{ID: "u1"}}},
		{"no user", &remote.AuthEnvelope{Session: &remote.SessionDTO{Token: "T1"}}},
		{"empty token", authEnv("u1", "", "")},
		{"empty user id", authEnv("", "T1", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tokenstore.NewMemory()
			m := &mockRemote{
				loginFn: func(context.Context, remote.LoginRequest) (*remote.AuthEnvelope, error) {
					return tt.env, nil
				},
			}
			_, err := newRepo(t, m, store).Login(context.Background(), "ann@example.com", "pw")
			assert.ErrorIs(t, err, autherr.ErrInvalidResponse)
			assert.True(t, autherr.IsState(err))
			assertEmpty(t, store)
		})
	}
}

func TestLogin_RemoteFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	require.NoError(t, store.SaveTokens(ctx, "OLD", "OLDR"))
	require.NoError(t, store.SaveUserID(ctx, "u0"))

	m := &mockRemote{
		loginFn: func(context.Context, remote.LoginRequest) (*remote.AuthEnvelope, error) {
			return nil, autherr.API(http.StatusUnauthorized, "Invalid credentials")
		},
	}
	_, err := newRepo(t, m, store).Login(ctx, "ann@example.com", "bad")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, autherr.StatusCode(err))
	assert.Equal(t, "Invalid credentials", autherr.UserMessage(err))
	assertTokens(t, store, "OLD", "OLDR", "u0")
}

func TestLogin_ForeignErrorBecomesTransport(t *testing.T) {
	m := &mockRemote{
		loginFn: func(context.Context, remote.LoginRequest) (*remote.AuthEnvelope, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	_, err := newRepo(t, m, tokenstore.NewMemory()).Login(context.Background(), "a@b.co", "pw")
	assert.True(t, autherr.IsTransport(err))
}

func TestLogin_CancelledAfterRemoteWritesNothing(t *testing.T) {
	store := tokenstore.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	m := &mockRemote{
		loginFn: func(context.Context, remote.LoginRequest) (*remote.AuthEnvelope, error) {
			cancel()
			return authEnv("u1", "T1", ""), nil
		},
	}

	_, err := newRepo(t, m, store).Login(ctx, "ann@example.com", "pw")
	assert.True(t, autherr.IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
	assertEmpty(t, store)
}

func TestLogin_StoreFailureIsStateError(t *testing.T) {
	store := &failingStore{TokenStore: tokenstore.NewMemory(), saveTokensErr: errors.New("disk full")}
	m := &mockRemote{
		loginFn: func(context.Context, remote.LoginRequest) (*remote.AuthEnvelope, error) {
			return authEnv("u1", "T1", ""), nil
		},
	}
	_, err := newRepo(t, m, store).Login(context.Background(), "ann@example.com", "pw")
	assert.True(t, autherr.IsState(err))
	assert.Equal(t, msgSaveSession, autherr.UserMessage(err))
}

func TestLogin_UserIDFailureRollsBackTokens(t *testing.T) {
	mem := tokenstore.NewMemory()
	store := &failingStore{TokenStore: mem, saveUserErr: errors.New("disk full")}
	m := &mockRemote{
		loginFn: func(context.Context, remote.LoginRequest) (*remote.AuthEnvelope, error) {
			return authEnv("u1", "T1", ""), nil
		},
	}
	_, err := newRepo(t, m, store).Login(context.Background(), "ann@example.com", "pw")
	assert.True(t, autherr.IsState(err))
	assertEmpty(t, mem)
}

func TestLogin_SecondLoginOverwrites(t *testing.T) {
	store := tokenstore.NewMemory()
	n := 0
	m := &mockRemote{
		loginFn: func(context.Context, remote.LoginRequest) (*remote.AuthEnvelope, error) {
			n++
			if n == 1 {
				return authEnv("u1", "T1", "R1"), nil
			}
			return authEnv("u2", "T2", ""), nil
		},
	}
	repo := newRepo(t, m, store)
	_, err := repo.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)
	_, err = repo.Login(context.Background(), "c@d.co", "pw")
	require.NoError(t, err)
	assertTokens(t, store, "T2", "T2", "u2")
}

func TestRegister_NeverWritesStore(t *testing.T) {
	store := tokenstore.NewMemory()
	m := &mockRemote{
		registerFn: func(_ context.Context, req remote.RegisterRequest) (*remote.AuthEnvelope, error) {
			assert.Equal(t, "Ann", req.Name)
			return authEnv("u1", "T1", ""), nil
		},
	}

	u, err := newRepo(t, m, store).Register(context.Background(), "Ann", "ann@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assertEmpty(t, store)
}

func TestRegister_MissingUser(t *testing.T) {
	m := &mockRemote{
		registerFn: func(context.Context, remote.RegisterRequest) (*remote.AuthEnvelope, error) {
			return &remote.AuthEnvelope{}, nil
		},
	}
	_, err := newRepo(t, m, tokenstore.NewMemory()).Register(context.Background(), "Ann", "a@b.co", "password1")
	assert.ErrorIs(t, err, autherr.ErrInvalidResponse)
}

func TestVerifyOtp(t *testing.T) {
	t.Run("confirmation only", func(t *testing.T) {
		store := tokenstore.NewMemory()
		m := &mockRemote{
			verifyOtpFn: func(_ context.Context, req remote.VerifyOtpRequest) (*remote.OtpEnvelope, error) {
				assert.Equal(t, "123456", req.Otp)
				return &remote.OtpEnvelope{Valid: boolPtr(true), Message: "verified"}, nil
			},
		}
		out, err := newRepo(t, m, store).VerifyOtp(context.Background(), "a@b.co", "123456")
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.False(t, out.LoggedIn())
		assert.Equal(t, "verified", out.Message)
		assertEmpty(t, store)
	})

	t.Run("session bearing", func(t *testing.T) {
		store := tokenstore.NewMemory()
		m := &mockRemote{
			verifyOtpFn: func(context.Context, remote.VerifyOtpRequest) (*remote.OtpEnvelope, error) {
				return &remote.OtpEnvelope{
					User:    &remote.UserDTO{ID: "u1"},
					Session: &remote.SessionDTO{Token: "T1"},
				}, nil
			},
		}
		out, err := newRepo(t, m, store).VerifyOtp(context.Background(), "a@b.co", "123456")
		require.NoError(t, err)
		assert.True(t, out.LoggedIn())
		assert.Equal(t, "u1", out.Session.UserID)
		assert.Equal(t, "u1", out.User.ID)
		assertTokens(t, store, "T1", "T1", "u1")
	})

	t.Run("session without user keeps tokens only", func(t *testing.T) {
		store := tokenstore.NewMemory()
		m := &mockRemote{
			verifyOtpFn: func(context.Context, remote.VerifyOtpRequest) (*remote.OtpEnvelope, error) {
				return &remote.OtpEnvelope{Session: &remote.SessionDTO{Token: "T1", RefreshToken: "R1"}}, nil
			},
		}
		_, err := newRepo(t, m, store).VerifyOtp(context.Background(), "a@b.co", "123456")
		require.NoError(t, err)
		assertTokens(t, store, "T1", "R1", "")
	})

	t.Run("session without user drops the previous user id", func(t *testing.T) {
		store := tokenstore.NewMemory()
		ctx := context.Background()
		require.NoError(t, store.SaveTokens(ctx, "OLD", "OLD"))
		require.NoError(t, store.SaveUserID(ctx, "userA"))
		m := &mockRemote{
			verifyOtpFn: func(context.Context, remote.VerifyOtpRequest) (*remote.OtpEnvelope, error) {
				return &remote.OtpEnvelope{Session: &remote.SessionDTO{Token: "NEW_B"}}, nil
			},
		}
		repo := newRepo(t, m, store)
		_, err := repo.VerifyOtp(ctx, "a@b.co", "123456")
		require.NoError(t, err)
		assertTokens(t, store, "NEW_B", "NEW_B", "")

		_, err = repo.UploadProfileImage(ctx, "avatar.png")
		assert.ErrorIs(t, err, autherr.ErrNoUserID)
		assert.EqualValues(t, 1, m.calls.Load())
	})

	t.Run("session without user fails to clear", func(t *testing.T) {
		mem := tokenstore.NewMemory()
		ctx := context.Background()
		require.NoError(t, mem.SaveTokens(ctx, "OLD", "OLD"))
		require.NoError(t, mem.SaveUserID(ctx, "userA"))
		store := &failingStore{TokenStore: mem, clearErr: errors.New("io")}
		m := &mockRemote{
			verifyOtpFn: func(context.Context, remote.VerifyOtpRequest) (*remote.OtpEnvelope, error) {
				return &remote.OtpEnvelope{Session: &remote.SessionDTO{Token: "NEW_B"}}, nil
			},
		}
		_, err := newRepo(t, m, store).VerifyOtp(ctx, "a@b.co", "123456")
		assert.True(t, autherr.IsState(err))
		assertTokens(t, mem, "OLD", "OLD", "userA")
	})

	t.Run("session without token", func(t *testing.T) {
		store := tokenstore.NewMemory()
		m := &mockRemote{
			verifyOtpFn: func(context.Context, remote.VerifyOtpRequest) (*remote.OtpEnvelope, error) {
				return &remote.OtpEnvelope{Session: &remote.SessionDTO{}}, nil
			},
		}
		_, err := newRepo(t, m, store).VerifyOtp(context.Background(), "a@b.co", "123456")
		assert.ErrorIs(t, err, autherr.ErrInvalidResponse)
		assertEmpty(t, store)
	})

	t.Run("explicitly invalid", func(t *testing.T) {
		store := tokenstore.NewMemory()
		m := &mockRemote{
			verifyOtpFn: func(context.Context, remote.VerifyOtpRequest) (*remote.OtpEnvelope, error) {
				return &remote.OtpEnvelope{Valid: boolPtr(false), Message: "Code expired", Session: &remote.SessionDTO{Token: "T1"}}, nil
			},
		}
		_, err := newRepo(t, m, store).VerifyOtp(context.Background(), "a@b.co", "123456")
		assert.True(t, autherr.IsState(err))
		assert.Equal(t, "Code expired", autherr.UserMessage(err))
		assertEmpty(t, store)
	})

	t.Run("rejected code", func(t *testing.T) {
		m := &mockRemote{
			verifyOtpFn: func(context.Context, remote.VerifyOtpRequest) (*remote.OtpEnvelope, error) {
				return nil, autherr.API(http.StatusBadRequest, "Invalid code")
			},
		}
		_, err := newRepo(t, m, tokenstore.NewMemory()).VerifyOtp(context.Background(), "a@b.co", "000000")
		assert.Equal(t, http.StatusBadRequest, autherr.StatusCode(err))
	})
}

func TestResendOtp(t *testing.T) {
	store := tokenstore.NewMemory()
	m := &mockRemote{
		resendOtpFn: func(context.Context, remote.ResendOtpRequest) (*remote.OtpEnvelope, error) {
			return &remote.OtpEnvelope{Message: "sent"}, nil
		},
	}
	ok, err := newRepo(t, m, store).ResendOtp(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.True(t, ok)
	assertEmpty(t, store)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("no token clears without network", func(t *testing.T) {
		store := tokenstore.NewMemory()
		require.NoError(t, store.SaveUserID(ctx, "u1"))
		m := &mockRemote{}
		ok, err := newRepo(t, m, store).Logout(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int32(0), m.calls.Load())
		assertEmpty(t, store)
	})

	t.Run("remote success clears", func(t *testing.T) {
		store := tokenstore.NewMemory()
		require.NoError(t, store.SaveTokens(ctx, "T1", "R1"))
		require.NoError(t, store.SaveUserID(ctx, "u1"))
		m := &mockRemote{
			logoutFn: func(_ context.Context, authorization string) (*remote.LogoutResponse, error) {
				assert.Equal(t, "Bearer T1", authorization)
				return &remote.LogoutResponse{OK: true}, nil
			},
		}
		ok, err := newRepo(t, m, store).Logout(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assertEmpty(t, store)
	})

	t.Run("remote failure keeps tokens", func(t *testing.T) {
		store := tokenstore.NewMemory()
		require.NoError(t, store.SaveTokens(ctx, "T1", "R1"))
		require.NoError(t, store.SaveUserID(ctx, "u1"))
		m := &mockRemote{
			logoutFn: func(context.Context, string) (*remote.LogoutResponse, error) {
				return nil, autherr.API(http.StatusInternalServerError, "boom")
			},
		}
		ok, err := newRepo(t, m, store).Logout(ctx)
		assert.False(t, ok)
		assert.True(t, autherr.IsAPI(err))
		assertTokens(t, store, "T1", "R1", "u1")
	})

	t.Run("explicit not ok keeps tokens", func(t *testing.T) {
		store := tokenstore.NewMemory()
		require.NoError(t, store.SaveTokens(ctx, "T1", "R1"))
		m := &mockRemote{
			logoutFn: func(context.Context, string) (*remote.LogoutResponse, error) {
				return &remote.LogoutResponse{OK: false}, nil
			},
		}
		_, err := newRepo(t, m, store).Logout(ctx)
		assert.True(t, autherr.IsState(err))
		a, ok, _ := store.AuthToken(ctx)
		assert.True(t, ok)
		assert.Equal(t, "T1", a)
	})

	t.Run("store read failure", func(t *testing.T) {
		store := &failingStore{TokenStore: tokenstore.NewMemory(), readErr: errors.New("io")}
		m := &mockRemote{}
		_, err := newRepo(t, m, store).Logout(ctx)
		assert.True(t, autherr.IsState(err))
		assert.Equal(t, int32(0), m.calls.Load())
	})
}

func TestOAuth(t *testing.T) {
	t.Run("login persists", func(t *testing.T) {
		store := tokenstore.NewMemory()
		m := &mockRemote{
			oauthLoginFn: func(_ context.Context, req remote.OAuthLoginRequest) (*remote.AuthEnvelope, error) {
				assert.Equal(t, remote.OAuthLoginRequest{Provider: "google", Token: "gt"}, req)
				return authEnv("u1", "T1", ""), nil
			},
		}
		_, err := newRepo(t, m, store).OAuthLogin(context.Background(), "google", "gt")
		require.NoError(t, err)
		assertTokens(t, store, "T1", "T1", "u1")
	})

	t.Run("register persists", func(t *testing.T) {
		store := tokenstore.NewMemory()
		m := &mockRemote{
			oauthRegisterFn: func(_ context.Context, req remote.OAuthRegisterRequest) (*remote.AuthEnvelope, error) {
				assert.Equal(t, "g@x.io", req.Email)
				return authEnv("u2", "T2", "R2"), nil
			},
		}
		_, err := newRepo(t, m, store).OAuthRegister(context.Background(), "google", "gt", "g@x.io")
		require.NoError(t, err)
		assertTokens(t, store, "T2", "R2", "u2")
	})

	t.Run("login without session", func(t *testing.T) {
		store := tokenstore.NewMemory()
		m := &mockRemote{
			oauthLoginFn: func(context.Context, remote.OAuthLoginRequest) (*remote.AuthEnvelope, error) {
				return &remote.AuthEnvelope{User: &remote.UserDTO{ID: "u1"}}, nil
			},
		}
		_, err := newRepo(t, m, store).OAuthLogin(context.Background(), "google", "gt")
		assert.ErrorIs(t, err, autherr.ErrInvalidResponse)
		assertEmpty(t, store)
	})
}

func TestGetUserDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("no token fails fast", func(t *testing.T) {
		m := &mockRemote{}
		_, err := newRepo(t, m, tokenstore.NewMemory()).GetUserDetails(ctx, "u1")
		assert.ErrorIs(t, err, autherr.ErrNoAuthToken)
		assert.Equal(t, "No auth token found", autherr.UserMessage(err))
		assert.Equal(t, int32(0), m.calls.Load())
	})

	t.Run("sends bearer token", func(t *testing.T) {
		store := tokenstore.NewMemory()
		require.NoError(t, store.SaveTokens(ctx, "T1", "T1"))
		m := &mockRemote{
			getUserFn: func(_ context.Context, userID, authorization string) (*remote.AuthEnvelope, error) {
				assert.Equal(t, "u7", userID)
				assert.Equal(t, "Bearer T1", authorization)
				return &remote.AuthEnvelope{User: &remote.UserDTO{ID: "u7", ProfilePicture: "https://p"}}, nil
			},
		}
		u, err := newRepo(t, m, store).GetUserDetails(ctx, "u7")
		require.NoError(t, err)
		assert.Equal(t, "https://p", u.ProfilePicture)
	})
}

func TestUploadProfileImage(t *testing.T) {
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		m := &mockRemote{}
		_, err := newRepo(t, m, tokenstore.NewMemory()).UploadProfileImage(ctx, "/tmp/a.png")
		assert.ErrorIs(t, err, autherr.ErrNoAuthToken)
		assert.Equal(t, int32(0), m.calls.Load())
	})

	t.Run("no user id", func(t *testing.T) {
		store := tokenstore.NewMemory()
		require.NoError(t, store.SaveTokens(ctx, "T1", "T1"))
		m := &mockRemote{}
		_, err := newRepo(t, m, store).UploadProfileImage(ctx, "/tmp/a.png")
		assert.ErrorIs(t, err, autherr.ErrNoUserID)
		assert.Equal(t, "No user id found", autherr.UserMessage(err))
		assert.Equal(t, int32(0), m.calls.Load())
	})

	t.Run("uploads with stored identity", func(t *testing.T) {
		store := tokenstore.NewMemory()
		require.NoError(t, store.SaveTokens(ctx, "T1", "T1"))
		require.NoError(t, store.SaveUserID(ctx, "u1"))
		m := &mockRemote{
			uploadImageFn: func(_ context.Context, req remote.UploadImageRequest) (*remote.UploadResponse, error) {
				assert.Equal(t, remote.UploadImageRequest{UserID: "u1", Path: "/tmp/a.png", Authorization: "T1"}, req)
				return &remote.UploadResponse{URL: "https://cdn/u1.png", ContentType: "image/png", Size: 10}, nil
			},
		}
		out, err := newRepo(t, m, store).UploadProfileImage(ctx, "/tmp/a.png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/u1.png", out.URL)
		assert.Equal(t, int64(10), out.Size)
	})
}

func TestCurrentSession(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	repo := newRepo(t, &mockRemote{}, store)

	_, err := repo.CurrentSession(ctx)
	assert.ErrorIs(t, err, autherr.ErrNoAuthToken)

	require.NoError(t, store.SaveTokens(ctx, "T1", "R1"))
	require.NoError(t, store.SaveUserID(ctx, "u1"))
	s, err := repo.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T1", s.AuthToken)
	assert.Equal(t, "R1", s.RefreshToken)
	assert.Equal(t, "u1", s.UserID)
	assert.True(t, s.Valid())
}
