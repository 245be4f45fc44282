package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/bananaquest-server/internal/mocks"
	"github.com/dtroode/bananaquest-server/internal/model"
	"github.com/dtroode/bananaquest-server/internal/testutil"
)

type authDeps struct {
	users    *mocks.UserStore
	manager  *mocks.TokenManager
	sessions *mocks.SessionStore
	provider *mocks.IdentityProvider
}

func newAuthService(t *testing.T, withProvider bool) (*Auth, authDeps) {
	d := authDeps{
		users:    mocks.NewUserStore(t),
		manager:  mocks.NewTokenManager(t),
		sessions: mocks.NewSessionStore(t),
	}

	var provider model.IdentityProvider
	if withProvider {
		d.provider = mocks.NewIdentityProvider(t)
		provider = d.provider
	}

	svc := NewAuth(
		d.users,
		NewSessionService(d.manager, d.sessions, testutil.MakeNoopLogger()),
		provider,
		bcrypt.MinCost,
		noop.NewTracerProvider().Tracer("test"),
		testutil.MakeNoopLogger(),
	)
	return svc, d
}

func (d authDeps) expectSession(userID uuid.UUID) {
	d.manager.On("GenerateSessionToken", userID).Return("tok", "jti", time.Now().Add(time.Hour), nil).Once()
	d.sessions.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
}

func hashed(t *testing.T, password string) *string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(h)
	return &s
}

func TestAuth_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and signs in", func(t *testing.T) {
		svc, d := newAuthService(t, false)
		email := "ann@example.com"
		userID := uuid.New()

		d.users.On("GetByEmail", mock.Anything, email).Return(model.User{}, model.ErrNotFound).Once()
		d.users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.Email == email && u.Name == "ann" && u.PasswordHash != nil &&
				bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("pw")) == nil
		})).Return(model.User{ID: userID, Name: "ann", Email: email}, nil).Once()
		d.expectSession(userID)

		got, err := svc.Signup(ctx, "", email, "pw")
		require.NoError(t, err)
		assert.Equal(t, userID, got.User.ID)
		assert.Equal(t, "tok", got.Session.Token)
	})

	t.Run("race on create reports email taken", func(t *testing.T) {
		svc, d := newAuthService(t, false)
		email := gofakeit.Email()

		d.users.On("GetByEmail", mock.Anything, email).Return(model.User{}, model.ErrNotFound).Once()
		d.users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrEmailTaken).Once()

		_, err := svc.Signup(ctx, gofakeit.Name(), email, "pw")
		assert.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("missing credentials", func(t *testing.T) {
		svc, _ := newAuthService(t, false)

		_, err := svc.Signup(ctx, "ann", "", "pw")
		assert.ErrorIs(t, err, model.ErrMissingCredentials)
		_, err = svc.Signup(ctx, "ann", "a@b.c", "")
		assert.ErrorIs(t, err, model.ErrMissingCredentials)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, d := newAuthService(t, false)
		email := gofakeit.Email()
		d.users.On("GetByEmail", mock.Anything, email).Return(model.User{ID: uuid.New(), PasswordHash: hashed(t, "x")}, nil).Once()

		_, err := svc.Signup(ctx, "", email, "pw")
		assert.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("google-only account", func(t *testing.T) {
		svc, d := newAuthService(t, false)
		email := gofakeit.Email()
		gid := "g1"
		d.users.On("GetByEmail", mock.Anything, email).Return(model.User{ID: uuid.New(), GoogleID: &gid}, nil).Once()

		_, err := svc.Signup(ctx, "", email, "pw")
		assert.ErrorIs(t, err, model.ErrUseGoogleSignIn)
	})

	t.Run("lookup failure", func(t *testing.T) {
		svc, d := newAuthService(t, false)
		d.users.On("GetByEmail", mock.Anything, "a@b.c").Return(model.User{}, errors.New("db")).Once()

		_, err := svc.Signup(ctx, "", "a@b.c", "pw")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrEmailTaken)
	})
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()
	email := gofakeit.Email()
	userID := uuid.New()
	gid := "g1"

	tests := []struct {
		name     string
		password string
		user     model.User
		lookup   error
		wantErr  error
	}{
		{name: "ok", password: "secret", user: model.User{ID: userID, Email: email, PasswordHash: hashed(t, "secret")}},
		{name: "unknown email", password: "secret", lookup: model.ErrNotFound, wantErr: model.ErrEmailNotFound},
		{name: "google only", password: "secret", user: model.User{ID: userID, GoogleID: &gid}, wantErr: model.ErrUseGoogleSignIn},
		{name: "wrong password", password: "nope", user: model.User{ID: userID, PasswordHash: hashed(t, "secret")}, wantErr: model.ErrIncorrectPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newAuthService(t, false)
			d.users.On("GetByEmail", mock.Anything, email).Return(tt.user, tt.lookup).Once()
			if tt.wantErr == nil {
				d.expectSession(userID)
			}

			got, err := svc.Login(ctx, email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, got.User.ID)
			assert.Equal(t, "tok", got.Session.Token)
		})
	}
}

func TestAuth_Google(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		svc, _ := newAuthService(t, false)

		_, err := svc.GoogleAuthURL("state")
		assert.ErrorIs(t, err, model.ErrGoogleNotConfigured)
		_, err = svc.GoogleCallback(ctx, "code")
		assert.ErrorIs(t, err, model.ErrGoogleNotConfigured)
	})

	t.Run("auth url", func(t *testing.T) {
		svc, d := newAuthService(t, true)
		d.provider.On("AuthCodeURL", "state").Return("https://accounts.example/auth?state=state").Once()

		url, err := svc.GoogleAuthURL("state")
		require.NoError(t, err)
		assert.Contains(t, url, "state=state")
	})

	t.Run("profile without email", func(t *testing.T) {
		svc, d := newAuthService(t, true)
		d.provider.On("Exchange", mock.Anything, "code").Return(model.ExternalProfile{ID: "g1"}, nil).Once()

		_, err := svc.GoogleCallback(ctx, "code")
		assert.ErrorIs(t, err, model.ErrGoogleProfileNoEmail)
	})

	t.Run("exchange failure", func(t *testing.T) {
		svc, d := newAuthService(t, true)
		d.provider.On("Exchange", mock.Anything, "code").Return(model.ExternalProfile{}, errors.New("denied")).Once()

		_, err := svc.GoogleCallback(ctx, "code")
		assert.Error(t, err)
	})

	t.Run("creates new user", func(t *testing.T) {
		svc, d := newAuthService(t, true)
		profile := model.ExternalProfile{ID: "g1", Email: "bob@example.com", Picture: "https://img/bob.png"}
		d.provider.On("Exchange", mock.Anything, "code").Return(profile, nil).Once()
		d.users.On("GetByEmail", mock.Anything, profile.Email).Return(model.User{}, model.ErrNotFound).Once()

		var created model.User
		d.users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(model.User)
		}).Return(model.User{ID: uuid.New(), Name: "bob", Email: profile.Email}, nil).Once()
		d.manager.On("GenerateSessionToken", mock.Anything).Return("tok", "jti", time.Now().Add(time.Hour), nil).Once()
		d.sessions.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := svc.GoogleCallback(ctx, "code")
		require.NoError(t, err)

		gid := "g1"
		avatar := "https://img/bob.png"
		want := model.User{Name: "bob", Email: profile.Email, GoogleID: &gid, Avatar: &avatar}
		created.ID = uuid.Nil
		if diff := cmp.Diff(want, created); diff != "" {
			t.Errorf("created user mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("links existing user", func(t *testing.T) {
		svc, d := newAuthService(t, true)
		userID := uuid.New()
		profile := model.ExternalProfile{ID: "g2", Email: "cat@example.com", Name: "Cat"}
		d.provider.On("Exchange", mock.Anything, "code").Return(profile, nil).Once()
		d.users.On("GetByEmail", mock.Anything, profile.Email).Return(model.User{ID: userID, Email: profile.Email, PasswordHash: hashed(t, "x")}, nil).Once()
		d.users.On("LinkGoogleID", mock.Anything, userID, "g2").Return(nil).Once()
		d.expectSession(userID)

		got, err := svc.GoogleCallback(ctx, "code")
		require.NoError(t, err)
		require.NotNil(t, got.User.GoogleID)
		assert.Equal(t, "g2", *got.User.GoogleID)
	})

	t.Run("already linked", func(t *testing.T) {
		svc, d := newAuthService(t, true)
		userID := uuid.New()
		gid := "g3"
		profile := model.ExternalProfile{ID: gid, Email: "dan@example.com"}
		d.provider.On("Exchange", mock.Anything, "code").Return(profile, nil).Once()
		d.users.On("GetByEmail", mock.Anything, profile.Email).Return(model.User{ID: userID, GoogleID: &gid}, nil).Once()
		d.expectSession(userID)

		_, err := svc.GoogleCallback(ctx, "code")
		require.NoError(t, err)
	})
}

func TestAuth_Resolve(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	session := model.Session{
		JTI:       "jti",
		UserID:    userID,
		TokenHash: hashToken("tok"),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	t.Run("ok", func(t *testing.T) {
		svc, d := newAuthService(t, false)
		d.manager.On("ParseSessionToken", "tok").Return(userID, "jti", nil).Once()
		d.sessions.On("GetByJTI", mock.Anything, "jti").Return(session, nil).Once()
		d.users.On("GetByID", mock.Anything, userID).Return(model.User{ID: userID, Name: "ann", Email: "ann@example.com"}, nil).Once()

		got, err := svc.Resolve(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, model.Identity{UserID: userID, Name: "ann", Email: "ann@example.com"}, got)
	})

	t.Run("user gone", func(t *testing.T) {
		svc, d := newAuthService(t, false)
		d.manager.On("ParseSessionToken", "tok").Return(userID, "jti", nil).Once()
		d.sessions.On("GetByJTI", mock.Anything, "jti").Return(session, nil).Once()
		d.users.On("GetByID", mock.Anything, userID).Return(model.User{}, model.ErrNotFound).Once()

		_, err := svc.Resolve(ctx, "tok")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, d := newAuthService(t, false)
		d.manager.On("ParseSessionToken", "bad").Return(uuid.Nil, "", errors.New("sig")).Once()

		_, err := svc.Resolve(ctx, "bad")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})
}

func TestAuth_LogoutAndStatus(t *testing.T) {
	ctx := context.Background()
	svc, d := newAuthService(t, false)
	userID := uuid.New()

	d.manager.On("ParseSessionToken", "tok").Return(userID, "jti", nil).Once()
	d.sessions.On("RevokeByJTI", ctx, "jti").Return(nil).Once()
	require.NoError(t, svc.Logout(ctx, "tok"))

	assert.Equal(t, model.Status{LoggedIn: false}, svc.Status(nil))

	st := svc.Status(&model.Identity{UserID: userID, Name: "ann"})
	assert.True(t, st.LoggedIn)
	assert.Equal(t, "ann", st.Name)
	require.NotNil(t, st.ID)
	assert.Equal(t, userID, *st.ID)
}
