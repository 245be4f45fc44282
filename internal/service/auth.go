package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/model"
)

type Auth struct {
	users      model.UserStore
	sessions   *SessionService
	provider   model.IdentityProvider
	bcryptCost int
	tracer     trace.Tracer
	logger     *logger.Logger
}

// NewAuth builds the auth service. provider may be nil, which disables Google sign-in.
func NewAuth(
	users model.UserStore,
	sessions *SessionService,
	provider model.IdentityProvider,
	bcryptCost int,
	tracer trace.Tracer,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:      users,
		sessions:   sessions,
		provider:   provider,
		bcryptCost: bcryptCost,
		tracer:     tracer,
		logger:     logger,
	}
}

// Signup registers a local account and signs it in.
func (a *Auth) Signup(ctx context.Context, name, email, password string) (model.AuthSession, error) {
	ctx, span := a.tracer.Start(ctx, "AuthService.Signup")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.AuthSession{}, model.ErrMissingCredentials
	}

	existing, err := a.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.GoogleID != nil && !existing.HasPassword() {
			return model.AuthSession{}, model.ErrUseGoogleSignIn
		}
		return model.AuthSession{}, model.ErrEmailTaken
	case !errors.Is(err, model.ErrNotFound):
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		span.SetStatus(codes.Error, err.Error())
		return model.AuthSession{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return model.AuthSession{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	name = strings.TrimSpace(name)
	if name == "" {
		name = localPart(email)
	}

	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: &hashed,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.AuthSession{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		span.SetStatus(codes.Error, err.Error())
		return model.AuthSession{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user signed up",
		"user_id", user.ID)

	return a.signIn(ctx, user)
}

// Login checks local credentials and signs the user in.
func (a *Auth) Login(ctx context.Context, email, password string) (model.AuthSession, error) {
	ctx, span := a.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.AuthSession{}, model.ErrMissingCredentials
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.AuthSession{}, model.ErrEmailNotFound
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		span.SetStatus(codes.Error, err.Error())
		return model.AuthSession{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.HasPassword() {
		return model.AuthSession{}, model.ErrUseGoogleSignIn
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		a.logger.Info("Auth service: incorrect password",
			"user_id", user.ID)
		return model.AuthSession{}, model.ErrIncorrectPassword
	}

	return a.signIn(ctx, user)
}

func (a *Auth) GoogleAuthURL(state string) (string, error) {
	if a.provider == nil {
		return "", model.ErrGoogleNotConfigured
	}
	return a.provider.AuthCodeURL(state), nil
}

// GoogleCallback finishes the OAuth flow. Unknown emails get a new account;
// known ones without a Google id are linked.
func (a *Auth) GoogleCallback(ctx context.Context, code string) (model.AuthSession, error) {
	ctx, span := a.tracer.Start(ctx, "AuthService.GoogleCallback")
	defer span.End()

	if a.provider == nil {
		return model.AuthSession{}, model.ErrGoogleNotConfigured
	}

	profile, err := a.provider.Exchange(ctx, code)
	if err != nil {
		a.logger.Warn("Auth service: google exchange failed",
			"error", err.Error())
		span.SetStatus(codes.Error, err.Error())
		return model.AuthSession{}, fmt.Errorf("failed to exchange google code: %w", err)
	}

	email := strings.TrimSpace(profile.Email)
	if email == "" {
		return model.AuthSession{}, model.ErrGoogleProfileNoEmail
	}

	user, err := a.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, model.ErrNotFound):
		user, err = a.createGoogleUser(ctx, email, profile)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return model.AuthSession{}, err
		}
	case err != nil:
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		span.SetStatus(codes.Error, err.Error())
		return model.AuthSession{}, fmt.Errorf("failed to get user by email: %w", err)
	case user.GoogleID == nil:
		if err := a.users.LinkGoogleID(ctx, user.ID, profile.ID); err != nil && !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: failed to link google id",
				"user_id", user.ID,
				"error", err.Error())
			return model.AuthSession{}, fmt.Errorf("failed to link google id: %w", err)
		}
		googleID := profile.ID
		user.GoogleID = &googleID
		a.logger.Info("Auth service: linked google account",
			"user_id", user.ID)
	}

	return a.signIn(ctx, user)
}

func (a *Auth) createGoogleUser(ctx context.Context, email string, profile model.ExternalProfile) (model.User, error) {
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = localPart(email)
	}

	googleID := profile.ID
	var avatar *string
	if profile.Picture != "" {
		picture := profile.Picture
		avatar = &picture
	}

	user, err := a.users.Create(ctx, model.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		GoogleID: &googleID,
		Avatar:   avatar,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create google user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: created google user",
		"user_id", user.ID)

	return user, nil
}

// Resolve turns a session token into the caller's identity.
func (a *Auth) Resolve(ctx context.Context, token string) (model.Identity, error) {
	ctx, span := a.tracer.Start(ctx, "AuthService.Resolve")
	defer span.End()

	userID, err := a.sessions.Validate(ctx, token)
	if err != nil {
		return model.Identity{}, err
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Identity{}, fmt.Errorf("%w: user no longer exists", model.ErrUnauthenticated)
		}
		return model.Identity{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return model.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}, nil
}

func (a *Auth) Logout(ctx context.Context, token string) error {
	if err := a.sessions.Revoke(ctx, token); err != nil {
		a.logger.Warn("Auth service: failed to revoke session",
			"error", err.Error())
		return err
	}
	return nil
}

// Status reports whether the caller is signed in.
func (a *Auth) Status(caller *model.Identity) model.Status {
	if caller == nil {
		return model.Status{LoggedIn: false}
	}
	id := caller.UserID
	return model.Status{
		LoggedIn: true,
		Name:     caller.Name,
		ID:       &id,
	}
}

func (a *Auth) signIn(ctx context.Context, user model.User) (model.AuthSession, error) {
	session, err := a.sessions.Issue(ctx, user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue session",
			"user_id", user.ID,
			"error", err.Error())
		return model.AuthSession{}, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("user_id", user.ID.String()))

	return model.AuthSession{
		User:    user,
		Session: session,
	}, nil
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
