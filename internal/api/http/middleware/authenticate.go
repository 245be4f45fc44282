package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/model"
)

// IdentityResolver turns a session token into the caller identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (model.Identity, error)
}

// Authenticate resolves the session token on every request and injects the
// caller identity into the request context.
type Authenticate struct {
	resolver       IdentityResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(resolver IdentityResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		resolver:       resolver,
		contextManager: contextManager,
		logger:         logger,
	}
}

// SessionToken extracts the token from the session cookie or a bearer header.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(model.SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Identify attaches the caller identity when a valid session is presented.
// Requests without one pass through anonymously.
func (m *Authenticate) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.resolver.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, model.ErrUnauthenticated) {
				m.logger.Error("Authenticate middleware: failed to resolve session",
					"path", r.URL.Path,
					"error", err.Error())
			} else {
				m.logger.Debug("Authenticate middleware: rejected session",
					"path", r.URL.Path,
					"error", err.Error())
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetIdentityToContext(r.Context(), identity)))
	})
}

// RequireLogin rejects requests that Identify left anonymous.
func (m *Authenticate) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.contextManager.GetIdentityFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": model.ErrUnauthenticated.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}
