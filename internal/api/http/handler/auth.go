package handler

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/dtroode/bananaquest-server/internal/api/http/middleware"
	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/model"
)

const (
	stateCookie  = "bq_oauth_state"
	stateTTL     = 10 * time.Minute
	homePage     = "/index.html"
	loginPage    = "/login.html"
	contentForm  = "application/x-www-form-urlencoded"
	contentMulti = "multipart/form-data"
)

// AuthService defines sign-in operations exposed over HTTP.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (model.AuthSession, error)
	Login(ctx context.Context, email, password string) (model.AuthSession, error)
	GoogleAuthURL(state string) (string, error)
	GoogleCallback(ctx context.Context, code string) (model.AuthSession, error)
	Logout(ctx context.Context, token string) error
	Status(caller *model.Identity) model.Status
}

type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	secureCookies  bool
	logger         *logger.Logger
}

func NewAuth(authService AuthService, contextManager model.ContextManager, secureCookies bool, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		secureCookies:  secureCookies,
		logger:         logger,
	}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// isForm reports whether the request was posted by an HTML form.
func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && (mt == contentForm || mt == contentMulti)
}

func (h *Auth) readCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, error) {
	if isForm(r) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
		if err := r.ParseForm(); err != nil {
			return credentialsRequest{}, fmt.Errorf("%w: %v", model.ErrInvalidBody, err)
		}
		return credentialsRequest{
			Name:     r.PostForm.Get("name"),
			Email:    r.PostForm.Get("email"),
			Password: r.PostForm.Get("password"),
		}, nil
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return credentialsRequest{}, err
	}
	return req, nil
}

func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := h.readCredentials(w, r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	session, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	h.signedIn(w, r, session)
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	req, err := h.readCredentials(w, r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	h.signedIn(w, r, session)
}

// signedIn sets the session cookie. Form posts are redirected to the game page.
func (h *Auth) signedIn(w http.ResponseWriter, r *http.Request, session model.AuthSession) {
	h.setSessionCookie(w, session.Session)

	if isForm(r) {
		http.Redirect(w, r, homePage, http.StatusSeeOther)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:   session.User.ID.String(),
		Name: session.User.Name,
	})
}

// Logout revokes the presented session and clears the cookie. GET requests
// are redirected to the login page.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		if err := h.authService.Logout(r.Context(), token); err != nil {
			h.logger.Warn("Auth handler: logout failed", "error", err.Error())
		}
	}
	h.clearCookie(w, model.SessionCookie, "/")

	if r.Method == http.MethodGet {
		http.Redirect(w, r, loginPage, http.StatusFound)
		return
	}
	writeMessage(w, http.StatusOK, "logged out")
}

func (h *Auth) GoogleStart(w http.ResponseWriter, r *http.Request) {
	state, err := newState()
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	url, err := h.authService.GoogleAuthURL(state)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	c, err := r.Cookie(stateCookie)
	h.clearCookie(w, stateCookie, "/auth/google")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(c.Value), []byte(state)) != 1 {
		h.logger.Warn("Auth handler: oauth state mismatch")
		http.Redirect(w, r, loginPage, http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, loginPage, http.StatusFound)
		return
	}

	session, err := h.authService.GoogleCallback(r.Context(), code)
	if err != nil {
		h.logger.Warn("Auth handler: google sign-in failed", "error", err.Error())
		http.Redirect(w, r, loginPage, http.StatusFound)
		return
	}

	h.setSessionCookie(w, session.Session)
	http.Redirect(w, r, homePage, http.StatusFound)
}

func (h *Auth) UserStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.authService.Status(callerFromContext(r.Context(), h.contextManager)))
}

func (h *Auth) setSessionCookie(w http.ResponseWriter, session model.IssuedSession) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     model.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Auth) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func newState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
