package model

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrInvalidScore      = errors.New("invalid score value")
	ErrInvalidLimit      = errors.New("limit must be between 1 and 100")
	ErrUnauthenticated   = errors.New("login required")
	ErrForbidden         = errors.New("access to another user's data is forbidden")
	ErrPuzzleUnavailable = errors.New("puzzle service unavailable")

	ErrMissingCredentials   = errors.New("missing email or password")
	ErrEmailTaken           = errors.New("email already registered, please login")
	ErrEmailNotFound        = errors.New("email not found")
	ErrIncorrectPassword    = errors.New("incorrect password")
	ErrUseGoogleSignIn      = errors.New("this email is registered via Google, please use Google Sign-In")
	ErrGoogleProfileNoEmail = errors.New("google profile has no email")
	ErrGoogleNotConfigured  = errors.New("google sign-in is not configured")

	ErrSessionRevoked  = errors.New("session revoked")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionMismatch = errors.New("session token mismatch")

	ErrInvalidAvatar = errors.New("avatar must be a png, jpeg, gif or webp image")
	ErrInvalidUserID = errors.New("invalid user id")
	ErrInvalidBody   = errors.New("invalid request body")
)
