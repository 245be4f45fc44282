package model

import "context"

// ExternalProfile is the subset of a third-party account used for sign-in.
type ExternalProfile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// IdentityProvider drives the OAuth authorization code flow.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (ExternalProfile, error)
}
