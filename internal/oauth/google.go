// Package oauth implements Google sign-in over the OAuth2 authorization code flow.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dtroode/bananaquest-server/internal/model"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var scopes = []string{
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
}

type userInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

var _ model.IdentityProvider = (*Google)(nil)

type Google struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogle(clientID, clientSecret, callbackURL string) *Google {
	return newGoogle(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}, userInfoURL)
}

func newGoogle(config *oauth2.Config, userInfoURL string) *Google {
	return &Google{
		config:      config,
		userInfoURL: userInfoURL,
	}
}

// AuthCodeURL returns the consent page URL carrying state.
func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the caller's Google profile.
func (g *Google) Exchange(ctx context.Context, code string) (model.ExternalProfile, error) {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return model.ExternalProfile{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return model.ExternalProfile{}, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := g.config.Client(ctx, tok).Do(req)
	if err != nil {
		return model.ExternalProfile{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ExternalProfile{}, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return model.ExternalProfile{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.ID == "" {
		return model.ExternalProfile{}, fmt.Errorf("userinfo has no id")
	}

	return model.ExternalProfile{
		ID:      info.ID,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
