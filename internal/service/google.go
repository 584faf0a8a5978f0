package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/pageza/recipeshare/config"
	"github.com/pageza/recipeshare/internal/models"
	"github.com/pageza/recipeshare/internal/remote"
)

// ErrGoogleSignIn wraps every failure of the federated sign-in flow
var ErrGoogleSignIn = errors.New("google sign-in failed")

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProfile is the subset of the OpenID userinfo response we use
type GoogleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleAuth runs the OAuth2 authorization-code flow against Google
type GoogleAuth struct {
	oauth       *oauth2.Config
	userInfoURL string
	users       *AuthService
}

// NewGoogleAuth builds the flow from configuration
func NewGoogleAuth(cfg *config.Config, users *AuthService) *GoogleAuth {
	return NewGoogleAuthWithEndpoint(&oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}, googleUserInfoURL, users)
}

// NewGoogleAuthWithEndpoint allows a non-Google provider, used in tests
func NewGoogleAuthWithEndpoint(oauth *oauth2.Config, userInfoURL string, users *AuthService) *GoogleAuth {
	return &GoogleAuth{oauth: oauth, userInfoURL: userInfoURL, users: users}
}

// AuthCodeURL returns the consent page URL carrying state
func (g *GoogleAuth) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// SignIn exchanges an authorization code and returns the linked account
func (g *GoogleAuth) SignIn(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrGoogleSignIn)
	}

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange: %v", ErrGoogleSignIn, err)
	}

	rc := remote.NewClient(g.oauth.Client(ctx, token))
	profile, err := remote.GetJSON[GoogleProfile](ctx, rc, g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", ErrGoogleSignIn, err)
	}
	if profile.Subject == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: incomplete profile", ErrGoogleSignIn)
	}
	if !profile.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", ErrGoogleSignIn)
	}

	user, err := g.users.FindOrCreateGoogleUser(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleSignIn, err)
	}
	return user, nil
}
