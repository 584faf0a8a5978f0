// Package session holds the authentication state of a visitor.
//
// Holder is the only writer: Login and Logout set and clear the cookies that
// persist the state across reloads. Everything else reads a Session value from
// the request context through From.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/types"
	"github.com/pageza/recipeshare/internal/view"
)

const (
	// AuthCookie mirrors the boolean authentication flag
	AuthCookie = "isAuth"
	// TokenCookie carries the session token
	TokenCookie = "token"
	// VisitorCookie identifies a browser for per-screen state
	VisitorCookie = "vid"

	contextKey = "session"
)

// Session is the read-only view of a visitor's authentication
type Session struct {
	Authenticated bool
	Token         string
	UserID        uuid.UUID
	Username      string
	Visitor       string
}

// TokenService issues and validates session tokens
type TokenService interface {
	GenerateToken(claims *types.TokenClaims) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// Options control the cookies written by Holder
type Options struct {
	Secure bool
	MaxAge time.Duration
}

// Holder loads and writes sessions
type Holder struct {
	tokens  TokenService
	opts    Options
	screens []view.Unmounter
}

// NewHolder creates a Holder. screens are dropped for a visitor on logout.
func NewHolder(tokens TokenService, opts Options, screens ...view.Unmounter) *Holder {
	if opts.MaxAge == 0 {
		opts.MaxAge = 24 * time.Hour
	}
	return &Holder{tokens: tokens, opts: opts, screens: screens}
}

// From returns the session loaded for this request. Requests that did not
// pass through Load are anonymous.
func From(c *gin.Context) Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{}
}

// Load is a middleware that mirrors the persisted session into the request.
// A bearer Authorization header takes precedence over the cookie.
func (h *Holder) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := Session{Visitor: h.visitor(c)}

		token, fromHeader := bearerToken(c)
		if !fromHeader {
			token, _ = c.Cookie(TokenCookie)
		}

		if token != "" {
			claims, err := h.tokens.ValidateToken(token)
			switch {
			case err == nil:
				s.Authenticated = true
				s.Token = token
				s.UserID = claims.UserID
				s.Username = claims.Username
			case !fromHeader:
				logging.Debug("dropping invalid session cookie", zap.Error(err))
				h.clearCookies(c)
			}
		}

		c.Set(contextKey, s)
		c.Next()
	}
}

// Login persists an authenticated session for user and returns its token
func (h *Holder) Login(c *gin.Context, userID uuid.UUID, username string) (string, error) {
	token, err := h.tokens.GenerateToken(&types.TokenClaims{UserID: userID, Username: username})
	if err != nil {
		return "", err
	}

	maxAge := int(h.opts.MaxAge.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, maxAge, "/", "", h.opts.Secure, true)
	c.SetCookie(AuthCookie, "true", maxAge, "/", "", h.opts.Secure, false)

	s := From(c)
	s.Authenticated = true
	s.Token = token
	s.UserID = userID
	s.Username = username
	c.Set(contextKey, s)

	logging.Info("session started", zap.String("user_id", userID.String()))
	return token, nil
}

// Logout clears the persisted session and unmounts the visitor's screens
func (h *Holder) Logout(c *gin.Context) {
	s := From(c)
	h.clearCookies(c)
	if s.Visitor != "" {
		for _, sc := range h.screens {
			sc.Drop(s.Visitor)
		}
	}
	c.Set(contextKey, Session{Visitor: s.Visitor})

	if s.Authenticated {
		logging.Info("session ended", zap.String("user_id", s.UserID.String()))
	}
}

// RequireAuth rejects anonymous requests. Pages are redirected to /login;
// API requests get a 401 JSON body.
func RequireAuth(api bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if From(c).Authenticated {
			c.Next()
			return
		}
		if api {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

func (h *Holder) clearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", h.opts.Secure, true)
	c.SetCookie(AuthCookie, "", -1, "/", "", h.opts.Secure, false)
}

func (h *Holder) visitor(c *gin.Context) string {
	if v, err := c.Cookie(VisitorCookie); err == nil {
		if _, err := uuid.Parse(v); err == nil {
			return v
		}
	}
	v := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(VisitorCookie, v, 0, "/", "", h.opts.Secure, true)
	return v
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
