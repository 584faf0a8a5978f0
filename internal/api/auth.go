package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/models"
	"github.com/pageza/recipeshare/internal/render"
	"github.com/pageza/recipeshare/internal/service"
	"github.com/pageza/recipeshare/internal/session"
	"github.com/pageza/recipeshare/internal/types"
)

const (
	msgLoginFailed  = "Invalid username or password. Please try again."
	msgSignupFailed = "Signup failed. "
	msgEmailInUse   = "The email address is already in use by another account."
	msgGoogleFailed = "Google sign-in failed. Please try again."

	oauthStateCookie = "oauth_state"
)

// GoogleSignIn is the federated sign-in flow
type GoogleSignIn interface {
	AuthCodeURL(state string) string
	SignIn(ctx context.Context, code string) (*models.User, error)
}

// AuthHandler serves login, signup, logout and the Google flow
type AuthHandler struct {
	auth   service.IAuthService
	holder *session.Holder
	google GoogleSignIn
	secure bool
}

// NewAuthHandler creates an AuthHandler; google may be nil
func NewAuthHandler(auth service.IAuthService, holder *session.Holder, google GoogleSignIn, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, holder: holder, google: google, secure: secureCookies}
}

func (h *AuthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/signup", h.SignupPage)
	r.POST("/signup", h.Signup)
	r.POST("/logout", h.Logout)
	r.GET("/auth/google", h.GoogleStart)
	r.GET("/auth/google/callback", h.GoogleCallback)
}

func (h *AuthHandler) RegisterAPIRoutes(r gin.IRouter) {
	r.POST("/auth/login", h.APILogin)
	r.POST("/auth/register", h.APIRegister)
	r.POST("/auth/logout", h.APILogout)
	r.GET("/auth/me", session.RequireAuth(true), h.Me)
}

func (h *AuthHandler) authPage(c *gin.Context, status int, page, title string, body render.AuthBody) {
	body.GoogleEnabled = h.google != nil
	renderPage(c, status, page, title, body)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if session.From(c).Authenticated {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.authPage(c, http.StatusOK, "login", "Log In", render.AuthBody{})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	user, err := h.auth.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logging.Error("login failed", zap.Error(err))
		}
		h.authPage(c, http.StatusUnauthorized, "login", "Log In", render.AuthBody{Email: email, Error: msgLoginFailed})
		return
	}

	if _, err := h.holder.Login(c, user.ID, user.Username); err != nil {
		logging.Error("failed to start session", zap.Error(err))
		h.authPage(c, http.StatusInternalServerError, "login", "Log In", render.AuthBody{Email: email, Error: msgLoginFailed})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	if session.From(c).Authenticated {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.authPage(c, http.StatusOK, "signup", "Sign Up", render.AuthBody{})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	body := render.AuthBody{Email: c.PostForm("email"), Username: c.PostForm("username")}
	user, err := h.auth.Register(c.Request.Context(), body.Email, body.Username, c.PostForm("password"))
	if err != nil {
		status, msg := signupFailure(err)
		body.Error = msgSignupFailed + msg
		h.authPage(c, status, "signup", "Sign Up", body)
		return
	}

	if _, err := h.holder.Login(c, user.ID, user.Username); err != nil {
		logging.Error("failed to start session", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// signupFailure maps a Register error to a status and user-facing reason
func signupFailure(err error) (int, string) {
	var serr *service.SignupError
	switch {
	case errors.As(err, &serr):
		return http.StatusUnprocessableEntity, serr.Message
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, msgEmailInUse
	default:
		logging.Error("signup failed", zap.Error(err))
		return http.StatusInternalServerError, "Please try again."
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.holder.Logout(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) GoogleStart(c *gin.Context) {
	if h.google == nil {
		ErrorPage(c, http.StatusNotFound, "Google sign-in is not available.")
		return
	}
	state, err := newState()
	if err != nil {
		logging.Error("failed to create oauth state", zap.Error(err))
		ErrorPage(c, http.StatusInternalServerError, msgGoogleFailed)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/auth/google", "", h.secure, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		ErrorPage(c, http.StatusNotFound, "Google sign-in is not available.")
		return
	}
	state, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", h.secure, true)

	if state == "" || c.Query("state") != state {
		logging.Warn("google callback state mismatch")
		h.authPage(c, http.StatusBadRequest, "login", "Log In", render.AuthBody{Error: msgGoogleFailed})
		return
	}
	if e := c.Query("error"); e != "" {
		logging.Info("google sign-in cancelled", zap.String("error", e))
		h.authPage(c, http.StatusUnauthorized, "login", "Log In", render.AuthBody{Error: msgGoogleFailed})
		return
	}

	user, err := h.google.SignIn(c.Request.Context(), c.Query("code"))
	if err != nil {
		logging.Error("google sign-in failed", zap.Error(err))
		h.authPage(c, http.StatusUnauthorized, "login", "Log In", render.AuthBody{Error: msgGoogleFailed})
		return
	}
	if _, err := h.holder.Login(c, user.ID, user.Username); err != nil {
		logging.Error("failed to start session", zap.Error(err))
		h.authPage(c, http.StatusInternalServerError, "login", "Log In", render.AuthBody{Error: msgGoogleFailed})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func newState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (h *AuthHandler) APILogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgLoginFailed})
			return
		}
		logging.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	h.respondWithSession(c, http.StatusOK, user)
}

func (h *AuthHandler) APIRegister(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		status, msg := signupFailure(err)
		c.JSON(status, gin.H{"error": msgSignupFailed + msg})
		return
	}
	h.respondWithSession(c, http.StatusCreated, user)
}

func (h *AuthHandler) respondWithSession(c *gin.Context, status int, user *models.User) {
	token, err := h.holder.Login(c, user.ID, user.Username)
	if err != nil {
		logging.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(status, types.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) APILogout(c *gin.Context) {
	h.holder.Logout(c)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetUserByID(c.Request.Context(), session.From(c).UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logging.Error("failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, user)
}
