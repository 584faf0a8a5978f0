package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/internal/database"
	"github.com/pageza/recipeshare/internal/render"
	"github.com/pageza/recipeshare/internal/session"
)

const (
	themeCookie = "theme"
	flashCookie = "flash"
)

// Version is reported by the health endpoint and the CLI
var Version = "dev"

// renderPage writes a full HTML page
func renderPage(c *gin.Context, status int, name, title string, body interface{}) {
	c.HTML(status, name, render.Page{
		Title:   title,
		Session: session.From(c),
		Theme:   theme(c),
		Flash:   takeFlash(c),
		Body:    body,
	})
}

// ErrorPage renders the error page; it satisfies middleware.PageErrorFunc
func ErrorPage(c *gin.Context, status int, message string) {
	renderPage(c, status, "error", "Error", render.ErrorBody{Message: message})
}

func theme(c *gin.Context) string {
	if v, _ := c.Cookie(themeCookie); v == "dark" {
		return "dark"
	}
	return "light"
}

// setFlash stores a one-shot message for the next page
func setFlash(c *gin.Context, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, url.QueryEscape(message), 60, "/", "", false, true)
}

func takeFlash(c *gin.Context) string {
	if msg, ok := c.Get(flashCookie); ok {
		return msg.(string)
	}
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return msg
}

// flashNow shows a message on the page rendered by this request
func flashNow(c *gin.Context, message string) {
	c.Set(flashCookie, message)
}

// ToggleTheme flips the theme cookie and returns to the previous page
func ToggleTheme(c *gin.Context) {
	next := "dark"
	if theme(c) == "dark" {
		next = "light"
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, next, int((365 * 24 * time.Hour).Seconds()), "/", "", false, false)
	c.Redirect(http.StatusSeeOther, localReferer(c))
}

// localReferer returns the path of a same-host Referer, or "/"
func localReferer(c *gin.Context) string {
	ref, err := url.Parse(c.Request.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") {
		return "/"
	}
	if ref.Host != "" && ref.Host != c.Request.Host {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// HealthHandler reports liveness of the database and Redis
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	status := http.StatusOK

	if err := database.HealthCheck(ctx, h.db); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.redis == nil {
		checks["redis"] = "disabled"
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["redis"] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":  state,
		"version": Version,
		"checks":  checks,
	})
}
