package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/config"
	"github.com/pageza/recipeshare/internal/api"
	"github.com/pageza/recipeshare/internal/forms"
	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/mealdb"
	"github.com/pageza/recipeshare/internal/middleware"
	"github.com/pageza/recipeshare/internal/render"
	"github.com/pageza/recipeshare/internal/router"
	"github.com/pageza/recipeshare/internal/service"
	"github.com/pageza/recipeshare/internal/session"
)

const (
	// ScreenIdleTimeout unmounts screens of visitors gone this long
	ScreenIdleTimeout = 30 * time.Minute
	sweepInterval     = 5 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

// Deps are the external collaborators of a Server. Redis, Images and
// ImageSigner are optional.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Meals       mealdb.Service
	Images      service.ImageStore
	ImageSigner service.ImageURLSigner
}

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	http    *http.Server
	screens *api.Screens
}

// New wires services, handlers and routes
func New(deps Deps) (*Server, error) {
	cfg := deps.Config
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	pages, err := render.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	images := deps.Images
	if images == nil {
		logging.Warn("image storage disabled; recipe submissions will fail")
		images = service.DisabledImageStore{}
	}

	authService := service.NewAuthService(deps.DB, cfg.JWTSecret)
	recipeService := service.NewRecipeService(deps.DB)
	if deps.ImageSigner != nil {
		recipeService.WithImageSigner(deps.ImageSigner)
	}
	submitter := service.NewRecipeSubmitter(recipeService, images)

	var guard forms.Guard = forms.NewLocalGuard()
	if deps.Redis != nil {
		guard = forms.NewRedisGuard(deps.Redis, forms.DefaultGuardTTL)
	}
	controller := forms.NewController(guard)

	var google api.GoogleSignIn
	if cfg.GoogleEnabled() {
		google = service.NewGoogleAuth(cfg, authService)
	}

	screens := api.NewScreens()
	holder := session.NewHolder(authService, session.Options{
		Secure: cfg.SecureCookies,
		MaxAge: service.TokenTTL,
	}, screens.All()...)

	limiter := middleware.NewSubmissionRateLimiter(deps.Redis)

	engine := router.SetupRouter(router.Handlers{
		Pages:   api.NewPageHandler(deps.Meals, recipeService, screens),
		Submit:  api.NewSubmitHandler(controller, submitter),
		Auth:    api.NewAuthHandler(authService, holder, google, cfg.SecureCookies),
		Meals:   api.NewMealHandler(deps.Meals),
		Recipes: api.NewRecipeHandler(recipeService, controller, submitter, limiter.Middleware(nil)),
		Health:  api.NewHealthHandler(deps.DB, deps.Redis),
	}, router.Options{
		Templates:   pages,
		Session:     holder,
		CORSOrigins: cfg.CORSOrigins,
		SubmitLimit: limiter.Middleware(api.ErrorPage),
	})

	return &Server{cfg: cfg, router: engine, screens: screens}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepScreens(ctx)

	errChan := make(chan error, 1)
	go func() {
		logging.Info("starting server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

func (s *Server) sweepScreens(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.screens.Sweep(ScreenIdleTimeout); n > 0 {
				logging.Debug("unmounted idle screens", zap.Int("count", n))
			}
		}
	}
}
