package router

import (
	"github.com/gin-gonic/gin"
	ginrender "github.com/gin-gonic/gin/render"

	"github.com/pageza/recipeshare/internal/api"
	"github.com/pageza/recipeshare/internal/middleware"
	"github.com/pageza/recipeshare/internal/session"
)

// Handlers groups everything SetupRouter mounts
type Handlers struct {
	Pages   *api.PageHandler
	Submit  *api.SubmitHandler
	Auth    *api.AuthHandler
	Meals   *api.MealHandler
	Recipes *api.RecipeHandler
	Health  *api.HealthHandler
}

// Options configures the engine
type Options struct {
	Templates   ginrender.HTMLRender
	Session     *session.Holder
	CORSOrigins []string
	// SubmitLimit guards form posts; nil disables it
	SubmitLimit gin.HandlerFunc
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.HTMLRender = opts.Templates

	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery(api.ErrorPage))
	router.Use(middleware.APICORS(opts.CORSOrigins))
	router.Use(opts.Session.Load())

	router.GET("/health", h.Health.HealthCheck)
	router.POST("/theme", api.ToggleTheme)

	// Pages
	h.Pages.RegisterRoutes(router)
	h.Auth.RegisterRoutes(router)

	submit := router.Group("/submit", session.RequireAuth(false))
	{
		submit.GET("", h.Submit.Form)
		if opts.SubmitLimit != nil {
			submit.POST("", opts.SubmitLimit, h.Submit.Submit)
		} else {
			submit.POST("", h.Submit.Submit)
		}
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.ErrorHandler())
	{
		h.Auth.RegisterAPIRoutes(v1)
		h.Meals.RegisterRoutes(v1)
		h.Recipes.RegisterRoutes(v1)
	}

	router.NoRoute(func(c *gin.Context) {
		if middleware.IsAPI(c) {
			c.JSON(404, middleware.ErrorResponse{Error: "Not Found"})
			return
		}
		api.ErrorPage(c, 404, "Page not found")
	})

	return router
}
