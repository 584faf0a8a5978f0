package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/mealdb"
	"github.com/pageza/recipeshare/internal/remote"
)

// MealHandler exposes TheMealDB lookups as JSON
type MealHandler struct {
	meals mealdb.Service
}

func NewMealHandler(meals mealdb.Service) *MealHandler {
	return &MealHandler{meals: meals}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.GET("/search", h.Search)
		meals.GET("/random", h.Random)
		meals.GET("/:id", h.Lookup)
	}
	router.GET("/categories", h.Categories)
	router.GET("/categories/:name/meals", h.ByCategory)
	router.GET("/areas", h.Areas)
	router.GET("/areas/:name/meals", h.ByArea)
	router.GET("/ingredients", h.Ingredients)
}

// upstreamError writes the response for a failed TheMealDB call
func upstreamError(c *gin.Context, err error) {
	var rerr *remote.Error
	if errors.As(err, &rerr) {
		logging.Warn("mealdb request failed",
			zap.String("kind", rerr.Kind.String()),
			zap.Int("status", rerr.StatusCode),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Recipe service unavailable"})
		return
	}
	logging.Error("mealdb request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

func (h *MealHandler) Search(c *gin.Context) {
	q := c.Query("s")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter s is required"})
		return
	}
	meals, err := h.meals.Search(c.Request.Context(), q)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *MealHandler) Lookup(c *gin.Context) {
	meal, err := h.meals.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, mealdb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) Random(c *gin.Context) {
	meal, err := h.meals.Random(c.Request.Context())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) Categories(c *gin.Context) {
	categories, err := h.meals.Categories(c.Request.Context())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *MealHandler) ByCategory(c *gin.Context) {
	meals, err := h.meals.FilterByCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *MealHandler) Areas(c *gin.Context) {
	areas, err := h.meals.Areas(c.Request.Context())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

func (h *MealHandler) ByArea(c *gin.Context) {
	meals, err := h.meals.FilterByArea(c.Request.Context(), c.Param("name"))
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *MealHandler) Ingredients(c *gin.Context) {
	ingredients, err := h.meals.Ingredients(c.Request.Context())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}
