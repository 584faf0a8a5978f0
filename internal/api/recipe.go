package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/forms"
	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/models"
	"github.com/pageza/recipeshare/internal/service"
	"github.com/pageza/recipeshare/internal/session"
	"github.com/pageza/recipeshare/internal/types"
)

// RecipeHandler exposes community recipes as JSON
type RecipeHandler struct {
	recipes   service.IRecipeService
	forms     *forms.Controller
	submitter *service.RecipeSubmitter
	limit     gin.HandlerFunc
}

// NewRecipeHandler creates a RecipeHandler. limit guards POST and may be nil.
func NewRecipeHandler(recipes service.IRecipeService, controller *forms.Controller, submitter *service.RecipeSubmitter, limit gin.HandlerFunc) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, forms: controller, submitter: submitter, limit: limit}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/featured", h.Featured)
		recipes.GET("/mine", session.RequireAuth(true), h.Mine)
		recipes.GET("/:id", h.GetRecipe)

		create := []gin.HandlerFunc{session.RequireAuth(true)}
		if h.limit != nil {
			create = append(create, h.limit)
		}
		recipes.POST("", append(create, h.CreateRecipe)...)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var (
		recipes []*models.Recipe
		err     error
	)
	if search := c.Query("q"); search != "" {
		recipes, err = h.recipes.SearchRecipes(c.Request.Context(), search)
	} else {
		recipes, err = h.recipes.ListRecipes(c.Request.Context(), nil)
	}
	if err != nil {
		logging.Error("failed to list recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) Featured(c *gin.Context) {
	limit := FeaturedCount
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 50 {
		limit = v
	}
	recipes, err := h.recipes.FeaturedRecipes(c.Request.Context(), limit)
	if err != nil {
		logging.Error("failed to load featured recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgLoadFeatured})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) Mine(c *gin.Context) {
	userID := session.From(c).UserID
	recipes, err := h.recipes.ListRecipes(c.Request.Context(), &userID)
	if err != nil {
		logging.Error("failed to list user recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		logging.Error("failed to load recipe", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgLoadRecipe})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe accepts the same multipart form as the submit page
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID := session.From(c).UserID
	draft, err := readDraft(c)

	var verr *forms.ValidationError
	if err != nil && !errors.As(err, &verr) {
		logging.Warn("unreadable submission", zap.Error(err))
		err = nil
	}

	var created *models.Recipe
	if err == nil {
		err = h.forms.Submit(c.Request.Context(), userID.String(), draft,
			h.submitter.Write(userID, func(r *models.Recipe) { created = r }))
	}

	switch {
	case err == nil:
		c.JSON(http.StatusCreated, created)
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, types.RecipeFieldErrors{Error: "Validation failed", Fields: verr.Fields})
	case errors.Is(err, forms.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": msgInFlight})
	default:
		logging.Error("recipe submission failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSubmitFailed})
	}
}
