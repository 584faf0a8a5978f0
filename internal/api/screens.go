package api

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/mealdb"
	"github.com/pageza/recipeshare/internal/render"
	"github.com/pageza/recipeshare/internal/service"
	"github.com/pageza/recipeshare/internal/session"
	"github.com/pageza/recipeshare/internal/view"
)

// Screen messages
const (
	msgLoadFeatured = "Failed to load featured recipes. Please try again later."
	msgLoadMeals    = "Failed to load meals. Please try again later."
	msgLoadRecipe   = "Failed to load recipe. Please try again later."
	msgSearch       = "An error occurred while searching. Please try again."
	msgMealDetails  = "An error occurred while fetching meal details. Please try again."

	msgNoResults      = "No results found. Try a different search term."
	msgNoCategoryMeal = "No meals found in this category."
	msgNoFeatured     = "No community recipes yet. Be the first to submit one!"
	msgNoRandom       = "No meal to suggest right now."
	msgNotFound       = "Recipe not found"
)

func fixed(msg string) view.MessageFunc {
	return func(error) string { return msg }
}

// Screens holds one resource registry per screen kind
type Screens struct {
	Featured   *view.Screens[[]render.Card]
	Random     *view.Screens[[]render.Card]
	Categories *view.Screens[[]render.Card]
	Category   *view.Screens[[]render.Card]
	Detail     *view.Screens[*mealdb.Meal]
	Search     *view.Screens[[]render.Card]
	Selected   *view.Screens[*mealdb.Meal]
	Community  *view.Screens[*render.CommunityRecipe]
}

// NewScreens creates empty registries
func NewScreens() *Screens {
	return &Screens{
		Featured:   view.NewScreens[[]render.Card](fixed(msgLoadFeatured)),
		Random:     view.NewScreens[[]render.Card](fixed(msgLoadMeals)),
		Categories: view.NewScreens[[]render.Card](fixed(msgLoadMeals)),
		Category:   view.NewScreens[[]render.Card](fixed(msgLoadMeals)),
		Detail:     view.NewScreens[*mealdb.Meal](fixed(msgLoadRecipe)),
		Search:     view.NewScreens[[]render.Card](fixed(msgSearch)),
		Selected:   view.NewScreens[*mealdb.Meal](fixed(msgMealDetails)),
		Community:  view.NewScreens[*render.CommunityRecipe](fixed(msgLoadRecipe)),
	}
}

// All returns every registry, for logout and sweeping
func (s *Screens) All() []view.Unmounter {
	return []view.Unmounter{
		s.Featured, s.Random, s.Categories, s.Category,
		s.Detail, s.Search, s.Selected, s.Community,
	}
}

// Sweep unmounts resources idle for longer than maxIdle
func (s *Screens) Sweep(maxIdle time.Duration) int {
	n := 0
	for _, u := range s.All() {
		n += u.Sweep(maxIdle)
	}
	return n
}

// load runs fetch on the visitor's resource for a screen showing key. A load
// superseded by a newer one for the same key renders its own outcome; if it
// was canceled before finishing it fetches again outside the registry.
func load[T any](c *gin.Context, screens *view.Screens[T], key string, fetch view.Fetcher[T]) view.State[T] {
	res := screens.Get(session.From(c).Visitor, key)
	st, current := res.Load(c.Request.Context(), fetch)
	if !current && !st.IsSuccess() {
		logging.Debug("superseded screen load", zap.String("path", c.Request.URL.Path))
		st, _ = screens.Detached().Load(c.Request.Context(), fetch)
	}
	if st.IsError() {
		logging.Warn("screen load failed", zap.String("path", c.Request.URL.Path), zap.String("message", st.Message))
	}
	return st
}

// notFoundAsEmpty turns a lookup miss into an empty success
func notFoundAsEmpty[T any](fetch view.Fetcher[*T]) view.Fetcher[*T] {
	return func(ctx context.Context) (*T, error) {
		v, err := fetch(ctx)
		if errors.Is(err, mealdb.ErrNotFound) || errors.Is(err, service.ErrRecipeNotFound) {
			return nil, nil
		}
		return v, err
	}
}
