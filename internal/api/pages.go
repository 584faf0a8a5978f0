package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipeshare/internal/mealdb"
	"github.com/pageza/recipeshare/internal/models"
	"github.com/pageza/recipeshare/internal/render"
	"github.com/pageza/recipeshare/internal/service"
	"github.com/pageza/recipeshare/internal/view"
)

// FeaturedCount is the number of community recipes on the home page
const FeaturedCount = 6

// PageHandler serves the browsing screens
type PageHandler struct {
	meals   mealdb.Service
	recipes service.IRecipeService
	screens *Screens
}

func NewPageHandler(meals mealdb.Service, recipes service.IRecipeService, screens *Screens) *PageHandler {
	return &PageHandler{meals: meals, recipes: recipes, screens: screens}
}

func (h *PageHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/recipes", h.Categories)
	r.GET("/recipes/:id", h.Detail)
	r.GET("/category/:name", h.Category)
	r.GET("/search", h.Search)
	r.GET("/community/:id", h.Community)
}

func detailLink(m mealdb.Meal) string { return "/recipes/" + url.PathEscape(m.ID) }

// statusFor maps a state to the HTTP status of its page
func statusFor[T any](st view.State[T]) int {
	if st.IsError() {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

// RecipeCards turns community recipes into cards
func RecipeCards(recipes []*models.Recipe) []render.Card {
	cards := make([]render.Card, 0, len(recipes))
	for _, r := range recipes {
		sub := ""
		if r.User != nil {
			sub = "By " + r.User.Username
		}
		cards = append(cards, render.Card{
			ID:       r.ID.String(),
			Title:    r.Title,
			Subtitle: sub,
			Image:    r.ImageURL,
			Link:     "/community/" + r.ID.String(),
		})
	}
	return cards
}

// CommunityView prepares a recipe for display
func CommunityView(r *models.Recipe) *render.CommunityRecipe {
	v := &render.CommunityRecipe{
		ID:           r.ID.String(),
		Title:        r.Title,
		Ingredients:  r.IngredientLines(),
		Instructions: r.InstructionLines(),
		ImageURL:     r.ImageURL,
		Submitted:    r.CreatedAt.Format("January 2, 2006"),
	}
	if r.User != nil {
		v.Author = r.User.Username
	}
	return v
}

func (h *PageHandler) Home(c *gin.Context) {
	featured := load(c, h.screens.Featured, "", func(ctx context.Context) ([]render.Card, error) {
		recipes, err := h.recipes.FeaturedRecipes(ctx, FeaturedCount)
		if err != nil {
			return nil, err
		}
		return RecipeCards(recipes), nil
	})
	random := load(c, h.screens.Random, "", func(ctx context.Context) ([]render.Card, error) {
		meal, err := h.meals.Random(ctx)
		if err != nil || meal == nil {
			return nil, err
		}
		return render.MealCards([]mealdb.Meal{*meal}, detailLink), nil
	})

	renderPage(c, http.StatusOK, "home", "Recipe Share", render.HomeBody{
		Featured: render.NewBlock(featured, render.EmptySlice[render.Card],
			render.Texts{Loading: "Loading featured recipes...", Empty: msgNoFeatured}),
		Random: render.NewBlock(random, render.EmptySlice[render.Card], render.Texts{Empty: msgNoRandom}),
	})
}

func (h *PageHandler) Categories(c *gin.Context) {
	st := load(c, h.screens.Categories, "", func(ctx context.Context) ([]render.Card, error) {
		categories, err := h.meals.Categories(ctx)
		if err != nil {
			return nil, err
		}
		return render.CategoryCards(categories), nil
	})

	renderPage(c, statusFor(st), "recipes", "Recipe Categories", render.CategoriesBody{
		Categories: render.NewBlock(st, render.EmptySlice[render.Card], render.Texts{Empty: "No categories found."}),
	})
}

func (h *PageHandler) Category(c *gin.Context) {
	name := c.Param("name")
	st := load(c, h.screens.Category, name, func(ctx context.Context) ([]render.Card, error) {
		meals, err := h.meals.FilterByCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		return render.MealCards(meals, detailLink), nil
	})

	renderPage(c, statusFor(st), "category", name+" Meals", render.CategoryBody{
		Name:  name,
		Meals: render.NewBlock(st, render.EmptySlice[render.Card], render.Texts{Empty: msgNoCategoryMeal}),
	})
}

func (h *PageHandler) Detail(c *gin.Context) {
	id := c.Param("id")
	st := load(c, h.screens.Detail, id, notFoundAsEmpty(func(ctx context.Context) (*mealdb.Meal, error) {
		return h.meals.Lookup(ctx, id)
	}))

	status := statusFor(st)
	title := "Recipe"
	if st.IsSuccess() {
		if st.Data == nil {
			status = http.StatusNotFound
		} else {
			title = st.Data.Name
		}
	}
	renderPage(c, status, "detail", title, render.DetailBody{
		Meal: render.NewBlock(st, render.NilPointer[mealdb.Meal], render.Texts{Empty: msgNotFound}),
	})
}

func (h *PageHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	selected := strings.TrimSpace(c.Query("selected"))
	body := render.SearchBody{Query: query}

	if query != "" {
		body.Searched = true
		st := load(c, h.screens.Search, query, func(ctx context.Context) ([]render.Card, error) {
			meals, err := h.meals.Search(ctx, query)
			if err != nil {
				return nil, err
			}
			return render.MealCards(meals, func(m mealdb.Meal) string {
				return "/search?" + url.Values{"q": {query}, "selected": {m.ID}}.Encode()
			}), nil
		})
		body.Results = render.NewBlock(st, render.EmptySlice[render.Card], render.Texts{Empty: msgNoResults})
	}

	if selected != "" {
		st := load(c, h.screens.Selected, selected, notFoundAsEmpty(func(ctx context.Context) (*mealdb.Meal, error) {
			return h.meals.Lookup(ctx, selected)
		}))
		block := render.NewBlock(st, render.NilPointer[mealdb.Meal], render.Texts{Empty: msgNotFound})
		body.Selected = &block
	}

	renderPage(c, http.StatusOK, "search", "Search Recipes", body)
}

func (h *PageHandler) Community(c *gin.Context) {
	id, parseErr := uuid.Parse(c.Param("id"))
	st := load(c, h.screens.Community, c.Param("id"), notFoundAsEmpty(func(ctx context.Context) (*render.CommunityRecipe, error) {
		if parseErr != nil {
			return nil, service.ErrRecipeNotFound
		}
		recipe, err := h.recipes.GetRecipe(ctx, id)
		if err != nil {
			return nil, err
		}
		return CommunityView(recipe), nil
	}))

	status := http.StatusOK
	title := "Recipe"
	switch {
	case st.IsError():
		status = http.StatusInternalServerError
	case st.IsSuccess() && st.Data == nil:
		status = http.StatusNotFound
	case st.IsSuccess():
		title = st.Data.Title
	}
	renderPage(c, status, "community", title, render.CommunityBody{
		Recipe: render.NewBlock(st, render.NilPointer[render.CommunityRecipe], render.Texts{Empty: msgNotFound}),
	})
}
