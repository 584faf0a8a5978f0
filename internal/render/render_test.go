package render

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/internal/mealdb"
	"github.com/pageza/recipeshare/internal/session"
	"github.com/pageza/recipeshare/internal/view"
)

func renderPage(t *testing.T, name string, page Page) *goquery.Document {
	t.Helper()
	pages, err := Load()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, pages.Instance(name, page).Render(w))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		state view.State[[]int]
		want  Mode
	}{
		{"idle", view.Idle[[]int](), ModeLoading},
		{"loading", view.Loading[[]int](), ModeLoading},
		{"error", view.Failure[[]int]("nope"), ModeError},
		{"empty", view.Success[[]int](nil), ModeEmpty},
		{"items", view.Success([]int{1}), ModeItems},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.state, EmptySlice[int]))
		})
	}
}

func TestCategoryRendersOneCardPerMeal(t *testing.T) {
	meals := []mealdb.Meal{{ID: "1", Name: "Chips"}, {ID: "2", Name: "Salad"}, {ID: "3", Name: "Soup"}}
	cards := MealCards(meals, func(m mealdb.Meal) string { return "/recipes/" + m.ID })

	doc := renderPage(t, "category", Page{Body: CategoryBody{
		Name:  "Side",
		Meals: NewBlock(view.Success(cards), EmptySlice[Card], Texts{Empty: "No meals found in this category."}),
	}})

	assert.Equal(t, 3, doc.Find(".recipe-card").Length())
	assert.Equal(t, 0, doc.Find(".empty-state").Length())
	assert.Equal(t, "/recipes/2", doc.Find(".recipe-card a").Eq(1).AttrOr("href", ""))
}

func TestCategoryEmptyState(t *testing.T) {
	doc := renderPage(t, "category", Page{Body: CategoryBody{
		Name:  "Nothing",
		Meals: NewBlock(view.Success[[]Card](nil), EmptySlice[Card], Texts{Empty: "No meals found in this category."}),
	}})

	assert.Equal(t, 0, doc.Find(".recipe-card").Length())
	assert.Equal(t, "No meals found in this category.", doc.Find(".empty-state").Text())
}

func TestErrorStateShowsNoCards(t *testing.T) {
	r := view.NewResource[[]Card](func(error) string { return "Failed to load meals. Please try again later." })
	r.Resolve(0, []Card{{ID: "1", Title: "stale"}}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	token, _ := r.Begin(ctx)
	st, _ := r.Resolve(token, nil, errors.New("down"))

	doc := renderPage(t, "category", Page{Body: CategoryBody{
		Name:  "Beef",
		Meals: NewBlock(st, EmptySlice[Card], Texts{}),
	}})

	assert.Equal(t, 0, doc.Find(".recipe-card").Length())
	assert.Equal(t, "Failed to load meals. Please try again later.", doc.Find(".error-message").Text())
}

func TestLoadingText(t *testing.T) {
	doc := renderPage(t, "recipes", Page{Body: CategoriesBody{
		Categories: NewBlock(view.Loading[[]Card](), EmptySlice[Card], Texts{}),
	}})
	assert.Equal(t, "Loading...", doc.Find(".loading").Text())
}

func TestDetailNotFound(t *testing.T) {
	doc := renderPage(t, "detail", Page{Body: DetailBody{
		Meal: NewBlock(view.Success[*mealdb.Meal](nil), NilPointer[mealdb.Meal], Texts{Empty: "Recipe not found"}),
	}})
	assert.Equal(t, "Recipe not found", doc.Find(".empty-state").Text())
	assert.Equal(t, 0, doc.Find(".meal-detail").Length())
}

func TestDetailIngredients(t *testing.T) {
	meal := &mealdb.Meal{
		ID:   "52771",
		Name: "Spicy Arrabiata Penne",
		Ingredients: []mealdb.Ingredient{
			{Name: "penne rigate", Measure: "1 pound"},
			{Name: "garlic", Measure: ""},
		},
		Instructions: "Boil.\n\nServe.",
	}
	doc := renderPage(t, "detail", Page{Body: DetailBody{
		Meal: NewBlock(view.Success(meal), NilPointer[mealdb.Meal], Texts{}),
	}})

	items := doc.Find(".ingredient")
	require.Equal(t, 2, items.Length())
	assert.Equal(t, "penne rigate - 1 pound", items.Eq(0).Text())
	assert.Equal(t, "garlic", items.Eq(1).Text())
	assert.Equal(t, 2, doc.Find(".instruction").Length())
}

func TestLayoutReflectsSession(t *testing.T) {
	anon := renderPage(t, "home", Page{Body: HomeBody{}})
	assert.Equal(t, 1, anon.Find(`a[href="/login"]`).Length())
	assert.Equal(t, 0, anon.Find(`form[action="/logout"]`).Length())

	user := renderPage(t, "home", Page{
		Session: session.Session{Authenticated: true, Username: "cook"},
		Theme:   "dark",
		Body:    HomeBody{},
	})
	assert.Equal(t, 1, user.Find(`form[action="/logout"]`).Length())
	assert.Equal(t, "cook", user.Find(".whoami").Text())
	assert.True(t, user.Find("html").HasClass("dark"))
}

func TestSubmitFieldErrors(t *testing.T) {
	doc := renderPage(t, "submit", Page{Body: SubmitBody{
		Title:    "Soup",
		Errors:   map[string]string{"ingredients": "Ingredients are required"},
		InFlight: true,
	}})
	assert.Equal(t, 1, doc.Find(".field-error").Length())
	assert.Equal(t, "ingredients", doc.Find(".field-error").AttrOr("data-field", ""))
	_, disabled := doc.Find(".submit-form button").Attr("disabled")
	assert.True(t, disabled)
}

func TestUnknownPageFallsBackToError(t *testing.T) {
	doc := renderPage(t, "nope", Page{})
	assert.Contains(t, doc.Find(".error-message").Text(), "unknown page")
}
