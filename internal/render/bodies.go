package render

import (
	"github.com/pageza/recipeshare/internal/mealdb"
)

// Card is one entry of a recipe grid
type Card struct {
	ID       string
	Title    string
	Subtitle string
	Image    string
	Link     string
}

// MealCards turns meals into cards linking to link(meal)
func MealCards(meals []mealdb.Meal, link func(mealdb.Meal) string) []Card {
	cards := make([]Card, 0, len(meals))
	for _, m := range meals {
		sub := ""
		if m.Category != "" {
			sub = "Category: " + m.Category
		}
		cards = append(cards, Card{
			ID:       m.ID,
			Title:    m.Name,
			Subtitle: sub,
			Image:    m.Thumbnail,
			Link:     link(m),
		})
	}
	return cards
}

// CategoryCards turns categories into cards linking to their meal list
func CategoryCards(categories []mealdb.Category) []Card {
	cards := make([]Card, 0, len(categories))
	for _, c := range categories {
		cards = append(cards, Card{
			ID:    c.ID,
			Title: c.Name,
			Image: c.Thumbnail,
			Link:  "/category/" + c.Name,
		})
	}
	return cards
}

// HomeBody is the landing page
type HomeBody struct {
	Featured Block
	Random   Block
}

// CategoriesBody is the category grid
type CategoriesBody struct {
	Categories Block
}

// CategoryBody lists the meals of one category
type CategoryBody struct {
	Name  string
	Meals Block
}

// DetailBody shows one TheMealDB meal; Block.Data is *mealdb.Meal
type DetailBody struct {
	Meal Block
}

// SearchBody is the search form, its results and the selected meal
type SearchBody struct {
	Query    string
	Searched bool
	Results  Block
	Selected *Block
}

// CommunityRecipe is a submitted recipe prepared for display
type CommunityRecipe struct {
	ID           string
	Title        string
	Ingredients  []string
	Instructions []string
	ImageURL     string
	Author       string
	Submitted    string
}

// CommunityBody shows one submitted recipe; Block.Data is *CommunityRecipe
type CommunityBody struct {
	Recipe Block
}

// SubmitBody is the recipe submission form
type SubmitBody struct {
	Title        string
	Ingredients  string
	Instructions string
	Errors       map[string]string
	InFlight     bool
}

// AuthBody backs the login and signup forms
type AuthBody struct {
	Email         string
	Username      string
	Error         string
	GoogleEnabled bool
}
