package mealdb

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MaxIngredients is the number of positional ingredient/measure pairs TheMealDB sends
const MaxIngredients = 20

// Ingredient is one line of a meal's ingredient list
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// Meal is a recipe as returned by TheMealDB, with the positional
// strIngredientN/strMeasureN fields folded into Ingredients.
type Meal struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Thumbnail    string       `json:"thumbnail"`
	Category     string       `json:"category,omitempty"`
	Area         string       `json:"area,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	YouTube      string       `json:"youtube,omitempty"`
	Source       string       `json:"source,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
}

// UnmarshalJSON decodes the external meal shape
func (m *Meal) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	field := func(name string) string {
		if v, ok := raw[name]; ok && v != nil {
			return strings.TrimSpace(*v)
		}
		return ""
	}

	*m = Meal{
		ID:           field("idMeal"),
		Name:         field("strMeal"),
		Thumbnail:    field("strMealThumb"),
		Category:     field("strCategory"),
		Area:         field("strArea"),
		Instructions: field("strInstructions"),
		YouTube:      field("strYoutube"),
		Source:       field("strSource"),
	}
	if tags := field("strTags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				m.Tags = append(m.Tags, t)
			}
		}
	}
	m.Ingredients = ingredientsFrom(field)
	return nil
}

// ingredientsFrom walks the 20 positional pairs, keeping order and
// dropping pairs with an empty ingredient.
func ingredientsFrom(field func(string) string) []Ingredient {
	var out []Ingredient
	for i := 1; i <= MaxIngredients; i++ {
		n := strconv.Itoa(i)
		name := field("strIngredient" + n)
		if name == "" {
			continue
		}
		out = append(out, Ingredient{Name: name, Measure: field("strMeasure" + n)})
	}
	return out
}

// Category is an entry of categories.php
type Category struct {
	ID          string `json:"idCategory"`
	Name        string `json:"strCategory"`
	Thumbnail   string `json:"strCategoryThumb"`
	Description string `json:"strCategoryDescription"`
}

type mealsEnvelope struct {
	Meals []Meal `json:"meals"`
}

type categoriesEnvelope struct {
	Categories []Category `json:"categories"`
}

type listEntry struct {
	Area       string `json:"strArea"`
	Ingredient string `json:"strIngredient"`
}

type listEnvelope struct {
	Meals []listEntry `json:"meals"`
}
