// Package seed fills a development database with demo accounts and community
// recipes. Running it twice is harmless.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/models"
	"github.com/pageza/recipeshare/internal/service"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "testpassword123"

type demoUser struct {
	email    string
	username string
}

type demoRecipe struct {
	owner        string
	title        string
	ingredients  string
	instructions string
	image        string
}

var users = []demoUser{
	{"john.doe@example.com", "johndoe"},
	{"jane.smith@example.com", "janesmith"},
}

var recipes = []demoRecipe{
	{
		owner:        "johndoe",
		title:        "Weeknight Chickpea Curry",
		ingredients:  "1 onion\n2 cloves garlic\n1 can chickpeas\n1 can coconut milk\n2 tbsp curry paste",
		instructions: "Soften the onion and garlic.\nStir in the curry paste.\nAdd chickpeas and coconut milk and simmer for 15 minutes.",
		image:        "https://www.themealdb.com/images/media/meals/wuxrtu1483564410.jpg",
	},
	{
		owner:        "janesmith",
		title:        "Lemon Ricotta Pancakes",
		ingredients:  "200g ricotta\n2 eggs\n100g flour\n1 lemon\n1 tbsp sugar",
		instructions: "Whisk ricotta, eggs and lemon zest.\nFold in flour and sugar.\nCook spoonfuls in a buttered pan.",
		image:        "https://www.themealdb.com/images/media/meals/rwuyqx1511383174.jpg",
	},
}

// Result counts what a run created
type Result struct {
	Users   int
	Recipes int
}

// Run creates the demo data that does not exist yet
func Run(ctx context.Context, auth *service.AuthService, store service.IRecipeService) (Result, error) {
	var res Result
	owners := make(map[string]*models.User, len(users))

	for _, u := range users {
		user, err := auth.Register(ctx, u.email, u.username, DemoPassword)
		switch {
		case err == nil:
			res.Users++
		case errors.Is(err, service.ErrUserExists):
			user, err = auth.Login(ctx, u.email, DemoPassword)
			if err != nil {
				return res, fmt.Errorf("existing demo user %s: %w", u.username, err)
			}
		default:
			return res, fmt.Errorf("create demo user %s: %w", u.username, err)
		}
		owners[u.username] = user
	}

	for _, r := range recipes {
		owner := owners[r.owner]
		existing, err := store.ListRecipes(ctx, &owner.ID)
		if err != nil {
			return res, err
		}
		if hasTitle(existing, r.title) {
			continue
		}
		if _, err := store.CreateRecipe(ctx, &models.Recipe{
			Title:        r.title,
			Ingredients:  r.ingredients,
			Instructions: r.instructions,
			ImageURL:     r.image,
			UserID:       owner.ID,
		}); err != nil {
			return res, fmt.Errorf("create demo recipe %q: %w", r.title, err)
		}
		res.Recipes++
	}

	logging.Info("seed complete", zap.Int("users", res.Users), zap.Int("recipes", res.Recipes))
	return res, nil
}

func hasTitle(recipes []*models.Recipe, title string) bool {
	for _, r := range recipes {
		if r.Title == title {
			return true
		}
	}
	return false
}
