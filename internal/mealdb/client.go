// Package mealdb is a read-only client for TheMealDB JSON API.
package mealdb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pageza/recipeshare/internal/remote"
)

// DefaultBaseURL is the public v1 endpoint with the test API key
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

// ErrNotFound is returned by Lookup when TheMealDB answers {"meals": null}
var ErrNotFound = errors.New("meal not found")

// Service is what the screens need from TheMealDB
type Service interface {
	Categories(ctx context.Context) ([]Category, error)
	Areas(ctx context.Context) ([]string, error)
	Ingredients(ctx context.Context) ([]string, error)
	FilterByCategory(ctx context.Context, category string) ([]Meal, error)
	FilterByArea(ctx context.Context, area string) ([]Meal, error)
	Search(ctx context.Context, name string) ([]Meal, error)
	Lookup(ctx context.Context, id string) (*Meal, error)
	Random(ctx context.Context) (*Meal, error)
}

// Client implements Service over a remote.Client
type Client struct {
	baseURL string
	remote  *remote.Client
}

// NewClient creates a Client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, rc *remote.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rc == nil {
		rc = remote.NewClient(nil)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		remote:  rc,
	}
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.baseURL + "/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) meals(ctx context.Context, path string, params url.Values) ([]Meal, error) {
	env, err := remote.GetJSON[mealsEnvelope](ctx, c.remote, c.endpoint(path, params))
	if err != nil {
		return nil, err
	}
	// {"meals": null} decodes to a nil slice
	return env.Meals, nil
}

// Categories lists every meal category
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	env, err := remote.GetJSON[categoriesEnvelope](ctx, c.remote, c.endpoint("categories.php", nil))
	if err != nil {
		return nil, err
	}
	return env.Categories, nil
}

// Areas lists every cuisine area
func (c *Client) Areas(ctx context.Context) ([]string, error) {
	env, err := remote.GetJSON[listEnvelope](ctx, c.remote, c.endpoint("list.php", url.Values{"a": {"list"}}))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(env.Meals))
	for _, e := range env.Meals {
		if e.Area != "" {
			out = append(out, e.Area)
		}
	}
	return out, nil
}

// Ingredients lists every known ingredient name
func (c *Client) Ingredients(ctx context.Context) ([]string, error) {
	env, err := remote.GetJSON[listEnvelope](ctx, c.remote, c.endpoint("list.php", url.Values{"i": {"list"}}))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(env.Meals))
	for _, e := range env.Meals {
		if e.Ingredient != "" {
			out = append(out, e.Ingredient)
		}
	}
	return out, nil
}

// FilterByCategory returns the meals of a category (summary fields only)
func (c *Client) FilterByCategory(ctx context.Context, category string) ([]Meal, error) {
	return c.meals(ctx, "filter.php", url.Values{"c": {category}})
}

// FilterByArea returns the meals of an area (summary fields only)
func (c *Client) FilterByArea(ctx context.Context, area string) ([]Meal, error) {
	return c.meals(ctx, "filter.php", url.Values{"a": {area}})
}

// Search finds meals whose name contains name
func (c *Client) Search(ctx context.Context, name string) ([]Meal, error) {
	return c.meals(ctx, "search.php", url.Values{"s": {name}})
}

// Lookup fetches the full record of one meal
func (c *Client) Lookup(ctx context.Context, id string) (*Meal, error) {
	meals, err := c.meals(ctx, "lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, fmt.Errorf("lookup %q: %w", id, ErrNotFound)
	}
	return &meals[0], nil
}

// Random fetches one random meal
func (c *Client) Random(ctx context.Context) (*Meal, error) {
	meals, err := c.meals(ctx, "random.php", nil)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrNotFound
	}
	return &meals[0], nil
}
