package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/internal/service"
	"github.com/pageza/recipeshare/internal/testdb"
)

func TestRunIsIdempotent(t *testing.T) {
	db := testdb.SQLite(t)
	auth := service.NewAuthService(db, "test-secret")
	store := service.NewRecipeService(db)
	ctx := context.Background()

	res, err := Run(ctx, auth, store)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 2, Recipes: 2}, res)

	res, err = Run(ctx, auth, store)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	all, err := store.ListRecipes(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = auth.Login(ctx, "jane.smith@example.com", DemoPassword)
	assert.NoError(t, err)
}
