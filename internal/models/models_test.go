package models

import (
	"testing"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Recipe{}))
	return db
}

func TestCreateUserAssignsID(t *testing.T) {
	db := setupTestDB(t)
	user := &User{Username: "testuser", Email: "test@example.com"}
	require.NoError(t, db.Create(user).Error)
	assert.NotEmpty(t, user.ID.String())

	dup := &User{Username: "testuser", Email: "other@example.com"}
	assert.Error(t, db.Create(dup).Error)
}

func TestRecipeRoundTripsEmbedding(t *testing.T) {
	db := setupTestDB(t)
	user := &User{Username: "cook", Email: "cook@example.com"}
	require.NoError(t, db.Create(user).Error)

	recipe := &Recipe{
		Title:        "Soup",
		Ingredients:  "water\n\n salt ",
		Instructions: "Boil",
		Embedding:    pgvector.NewVector([]float32{4, 2, 2}),
		UserID:       user.ID,
	}
	require.NoError(t, db.Create(recipe).Error)

	var got Recipe
	require.NoError(t, db.Preload("User").First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, []float32{4, 2, 2}, got.Embedding.Slice())
	assert.Equal(t, "cook", got.User.Username)
	assert.Equal(t, []string{"water", "salt"}, got.IngredientLines())
}
