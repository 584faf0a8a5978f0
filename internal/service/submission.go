package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/forms"
	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/models"
)

// RecipeSubmitter is the write path of the submission form: upload the image,
// then insert the recipe. A failed insert leaves the uploaded object in place.
type RecipeSubmitter struct {
	recipes IRecipeService
	images  ImageStore
}

// NewRecipeSubmitter creates a RecipeSubmitter
func NewRecipeSubmitter(recipes IRecipeService, images ImageStore) *RecipeSubmitter {
	return &RecipeSubmitter{recipes: recipes, images: images}
}

// Write returns a forms.WriteFunc storing a recipe owned by userID. The created
// recipe is passed to done.
func (s *RecipeSubmitter) Write(userID uuid.UUID, done func(*models.Recipe)) forms.WriteFunc {
	return func(ctx context.Context, d forms.Draft) error {
		stored, err := s.images.Upload(ctx, ImageUpload{
			Filename:    d.Image.Filename,
			ContentType: d.Image.ContentType,
			Size:        d.Image.Size,
			Body:        d.Image.Body,
		})
		if err != nil {
			return fmt.Errorf("image upload: %w", err)
		}

		recipe, err := s.recipes.CreateRecipe(ctx, &models.Recipe{
			Title:        d.Title,
			Ingredients:  d.Ingredients,
			Instructions: d.Instructions,
			ImageURL:     stored.URL,
			ImageKey:     stored.Key,
			UserID:       userID,
		})
		if err != nil {
			logging.Warn("recipe insert failed after image upload; image left in storage",
				zap.String("image_key", stored.Key), zap.Error(err))
			return err
		}

		if done != nil {
			done(recipe)
		}
		return nil
	}
}
