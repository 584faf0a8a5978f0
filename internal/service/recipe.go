package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/models"
)

// ErrRecipeNotFound is returned when a community recipe does not exist
var ErrRecipeNotFound = errors.New("recipe not found")

// PresignedImageTTL is how long a signed image URL stays valid
const PresignedImageTTL = time.Hour

// RecipeService handles community recipe operations
type RecipeService struct {
	db     *gorm.DB
	signer ImageURLSigner
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// WithImageSigner makes reads replace each stored image URL with a presigned
// one, for buckets that are not publicly readable.
func (s *RecipeService) WithImageSigner(signer ImageURLSigner) *RecipeService {
	s.signer = signer
	return s
}

// CreateRecipe stores a recipe, computing its embedding
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	recipe.Embedding = RecipeEmbedding(recipe)
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID with its author
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Preload("User").First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	s.signImages(ctx, &recipe)
	return &recipe, nil
}

// ListRecipes lists recipes for a user or all users if userID is nil, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, userID *uuid.UUID) ([]*models.Recipe, error) {
	query := s.db.WithContext(ctx).Preload("User").Order("created_at DESC")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	return s.find(ctx, query)
}

// FeaturedRecipes returns the most recent recipes
func (s *RecipeService) FeaturedRecipes(ctx context.Context, limit int) ([]*models.Recipe, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.find(ctx, s.db.WithContext(ctx).Preload("User").Order("created_at DESC").Limit(limit))
}

// SearchRecipes matches title and ingredients. On PostgreSQL the matches are
// ordered by embedding distance to the query.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string) ([]*models.Recipe, error) {
	dbQuery := s.db.WithContext(ctx).Preload("User")
	query = strings.TrimSpace(query)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			subQuery := s.db.Model(&models.Recipe{}).
				Select("id, embedding <-> ? as similarity", vec).
				Where("LOWER(title) LIKE ? OR LOWER(ingredients) LIKE ?", like, like)

			dbQuery = dbQuery.Joins("JOIN (?) as search ON recipes.id = search.id", subQuery).
				Order("search.similarity ASC")
		} else {
			// Fallback to keyword search for non-PostgreSQL databases
			dbQuery = dbQuery.Where("LOWER(title) LIKE ? OR LOWER(ingredients) LIKE ?", like, like).
				Order("created_at DESC")
		}
	} else {
		dbQuery = dbQuery.Order("created_at DESC")
	}

	return s.find(ctx, dbQuery)
}

func (s *RecipeService) find(ctx context.Context, query *gorm.DB) ([]*models.Recipe, error) {
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	s.signImages(ctx, result...)
	return result, nil
}

// signImages presigns image URLs when a signer is set. A recipe whose URL
// cannot be signed keeps the stored one.
func (s *RecipeService) signImages(ctx context.Context, recipes ...*models.Recipe) {
	if s.signer == nil {
		return
	}
	for _, r := range recipes {
		if r.ImageKey == "" {
			continue
		}
		url, err := s.signer.GeneratePresignedURL(ctx, r.ImageKey, PresignedImageTTL)
		if err != nil {
			logging.Warn("failed to presign image URL", zap.String("key", r.ImageKey), zap.Error(err))
			continue
		}
		r.ImageURL = url
	}
}
