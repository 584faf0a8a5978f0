package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/pageza/recipeshare/internal/models"
	"github.com/pageza/recipeshare/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, email, username, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for community recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, userID *uuid.UUID) ([]*models.Recipe, error)
	FeaturedRecipes(ctx context.Context, limit int) ([]*models.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]*models.Recipe, error)
}

// ImageUpload is the payload handed to an ImageStore
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredImage identifies an uploaded image
type StoredImage struct {
	Key string
	URL string
}

// ImageStore uploads images and returns a retrievable URL
type ImageStore interface {
	Upload(ctx context.Context, img ImageUpload) (*StoredImage, error)
}
