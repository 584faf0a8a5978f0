package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipeshare/internal/models"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	args := m.Called(ctx, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, userID *uuid.UUID) ([]*models.Recipe, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) FeaturedRecipes(ctx context.Context, limit int) ([]*models.Recipe, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) SearchRecipes(ctx context.Context, query string) ([]*models.Recipe, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]*models.Recipe), args.Error(1)
}
