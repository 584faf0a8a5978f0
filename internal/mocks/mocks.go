// Package mocks holds testify mocks for the service and meal API interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipeshare/internal/mealdb"
	"github.com/pageza/recipeshare/internal/service"
)

// MockImageStore is a mock implementation of service.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, img service.ImageUpload) (*service.StoredImage, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoredImage), args.Error(1)
}

// MockMealService is a mock implementation of mealdb.Service
type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) Categories(ctx context.Context) ([]mealdb.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]mealdb.Category), args.Error(1)
}

func (m *MockMealService) Areas(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMealService) Ingredients(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMealService) FilterByCategory(ctx context.Context, category string) ([]mealdb.Meal, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]mealdb.Meal), args.Error(1)
}

func (m *MockMealService) FilterByArea(ctx context.Context, area string) ([]mealdb.Meal, error) {
	args := m.Called(ctx, area)
	return args.Get(0).([]mealdb.Meal), args.Error(1)
}

func (m *MockMealService) Search(ctx context.Context, name string) ([]mealdb.Meal, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]mealdb.Meal), args.Error(1)
}

func (m *MockMealService) Lookup(ctx context.Context, id string) (*mealdb.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealdb.Meal), args.Error(1)
}

func (m *MockMealService) Random(ctx context.Context) (*mealdb.Meal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealdb.Meal), args.Error(1)
}
