// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

var (
	_ outbound.RecipeRepository     = (*MockRecipeRepository)(nil)
	_ outbound.IngredientRepository = (*MockIngredientRepository)(nil)
	_ outbound.CacheRepository      = (*MockCacheRepository)(nil)
	_ inbound.RecipeService         = (*MockRecipeService)(nil)
)

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

// Create stores a recipe. A configured id is assigned on success.
func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// Update replaces a recipe
func (m *MockRecipeRepository) Update(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// Delete deletes a recipe
func (m *MockRecipeRepository) Delete(ctx context.Context, id recipe.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// FindByID finds a recipe by ID
func (m *MockRecipeRepository) FindByID(ctx context.Context, id recipe.ID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*recipe.Recipe)
	return r, args.Error(1)
}

// FindAll returns all recipes
func (m *MockRecipeRepository) FindAll(ctx context.Context) ([]*recipe.Recipe, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).([]*recipe.Recipe)
	return rs, args.Error(1)
}

// Search searches for recipes
func (m *MockRecipeRepository) Search(ctx context.Context, criteria recipe.SearchCriteria) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, criteria)
	rs, _ := args.Get(0).([]*recipe.Recipe)
	return rs, args.Error(1)
}

// MockIngredientRepository provides a mock implementation of IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

// FindByName finds an ingredient by exact name
func (m *MockIngredientRepository) FindByName(ctx context.Context, name string) (*recipe.Ingredient, error) {
	args := m.Called(ctx, name)
	ing, _ := args.Get(0).(*recipe.Ingredient)
	return ing, args.Error(1)
}

// Create stores an ingredient
func (m *MockIngredientRepository) Create(ctx context.Context, ing *recipe.Ingredient) error {
	args := m.Called(ctx, ing)
	return args.Error(0)
}

// FindAll returns all ingredients
func (m *MockIngredientRepository) FindAll(ctx context.Context) ([]recipe.Ingredient, error) {
	args := m.Called(ctx)
	ings, _ := args.Get(0).([]recipe.Ingredient)
	return ings, args.Error(1)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

// Get reads a cache entry
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// Set writes a cache entry
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete removes a cache entry
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockRecipeService provides a mock implementation of the inbound RecipeService
type MockRecipeService struct {
	mock.Mock
}

// CreateRecipe creates a recipe
func (m *MockRecipeService) CreateRecipe(ctx context.Context, cmd inbound.RecipeCommand) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, cmd)
	dto, _ := args.Get(0).(*inbound.RecipeDTO)
	return dto, args.Error(1)
}

// UpdateRecipe replaces a recipe
func (m *MockRecipeService) UpdateRecipe(ctx context.Context, recipeID uint64, cmd inbound.RecipeCommand) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, recipeID, cmd)
	dto, _ := args.Get(0).(*inbound.RecipeDTO)
	return dto, args.Error(1)
}

// DeleteRecipe deletes a recipe
func (m *MockRecipeService) DeleteRecipe(ctx context.Context, recipeID uint64) error {
	args := m.Called(ctx, recipeID)
	return args.Error(0)
}

// GetRecipeByID gets a recipe
func (m *MockRecipeService) GetRecipeByID(ctx context.Context, recipeID uint64) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, recipeID)
	dto, _ := args.Get(0).(*inbound.RecipeDTO)
	return dto, args.Error(1)
}

// GetAllRecipes lists recipes
func (m *MockRecipeService) GetAllRecipes(ctx context.Context) ([]inbound.RecipeDTO, error) {
	args := m.Called(ctx)
	dtos, _ := args.Get(0).([]inbound.RecipeDTO)
	return dtos, args.Error(1)
}

// SearchRecipes searches recipes
func (m *MockRecipeService) SearchRecipes(ctx context.Context, query inbound.SearchQuery) ([]inbound.RecipeDTO, error) {
	args := m.Called(ctx, query)
	dtos, _ := args.Get(0).([]inbound.RecipeDTO)
	return dtos, args.Error(1)
}

// ListIngredients lists ingredients
func (m *MockRecipeService) ListIngredients(ctx context.Context) ([]inbound.IngredientDTO, error) {
	args := m.Called(ctx)
	dtos, _ := args.Get(0).([]inbound.IngredientDTO)
	return dtos, args.Error(1)
}
