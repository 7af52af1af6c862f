// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application needs from infrastructure
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
)

// ErrCacheMiss is returned by CacheRepository.Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// RecipeRepository defines the interface for recipe persistence.
// Errors other than recipe.ErrRecipeNotFound are storage faults and are
// returned as produced by the store.
type RecipeRepository interface {
	// Create stores r together with its ingredient links and assigns its ID.
	// Every ingredient of r must already be persisted.
	Create(ctx context.Context, r *recipe.Recipe) error
	// Update fully replaces the stored recipe with the same ID.
	Update(ctx context.Context, r *recipe.Recipe) error
	// Delete removes the recipe and its ingredient links, never the ingredients.
	Delete(ctx context.Context, id recipe.ID) error

	FindByID(ctx context.Context, id recipe.ID) (*recipe.Recipe, error)
	FindAll(ctx context.Context) ([]*recipe.Recipe, error)
	// Search returns every recipe matching all present criteria, once each.
	Search(ctx context.Context, criteria recipe.SearchCriteria) ([]*recipe.Recipe, error)
}

// IngredientRepository defines the interface for ingredient persistence
type IngredientRepository interface {
	// FindByName looks up an ingredient by exact name. It returns nil, nil when absent.
	FindByName(ctx context.Context, name string) (*recipe.Ingredient, error)
	// Create inserts the ingredient unless one with the same name exists and
	// sets ing.ID to the stored row either way.
	Create(ctx context.Context, ing *recipe.Ingredient) error
	FindAll(ctx context.Context) ([]recipe.Ingredient, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
