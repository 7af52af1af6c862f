// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"
)

// RecipeService defines the use cases for recipe management.
// HTTP handlers and the operator CLI drive the application through it.
type RecipeService interface {
	// Commands - operations that modify state
	CreateRecipe(ctx context.Context, cmd RecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, recipeID uint64, cmd RecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, recipeID uint64) error

	// Queries - operations that read state
	GetRecipeByID(ctx context.Context, recipeID uint64) (*RecipeDTO, error)
	GetAllRecipes(ctx context.Context) ([]RecipeDTO, error)
	SearchRecipes(ctx context.Context, query SearchQuery) ([]RecipeDTO, error)
	ListIngredients(ctx context.Context) ([]IngredientDTO, error)
}

// RecipeCommand contains the full set of recipe attributes for create and
// for full-replacement update
type RecipeCommand struct {
	Name            string
	Type            string
	ServingCapacity int
	Instructions    string
	IsVegetarian    bool
	Ingredients     []string
}

// SearchQuery holds the optional search criteria. Nil pointers, empty
// slices and empty strings leave the corresponding criterion out.
type SearchQuery struct {
	IsVegetarian       *bool
	ServingCapacity    *int
	IncludeIngredients []string
	ExcludeIngredients []string
	Instructions       string
	IngredientName     string
}

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	ID              uint64          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	Type            string          `json:"type" yaml:"type"`
	ServingCapacity int             `json:"servingCapacity" yaml:"servingCapacity"`
	Instructions    string          `json:"instructions" yaml:"instructions"`
	IsVegetarian    bool            `json:"isVegetarian" yaml:"isVegetarian"`
	Ingredients     []IngredientDTO `json:"ingredientList" yaml:"ingredientList"`
	CreatedAt       time.Time       `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" yaml:"updatedAt"`
}

// IngredientDTO is the data transfer object for ingredients
type IngredientDTO struct {
	ID   uint64 `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
