package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create stores a new recipe and links its ingredients in one transaction
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)
	model.ID = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		return linkIngredients(tx, model.ID, model.Ingredients)
	})
	if err != nil {
		return err
	}

	return rec.AssignID(recipe.ID(model.ID))
}

// Update replaces every column and the ingredient links of an existing recipe
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)
	if model.ID == 0 {
		return recipe.ErrRecipeNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// map form so false and zero values are written too
		result := tx.Model(&RecipeModel{}).Where("id = ?", model.ID).Updates(map[string]interface{}{
			"name":             model.Name,
			"type":             model.Type,
			"serving_capacity": model.ServingCapacity,
			"instructions":     model.Instructions,
			"is_vegetarian":    model.IsVegetarian,
			"updated_at":       model.UpdatedAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return recipe.ErrRecipeNotFound
		}

		if err := unlinkIngredients(tx, model.ID); err != nil {
			return err
		}
		return linkIngredients(tx, model.ID, model.Ingredients)
	})
}

// Delete removes the recipe and its join rows. Ingredients are kept.
func (r *RecipeRepository) Delete(ctx context.Context, id recipe.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := unlinkIngredients(tx, uint(id)); err != nil {
			return err
		}

		result := tx.Delete(&RecipeModel{}, uint(id))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return recipe.ErrRecipeNotFound
		}
		return nil
	})
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id recipe.ID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).
		Preload("Ingredients", orderIngredients).
		First(&model, uint(id))

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// FindAll returns every recipe with its ingredients, ordered by ID
func (r *RecipeRepository) FindAll(ctx context.Context) ([]*recipe.Recipe, error) {
	var models []RecipeModel

	result := r.db.WithContext(ctx).
		Preload("Ingredients", orderIngredients).
		Order(recipesTable + ".id").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return ModelsToRecipes(models), nil
}

// Search runs the filter built from criteria against the recipes table
func (r *RecipeRepository) Search(ctx context.Context, criteria recipe.SearchCriteria) ([]*recipe.Recipe, error) {
	var models []RecipeModel

	filter := BuildFilter(criteria)

	result := r.db.WithContext(ctx).
		Model(&RecipeModel{}).
		Scopes(filter.Scope).
		Preload("Ingredients", orderIngredients).
		Order(recipesTable + ".id").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return ModelsToRecipes(models), nil
}

func orderIngredients(db *gorm.DB) *gorm.DB {
	return db.Order(ingredientsTable + ".id")
}

func linkIngredients(tx *gorm.DB, recipeID uint, ingredients []IngredientModel) error {
	if len(ingredients) == 0 {
		return nil
	}

	links := make([]RecipeIngredientModel, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing.ID == 0 {
			return fmt.Errorf("ingredient %q has not been stored", ing.Name)
		}
		links = append(links, RecipeIngredientModel{RecipeID: recipeID, IngredientID: ing.ID})
	}

	return tx.Create(&links).Error
}

func unlinkIngredients(tx *gorm.DB, recipeID uint) error {
	return tx.Where("recipe_id = ?", recipeID).Delete(&RecipeIngredientModel{}).Error
}
