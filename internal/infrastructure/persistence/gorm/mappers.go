package gorm

import (
	"github.com/alchemorsel/recipebook/internal/domain/recipe"
)

// RecipeToModel converts domain recipe to GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	s := r.Snapshot()

	model := &RecipeModel{
		ID:              uint(s.ID),
		Name:            s.Name,
		Type:            s.Type,
		ServingCapacity: s.ServingCapacity,
		Instructions:    s.Instructions,
		IsVegetarian:    s.IsVegetarian,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Ingredients:     make([]IngredientModel, 0, len(s.Ingredients)),
	}
	for _, ing := range s.Ingredients {
		model.Ingredients = append(model.Ingredients, IngredientToModel(ing))
	}

	return model
}

// ModelToRecipe converts GORM model to domain recipe
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	ingredients := make([]recipe.Ingredient, 0, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		ingredients = append(ingredients, ModelToIngredient(ing))
	}

	return recipe.Rehydrate(recipe.Snapshot{
		ID:              recipe.ID(m.ID),
		Name:            m.Name,
		Type:            m.Type,
		ServingCapacity: m.ServingCapacity,
		Instructions:    m.Instructions,
		IsVegetarian:    m.IsVegetarian,
		Ingredients:     ingredients,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	})
}

// ModelsToRecipes converts a result set, keeping its order
func ModelsToRecipes(models []RecipeModel) []*recipe.Recipe {
	recipes := make([]*recipe.Recipe, 0, len(models))
	for i := range models {
		recipes = append(recipes, ModelToRecipe(&models[i]))
	}
	return recipes
}

// IngredientToModel converts domain ingredient to GORM model
func IngredientToModel(ing recipe.Ingredient) IngredientModel {
	return IngredientModel{ID: uint(ing.ID), Name: ing.Name}
}

// ModelToIngredient converts GORM model to domain ingredient
func ModelToIngredient(m IngredientModel) recipe.Ingredient {
	return recipe.Ingredient{ID: recipe.ID(m.ID), Name: m.Name}
}
