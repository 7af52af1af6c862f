package gorm

import (
	"context"
	"fmt"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"gorm.io/gorm"
)

// DemoRecipes is the sample data loaded into an empty store
func DemoRecipes() []recipe.Details {
	return []recipe.Details{
		{
			Name:            "Pepper Steak",
			Type:            "Dinner",
			ServingCapacity: 4,
			Instructions:    "Season the steak and sear on high heat.",
			IsVegetarian:    false,
			Ingredients:     []string{"Salt", "Pepper", "Steak"},
		},
		{
			Name:            "Tomato Salad",
			Type:            "Lunch",
			ServingCapacity: 2,
			Instructions:    "Slice the tomatoes, season and drizzle with oil.",
			IsVegetarian:    true,
			Ingredients:     []string{"Salt", "Pepper", "Tomato", "Olive Oil"},
		},
		{
			Name:            "Roasted Vegetables",
			Type:            "Dinner",
			ServingCapacity: 6,
			Instructions:    "Mix the vegetables with oil and bake for 40 minutes.",
			IsVegetarian:    true,
			Ingredients:     []string{"Salt", "Pepper", "Potato", "Carrot", "Olive Oil"},
		},
	}
}

// Seed loads DemoRecipes when the recipes table is empty and returns the
// number of recipes created.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&RecipeModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	recipes := NewRecipeRepository(db)
	ingredients := NewIngredientRepository(db)

	created := 0
	for _, details := range DemoRecipes() {
		rec, err := recipe.NewRecipe(details)
		if err != nil {
			return created, err
		}

		resolved := rec.Ingredients()
		for i := range resolved {
			if err := ingredients.Create(ctx, &resolved[i]); err != nil {
				return created, fmt.Errorf("failed to seed ingredient %q: %w", resolved[i].Name, err)
			}
		}
		if err := rec.ResolveIngredients(resolved); err != nil {
			return created, err
		}

		if err := recipes.Create(ctx, rec); err != nil {
			return created, fmt.Errorf("failed to seed recipe %q: %w", details.Name, err)
		}
		created++
	}

	return created, nil
}
