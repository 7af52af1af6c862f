// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/brianvoe/gofakeit/v6"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	details recipe.Details
	id      recipe.ID
	resolve bool
}

// NewRecipeBuilder creates a new recipe builder with random but valid values
func NewRecipeBuilder() *RecipeBuilder {
	return NewRecipeBuilderWithSeed(time.Now().UnixNano())
}

// NewRecipeBuilderWithSeed creates a recipe builder with reproducible values
func NewRecipeBuilderWithSeed(seed int64) *RecipeBuilder {
	faker := gofakeit.New(seed)

	return &RecipeBuilder{
		details: recipe.Details{
			Name:            faker.Dessert(),
			Type:            faker.RandomString([]string{"MAIN", "DESSERT", "SIDE", "SOUP"}),
			ServingCapacity: faker.IntRange(1, 12),
			Instructions:    faker.Sentence(8),
			IsVegetarian:    faker.Bool(),
			Ingredients:     []string{faker.Fruit(), faker.Vegetable()},
		},
	}
}

// WithName sets the recipe name
func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.details.Name = name
	return rb
}

// WithType sets the recipe type
func (rb *RecipeBuilder) WithType(recipeType string) *RecipeBuilder {
	rb.details.Type = recipeType
	return rb
}

// WithServings sets the serving capacity
func (rb *RecipeBuilder) WithServings(servings int) *RecipeBuilder {
	rb.details.ServingCapacity = servings
	return rb
}

// WithInstructions sets the instructions text
func (rb *RecipeBuilder) WithInstructions(instructions string) *RecipeBuilder {
	rb.details.Instructions = instructions
	return rb
}

// Vegetarian sets the vegetarian flag
func (rb *RecipeBuilder) Vegetarian(vegetarian bool) *RecipeBuilder {
	rb.details.IsVegetarian = vegetarian
	return rb
}

// WithIngredients sets the ingredient names
func (rb *RecipeBuilder) WithIngredients(names ...string) *RecipeBuilder {
	rb.details.Ingredients = names
	return rb
}

// Persisted makes Build return a recipe that looks like it was read back
// from storage: id assigned and ingredients numbered from 1
func (rb *RecipeBuilder) Persisted(id recipe.ID) *RecipeBuilder {
	rb.id = id
	rb.resolve = true
	return rb
}

// Details returns the attributes the builder holds
func (rb *RecipeBuilder) Details() recipe.Details {
	d := rb.details
	d.Ingredients = append([]string(nil), rb.details.Ingredients...)
	return d
}

// Command returns the attributes as a service command
func (rb *RecipeBuilder) Command() inbound.RecipeCommand {
	d := rb.Details()
	return inbound.RecipeCommand{
		Name:            d.Name,
		Type:            d.Type,
		ServingCapacity: d.ServingCapacity,
		Instructions:    d.Instructions,
		IsVegetarian:    d.IsVegetarian,
		Ingredients:     d.Ingredients,
	}
}

// Build constructs the recipe with validation
func (rb *RecipeBuilder) Build() (*recipe.Recipe, error) {
	r, err := recipe.NewRecipe(rb.Details())
	if err != nil {
		return nil, err
	}
	if !rb.resolve {
		return r, nil
	}

	ingredients := r.Ingredients()
	for i := range ingredients {
		ingredients[i].ID = recipe.ID(i + 1)
	}
	if err := r.ResolveIngredients(ingredients); err != nil {
		return nil, err
	}
	if err := r.AssignID(rb.id); err != nil {
		return nil, err
	}
	return r, nil
}

// MustBuild is Build for tests that cannot recover from a bad fixture
func (rb *RecipeBuilder) MustBuild() *recipe.Recipe {
	r, err := rb.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// ScenarioRecipes returns three recipes sharing the ingredients Salt and Pepper:
// a non-vegetarian one for 4, and vegetarian ones for 2 and 6
func ScenarioRecipes() []recipe.Details {
	return []recipe.Details{
		{Name: "R1", Type: "MAIN", ServingCapacity: 4, Instructions: "Mix and bake.", IsVegetarian: false, Ingredients: []string{"Salt", "Pepper"}},
		{Name: "R2", Type: "MAIN", ServingCapacity: 2, Instructions: "MIX THOROUGHLY", IsVegetarian: true, Ingredients: []string{"Salt", "Pepper"}},
		{Name: "R3", Type: "SIDE", ServingCapacity: 6, Instructions: "Boil for ten minutes.", IsVegetarian: true, Ingredients: []string{"Salt", "Pepper"}},
	}
}

// Bool returns a pointer to b
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i
func Int(i int) *int { return &i }
