package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for Recipe entity
type RecipeTestSuite struct {
	suite.Suite
}

func validDetails() Details {
	return Details{
		Name:            "Pancakes",
		Type:            "Breakfast",
		ServingCapacity: 4,
		Instructions:    "Mix and bake.",
		IsVegetarian:    true,
		Ingredients:     []string{"Flour", "Milk", "Egg"},
	}
}

func (suite *RecipeTestSuite) TestRecipeCreation() {
	suite.Run("ValidRecipe_ShouldCreateSuccessfully", func() {
		// Act
		r, err := NewRecipe(validDetails())

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), ID(0), r.ID())
		assert.Equal(suite.T(), "Pancakes", r.Name())
		assert.Equal(suite.T(), "Breakfast", r.Type())
		assert.Equal(suite.T(), 4, r.ServingCapacity())
		assert.True(suite.T(), r.IsVegetarian())
		assert.Equal(suite.T(), []string{"Flour", "Milk", "Egg"}, r.IngredientNames())
		assert.NotZero(suite.T(), r.CreatedAt())
	})

	suite.Run("DuplicateIngredientNames_ShouldCollapse", func() {
		d := validDetails()
		d.Ingredients = []string{"Salt", " Salt ", "Pepper", "Salt"}

		r, err := NewRecipe(d)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []string{"Salt", "Pepper"}, r.IngredientNames())
	})

	suite.Run("NoIngredients_ShouldBeAllowed", func() {
		d := validDetails()
		d.Ingredients = nil

		r, err := NewRecipe(d)

		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), r.Ingredients())
	})

	invalid := []struct {
		name   string
		mutate func(*Details)
		want   error
	}{
		{"BlankName", func(d *Details) { d.Name = "  " }, ErrNameRequired},
		{"BlankType", func(d *Details) { d.Type = "" }, ErrTypeRequired},
		{"ZeroServings", func(d *Details) { d.ServingCapacity = 0 }, ErrInvalidServingCapacity},
		{"BlankInstructions", func(d *Details) { d.Instructions = "\t" }, ErrInstructionsRequired},
		{"BlankIngredient", func(d *Details) { d.Ingredients = []string{"Salt", ""} }, ErrIngredientNameRequired},
	}
	for _, tc := range invalid {
		suite.Run(tc.name+"_ShouldReturnError", func() {
			d := validDetails()
			tc.mutate(&d)

			r, err := NewRecipe(d)

			assert.Nil(suite.T(), r)
			assert.ErrorIs(suite.T(), err, tc.want)
			assert.True(suite.T(), IsValidationError(err))
		})
	}
}

func (suite *RecipeTestSuite) TestAssignID() {
	r, err := NewRecipe(validDetails())
	require.NoError(suite.T(), err)

	assert.ErrorIs(suite.T(), r.AssignID(0), ErrInvalidID)
	require.NoError(suite.T(), r.AssignID(5))
	require.NoError(suite.T(), r.AssignID(5))
	assert.ErrorIs(suite.T(), r.AssignID(6), ErrIDAlreadyAssigned)
	assert.Equal(suite.T(), ID(5), r.ID())
}

func (suite *RecipeTestSuite) TestResolveIngredients() {
	suite.Run("MatchingNames_ShouldAdoptStoredIdentity", func() {
		r, err := NewRecipe(validDetails())
		require.NoError(suite.T(), err)

		err = r.ResolveIngredients([]Ingredient{{ID: 3, Name: "Egg"}, {ID: 1, Name: "Flour"}, {ID: 2, Name: "Milk"}})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []Ingredient{{ID: 1, Name: "Flour"}, {ID: 2, Name: "Milk"}, {ID: 3, Name: "Egg"}}, r.Ingredients())
	})

	suite.Run("MissingName_ShouldFail", func() {
		r, err := NewRecipe(validDetails())
		require.NoError(suite.T(), err)

		err = r.ResolveIngredients([]Ingredient{{ID: 1, Name: "Flour"}, {ID: 2, Name: "Milk"}, {ID: 9, Name: "Sugar"}})

		assert.ErrorIs(suite.T(), err, ErrIngredientMismatch)
		assert.False(suite.T(), r.Ingredients()[0].IsPersisted())
	})
}

func (suite *RecipeTestSuite) TestReplace() {
	r := Rehydrate(Snapshot{
		ID:              9,
		Name:            "Old",
		Type:            "Lunch",
		ServingCapacity: 2,
		Instructions:    "Stir",
		Ingredients:     []Ingredient{{ID: 1, Name: "Salt"}},
	})

	err := r.Replace(Details{
		Name:            "New",
		Type:            "Dinner",
		ServingCapacity: 6,
		Instructions:    "Bake",
		IsVegetarian:    false,
		Ingredients:     []string{"Sugar"},
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), ID(9), r.ID())
	assert.Equal(suite.T(), "New", r.Name())
	assert.Equal(suite.T(), []string{"Sugar"}, r.IngredientNames())
	assert.False(suite.T(), r.Ingredients()[0].IsPersisted())
}

func (suite *RecipeTestSuite) TestIngredientsAreCopied() {
	r := Rehydrate(Snapshot{ID: 1, Ingredients: []Ingredient{{ID: 1, Name: "Salt"}}})

	ings := r.Ingredients()
	ings[0].Name = "Sugar"

	assert.True(suite.T(), r.HasIngredient("Salt"))
	assert.False(suite.T(), r.HasIngredient("Sugar"))
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}
