package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestSearchCriteria_Normalize(t *testing.T) {
	c := SearchCriteria{
		IncludeIngredients: []string{" Salt", "Salt", ""},
		ExcludeIngredients: []string{"  "},
		Instructions:       "   ",
		IngredientName:     "pep",
	}.Normalize()

	assert.Equal(t, []string{"Salt"}, c.IncludeIngredients)
	assert.Nil(t, c.ExcludeIngredients)
	assert.Empty(t, c.Instructions)
	assert.Equal(t, "pep", c.IngredientName)
}

func TestSearchCriteria_Applied(t *testing.T) {
	tests := []struct {
		name     string
		criteria SearchCriteria
		want     []string
	}{
		{"all absent", SearchCriteria{}, []string{}},
		{"empty sets count as absent", SearchCriteria{IncludeIngredients: []string{}, ExcludeIngredients: []string{}}, []string{}},
		{"empty strings count as absent", SearchCriteria{Instructions: "", IngredientName: ""}, []string{}},
		{"false flag is present", SearchCriteria{IsVegetarian: boolPtr(false)}, []string{CriterionVegetarian}},
		{
			"all present",
			SearchCriteria{
				IsVegetarian:       boolPtr(true),
				ServingCapacity:    intPtr(4),
				IncludeIngredients: []string{"Salt"},
				ExcludeIngredients: []string{"Sugar"},
				Instructions:       "mix",
				IngredientName:     "pep",
			},
			[]string{
				CriterionVegetarian, CriterionServingCapacity, CriterionIncludeIngredients,
				CriterionExcludeIngredients, CriterionInstructions, CriterionIngredientName,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Applied())
			assert.Equal(t, len(tt.want) == 0, tt.criteria.IsEmpty())
		})
	}
}

func TestSearchCriteria_Matches(t *testing.T) {
	saltAndSugar := Rehydrate(Snapshot{
		ID: 1, Name: "Caramel", Type: "Dessert", ServingCapacity: 4,
		Instructions: "MIX THOROUGHLY", IsVegetarian: true,
		Ingredients: []Ingredient{{ID: 1, Name: "Salt"}, {ID: 2, Name: "Sugar"}},
	})

	tests := []struct {
		name     string
		criteria SearchCriteria
		want     bool
	}{
		{"no criteria", SearchCriteria{}, true},
		{"vegetarian match", SearchCriteria{IsVegetarian: boolPtr(true)}, true},
		{"vegetarian mismatch", SearchCriteria{IsVegetarian: boolPtr(false)}, false},
		{"servings mismatch", SearchCriteria{ServingCapacity: intPtr(2)}, false},
		{"include any", SearchCriteria{IncludeIngredients: []string{"Pepper", "Salt"}}, true},
		{"include is exact", SearchCriteria{IncludeIngredients: []string{"salt"}}, false},
		{"exclude wins over include", SearchCriteria{IncludeIngredients: []string{"Salt"}, ExcludeIngredients: []string{"Sugar"}}, false},
		{"instructions case-insensitive", SearchCriteria{Instructions: "Mix"}, true},
		{"ingredient name substring", SearchCriteria{IngredientName: "SUG"}, true},
		{"ingredient name missing", SearchCriteria{IngredientName: "pepper"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(saltAndSugar))
		})
	}
}
