package recipe_test

import (
	"context"
	"sort"
	"testing"
	"time"

	app "github.com/alchemorsel/recipebook/internal/application/recipe"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	apperrors "github.com/alchemorsel/recipebook/pkg/errors"
	"github.com/alchemorsel/recipebook/test/testutils"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// ScenarioTestSuite runs the service over a real sqlite store
type ScenarioTestSuite struct {
	suite.Suite
	service inbound.RecipeService
	repos   testutils.Repositories
	cache   *memory.CacheRepository
	ctx     context.Context
	ids     map[string]uint64
}

func (s *ScenarioTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = testutils.NewRepositories(testutils.NewSQLiteDB(s.T()))
	s.cache = memory.NewCacheRepository(time.Minute)
	s.T().Cleanup(func() { _ = s.cache.Close() })

	s.service = app.NewRecipeService(s.repos.Recipes, s.repos.Ingredients, app.Options{
		Cache:    s.cache,
		CacheTTL: time.Minute,
	}, zap.NewNop())

	s.ids = make(map[string]uint64)
	for _, d := range testutils.ScenarioRecipes() {
		dto, err := s.service.CreateRecipe(s.ctx, inbound.RecipeCommand{
			Name:            d.Name,
			Type:            d.Type,
			ServingCapacity: d.ServingCapacity,
			Instructions:    d.Instructions,
			IsVegetarian:    d.IsVegetarian,
			Ingredients:     d.Ingredients,
		})
		s.Require().NoError(err)
		s.ids[d.Name] = dto.ID
	}
}

func (s *ScenarioTestSuite) search(q inbound.SearchQuery) []string {
	dtos, err := s.service.SearchRecipes(s.ctx, q)
	s.Require().NoError(err)

	names := make([]string, 0, len(dtos))
	for _, dto := range dtos {
		names = append(names, dto.Name)
	}
	sort.Strings(names)
	return names
}

func (s *ScenarioTestSuite) TestIngredientsAreShared() {
	ingredients, err := s.service.ListIngredients(s.ctx)
	s.Require().NoError(err)
	s.Len(ingredients, 2)
}

func (s *ScenarioTestSuite) TestSearch() {
	s.Run("Vegetarian", func() {
		s.Equal([]string{"R2", "R3"}, s.search(inbound.SearchQuery{IsVegetarian: testutils.Bool(true)}))
	})

	s.Run("ServingCapacity", func() {
		s.Equal([]string{"R1"}, s.search(inbound.SearchQuery{ServingCapacity: testutils.Int(4)}))
	})

	s.Run("ExcludeSharedIngredient", func() {
		s.Empty(s.search(inbound.SearchQuery{ExcludeIngredients: []string{"Pepper"}}))
	})

	s.Run("InstructionsIgnoreCase", func() {
		s.Equal([]string{"R1", "R2"}, s.search(inbound.SearchQuery{Instructions: "Mix"}))
	})

	s.Run("NoCriteriaReturnsEveryRecipeOnce", func() {
		s.Equal([]string{"R1", "R2", "R3"}, s.search(inbound.SearchQuery{}))
	})

	s.Run("IncludeMatchesEachRecipeOnce", func() {
		s.Equal([]string{"R1", "R2", "R3"}, s.search(inbound.SearchQuery{
			IncludeIngredients: []string{"Salt", "Pepper"},
		}))
	})

	s.Run("IngredientNameSubstring", func() {
		s.Equal([]string{"R1", "R2", "R3"}, s.search(inbound.SearchQuery{IngredientName: "epp"}))
	})
}

func (s *ScenarioTestSuite) TestSearch_IncludeWithExcludeRejectsRecipeHoldingBoth() {
	_, err := s.service.CreateRecipe(s.ctx, inbound.RecipeCommand{
		Name:            "Caramel",
		Type:            "DESSERT",
		ServingCapacity: 4,
		Instructions:    "Melt slowly.",
		Ingredients:     []string{"Salt", "Sugar"},
	})
	s.Require().NoError(err)

	names := s.search(inbound.SearchQuery{
		IncludeIngredients: []string{"Salt"},
		ExcludeIngredients: []string{"Sugar"},
	})

	s.Equal([]string{"R1", "R2", "R3"}, names)
}

func (s *ScenarioTestSuite) TestSearch_IngredientNameMatchingTwiceReturnsRecipeOnce() {
	_, err := s.service.CreateRecipe(s.ctx, inbound.RecipeCommand{
		Name:            "Brine",
		Type:            "SIDE",
		ServingCapacity: 2,
		Instructions:    "Dissolve.",
		Ingredients:     []string{"Salt", "Sea salt"},
	})
	s.Require().NoError(err)

	s.Equal([]string{"Brine", "R1", "R2", "R3"}, s.search(inbound.SearchQuery{IngredientName: "salt"}))
	s.Equal([]string{"Brine"}, s.search(inbound.SearchQuery{IngredientName: "sea"}))
}

func (s *ScenarioTestSuite) TestSearch_FoldsNonASCIICase() {
	_, err := s.service.CreateRecipe(s.ctx, inbound.RecipeCommand{
		Name:            "Pesto",
		Type:            "SAUCE",
		ServingCapacity: 4,
		Instructions:    "ÉCRASER les noix.",
		IsVegetarian:    true,
		Ingredients:     []string{"Œillet"},
	})
	s.Require().NoError(err)

	s.Equal([]string{"Pesto"}, s.search(inbound.SearchQuery{Instructions: "écraser"}))
	s.Equal([]string{"Pesto"}, s.search(inbound.SearchQuery{IngredientName: "œil"}))
}

func (s *ScenarioTestSuite) TestUpdate_ReplacesIngredientSetAndRefreshesCache() {
	id := s.ids["R1"]

	before, err := s.service.GetRecipeByID(s.ctx, id)
	s.Require().NoError(err)
	s.Len(before.Ingredients, 2)

	_, err = s.service.UpdateRecipe(s.ctx, id, inbound.RecipeCommand{
		Name:            "R1",
		Type:            "MAIN",
		ServingCapacity: 8,
		Instructions:    "Roast.",
		Ingredients:     []string{"Garlic"},
	})
	s.Require().NoError(err)

	after, err := s.service.GetRecipeByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(8, after.ServingCapacity)
	s.Require().Len(after.Ingredients, 1)
	s.Equal("Garlic", after.Ingredients[0].Name)

	s.Equal([]string{"R2", "R3"}, s.search(inbound.SearchQuery{IncludeIngredients: []string{"Pepper"}}))
}

func (s *ScenarioTestSuite) TestDelete_KeepsIngredients() {
	for _, id := range s.ids {
		s.Require().NoError(s.service.DeleteRecipe(s.ctx, id))
	}

	recipes, err := s.service.GetAllRecipes(s.ctx)
	s.Require().NoError(err)
	s.Empty(recipes)

	ingredients, err := s.service.ListIngredients(s.ctx)
	s.Require().NoError(err)
	s.Len(ingredients, 2)

	_, err = s.service.GetRecipeByID(s.ctx, s.ids["R2"])
	s.True(apperrors.Is(err, apperrors.CodeRecipeNotFound))
}

func (s *ScenarioTestSuite) TestUpdate_UnknownID() {
	_, err := s.service.UpdateRecipe(s.ctx, 999, inbound.RecipeCommand{
		Name: "Ghost", Type: "MAIN", ServingCapacity: 1, Instructions: "Nothing.",
	})
	s.True(apperrors.Is(err, apperrors.CodeRecipeNotFound))
}

func TestScenarioTestSuite(t *testing.T) {
	suite.Run(t, new(ScenarioTestSuite))
}
