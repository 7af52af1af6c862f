package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alchemorsel/recipebook/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/pkg/errors"
	"github.com/alchemorsel/recipebook/test/testutils"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const validBody = `{
	"name": "Pancakes",
	"type": "BREAKFAST",
	"servingCapacity": 4,
	"instructions": "Mix and bake.",
	"isVegetarian": true,
	"ingredientList": [{"name": "Flour"}, {"name": "Milk"}]
}`

type RecipeAPITestSuite struct {
	suite.Suite
	service *testutils.MockRecipeService
	router  chi.Router
}

func (s *RecipeAPITestSuite) SetupTest() {
	s.service = new(testutils.MockRecipeService)
	s.router = chi.NewRouter()
	s.router.Route("/api/v1", handlers.NewRecipeAPIHandlers(s.service, zap.NewNop()).Routes)
}

func (s *RecipeAPITestSuite) TearDownTest() {
	s.service.AssertExpectations(s.T())
}

func (s *RecipeAPITestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RecipeAPITestSuite) errorBody(rec *httptest.ResponseRecorder) errors.ErrorDetails {
	var body errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func (s *RecipeAPITestSuite) TestCreateRecipe() {
	s.service.On("CreateRecipe", mock.Anything, inbound.RecipeCommand{
		Name:            "Pancakes",
		Type:            "BREAKFAST",
		ServingCapacity: 4,
		Instructions:    "Mix and bake.",
		IsVegetarian:    true,
		Ingredients:     []string{"Flour", "Milk"},
	}).Return(&inbound.RecipeDTO{ID: 12, Name: "Pancakes"}, nil)

	rec := s.do(http.MethodPost, "/api/v1/recipe", validBody)

	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("/api/v1/recipe/12", rec.Header().Get("Location"))

	var dto inbound.RecipeDTO
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &dto))
	s.Equal(uint64(12), dto.ID)
}

func (s *RecipeAPITestSuite) TestCreateRecipe_ValidationFailure() {
	rec := s.do(http.MethodPost, "/api/v1/recipe",
		`{"name":"","type":"MAIN","servingCapacity":0,"instructions":"x","ingredientList":[{"name":""}]}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	body := s.errorBody(rec)
	s.Equal(errors.CodeValidationFailed, body.Code)
	s.Contains(body.Details, "name")
	s.Contains(body.Details, "servingCapacity")
	s.Contains(body.Details, "ingredientList[0].name")
}

func (s *RecipeAPITestSuite) TestCreateRecipe_MalformedBody() {
	rec := s.do(http.MethodPost, "/api/v1/recipe", `{"name":`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(errors.CodeBadRequest, s.errorBody(rec).Code)
}

func (s *RecipeAPITestSuite) TestCreateRecipe_UnknownField() {
	rec := s.do(http.MethodPost, "/api/v1/recipe", `{"name":"x","color":"red"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RecipeAPITestSuite) TestListRecipes_Empty() {
	s.service.On("GetAllRecipes", mock.Anything).Return([]inbound.RecipeDTO{}, nil)

	rec := s.do(http.MethodGet, "/api/v1/recipe", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *RecipeAPITestSuite) TestEmptyResults_AreOKWithEmptyArray() {
	s.service.On("GetAllRecipes", mock.Anything).Return(nil, nil).Once()
	s.service.On("SearchRecipes", mock.Anything, inbound.SearchQuery{IngredientName: "saffron"}).
		Return(nil, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/recipe", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/recipe/search?ingredientName=saffron", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *RecipeAPITestSuite) TestGetRecipe() {
	s.Run("Found", func() {
		s.service.On("GetRecipeByID", mock.Anything, uint64(3)).
			Return(&inbound.RecipeDTO{ID: 3, Name: "Soup"}, nil).Once()

		rec := s.do(http.MethodGet, "/api/v1/recipe/3", "")

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"name":"Soup"`)
	})

	s.Run("NotFound", func() {
		s.service.On("GetRecipeByID", mock.Anything, uint64(4)).
			Return(nil, errors.NewRecipeNotFoundError(4)).Once()

		rec := s.do(http.MethodGet, "/api/v1/recipe/4", "")

		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(errors.CodeRecipeNotFound, s.errorBody(rec).Code)
	})

	s.Run("BadID", func() {
		for _, id := range []string{"abc", "0", "-1"} {
			rec := s.do(http.MethodGet, "/api/v1/recipe/"+id, "")
			s.Equal(http.StatusBadRequest, rec.Code, id)
		}
	})
}

func (s *RecipeAPITestSuite) TestUpdateRecipe() {
	s.service.On("UpdateRecipe", mock.Anything, uint64(7), mock.AnythingOfType("inbound.RecipeCommand")).
		Return(&inbound.RecipeDTO{ID: 7, Name: "Pancakes"}, nil)

	rec := s.do(http.MethodPut, "/api/v1/recipe/7", validBody)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *RecipeAPITestSuite) TestDeleteRecipe() {
	s.service.On("DeleteRecipe", mock.Anything, uint64(7)).Return(nil).Once()
	s.service.On("DeleteRecipe", mock.Anything, uint64(8)).Return(errors.NewRecipeNotFoundError(8)).Once()

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/recipe/7", "").Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/recipe/8", "").Code)
}

func (s *RecipeAPITestSuite) TestSearchRecipes() {
	s.service.On("SearchRecipes", mock.Anything, inbound.SearchQuery{
		IsVegetarian:       testutils.Bool(true),
		ServingCapacity:    testutils.Int(2),
		IncludeIngredients: []string{"Salt", "Pepper", "Thyme"},
		ExcludeIngredients: []string{"Sugar"},
		Instructions:       "mix",
	}).Return([]inbound.RecipeDTO{}, nil)

	rec := s.do(http.MethodGet,
		"/api/v1/recipe/search?isVegetarian=true&servingCapacity=2&includeIngredients=Salt,Pepper&includeIngredients=Thyme&excludeIngredients=Sugar&instructions=mix",
		"")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *RecipeAPITestSuite) TestSearchRecipes_StorageFailure() {
	s.service.On("SearchRecipes", mock.Anything, mock.Anything).
		Return(nil, errors.NewDatabaseError("search recipes", assert.AnError))

	rec := s.do(http.MethodGet, "/api/v1/recipe/search", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(errors.CodeDatabaseError, s.errorBody(rec).Code)
}

func (s *RecipeAPITestSuite) TestListIngredients() {
	s.service.On("ListIngredients", mock.Anything).Return([]inbound.IngredientDTO{{ID: 1, Name: "Salt"}}, nil)

	rec := s.do(http.MethodGet, "/api/v1/ingredient", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[{"id":1,"name":"Salt"}]`, rec.Body.String())
}

func TestRecipeAPITestSuite(t *testing.T) {
	suite.Run(t, new(RecipeAPITestSuite))
}

func TestParseSearchQuery(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		q, err := handlers.ParseSearchQuery(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, inbound.SearchQuery{}, q)
	})

	t.Run("BlankListEntriesDropped", func(t *testing.T) {
		q, err := handlers.ParseSearchQuery(url.Values{"excludeIngredients": {" , ,Pepper,"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pepper"}, q.ExcludeIngredients)
	})

	t.Run("MalformedBool", func(t *testing.T) {
		_, err := handlers.ParseSearchQuery(url.Values{"isVegetarian": {"maybe"}})
		assert.True(t, errors.Is(err, errors.CodeBadRequest))
	})

	t.Run("MalformedInt", func(t *testing.T) {
		_, err := handlers.ParseSearchQuery(url.Values{"servingCapacity": {"four"}})
		assert.True(t, errors.Is(err, errors.CodeBadRequest))
	})
}
