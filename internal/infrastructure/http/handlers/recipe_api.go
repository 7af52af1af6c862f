// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxBodyBytes bounds recipe request bodies
const maxBodyBytes = 1 << 20

// IngredientRequest is one entry of a recipe's ingredient list
type IngredientRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// RecipeRequest is the body of create and full-replacement update
type RecipeRequest struct {
	Name            string              `json:"name" validate:"required,max=200"`
	Type            string              `json:"type" validate:"required,max=50"`
	ServingCapacity int                 `json:"servingCapacity" validate:"gte=1"`
	Instructions    string              `json:"instructions" validate:"required"`
	IsVegetarian    bool                `json:"isVegetarian"`
	IngredientList  []IngredientRequest `json:"ingredientList" validate:"dive"`
}

func (r RecipeRequest) command() inbound.RecipeCommand {
	names := make([]string, 0, len(r.IngredientList))
	for _, ing := range r.IngredientList {
		names = append(names, ing.Name)
	}
	return inbound.RecipeCommand{
		Name:            r.Name,
		Type:            r.Type,
		ServingCapacity: r.ServingCapacity,
		Instructions:    r.Instructions,
		IsVegetarian:    r.IsVegetarian,
		Ingredients:     names,
	}
}

// RecipeAPIHandlers handles the recipe REST API
type RecipeAPIHandlers struct {
	recipeService inbound.RecipeService
	validate      *validator.Validate
	logger        *zap.Logger
}

// NewRecipeAPIHandlers creates a new recipe API handlers instance
func NewRecipeAPIHandlers(recipeService inbound.RecipeService, logger *zap.Logger) *RecipeAPIHandlers {
	return &RecipeAPIHandlers{
		recipeService: recipeService,
		validate:      newValidator(),
		logger:        logger.Named("recipe-api"),
	}
}

// Routes mounts the recipe endpoints on r
func (h *RecipeAPIHandlers) Routes(r chi.Router) {
	r.Route("/recipe", func(r chi.Router) {
		r.Get("/", h.ListRecipes)
		r.Post("/", h.CreateRecipe)
		r.Get("/search", h.SearchRecipes)
		r.Get("/{id}", h.GetRecipe)
		r.Put("/{id}", h.UpdateRecipe)
		r.Delete("/{id}", h.DeleteRecipe)
	})
	r.Get("/ingredient", h.ListIngredients)
}

// ListRecipes handles GET /api/v1/recipe. An empty store is 200 with [].
func (h *RecipeAPIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.GetAllRecipes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nonNil(recipes))
}

// CreateRecipe handles POST /api/v1/recipe
func (h *RecipeAPIHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRecipe(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	created, err := h.recipeService.CreateRecipe(r.Context(), req.command())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", strings.TrimSuffix(r.URL.Path, "/"), created.ID))
	h.writeJSON(w, http.StatusCreated, created)
}

// GetRecipe handles GET /api/v1/recipe/{id}
func (h *RecipeAPIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := recipeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	found, err := h.recipeService.GetRecipeByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, found)
}

// UpdateRecipe handles PUT /api/v1/recipe/{id}
func (h *RecipeAPIHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := recipeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	req, err := h.decodeRecipe(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.recipeService.UpdateRecipe(r.Context(), id, req.command())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteRecipe handles DELETE /api/v1/recipe/{id}
func (h *RecipeAPIHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := recipeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.recipeService.DeleteRecipe(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchRecipes handles GET /api/v1/recipe/search. No match is 200 with [].
func (h *RecipeAPIHandlers) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	query, err := ParseSearchQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recipes, err := h.recipeService.SearchRecipes(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nonNil(recipes))
}

// ListIngredients handles GET /api/v1/ingredient
func (h *RecipeAPIHandlers) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.recipeService.ListIngredients(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ingredients)
}

// ParseSearchQuery reads the search criteria from URL parameters. List
// criteria may be repeated or comma separated.
func ParseSearchQuery(values url.Values) (inbound.SearchQuery, error) {
	var q inbound.SearchQuery

	if raw := strings.TrimSpace(values.Get(recipe.CriterionVegetarian)); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.NewBadRequestError("isVegetarian must be true or false").
				WithMetadata("value", raw)
		}
		q.IsVegetarian = &v
	}

	if raw := strings.TrimSpace(values.Get(recipe.CriterionServingCapacity)); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.NewBadRequestError("servingCapacity must be an integer").
				WithMetadata("value", raw)
		}
		q.ServingCapacity = &v
	}

	q.IncludeIngredients = listParam(values, recipe.CriterionIncludeIngredients)
	q.ExcludeIngredients = listParam(values, recipe.CriterionExcludeIngredients)
	q.Instructions = values.Get(recipe.CriterionInstructions)
	q.IngredientName = values.Get(recipe.CriterionIngredientName)

	return q, nil
}

func listParam(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func recipeID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewBadRequestError("recipe id must be a positive integer").
			WithMetadata("id", raw)
	}
	return id, nil
}

func (h *RecipeAPIHandlers) decodeRecipe(w http.ResponseWriter, r *http.Request) (RecipeRequest, error) {
	var req RecipeRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, errors.NewBadRequestError("Malformed recipe body").WithCause(err)
	}

	if err := h.validate.Struct(req); err != nil {
		return req, validationErrors(err)
	}
	return req, nil
}

// writeJSON writes a JSON response
func (h *RecipeAPIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func (h *RecipeAPIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "Internal server error")

	requestID := middleware.RequestIDFromContext(r.Context())
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", requestID),
			zap.String("code", string(appErr.Code)),
			zap.Error(appErr),
		)
	}

	h.writeJSON(w, appErr.StatusCode(), errors.ToErrorResponse(appErr, requestID))
}

// nonNil keeps an empty result encoded as [] rather than null
func nonNil(recipes []inbound.RecipeDTO) []inbound.RecipeDTO {
	if recipes == nil {
		return []inbound.RecipeDTO{}
	}
	return recipes
}
