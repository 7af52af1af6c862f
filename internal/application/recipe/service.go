// Package recipe provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipebook/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Operation names used in logs and metrics
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
	opGet    = "get"
	opList   = "list"
)

// Outcome labels, kept in line with the monitoring package
const (
	outcomeSuccess  = "success"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

// Metrics is the part of the metrics collector the service reports to
type Metrics interface {
	RecordOperation(operation, outcome string)
	ObserveSearch(criteria []string, results int, duration time.Duration, err error)
	RecordCacheLookup(hit bool)
}

// Options holds the optional collaborators of the service
type Options struct {
	// Cache enables cache-first GetRecipeByID when set
	Cache    outbound.CacheRepository
	CacheTTL time.Duration
	Metrics  Metrics
	Tracer   trace.Tracer
}

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo     outbound.RecipeRepository
	ingredientRepo outbound.IngredientRepository
	cache          outbound.CacheRepository
	cacheTTL       time.Duration
	metrics        Metrics
	tracer         trace.Tracer
	logger         *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	ingredientRepo outbound.IngredientRepository,
	opts Options,
	logger *zap.Logger,
) inbound.RecipeService {
	s := &RecipeService{
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		cache:          opts.Cache,
		cacheTTL:       opts.CacheTTL,
		metrics:        opts.Metrics,
		tracer:         opts.Tracer,
		logger:         logger.Named("recipe-service"),
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer("recipe-service")
	}
	return s
}

// CreateRecipe validates the command, resolves ingredients by name and stores the recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.RecipeCommand) (*inbound.RecipeDTO, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeService.CreateRecipe")
	defer span.End()

	s.logger.Info("Creating new recipe",
		zap.String("name", cmd.Name),
		zap.Int("ingredients", len(cmd.Ingredients)),
	)

	entity, err := recipe.NewRecipe(toDetails(cmd))
	if err != nil {
		return nil, s.fail(span, opCreate, validationError(err))
	}

	if err := s.resolveIngredients(ctx, entity); err != nil {
		return nil, s.fail(span, opCreate, apperrors.NewDatabaseError("resolve ingredients", err))
	}

	if err := s.recipeRepo.Create(ctx, entity); err != nil {
		return nil, s.fail(span, opCreate, apperrors.NewDatabaseError("create recipe", err))
	}

	dto := toDTO(entity)
	span.SetAttributes(attribute.Int64("recipe.id", int64(dto.ID)))
	s.metrics.RecordOperation(opCreate, outcomeSuccess)

	s.logger.Info("Recipe created successfully", zap.Uint64("recipe_id", dto.ID))

	return &dto, nil
}

// UpdateRecipe fully replaces the recipe with the given ID
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID uint64, cmd inbound.RecipeCommand) (*inbound.RecipeDTO, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeService.UpdateRecipe",
		trace.WithAttributes(attribute.Int64("recipe.id", int64(recipeID))))
	defer span.End()

	s.logger.Info("Updating recipe", zap.Uint64("recipe_id", recipeID))

	details := toDetails(cmd)
	if _, err := recipe.NewRecipe(details); err != nil {
		return nil, s.fail(span, opUpdate, validationError(err))
	}

	entity, err := s.recipeRepo.FindByID(ctx, recipe.ID(recipeID))
	if err != nil {
		return nil, s.fail(span, opUpdate, s.lookupError(recipeID, "find recipe", err))
	}

	if err := entity.Replace(details); err != nil {
		return nil, s.fail(span, opUpdate, validationError(err))
	}

	if err := s.resolveIngredients(ctx, entity); err != nil {
		return nil, s.fail(span, opUpdate, apperrors.NewDatabaseError("resolve ingredients", err))
	}

	if err := s.recipeRepo.Update(ctx, entity); err != nil {
		return nil, s.fail(span, opUpdate, s.lookupError(recipeID, "update recipe", err))
	}

	s.invalidate(ctx, recipeID)

	dto := toDTO(entity)
	s.metrics.RecordOperation(opUpdate, outcomeSuccess)

	s.logger.Info("Recipe updated successfully", zap.Uint64("recipe_id", recipeID))

	return &dto, nil
}

// DeleteRecipe removes the recipe and its ingredient links. Ingredients stay.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID uint64) error {
	ctx, span := s.tracer.Start(ctx, "RecipeService.DeleteRecipe",
		trace.WithAttributes(attribute.Int64("recipe.id", int64(recipeID))))
	defer span.End()

	s.logger.Info("Deleting recipe", zap.Uint64("recipe_id", recipeID))

	if err := s.recipeRepo.Delete(ctx, recipe.ID(recipeID)); err != nil {
		return s.fail(span, opDelete, s.lookupError(recipeID, "delete recipe", err))
	}

	s.invalidate(ctx, recipeID)
	s.metrics.RecordOperation(opDelete, outcomeSuccess)

	s.logger.Info("Recipe deleted successfully", zap.Uint64("recipe_id", recipeID))

	return nil
}

// GetRecipeByID retrieves a recipe, cache first when a cache is configured
func (s *RecipeService) GetRecipeByID(ctx context.Context, recipeID uint64) (*inbound.RecipeDTO, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeService.GetRecipeByID",
		trace.WithAttributes(attribute.Int64("recipe.id", int64(recipeID))))
	defer span.End()

	if dto, ok := s.fromCache(ctx, recipeID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		s.metrics.RecordOperation(opGet, outcomeSuccess)
		return dto, nil
	}

	entity, err := s.recipeRepo.FindByID(ctx, recipe.ID(recipeID))
	if err != nil {
		return nil, s.fail(span, opGet, s.lookupError(recipeID, "get recipe", err))
	}

	dto := toDTO(entity)
	s.toCache(ctx, &dto)
	s.metrics.RecordOperation(opGet, outcomeSuccess)

	return &dto, nil
}

// GetAllRecipes returns every stored recipe with its ingredients
func (s *RecipeService) GetAllRecipes(ctx context.Context) ([]inbound.RecipeDTO, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeService.GetAllRecipes")
	defer span.End()

	entities, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(span, opList, apperrors.NewDatabaseError("list recipes", err))
	}

	s.metrics.RecordOperation(opList, outcomeSuccess)
	return toDTOs(entities), nil
}

// SearchRecipes returns each recipe matching every present criterion exactly once.
// No criteria means every recipe; no match is an empty result, not an error.
func (s *RecipeService) SearchRecipes(ctx context.Context, query inbound.SearchQuery) ([]inbound.RecipeDTO, error) {
	criteria := toCriteria(query).Normalize()
	applied := criteria.Applied()

	ctx, span := s.tracer.Start(ctx, "RecipeService.SearchRecipes",
		trace.WithAttributes(attribute.StringSlice("search.criteria", applied)))
	defer span.End()

	s.logger.Info("Searching recipes", zap.Strings("criteria", applied))

	start := time.Now()
	entities, err := s.recipeRepo.Search(ctx, criteria)
	if err != nil {
		s.metrics.ObserveSearch(applied, 0, time.Since(start), err)
		s.logger.Error("Recipe search failed", zap.Strings("criteria", applied), zap.Error(err))
		recordSpanError(span, err)
		return nil, apperrors.NewDatabaseError("search recipes", err)
	}

	unique := uniqueByID(entities)
	s.metrics.ObserveSearch(applied, len(unique), time.Since(start), nil)
	span.SetAttributes(attribute.Int("search.results", len(unique)))

	s.logger.Info("Recipe search completed",
		zap.Strings("criteria", applied),
		zap.Int("results", len(unique)),
		zap.Duration("duration", time.Since(start)),
	)

	return toDTOs(unique), nil
}

// ListIngredients returns every stored ingredient
func (s *RecipeService) ListIngredients(ctx context.Context) ([]inbound.IngredientDTO, error) {
	ingredients, err := s.ingredientRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list ingredients", err)
	}

	dtos := make([]inbound.IngredientDTO, 0, len(ingredients))
	for _, ing := range ingredients {
		dtos = append(dtos, inbound.IngredientDTO{ID: uint64(ing.ID), Name: ing.Name})
	}
	return dtos, nil
}

// resolveIngredients swaps every ingredient of entity for the stored
// ingredient of the same name, creating the missing ones
func (s *RecipeService) resolveIngredients(ctx context.Context, entity *recipe.Recipe) error {
	ingredients := entity.Ingredients()

	for i := range ingredients {
		existing, err := s.ingredientRepo.FindByName(ctx, ingredients[i].Name)
		if err != nil {
			return err
		}
		if existing != nil {
			ingredients[i] = *existing
			continue
		}

		if err := s.ingredientRepo.Create(ctx, &ingredients[i]); err != nil {
			return err
		}
		s.logger.Debug("Created ingredient",
			zap.String("name", ingredients[i].Name),
			zap.Uint64("ingredient_id", uint64(ingredients[i].ID)),
		)
	}

	return entity.ResolveIngredients(ingredients)
}

func (s *RecipeService) lookupError(recipeID uint64, operation string, err error) *apperrors.AppError {
	if stderrors.Is(err, recipe.ErrRecipeNotFound) {
		return apperrors.NewRecipeNotFoundError(recipeID)
	}
	return apperrors.NewDatabaseError(operation, err)
}

// fail records the outcome of a failed operation and returns err
func (s *RecipeService) fail(span trace.Span, operation string, err *apperrors.AppError) error {
	outcome := outcomeError
	switch err.Code {
	case apperrors.CodeValidationFailed:
		outcome = outcomeInvalid
	case apperrors.CodeRecipeNotFound:
		outcome = outcomeNotFound
	}
	s.metrics.RecordOperation(operation, outcome)

	if outcome == outcomeError {
		s.logger.Error("Recipe operation failed", zap.String("operation", operation), zap.Error(err))
		recordSpanError(span, err)
	} else {
		s.logger.Info("Recipe operation rejected",
			zap.String("operation", operation),
			zap.String("code", string(err.Code)),
			zap.String("details", err.Details),
		)
	}
	return err
}

func (s *RecipeService) fromCache(ctx context.Context, recipeID uint64) (*inbound.RecipeDTO, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, cacheKey(recipeID))
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Cache lookup failed", zap.Uint64("recipe_id", recipeID), zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}

	var dto inbound.RecipeDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		s.logger.Warn("Discarding undecodable cache entry", zap.Uint64("recipe_id", recipeID), zap.Error(err))
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}

	s.metrics.RecordCacheLookup(true)
	return &dto, true
}

func (s *RecipeService) toCache(ctx context.Context, dto *inbound.RecipeDTO) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(dto)
	if err != nil {
		s.logger.Warn("Failed to encode recipe for cache", zap.Uint64("recipe_id", dto.ID), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, cacheKey(dto.ID), data, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache recipe", zap.Uint64("recipe_id", dto.ID), zap.Error(err))
	}
}

func (s *RecipeService) invalidate(ctx context.Context, recipeID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(recipeID)); err != nil {
		s.logger.Warn("Failed to invalidate cached recipe", zap.Uint64("recipe_id", recipeID), zap.Error(err))
	}
}

func cacheKey(recipeID uint64) string {
	return fmt.Sprintf("recipe:%d", recipeID)
}

func validationError(err error) *apperrors.AppError {
	return apperrors.NewValidationError(err.Error()).WithCause(err)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

type nopMetrics struct{}

func (nopMetrics) RecordOperation(string, string)                    {}
func (nopMetrics) ObserveSearch([]string, int, time.Duration, error) {}
func (nopMetrics) RecordCacheLookup(bool)                            {}
