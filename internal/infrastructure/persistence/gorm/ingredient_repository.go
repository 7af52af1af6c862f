package gorm

import (
	"context"
	"errors"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngredientRepository implements the ingredient repository interface using GORM
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// FindByName finds an ingredient by exact name
func (r *IngredientRepository) FindByName(ctx context.Context, name string) (*recipe.Ingredient, error) {
	var model IngredientModel

	result := r.db.WithContext(ctx).Where("name = ?", name).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	ing := ModelToIngredient(model)
	return &ing, nil
}

// Create inserts the ingredient with ON CONFLICT (name) DO NOTHING and reads
// back the winning row, so concurrent creators of one name share one ID.
func (r *IngredientRepository) Create(ctx context.Context, ing *recipe.Ingredient) error {
	model := IngredientModel{Name: ing.Name}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 && model.ID != 0 {
			return nil
		}

		model = IngredientModel{}
		return tx.Where("name = ?", ing.Name).First(&model).Error
	})
	if err != nil {
		return err
	}

	ing.ID = recipe.ID(model.ID)
	return nil
}

// FindAll lists every ingredient ordered by name
func (r *IngredientRepository) FindAll(ctx context.Context) ([]recipe.Ingredient, error) {
	var models []IngredientModel

	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}

	ingredients := make([]recipe.Ingredient, 0, len(models))
	for _, m := range models {
		ingredients = append(ingredients, ModelToIngredient(m))
	}
	return ingredients, nil
}
