// Package gorm provides GORM model definitions and repositories for the
// recipe book: recipes, shared ingredients and the join table linking them.
package gorm

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Table names shared by models, predicates and migrations.
const (
	recipesTable          = "recipes"
	ingredientsTable      = "ingredients"
	recipeIngredientTable = "recipe_ingredient"
)

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"type:varchar(255);not null"`
	Type            string `gorm:"type:varchar(100);not null"`
	ServingCapacity int    `gorm:"not null;index"`
	Instructions    string `gorm:"type:text;not null"`
	IsVegetarian    bool   `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Relationships
	Ingredients []IngredientModel `gorm:"many2many:recipe_ingredient;joinForeignKey:RecipeID;joinReferences:IngredientID"`
}

// IngredientModel represents the GORM model for ingredients. Name is unique.
type IngredientModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time
}

// RecipeIngredientModel is one (recipe, ingredient) edge
type RecipeIngredientModel struct {
	RecipeID     uint `gorm:"primaryKey"`
	IngredientID uint `gorm:"primaryKey;index"`
}

// TableName methods for custom table names
func (RecipeModel) TableName() string           { return recipesTable }
func (IngredientModel) TableName() string       { return ingredientsTable }
func (RecipeIngredientModel) TableName() string { return recipeIngredientTable }

// RegisterJoinTable tells GORM to use RecipeIngredientModel for the
// recipe/ingredient association. It must run before the association is used.
func RegisterJoinTable(db *gorm.DB) error {
	if err := db.SetupJoinTable(&RecipeModel{}, "Ingredients", &RecipeIngredientModel{}); err != nil {
		return fmt.Errorf("failed to set up recipe_ingredient join table: %w", err)
	}
	return nil
}

// AutoMigrate creates or updates the recipe book tables
func AutoMigrate(db *gorm.DB) error {
	if err := RegisterJoinTable(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(&IngredientModel{}, &RecipeModel{}, &RecipeIngredientModel{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
