// Package recipe contains the core domain logic for recipe management.
// A recipe owns a set of shared ingredients; ingredients are identified by
// their exact name.
package recipe

import (
	"strings"
	"time"
)

// ID is the storage-assigned identity of a recipe or ingredient.
// Zero means "not persisted yet".
type ID uint64

// Details carries the caller-supplied attributes of a recipe.
type Details struct {
	Name            string
	Type            string
	ServingCapacity int
	Instructions    string
	IsVegetarian    bool
	Ingredients     []string
}

// Recipe represents the core recipe entity in our domain.
type Recipe struct {
	id ID

	name            string
	recipeType      string
	servingCapacity int
	instructions    string
	vegetarian      bool

	// set semantics: unique by name, order of first appearance
	ingredients []Ingredient

	createdAt time.Time
	updatedAt time.Time
}

// Snapshot is the full state of a recipe as read back from storage.
type Snapshot struct {
	ID              ID
	Name            string
	Type            string
	ServingCapacity int
	Instructions    string
	IsVegetarian    bool
	Ingredients     []Ingredient
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewRecipe creates a new, not yet persisted recipe.
func NewRecipe(d Details) (*Recipe, error) {
	r := &Recipe{}
	if err := r.apply(d); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r.createdAt = now
	r.updatedAt = now
	return r, nil
}

// Rehydrate rebuilds a recipe from storage without re-validating it.
func Rehydrate(s Snapshot) *Recipe {
	ingredients := make([]Ingredient, len(s.Ingredients))
	copy(ingredients, s.Ingredients)

	return &Recipe{
		id:              s.ID,
		name:            s.Name,
		recipeType:      s.Type,
		servingCapacity: s.ServingCapacity,
		instructions:    s.Instructions,
		vegetarian:      s.IsVegetarian,
		ingredients:     ingredients,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}
}

// Replace overwrites every attribute with d. Identity and creation time are kept.
func (r *Recipe) Replace(d Details) error {
	if err := r.apply(d); err != nil {
		return err
	}
	r.updatedAt = time.Now().UTC()
	return nil
}

func (r *Recipe) apply(d Details) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ErrNameRequired
	}
	recipeType := strings.TrimSpace(d.Type)
	if recipeType == "" {
		return ErrTypeRequired
	}
	if d.ServingCapacity < 1 {
		return ErrInvalidServingCapacity
	}
	if strings.TrimSpace(d.Instructions) == "" {
		return ErrInstructionsRequired
	}

	ingredients, err := newIngredientSet(d.Ingredients)
	if err != nil {
		return err
	}

	r.name = name
	r.recipeType = recipeType
	r.servingCapacity = d.ServingCapacity
	r.instructions = d.Instructions
	r.vegetarian = d.IsVegetarian
	r.ingredients = ingredients
	return nil
}

// AssignID records the identity handed out by storage. It may only happen once.
func (r *Recipe) AssignID(id ID) error {
	if id == 0 {
		return ErrInvalidID
	}
	if r.id != 0 && r.id != id {
		return ErrIDAlreadyAssigned
	}
	r.id = id
	return nil
}

// ResolveIngredients swaps the recipe's ingredients for their stored
// counterparts. resolved must hold exactly the same names.
func (r *Recipe) ResolveIngredients(resolved []Ingredient) error {
	if len(resolved) != len(r.ingredients) {
		return ErrIngredientMismatch
	}

	byName := make(map[string]Ingredient, len(resolved))
	for _, ing := range resolved {
		byName[ing.Name] = ing
	}

	next := make([]Ingredient, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		stored, ok := byName[ing.Name]
		if !ok {
			return ErrIngredientMismatch
		}
		next = append(next, stored)
	}

	r.ingredients = next
	return nil
}

// ID returns the recipe identity, zero when not persisted
func (r *Recipe) ID() ID { return r.id }

// Name returns the recipe name
func (r *Recipe) Name() string { return r.name }

// Type returns the recipe category, e.g. "Dinner"
func (r *Recipe) Type() string { return r.recipeType }

// ServingCapacity returns the number of servings
func (r *Recipe) ServingCapacity() int { return r.servingCapacity }

// Instructions returns the preparation text
func (r *Recipe) Instructions() string { return r.instructions }

// IsVegetarian reports whether the recipe is vegetarian
func (r *Recipe) IsVegetarian() bool { return r.vegetarian }

// CreatedAt returns the creation time
func (r *Recipe) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last modification time
func (r *Recipe) UpdatedAt() time.Time { return r.updatedAt }

// Ingredients returns a copy of the ingredient set
func (r *Recipe) Ingredients() []Ingredient {
	out := make([]Ingredient, len(r.ingredients))
	copy(out, r.ingredients)
	return out
}

// IngredientNames returns the names of the ingredient set
func (r *Recipe) IngredientNames() []string {
	names := make([]string, len(r.ingredients))
	for i, ing := range r.ingredients {
		names[i] = ing.Name
	}
	return names
}

// HasIngredient reports whether an ingredient with exactly this name is part of the recipe
func (r *Recipe) HasIngredient(name string) bool {
	for _, ing := range r.ingredients {
		if ing.Name == name {
			return true
		}
	}
	return false
}

// Snapshot exposes the full state for persistence mapping
func (r *Recipe) Snapshot() Snapshot {
	return Snapshot{
		ID:              r.id,
		Name:            r.name,
		Type:            r.recipeType,
		ServingCapacity: r.servingCapacity,
		Instructions:    r.instructions,
		IsVegetarian:    r.vegetarian,
		Ingredients:     r.Ingredients(),
		CreatedAt:       r.createdAt,
		UpdatedAt:       r.updatedAt,
	}
}
