package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrNameRequired           = errors.New("recipe name is required")
	ErrTypeRequired           = errors.New("recipe type is required")
	ErrInstructionsRequired   = errors.New("recipe instructions are required")
	ErrInvalidServingCapacity = errors.New("serving capacity must be greater than 0")
	ErrIngredientNameRequired = errors.New("ingredient name is required")

	// Identity errors
	ErrInvalidID          = errors.New("recipe id must be a positive integer")
	ErrIDAlreadyAssigned  = errors.New("recipe already has an id")
	ErrIngredientMismatch = errors.New("resolved ingredients do not match the recipe ingredient set")

	// Lookup errors
	ErrRecipeNotFound = errors.New("recipe not found")
)

// IsValidationError reports whether err was caused by invalid recipe input
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrTypeRequired),
		errors.Is(err, ErrInstructionsRequired),
		errors.Is(err, ErrInvalidServingCapacity),
		errors.Is(err, ErrIngredientNameRequired),
		errors.Is(err, ErrInvalidID):
		return true
	}
	return false
}
