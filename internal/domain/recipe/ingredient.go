package recipe

import "strings"

// Ingredient is shared between recipes. Two ingredients with the same
// name are the same ingredient.
type Ingredient struct {
	ID   ID
	Name string
}

// NewIngredient creates an ingredient that has not been stored yet
func NewIngredient(name string) (Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ingredient{}, ErrIngredientNameRequired
	}
	return Ingredient{Name: name}, nil
}

// IsPersisted reports whether storage has assigned an identity
func (i Ingredient) IsPersisted() bool {
	return i.ID != 0
}

func newIngredientSet(names []string) ([]Ingredient, error) {
	seen := make(map[string]struct{}, len(names))
	set := make([]Ingredient, 0, len(names))
	for _, raw := range names {
		ing, err := NewIngredient(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[ing.Name]; dup {
			continue
		}
		seen[ing.Name] = struct{}{}
		set = append(set, ing)
	}
	return set, nil
}
