package recipe

import "strings"

// Names of the search criteria, used in logs, metrics and spans.
const (
	CriterionVegetarian         = "isVegetarian"
	CriterionServingCapacity    = "servingCapacity"
	CriterionIncludeIngredients = "includeIngredients"
	CriterionExcludeIngredients = "excludeIngredients"
	CriterionInstructions       = "instructions"
	CriterionIngredientName     = "ingredientName"
)

// SearchCriteria is the bundle of optional search filters. Every field is
// independently optional: nil pointers, empty sets and blank strings mean
// "no restriction". Present criteria are combined with AND.
type SearchCriteria struct {
	IsVegetarian       *bool
	ServingCapacity    *int
	IncludeIngredients []string
	ExcludeIngredients []string
	Instructions       string
	IngredientName     string
}

// Normalize trims text criteria, drops blank names and deduplicates the
// ingredient sets. Whitespace-only text counts as absent.
func (c SearchCriteria) Normalize() SearchCriteria {
	out := SearchCriteria{
		IsVegetarian:       c.IsVegetarian,
		ServingCapacity:    c.ServingCapacity,
		IncludeIngredients: normalizeNames(c.IncludeIngredients),
		ExcludeIngredients: normalizeNames(c.ExcludeIngredients),
		Instructions:       c.Instructions,
		IngredientName:     c.IngredientName,
	}
	if strings.TrimSpace(out.Instructions) == "" {
		out.Instructions = ""
	}
	if strings.TrimSpace(out.IngredientName) == "" {
		out.IngredientName = ""
	}
	return out
}

// Applied lists the names of the criteria that restrict the result, in a fixed order.
func (c SearchCriteria) Applied() []string {
	n := c.Normalize()

	applied := make([]string, 0, 6)
	if n.IsVegetarian != nil {
		applied = append(applied, CriterionVegetarian)
	}
	if n.ServingCapacity != nil {
		applied = append(applied, CriterionServingCapacity)
	}
	if len(n.IncludeIngredients) > 0 {
		applied = append(applied, CriterionIncludeIngredients)
	}
	if len(n.ExcludeIngredients) > 0 {
		applied = append(applied, CriterionExcludeIngredients)
	}
	if n.Instructions != "" {
		applied = append(applied, CriterionInstructions)
	}
	if n.IngredientName != "" {
		applied = append(applied, CriterionIngredientName)
	}
	return applied
}

// IsEmpty reports whether no criterion is present
func (c SearchCriteria) IsEmpty() bool {
	return len(c.Applied()) == 0
}

// Matches evaluates the criteria against a single recipe in memory.
// Storage backed search must agree with it.
func (c SearchCriteria) Matches(r *Recipe) bool {
	n := c.Normalize()

	if n.IsVegetarian != nil && r.IsVegetarian() != *n.IsVegetarian {
		return false
	}
	if n.ServingCapacity != nil && r.ServingCapacity() != *n.ServingCapacity {
		return false
	}
	if len(n.IncludeIngredients) > 0 && !r.hasAnyIngredient(n.IncludeIngredients) {
		return false
	}
	if len(n.ExcludeIngredients) > 0 && r.hasAnyIngredient(n.ExcludeIngredients) {
		return false
	}
	if n.Instructions != "" && !containsFold(r.Instructions(), n.Instructions) {
		return false
	}
	if n.IngredientName != "" {
		found := false
		for _, ing := range r.ingredients {
			if containsFold(ing.Name, n.IngredientName) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *Recipe) hasAnyIngredient(names []string) bool {
	for _, name := range names {
		if r.HasIngredient(name) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func normalizeNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
