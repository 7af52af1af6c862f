package gorm

import (
	"fmt"
	"strings"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscape is the LIKE escape character used by every substring predicate.
// '!' behaves the same on sqlite and postgres, unlike backslash.
const likeEscape = "!"

// Predicate is one search criterion rendered as a boolean SQL expression
// over the recipes table.
type Predicate struct {
	Criterion string
	Expr      clause.Expression
}

// Filter is the conjunction of the predicates of a criteria bundle.
// The zero Filter places no restriction.
type Filter struct {
	predicates []Predicate
}

type candidate struct {
	present bool
	build   func() Predicate
}

// BuildFilter translates the criteria into a Filter. Absent criteria
// contribute nothing. Each ingredient criterion gets its own correlated
// subquery, so "includes X" and "excludes Y" are never evaluated against
// the same joined row and the outer query never yields a recipe twice.
func BuildFilter(criteria recipe.SearchCriteria) Filter {
	c := criteria.Normalize()

	candidates := []candidate{
		{c.IsVegetarian != nil, func() Predicate {
			return Predicate{recipe.CriterionVegetarian, clause.Expr{
				SQL:  recipesTable + ".is_vegetarian = ?",
				Vars: []interface{}{*c.IsVegetarian},
			}}
		}},
		{c.ServingCapacity != nil, func() Predicate {
			return Predicate{recipe.CriterionServingCapacity, clause.Expr{
				SQL:  recipesTable + ".serving_capacity = ?",
				Vars: []interface{}{*c.ServingCapacity},
			}}
		}},
		{len(c.IncludeIngredients) > 0, func() Predicate {
			return Predicate{recipe.CriterionIncludeIngredients, clause.Expr{
				SQL:  "EXISTS (" + ingredientSubquery("inc", "i_inc.name IN ?") + ")",
				Vars: []interface{}{c.IncludeIngredients},
			}}
		}},
		{len(c.ExcludeIngredients) > 0, func() Predicate {
			return Predicate{recipe.CriterionExcludeIngredients, clause.Expr{
				SQL:  "NOT EXISTS (" + ingredientSubquery("exc", "i_exc.name IN ?") + ")",
				Vars: []interface{}{c.ExcludeIngredients},
			}}
		}},
		{c.Instructions != "", func() Predicate {
			return Predicate{recipe.CriterionInstructions, clause.Expr{
				SQL:  "LOWER(" + recipesTable + ".instructions) LIKE ? ESCAPE '" + likeEscape + "'",
				Vars: []interface{}{containsPattern(c.Instructions)},
			}}
		}},
		{c.IngredientName != "", func() Predicate {
			return Predicate{recipe.CriterionIngredientName, clause.Expr{
				SQL:  "EXISTS (" + ingredientSubquery("nam", "LOWER(i_nam.name) LIKE ? ESCAPE '"+likeEscape+"'") + ")",
				Vars: []interface{}{containsPattern(c.IngredientName)},
			}}
		}},
	}

	var f Filter
	for _, cand := range candidates {
		if cand.present {
			f.predicates = append(f.predicates, cand.build())
		}
	}
	return f
}

// ingredientSubquery selects the ingredient links of the outer recipe that
// satisfy cond. suffix keeps the aliases of sibling subqueries apart.
func ingredientSubquery(suffix, cond string) string {
	ri := "ri_" + suffix
	i := "i_" + suffix
	return fmt.Sprintf(
		"SELECT 1 FROM %s %s JOIN %s %s ON %s.id = %s.ingredient_id WHERE %s.recipe_id = %s.id AND %s",
		recipeIngredientTable, ri, ingredientsTable, i, i, ri, ri, recipesTable, cond,
	)
}

// containsPattern builds a lower-cased LIKE pattern matching s anywhere,
// with LIKE wildcards in s taken literally.
func containsPattern(s string) string {
	escaper := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return "%" + escaper.Replace(strings.ToLower(s)) + "%"
}

// Predicates returns the predicates in criterion order
func (f Filter) Predicates() []Predicate {
	out := make([]Predicate, len(f.predicates))
	copy(out, f.predicates)
	return out
}

// Criteria returns the names of the applied criteria
func (f Filter) Criteria() []string {
	names := make([]string, len(f.predicates))
	for i, p := range f.predicates {
		names[i] = p.Criterion
	}
	return names
}

// IsEmpty reports whether the filter matches every recipe
func (f Filter) IsEmpty() bool {
	return len(f.predicates) == 0
}

// Expression folds the predicates into one conjunction. It is nil when the
// filter is empty.
func (f Filter) Expression() clause.Expression {
	if f.IsEmpty() {
		return nil
	}
	exprs := make([]clause.Expression, len(f.predicates))
	for i, p := range f.predicates {
		exprs[i] = p.Expr
	}
	return clause.And(exprs...)
}

// Scope adds the filter to a query on the recipes table, for use with db.Scopes
func (f Filter) Scope(db *gorm.DB) *gorm.DB {
	expr := f.Expression()
	if expr == nil {
		return db
	}
	return db.Clauses(clause.Where{Exprs: []clause.Expression{expr}})
}
