package recipe

import (
	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
)

func toDetails(cmd inbound.RecipeCommand) recipe.Details {
	return recipe.Details{
		Name:            cmd.Name,
		Type:            cmd.Type,
		ServingCapacity: cmd.ServingCapacity,
		Instructions:    cmd.Instructions,
		IsVegetarian:    cmd.IsVegetarian,
		Ingredients:     cmd.Ingredients,
	}
}

func toCriteria(q inbound.SearchQuery) recipe.SearchCriteria {
	return recipe.SearchCriteria{
		IsVegetarian:       q.IsVegetarian,
		ServingCapacity:    q.ServingCapacity,
		IncludeIngredients: q.IncludeIngredients,
		ExcludeIngredients: q.ExcludeIngredients,
		Instructions:       q.Instructions,
		IngredientName:     q.IngredientName,
	}
}

func toDTO(r *recipe.Recipe) inbound.RecipeDTO {
	ingredients := r.Ingredients()
	dto := inbound.RecipeDTO{
		ID:              uint64(r.ID()),
		Name:            r.Name(),
		Type:            r.Type(),
		ServingCapacity: r.ServingCapacity(),
		Instructions:    r.Instructions(),
		IsVegetarian:    r.IsVegetarian(),
		Ingredients:     make([]inbound.IngredientDTO, 0, len(ingredients)),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
	}
	for _, ing := range ingredients {
		dto.Ingredients = append(dto.Ingredients, inbound.IngredientDTO{ID: uint64(ing.ID), Name: ing.Name})
	}
	return dto
}

func toDTOs(recipes []*recipe.Recipe) []inbound.RecipeDTO {
	dtos := make([]inbound.RecipeDTO, 0, len(recipes))
	for _, r := range recipes {
		dtos = append(dtos, toDTO(r))
	}
	return dtos
}

// uniqueByID drops repeated recipe identities, keeping first occurrences in order
func uniqueByID(recipes []*recipe.Recipe) []*recipe.Recipe {
	seen := make(map[recipe.ID]struct{}, len(recipes))
	out := make([]*recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if _, dup := seen[r.ID()]; dup {
			continue
		}
		seen[r.ID()] = struct{}{}
		out = append(out, r)
	}
	return out
}
