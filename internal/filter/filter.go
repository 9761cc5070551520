package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tayloree/petits-plats/internal/recipe"
)

// Filters holds the three category selections. A nil Set skips its stage.
type Filters struct {
	Ingredients Set
	Appliances  Set
	Ustensils   Set
}

// Get returns the selection for c, or nil for an unknown category.
func (f Filters) Get(c Category) Set {
	switch c {
	case Ingredients:
		return f.Ingredients
	case Appliances:
		return f.Appliances
	case Ustensils:
		return f.Ustensils
	default:
		return nil
	}
}

// Clone deep-copies every selection.
func (f Filters) Clone() Filters {
	return Filters{
		Ingredients: f.Ingredients.Clone(),
		Appliances:  f.Appliances.Clone(),
		Ustensils:   f.Ustensils.Clone(),
	}
}

// Query bundles a free-text search term with the category selections.
type Query struct {
	SearchTerm string
	Filters
}

// Apply narrows recipes by a search term and the category filters, in the
// order search, ingredients, appliances, ustensils. Surviving recipes keep
// their input order. With nothing active the input is returned as is.
func Apply(recipes []recipe.Recipe, searchTerm string, filters Filters) []recipe.Recipe {
	m := newMatcher(searchTerm, filters)
	if !m.active() {
		return recipes
	}
	return where(recipes, m.matches)
}

// ApplyQuery is Apply for callers holding the search term inside the query.
func ApplyQuery(recipes []recipe.Recipe, q Query) []recipe.Recipe {
	return Apply(recipes, q.SearchTerm, q.Filters)
}

// BySearchTerm keeps recipes whose search blob contains the normalized term.
func BySearchTerm(recipes []recipe.Recipe, term string) []recipe.Recipe {
	q := Normalize(term)
	if q == "" {
		return recipes
	}
	return where(recipes, func(r recipe.Recipe) bool {
		return matchesSearch(r, q)
	})
}

// ByIngredients keeps recipes that have an ingredient for every selected value.
func ByIngredients(recipes []recipe.Recipe, selected []string) []recipe.Recipe {
	wanted := normalizeAll(selected)
	if len(wanted) == 0 {
		return recipes
	}
	return where(recipes, func(r recipe.Recipe) bool {
		return hasAllIngredients(r, wanted)
	})
}

// ByAppliances keeps recipes whose appliance equals any selected value.
func ByAppliances(recipes []recipe.Recipe, selected []string) []recipe.Recipe {
	wanted := normalizeAll(selected)
	if len(wanted) == 0 {
		return recipes
	}
	return where(recipes, func(r recipe.Recipe) bool {
		return hasAnyAppliance(r, wanted)
	})
}

// ByUstensils keeps recipes that list every selected utensil.
func ByUstensils(recipes []recipe.Recipe, selected []string) []recipe.Recipe {
	wanted := normalizeAll(selected)
	if len(wanted) == 0 {
		return recipes
	}
	return where(recipes, func(r recipe.Recipe) bool {
		return hasAllUstensils(r, wanted)
	})
}

// matcher evaluates every active stage in one pass, so Apply never builds
// the intermediate slices the per-stage functions would.
type matcher struct {
	term        string
	ingredients []string
	appliances  []string
	ustensils   []string
}

func newMatcher(searchTerm string, f Filters) matcher {
	return matcher{
		term:        Normalize(searchTerm),
		ingredients: normalizeAll(f.Ingredients.Values()),
		appliances:  normalizeAll(f.Appliances.Values()),
		ustensils:   normalizeAll(f.Ustensils.Values()),
	}
}

func (m matcher) active() bool {
	return m.term != "" || len(m.ingredients) > 0 || len(m.appliances) > 0 || len(m.ustensils) > 0
}

func (m matcher) matches(r recipe.Recipe) bool {
	if m.term != "" && !matchesSearch(r, m.term) {
		return false
	}
	if len(m.ingredients) > 0 && !hasAllIngredients(r, m.ingredients) {
		return false
	}
	if len(m.appliances) > 0 && !hasAnyAppliance(r, m.appliances) {
		return false
	}
	if len(m.ustensils) > 0 && !hasAllUstensils(r, m.ustensils) {
		return false
	}
	return true
}

func matchesSearch(r recipe.Recipe, term string) bool {
	blob := r.Search()
	return blob != "" && strings.Contains(blob, term)
}

func hasAllIngredients(r recipe.Recipe, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, ing := range r.Ingredients {
			if sameValue(ing.Name, w) {
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

func hasAnyAppliance(r recipe.Recipe, wanted []string) bool {
	if strings.TrimSpace(r.Appliance) == "" {
		return false
	}
	for _, w := range wanted {
		if sameValue(r.Appliance, w) {
			return true
		}
	}
	return false
}

func hasAllUstensils(r recipe.Recipe, wanted []string) bool {
	for _, w := range wanted {
		if !containsNormalized(r.Ustensils, w) {
			return false
		}
	}
	return true
}

func normalizeAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, Normalize(v))
	}
	return out
}

func where(items []recipe.Recipe, fn func(recipe.Recipe) bool) []recipe.Recipe {
	var result []recipe.Recipe
	for _, item := range items {
		if fn(item) {
			result = append(result, item)
		}
	}
	return result
}

// containsNormalized reports whether any element of slice matches the
// already normalized want.
func containsNormalized(slice []string, want string) bool {
	for _, s := range slice {
		if sameValue(s, want) {
			return true
		}
	}
	return false
}

// sameValue reports whether Normalize(field) == normalized without
// allocating the lower-cased copy. Runes are lowered with unicode.ToLower,
// as strings.ToLower does, so "İ" matches "i" here exactly when Normalize
// says so.
func sameValue(field, normalized string) bool {
	for _, r := range strings.TrimSpace(field) {
		n, size := utf8.DecodeRuneInString(normalized)
		if size == 0 || unicode.ToLower(r) != n {
			return false
		}
		normalized = normalized[size:]
	}
	return normalized == ""
}
