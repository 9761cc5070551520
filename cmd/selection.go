package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/tayloree/petits-plats/internal/filter"
	"github.com/tayloree/petits-plats/internal/state"
)

type selection struct {
	category filter.Category
	value    string
}

func registerSelectionFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagQuery, "query", "q", "", "Search recipe names, ingredients, ustensils and appliances")
	f.StringArrayVarP(&flagIngredients, "ingredient", "i", nil, "Require an ingredient (repeatable; all must match)")
	f.StringArrayVarP(&flagAppliances, "appliance", "a", nil, "Accept an appliance (repeatable; any may match)")
	f.StringArrayVarP(&flagUstensils, "ustensil", "u", nil, "Require a ustensil (repeatable; all must match)")
	f.StringArrayVarP(&flagFilters, "filter", "f", nil, "Select CATEGORY=VALUE, e.g. ingredients=citron (repeatable)")
}

// selectionsFromFlags collects category selections in flag order. Unknown
// categories in --filter are rejected.
func selectionsFromFlags() ([]selection, error) {
	var out []selection
	add := func(c filter.Category, values []string) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, selection{category: c, value: v})
			}
		}
	}
	add(filter.Ingredients, flagIngredients)
	add(filter.Appliances, flagAppliances)
	add(filter.Ustensils, flagUstensils)

	for _, raw := range flagFilters {
		name, value, ok := strings.Cut(raw, "=")
		if !ok {
			name, value, ok = strings.Cut(raw, ":")
		}
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return nil, invalidArgsError(
				fmt.Sprintf("invalid --filter %q (use CATEGORY=VALUE)", raw),
				"plats --filter ingredients=citron",
				"plats --filter appliances=four",
			)
		}
		c, ok := filter.ParseCategory(name)
		if !ok {
			return nil, invalidArgsError(
				fmt.Sprintf("unknown filter category %q (use ingredients, appliances, or ustensils)", strings.TrimSpace(name)),
				"plats --filter ingredients=citron",
				"plats --filter ustensils=couteau",
			)
		}
		out = append(out, selection{category: c, value: value})
	}
	return out, nil
}

func applySelections(store *state.Store, query string, selections []selection) {
	store.SetSearchTerm(strings.TrimSpace(query))
	for _, s := range selections {
		store.Add(s.category, s.value)
	}
}

// selectionsFromActive flattens a snapshot back into selections, in category
// order with sorted values.
func selectionsFromActive(active state.ActiveFilters) []selection {
	var out []selection
	for _, c := range filter.Categories {
		for _, v := range active.Get(c).Values() {
			out = append(out, selection{category: c, value: v})
		}
	}
	return out
}

// parseCategoryArgs resolves positional category names; none means all.
func parseCategoryArgs(args []string) ([]filter.Category, error) {
	if len(args) == 0 {
		return filter.Categories, nil
	}
	out := make([]filter.Category, 0, len(args))
	seen := map[filter.Category]bool{}
	for _, arg := range args {
		c, ok := filter.ParseCategory(arg)
		if !ok {
			return nil, invalidArgsError(
				fmt.Sprintf("unknown filter category %q (use ingredients, appliances, or ustensils)", arg),
				"plats options ingredients",
				"plats options appareils ustensiles",
			)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}
