package filter

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tayloree/petits-plats/internal/recipe"
)

// Options are the values each dropdown can still offer.
type Options struct {
	Ingredients []string `json:"ingredients"`
	Appliances  []string `json:"appliances"`
	Ustensils   []string `json:"ustensils"`
}

// Get returns the option list for c.
func (o Options) Get(c Category) []string {
	switch c {
	case Ingredients:
		return o.Ingredients
	case Appliances:
		return o.Appliances
	case Ustensils:
		return o.Ustensils
	default:
		return nil
	}
}

// Facets collects the distinct ingredient, appliance and utensil values of
// the visible recipes, minus the ones already selected. Values are merged
// by Normalize, the key the category filters match on, so every option
// selects exactly the recipes that contributed it. Labels are capitalized
// and sorted in French order.
func Facets(visible []recipe.Recipe, active Filters) Options {
	ingredients := newFacet(active.Ingredients)
	appliances := newFacet(active.Appliances)
	ustensils := newFacet(active.Ustensils)

	for _, r := range visible {
		for _, ing := range r.Ingredients {
			ingredients.add(ing.Name)
		}
		appliances.add(r.Appliance)
		for _, u := range r.Ustensils {
			ustensils.add(u)
		}
	}

	col := collate.New(language.French, collate.IgnoreCase)
	return Options{
		Ingredients: ingredients.sorted(col),
		Appliances:  appliances.sorted(col),
		Ustensils:   ustensils.sorted(col),
	}
}

// SearchOptions narrows an option list to labels containing query, ignoring
// case and accents.
func SearchOptions(options []string, query string) []string {
	q := NormalizeText(query)
	if q == "" {
		return options
	}
	var out []string
	for _, opt := range options {
		if strings.Contains(NormalizeText(opt), q) {
			out = append(out, opt)
		}
	}
	return out
}

type facet struct {
	excluded map[string]struct{}
	seen     map[string]struct{}
	labels   []string
}

func newFacet(selected Set) *facet {
	f := &facet{
		excluded: make(map[string]struct{}, len(selected)),
		seen:     make(map[string]struct{}),
	}
	for v := range selected {
		f.excluded[Normalize(v)] = struct{}{}
	}
	return f
}

func (f *facet) add(value string) {
	key := Normalize(value)
	if key == "" {
		return
	}
	if _, ok := f.excluded[key]; ok {
		return
	}
	if _, ok := f.seen[key]; ok {
		return
	}
	f.seen[key] = struct{}{}
	f.labels = append(f.labels, Capitalize(value))
}

func (f *facet) sorted(col *collate.Collator) []string {
	out := make([]string, len(f.labels))
	copy(out, f.labels)
	col.SortStrings(out)
	return out
}
