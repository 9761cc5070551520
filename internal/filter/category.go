package filter

import "strings"

// Category names one of the three multi-select filters.
type Category string

const (
	Ingredients Category = "ingredients"
	Appliances  Category = "appliances"
	Ustensils   Category = "ustensils"
)

// Categories lists the filter categories in display order.
var Categories = []Category{Ingredients, Appliances, Ustensils}

var categorySynonyms = map[Category][]string{
	Ingredients: {"ingredient", "ingrédient", "ingrédients", "ing"},
	Appliances:  {"appliance", "appareil", "appareils", "device"},
	Ustensils:   {"ustensil", "utensil", "utensils", "ustensile", "ustensiles", "tool", "tools"},
}

// Label returns the display name of the category.
func (c Category) Label() string {
	switch c {
	case Ingredients:
		return "Ingrédients"
	case Appliances:
		return "Appareils"
	case Ustensils:
		return "Ustensiles"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the three recognised categories.
func (c Category) Valid() bool {
	_, ok := categorySynonyms[c]
	return ok
}

// ParseCategory resolves a user supplied category name, accepting singular
// forms, the "utensils" spelling and French names.
func ParseCategory(raw string) (Category, bool) {
	norm := normalizeCategory(raw)
	if norm == "" {
		return "", false
	}
	for _, c := range Categories {
		if normalizeCategory(string(c)) == norm {
			return c, true
		}
		for _, s := range categorySynonyms[c] {
			if normalizeCategory(s) == norm {
				return c, true
			}
		}
	}
	return "", false
}

func normalizeCategory(raw string) string {
	s := NormalizeText(raw)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") {
		s = strings.TrimSuffix(s, "s")
	}
	return s
}
