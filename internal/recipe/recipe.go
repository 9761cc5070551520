// Package recipe is the data-preparation boundary: it turns raw dataset
// records into the typed Recipe the filtering code works on.
package recipe

import (
	"path"
	"strings"

	"github.com/tayloree/petits-plats/internal/api"
)

// DefaultImageBase is the asset directory image URLs are built under.
const DefaultImageBase = "assets/images"

// Ingredient is one ingredient line of a recipe.
type Ingredient struct {
	Name     string
	Quantity float64
	UnitType string
}

// Image holds the rendering-only picture metadata.
type Image struct {
	Alt     string
	JPGURL  string
	WebPURL string
}

// Recipe is a prepared, read-only recipe record. Absent collections are
// empty slices, never nil.
type Recipe struct {
	ID          int
	Name        string
	Description string
	Servings    int
	Time        int
	Appliance   string
	Ingredients []Ingredient
	Ustensils   []string
	Image       Image

	search string
}

// Search returns the lower-cased search blob: name, ingredient names,
// utensils and appliance, space-joined. It is derived once by New.
func (r Recipe) Search() string {
	return r.search
}

// IngredientNames returns the ingredient names in dataset order.
func (r Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// New builds a Recipe from its raw dataset shape. It is the only way to get
// a populated search blob, so the blob always matches the structured fields.
func New(raw api.RawRecipe, imageBase string) Recipe {
	ingredients := make([]Ingredient, 0, len(raw.Ingredients))
	for _, ing := range raw.Ingredients {
		out := Ingredient{Name: ing.Ingredient}
		if ing.Quantity != nil {
			out.Quantity = *ing.Quantity
		}
		if ing.Unit != nil {
			out.UnitType = *ing.Unit
		}
		ingredients = append(ingredients, out)
	}

	ustensils := make([]string, 0, len(raw.Ustensils))
	ustensils = append(ustensils, raw.Ustensils...)

	r := Recipe{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Servings:    max(raw.Servings, 0),
		Time:        max(raw.Time, 0),
		Appliance:   raw.Appliance,
		Ingredients: ingredients,
		Ustensils:   ustensils,
		Image:       buildImage(raw.Name, raw.Image, imageBase),
	}
	r.search = buildSearch(r)
	return r
}

// Prepare converts a whole dataset, preserving order.
func Prepare(raws []api.RawRecipe, imageBase string) []Recipe {
	out := make([]Recipe, 0, len(raws))
	for _, raw := range raws {
		out = append(out, New(raw, imageBase))
	}
	return out
}

func buildSearch(r Recipe) string {
	parts := make([]string, 0, 2+len(r.Ingredients)+len(r.Ustensils))
	parts = append(parts, r.Name)
	for _, ing := range r.Ingredients {
		parts = append(parts, ing.Name)
	}
	parts = append(parts, r.Ustensils...)
	parts = append(parts, r.Appliance)
	return strings.ToLower(strings.Join(parts, " "))
}

func buildImage(name, file, base string) Image {
	img := Image{Alt: name}
	file = strings.TrimSpace(file)
	if file == "" {
		return img
	}
	if base == "" {
		base = DefaultImageBase
	}
	stem := strings.TrimSuffix(file, path.Ext(file))
	img.JPGURL = joinURL(base, "jpg", file)
	img.WebPURL = joinURL(base, "webp", stem+".webp")
	return img
}

// joinURL keeps a scheme prefix intact, which path.Join would collapse.
func joinURL(base string, elems ...string) string {
	base = strings.TrimRight(base, "/")
	return base + "/" + path.Join(elems...)
}
