package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tayloree/petits-plats/internal/browse"
	"github.com/tayloree/petits-plats/internal/filter"
	"github.com/tayloree/petits-plats/internal/recipe"
)

// Styles for terminal output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3")).Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// IngredientJSON is the JSON output shape for one ingredient line.
type IngredientJSON struct {
	Ingredient string   `json:"ingredient"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Unit       string   `json:"unit,omitempty"`
}

// ImageJSON is the JSON output shape for a recipe picture.
type ImageJSON struct {
	Alt  string `json:"alt"`
	JPG  string `json:"jpg,omitempty"`
	WebP string `json:"webp,omitempty"`
}

// RecipeJSON is the JSON output shape for a recipe.
type RecipeJSON struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Servings    int              `json:"servings"`
	Time        int              `json:"time"`
	Description string           `json:"description"`
	Appliance   string           `json:"appliance"`
	Ustensils   []string         `json:"ustensils"`
	Ingredients []IngredientJSON `json:"ingredients"`
	Image       ImageJSON        `json:"image"`
}

// ResultJSON wraps a recipe list with the counts shown in the header.
type ResultJSON struct {
	Count      int          `json:"count"`
	Total      int          `json:"total"`
	SearchTerm string       `json:"searchTerm,omitempty"`
	Tags       []browse.Tag `json:"tags"`
	Recipes    []RecipeJSON `json:"recipes"`
}

// CountLabel formats a recipe count the way the header shows it.
func CountLabel(n int) string {
	if n <= 1 {
		return fmt.Sprintf("%d recette", n)
	}
	return fmt.Sprintf("%d recettes", n)
}

// NoMatchMessage is shown when a search term leaves nothing to display.
func NoMatchMessage(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return "Aucune recette ne correspond à vos filtres"
	}
	return fmt.Sprintf("Aucune recette ne contient « %s », vous pouvez chercher « tarte aux pommes », « poisson », etc.", term)
}

// PrintRecipes renders recipe cards for a view. limit caps the number of
// cards (0 = all) without changing the reported count.
func PrintRecipes(w io.Writer, view browse.View, limit int) {
	fmt.Fprintf(w, "\n%s — %s\n",
		headerStyle.Render("Les Petits Plats"),
		cyanStyle.Render(CountLabel(len(view.Recipes))),
	)
	if len(view.Tags) > 0 {
		fmt.Fprintf(w, "%s\n", renderTags(view.Tags))
	}
	fmt.Fprintln(w)

	recipes := view.Recipes
	if limit > 0 && limit < len(recipes) {
		recipes = recipes[:limit]
	}
	for _, r := range recipes {
		printRecipe(w, r)
		fmt.Fprintln(w)
	}
	if hidden := len(view.Recipes) - len(recipes); hidden > 0 {
		fmt.Fprintf(w, "%s\n\n", dimStyle.Render(fmt.Sprintf("… et %s de plus (--limit 0 pour tout afficher)", CountLabel(hidden))))
	}
}

// PrintRecipesJSON renders a view as JSON.
func PrintRecipesJSON(w io.Writer, view browse.View, limit int) error {
	recipes := view.Recipes
	if limit > 0 && limit < len(recipes) {
		recipes = recipes[:limit]
	}
	out := ResultJSON{
		Count:      len(view.Recipes),
		Total:      view.Total,
		SearchTerm: strings.TrimSpace(view.SearchTerm),
		Tags:       view.Tags,
		Recipes:    make([]RecipeJSON, 0, len(recipes)),
	}
	if out.Tags == nil {
		out.Tags = []browse.Tag{}
	}
	for _, r := range recipes {
		out.Recipes = append(out.Recipes, toRecipeJSON(r))
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintTags renders the active selections as chips.
func PrintTags(w io.Writer, tags []browse.Tag) {
	if len(tags) == 0 {
		fmt.Fprintf(w, "%s\n", dimStyle.Render("Aucun filtre actif"))
		return
	}
	for _, c := range filter.Categories {
		var chips []string
		for _, tag := range tags {
			if tag.Category == c {
				chips = append(chips, tagStyle.Render(tag.Label))
			}
		}
		if len(chips) > 0 {
			fmt.Fprintf(w, "  %s: %s\n", titleStyle.Render(c.Label()), strings.Join(chips, " "))
		}
	}
}

// PrintTagsJSON renders the active selections as JSON.
func PrintTagsJSON(w io.Writer, tags []browse.Tag) error {
	if tags == nil {
		tags = []browse.Tag{}
	}
	return json.NewEncoder(w).Encode(tags)
}

// PrintOptions renders the dropdown option lists for the given categories.
func PrintOptions(w io.Writer, opts filter.Options, categories []filter.Category) {
	fmt.Fprintln(w)
	for _, c := range categories {
		values := opts.Get(c)
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render(c.Label()), dimStyle.Render(fmt.Sprintf("(%d)", len(values))))
		for _, v := range values {
			fmt.Fprintf(w, "  %s\n", cyanStyle.Render(v))
		}
		fmt.Fprintln(w)
	}
}

// PrintOptionsJSON renders option lists as JSON. Empty lists encode as [].
func PrintOptionsJSON(w io.Writer, opts filter.Options, categories []filter.Category) error {
	out := make(map[filter.Category][]string, len(categories))
	for _, c := range categories {
		values := opts.Get(c)
		if values == nil {
			values = []string{}
		}
		out[c] = values
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

// FormatQuantity renders an ingredient line like "Lait de coco: 400ml".
func FormatQuantity(ing recipe.Ingredient) string {
	if ing.Quantity == 0 {
		return ing.Name
	}
	qty := strconv.FormatFloat(ing.Quantity, 'f', -1, 64)
	unit := ing.UnitType
	switch {
	case unit == "":
	case len(unit) <= 2:
		qty += unit
	default:
		qty += " " + unit
	}
	return ing.Name + ": " + qty
}

func printRecipe(w io.Writer, r recipe.Recipe) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = fmt.Sprintf("Recette %d", r.ID)
	}
	fmt.Fprintf(w, "  %s  %s\n", titleStyle.Render(name), timeStyle.Render(fmt.Sprintf("%d min", r.Time)))

	var meta []string
	if r.Servings > 0 {
		meta = append(meta, fmt.Sprintf("%d pers.", r.Servings))
	}
	if r.Appliance != "" {
		meta = append(meta, r.Appliance)
	}
	if len(r.Ustensils) > 0 {
		meta = append(meta, strings.Join(r.Ustensils, ", "))
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(strings.Join(meta, " | ")))
	}

	if desc := strings.TrimSpace(r.Description); desc != "" {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(wordWrap(desc, 72, "    ")))
	}

	for _, ing := range r.Ingredients {
		fmt.Fprintf(w, "    • %s\n", FormatQuantity(ing))
	}
}

func renderTags(tags []browse.Tag) string {
	chips := make([]string, 0, len(tags))
	for _, tag := range tags {
		chips = append(chips, tagStyle.Render(tag.Label))
	}
	return strings.Join(chips, " ")
}

func toRecipeJSON(r recipe.Recipe) RecipeJSON {
	ingredients := make([]IngredientJSON, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		out := IngredientJSON{Ingredient: ing.Name, Unit: ing.UnitType}
		if ing.Quantity != 0 {
			q := ing.Quantity
			out.Quantity = &q
		}
		ingredients = append(ingredients, out)
	}
	ustensils := r.Ustensils
	if ustensils == nil {
		ustensils = []string{}
	}
	return RecipeJSON{
		ID:          r.ID,
		Name:        r.Name,
		Servings:    r.Servings,
		Time:        r.Time,
		Description: r.Description,
		Appliance:   r.Appliance,
		Ustensils:   ustensils,
		Ingredients: ingredients,
		Image: ImageJSON{
			Alt:  r.Image.Alt,
			JPG:  r.Image.JPGURL,
			WebP: r.Image.WebPURL,
		},
	}
}

func wordWrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n"+indent)
}
