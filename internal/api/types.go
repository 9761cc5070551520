package api

// RecipesResponse is the object wrapper some recipe feeds use instead of a
// bare top-level array.
type RecipesResponse struct {
	Recipes []RawRecipe `json:"recipes"`
}

// RawRecipe is a recipe exactly as it appears in the JSON dataset.
type RawRecipe struct {
	ID          int             `json:"id"`
	Image       string          `json:"image"`
	Name        string          `json:"name"`
	Servings    int             `json:"servings"`
	Ingredients []RawIngredient `json:"ingredients"`
	Time        int             `json:"time"`
	Description string          `json:"description"`
	Appliance   string          `json:"appliance"`
	Ustensils   []string        `json:"ustensils"`
}

// RawIngredient is one ingredient line of a raw recipe. Quantity and unit are
// optional in the dataset.
type RawIngredient struct {
	Ingredient string   `json:"ingredient"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Unit       *string  `json:"unit,omitempty"`
}
