package api_test

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/petits-plats/internal/api"
)

func qty(v float64) *float64 { return &v }
func unit(s string) *string  { return &s }

func sampleRecipes() []api.RawRecipe {
	return []api.RawRecipe{
		{
			ID:        1,
			Name:      "Limonade de Coco",
			Servings:  1,
			Time:      10,
			Appliance: "Blender",
			Image:     "Recette01.jpg",
			Ingredients: []api.RawIngredient{
				{Ingredient: "Lait de coco", Quantity: qty(400), Unit: unit("ml")},
				{Ingredient: "Glaçons"},
			},
			Ustensils: []string{"verres", "presse citron"},
		},
		{
			ID:        2,
			Name:      "Tarte au thon",
			Appliance: "Four",
			Ingredients: []api.RawIngredient{
				{Ingredient: "Tomate", Quantity: qty(2)},
			},
			Ustensils: []string{"couteau"},
		},
	}
}

func newTestRecipeServer(t *testing.T, payload any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
}

func TestFetchRecipes_Remote(t *testing.T) {
	srv := newTestRecipeServer(t, sampleRecipes())
	defer srv.Close()

	client := api.NewClient(nil)
	recipes, err := client.FetchRecipes(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Limonade de Coco", recipes[0].Name)
	assert.Equal(t, "Lait de coco", recipes[0].Ingredients[0].Ingredient)
	assert.Equal(t, 400.0, *recipes[0].Ingredients[0].Quantity)
	assert.Nil(t, recipes[0].Ingredients[1].Quantity)
	assert.Nil(t, recipes[0].Ingredients[1].Unit)
}

func TestFetchRecipes_WrappedObject(t *testing.T) {
	srv := newTestRecipeServer(t, api.RecipesResponse{Recipes: sampleRecipes()})
	defer srv.Close()

	recipes, err := api.NewClient(nil).FetchRecipes(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Len(t, recipes, 2)
	assert.Equal(t, "Four", recipes[1].Appliance)
}

func TestFetchRecipes_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := api.NewClient(nil).FetchRecipes(context.Background(), srv.URL)

	var srcErr *api.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, api.StageStatus, srcErr.Stage)
	assert.Equal(t, http.StatusInternalServerError, srcErr.Status)
	assert.True(t, srcErr.Retryable())
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestFetchRecipes_ClientErrorIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := api.NewClient(nil).FetchRecipes(context.Background(), srv.URL)

	var srcErr *api.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, http.StatusNotFound, srcErr.Status)
	assert.False(t, srcErr.Retryable())
}

func TestFetchRecipes_EmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"recipes": []}`))
	}))
	defer srv.Close()

	_, err := api.NewClient(nil).FetchRecipes(context.Background(), srv.URL)

	assert.ErrorIs(t, err, api.ErrNoRecipes)
	assert.Contains(t, err.Error(), srv.URL)
}

func TestFetchRecipes_TrailingContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[] {"extra": true}`))
	}))
	defer srv.Close()

	_, err := api.NewClient(nil).FetchRecipes(context.Background(), srv.URL)

	var srcErr *api.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, api.StageDecode, srcErr.Stage)
	assert.False(t, srcErr.Retryable())
	assert.Contains(t, err.Error(), "trailing JSON content")
}

func TestFetchRecipes_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.json")
	data, err := json.Marshal(sampleRecipes())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	recipes, err := api.NewClient(nil).FetchRecipes(context.Background(), path)

	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestFetchRecipes_MissingFile(t *testing.T) {
	_, err := api.NewClient(nil).FetchRecipes(context.Background(), filepath.Join(t.TempDir(), "nope.json"))

	assert.ErrorIs(t, err, fs.ErrNotExist)
	var srcErr *api.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, api.StageRead, srcErr.Stage)
	assert.False(t, srcErr.Retryable(), "a missing file stays missing")
}

func TestFetchRecipes_Embedded(t *testing.T) {
	recipes, err := api.NewClient(nil).FetchRecipes(context.Background(), "")

	require.NoError(t, err)
	assert.NotEmpty(t, recipes)
	for _, r := range recipes {
		assert.NotZero(t, r.ID)
		assert.NotEmpty(t, r.Name)
	}
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "embedded", api.SourceLabel(""))
	assert.Equal(t, "embedded", api.SourceLabel("   "))
	assert.Equal(t, "data/recipes.json", api.SourceLabel("data/recipes.json"))
}

func TestIsLocalFile(t *testing.T) {
	assert.False(t, api.IsLocalFile(""))
	assert.False(t, api.IsLocalFile(" embedded "))
	assert.False(t, api.IsLocalFile("https://example.com/recipes.json"))
	assert.False(t, api.IsLocalFile("HTTP://example.com/recipes.json"))
	assert.True(t, api.IsLocalFile("./data/recipes.json"))
}
