package cmd

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tayloree/petits-plats/internal/api"
	"github.com/tayloree/petits-plats/internal/config"
	"github.com/tayloree/petits-plats/internal/filter"
	"github.com/tayloree/petits-plats/internal/recipe"
	"github.com/tayloree/petits-plats/internal/state"
)

func testRecipe(id int, name, appliance string, ingredients, ustensils []string) recipe.Recipe {
	ings := make([]api.RawIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		ings = append(ings, api.RawIngredient{Ingredient: ing})
	}
	return recipe.New(api.RawRecipe{
		ID:          id,
		Name:        name,
		Appliance:   appliance,
		Ingredients: ings,
		Ustensils:   ustensils,
		Time:        20,
	}, "")
}

func tuiSample() []recipe.Recipe {
	return []recipe.Recipe{
		testRecipe(1, "Tarte au thon", "Four", []string{"Thon", "Tomate"}, []string{"couteau"}),
		testRecipe(2, "Tarte aux pommes", "Four", []string{"Pomme", "Sucre"}, []string{"saladier"}),
		testRecipe(3, "Soupe de tomates", "Casserole", []string{"Tomate", "Ail"}, []string{"couteau"}),
	}
}

func loadedTUIModel(t *testing.T) recipesTUIModel {
	t.Helper()
	a := &app{cfg: &config.Config{}, log: zap.NewNop()}
	m := newLoadingRecipesTUIModel(tuiLoadConfig{ctx: context.Background(), app: a})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.(recipesTUIModel).Update(tuiDataLoadedMsg{recipes: tuiSample()})
	loaded := next.(recipesTUIModel)
	t.Cleanup(loaded.close)
	return loaded
}

func press(t *testing.T, m recipesTUIModel, keys ...string) recipesTUIModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(recipesTUIModel)
	}
	return m
}

func viewIDs(m recipesTUIModel) []int {
	out := make([]int, 0, len(m.view.Recipes))
	for _, r := range m.view.Recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestBuildGroupedListItems_LargestApplianceFirst(t *testing.T) {
	items, starts := buildGroupedListItems(tuiSample())

	require.Len(t, items, 5)
	assert.Equal(t, []int{0, 3}, starts)

	header, ok := items[0].(tuiGroupItem)
	require.True(t, ok)
	assert.Equal(t, "Four", header.name)
	assert.Equal(t, 2, header.count)
	assert.Equal(t, 1, header.ordinal)

	first, ok := items[1].(tuiRecipeItem)
	require.True(t, ok)
	assert.Equal(t, 1, first.recipe.ID)

	header2, ok := items[3].(tuiGroupItem)
	require.True(t, ok)
	assert.Equal(t, "Casserole", header2.name)
	assert.Equal(t, 2, header2.ordinal)
}

func TestBuildGroupedListItems_Empty(t *testing.T) {
	items, starts := buildGroupedListItems(nil)

	assert.Empty(t, items)
	assert.Empty(t, starts)
}

func TestRecipeGroupLabel_NoAppliance(t *testing.T) {
	r := testRecipe(9, "Salade", "", nil, nil)
	assert.Equal(t, "Sans appareil", recipeGroupLabel(r))
}

func TestOptionFilter_IgnoresCaseAndAccents(t *testing.T) {
	ranks := optionFilter("CRE", []string{"Crème fraîche", "Sucre", "Beurre"})

	require.Len(t, ranks, 2)
	assert.Equal(t, 0, ranks[0].Index)
	assert.Equal(t, 1, ranks[1].Index)

	assert.Len(t, optionFilter("", []string{"a", "b"}), 2)
}

func TestSelectionsFromActive_CategoryOrder(t *testing.T) {
	store := state.NewStore(nil)
	store.Add(filter.Ustensils, "couteau")
	store.Add(filter.Ingredients, "Tomate")
	store.Add(filter.Ingredients, "Ail")

	got := selectionsFromActive(store.Snapshot())

	assert.Equal(t, []selection{
		{category: filter.Ingredients, value: "Ail"},
		{category: filter.Ingredients, value: "Tomate"},
		{category: filter.Ustensils, value: "couteau"},
	}, got)
}

func TestRenderRecipeDetailContent(t *testing.T) {
	qty := 400.0
	unit := "ml"
	r := recipe.New(api.RawRecipe{
		ID:          1,
		Name:        "Limonade de Coco",
		Servings:    1,
		Time:        10,
		Appliance:   "Blender",
		Description: "Mettre les glaçons à votre goût dans le blender.",
		Ingredients: []api.RawIngredient{
			{Ingredient: "Lait de coco", Quantity: &qty, Unit: &unit},
			{Ingredient: "Glaçons"},
		},
		Ustensils: []string{"verres"},
	}, "")

	content := renderRecipeDetailContent(r, 80)

	assert.Contains(t, content, "Limonade de Coco")
	assert.Contains(t, content, "10 min")
	assert.Contains(t, content, "Blender")
	assert.Contains(t, content, "Lait de coco: 400ml")
	assert.Contains(t, content, "Glaçons")
	assert.Contains(t, content, "verres")
	assert.Contains(t, content, "glaçons à votre goût")
}

func TestRecipesTUIModel_LoadStartsSession(t *testing.T) {
	m := loadedTUIModel(t)

	assert.False(t, m.loading)
	require.NotNil(t, m.session)
	assert.Equal(t, []int{1, 2, 3}, viewIDs(m))
	assert.Equal(t, 3, m.view.Total)
}

func TestRecipesTUIModel_SearchIsDebounced(t *testing.T) {
	m := loadedTUIModel(t)

	m = press(t, m, "/", "t", "h", "o", "n")
	require.Equal(t, tuiFocusSearch, m.focus)
	assert.Equal(t, "thon", m.search.Value())
	assert.Equal(t, []int{1, 2, 3}, viewIDs(m), "typing alone must not filter")

	stale := m.searchSeq - 1
	next, _ := m.Update(tuiSearchTickMsg{seq: stale})
	m = next.(recipesTUIModel)
	assert.Equal(t, "", m.session.Store().SearchTerm())
	assert.Equal(t, []int{1, 2, 3}, viewIDs(m))

	next, _ = m.Update(tuiSearchTickMsg{seq: m.searchSeq})
	m = next.(recipesTUIModel)
	assert.Equal(t, "thon", m.session.Store().SearchTerm())
	assert.Equal(t, []int{1}, viewIDs(m))
}

func TestRecipesTUIModel_EnterAppliesSearchImmediately(t *testing.T) {
	m := loadedTUIModel(t)

	m = press(t, m, "/", "t", "o", "m", "enter")

	assert.Equal(t, tuiFocusList, m.focus)
	assert.Equal(t, []int{1, 3}, viewIDs(m))

	// A tick scheduled before enter is now stale.
	next, _ := m.Update(tuiSearchTickMsg{seq: m.searchSeq - 1})
	m = next.(recipesTUIModel)
	assert.Equal(t, []int{1, 3}, viewIDs(m))
}

func TestRecipesTUIModel_PickerAddsAndClears(t *testing.T) {
	m := loadedTUIModel(t)

	m = press(t, m, "i")
	require.Equal(t, tuiFocusPicker, m.focus)
	require.Len(t, m.picker.Items(), 5)

	m = press(t, m, "enter")
	assert.Equal(t, tuiFocusList, m.focus)
	assert.Equal(t, []int{3}, viewIDs(m))
	require.Len(t, m.view.Tags, 1)
	assert.Equal(t, "Ail", m.view.Tags[0].Value)
	assert.NotContains(t, m.view.Options.Ingredients, "Ail")

	m = press(t, m, "c")
	assert.Empty(t, m.view.Tags)
	assert.Equal(t, []int{1, 2, 3}, viewIDs(m))
}

func TestRecipesTUIModel_RemovePicker(t *testing.T) {
	m := loadedTUIModel(t)
	m.session.Store().Add(filter.Appliances, "Four")
	m.syncView(false)
	require.Equal(t, []int{1, 2}, viewIDs(m))

	m = press(t, m, "x", "enter")

	assert.Empty(t, m.view.Tags)
	assert.Equal(t, []int{1, 2, 3}, viewIDs(m))
}

func TestRecipesTUIModel_ResetClearsSearchAndTags(t *testing.T) {
	m := loadedTUIModel(t)
	m = press(t, m, "/", "t", "a", "r", "t", "e", "enter")
	m.session.Store().Add(filter.Ustensils, "saladier")
	m.syncView(false)
	require.Equal(t, []int{2}, viewIDs(m))

	m = press(t, m, "R")

	assert.Equal(t, "", m.search.Value())
	assert.Equal(t, "", m.session.Store().SearchTerm())
	assert.Equal(t, []int{1, 2, 3}, viewIDs(m))
}

func TestRecipesTUIModel_ReloadKeepsSelections(t *testing.T) {
	m := loadedTUIModel(t)
	m.session.Store().Add(filter.Ingredients, "Tomate")
	m.session.Store().SetSearchTerm("soupe")
	old := m.session

	next, _ := m.Update(tuiDataLoadedMsg{recipes: tuiSample()})
	m = next.(recipesTUIModel)

	assert.NotSame(t, old, m.session)
	assert.Equal(t, "soupe", m.search.Value())
	assert.Equal(t, []int{3}, viewIDs(m))
}

func TestRecipesTUIModel_LoadErrorIsFatalBeforeFirstLoad(t *testing.T) {
	a := &app{cfg: &config.Config{}, log: zap.NewNop()}
	m := newLoadingRecipesTUIModel(tuiLoadConfig{ctx: context.Background(), app: a})

	next, cmd := m.Update(tuiDataLoadErrMsg{err: assert.AnError})
	m = next.(recipesTUIModel)

	assert.ErrorIs(t, m.fatalErr, assert.AnError)
	require.NotNil(t, cmd)
}

func TestWaitForSourceChange(t *testing.T) {
	assert.Nil(t, waitForSourceChange(nil))

	changes := make(chan struct{}, 1)
	changes <- struct{}{}
	assert.Equal(t, tuiSourceChangedMsg{}, waitForSourceChange(changes)())

	close(changes)
	assert.Nil(t, waitForSourceChange(changes)())
}

func TestRecipesTUIModel_SourceChangeSchedulesReload(t *testing.T) {
	m := loadedTUIModel(t)
	m.loadCfg.changes = make(chan struct{})

	_, cmd := m.Update(tuiSourceChangedMsg{})

	assert.NotNil(t, cmd)
}
