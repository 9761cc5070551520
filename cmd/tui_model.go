package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tayloree/petits-plats/internal/api"
	"github.com/tayloree/petits-plats/internal/browse"
	"github.com/tayloree/petits-plats/internal/display"
	"github.com/tayloree/petits-plats/internal/filter"
	"github.com/tayloree/petits-plats/internal/recipe"
)

const (
	minTUIWidth  = 92
	minTUIHeight = 24

	searchDebounce = 250 * time.Millisecond
)

var (
	tuiHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	tuiMetaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiTagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("214")).Padding(0, 1)
	tuiRecipeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	tuiSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
)

type tuiLoadConfig struct {
	ctx        context.Context
	app        *app
	query      string
	selections []selection

	// changes is nil unless --watch is set.
	changes <-chan struct{}
}

type tuiDataLoadedMsg struct {
	recipes []recipe.Recipe
}

type tuiDataLoadErrMsg struct {
	err error
}

type tuiSourceChangedMsg struct{}

// tuiSearchTickMsg fires searchDebounce after a keystroke; only the tick
// carrying the latest sequence number applies the search term.
type tuiSearchTickMsg struct {
	seq int
}

type tuiFocus int

const (
	tuiFocusList tuiFocus = iota
	tuiFocusDetail
	tuiFocusSearch
	tuiFocusPicker
)

type tuiPickerMode int

const (
	tuiPickAdd tuiPickerMode = iota
	tuiPickRemove
)

type tuiGroupItem struct {
	name    string
	count   int
	ordinal int
}

func (g tuiGroupItem) FilterValue() string { return strings.ToLower(g.name) }
func (g tuiGroupItem) Title() string       { return fmt.Sprintf("%d. %s", g.ordinal, g.name) }
func (g tuiGroupItem) Description() string {
	return "Section • " + display.CountLabel(g.count)
}

type tuiRecipeItem struct {
	recipe      recipe.Recipe
	group       string
	title       string
	description string
}

func (r tuiRecipeItem) FilterValue() string { return r.recipe.Search() }
func (r tuiRecipeItem) Title() string       { return r.title }
func (r tuiRecipeItem) Description() string { return r.description }

type tuiOptionItem struct {
	category filter.Category
	value    string
}

func (o tuiOptionItem) FilterValue() string { return o.value }
func (o tuiOptionItem) Title() string       { return filter.Capitalize(o.value) }
func (o tuiOptionItem) Description() string { return o.category.Label() }

// tuiRenderer keeps the latest view pushed by the browse session.
type tuiRenderer struct {
	latest  browse.View
	version int
}

func (r *tuiRenderer) Render(v browse.View) {
	r.latest = v
	r.version++
}

type recipesTUIModel struct {
	loading  bool
	spinner  spinner.Model
	loadCfg  tuiLoadConfig
	fatalErr error

	session  *browse.Session
	renderer *tuiRenderer
	seen     int
	view     browse.View

	search    textinput.Model
	searchSeq int

	list   list.Model
	detail viewport.Model

	picker         list.Model
	pickerMode     tuiPickerMode
	pickerCategory filter.Category

	focus      tuiFocus
	showHelp   bool
	selectedID string

	groupStarts []int

	width, height   int
	bodyHeight      int
	listPaneWidth   int
	detailPaneWidth int
	tooSmall        bool
}

func newLoadingRecipesTUIModel(cfg tuiLoadConfig) recipesTUIModel {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)

	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Recettes"
	lst.SetStatusBarItemName("recette", "recettes")
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(false)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()

	pickerDelegate := list.NewDefaultDelegate()
	pickerDelegate.ShowDescription = false
	pickerDelegate.SetSpacing(0)

	picker := list.New([]list.Item{}, pickerDelegate, 0, 0)
	picker.SetShowStatusBar(true)
	picker.SetFilteringEnabled(true)
	picker.SetShowHelp(false)
	picker.DisableQuitKeybindings()
	picker.Filter = optionFilter

	detail := viewport.New(0, 0)
	detail.KeyMap.PageDown.SetKeys("f", "pgdown")
	detail.KeyMap.PageUp.SetKeys("b", "pgup")
	detail.KeyMap.HalfPageDown.SetKeys("d")
	detail.KeyMap.HalfPageUp.SetKeys("u")

	search := textinput.New()
	search.Prompt = "Recherche: "
	search.Placeholder = "recette, ingrédient, ustensile, appareil…"
	search.CharLimit = 80
	search.SetValue(cfg.query)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	return recipesTUIModel{
		loading: true,
		spinner: spin,
		loadCfg: cfg,
		search:  search,
		list:    lst,
		picker:  picker,
		detail:  detail,
		focus:   tuiFocusList,
	}
}

func loadTUIDataCmd(cfg tuiLoadConfig, refresh bool) tea.Cmd {
	return func() tea.Msg {
		if refresh {
			cfg.app.catalog.Refresh(cfg.app.cfg.Source)
		}
		recipes, err := cfg.app.loadRecipes(cfg.ctx)
		if err != nil {
			return tuiDataLoadErrMsg{err: err}
		}
		return tuiDataLoadedMsg{recipes: recipes}
	}
}

func waitForSourceChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return tuiSourceChangedMsg{}
	}
}

func debounceSearch(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return tuiSearchTickMsg{seq: seq}
	})
}

func (m recipesTUIModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadTUIDataCmd(m.loadCfg, false),
		waitForSourceChange(m.loadCfg.changes),
	)
}

func (m recipesTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tuiDataLoadedMsg:
		m.loading = false
		m.startSession(msg.recipes)
		m.resize()
		return m, nil

	case tuiDataLoadErrMsg:
		m.loading = false
		if m.session != nil {
			return m, m.list.NewStatusMessage("Reload failed: " + msg.err.Error())
		}
		m.fatalErr = msg.err
		return m, tea.Quit

	case tuiSourceChangedMsg:
		cmds := []tea.Cmd{
			loadTUIDataCmd(m.loadCfg, true),
			waitForSourceChange(m.loadCfg.changes),
		}
		if m.session != nil {
			cmds = append(cmds, m.list.NewStatusMessage("Source changed, reloading…"))
		}
		return m, tea.Batch(cmds...)

	case tuiSearchTickMsg:
		if msg.seq == m.searchSeq && m.session != nil {
			m.session.Store().SetSearchTerm(m.search.Value())
			m.syncView(false)
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			if keyMsg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.loading || m.session == nil {
		return m, nil
	}

	if isKey {
		switch m.focus {
		case tuiFocusSearch:
			return m.updateSearch(keyMsg)
		case tuiFocusPicker:
			return m.updatePicker(keyMsg)
		}

		key := keyMsg.String()
		switch key {
		case "q":
			return m, tea.Quit
		case "/":
			m.focus = tuiFocusSearch
			return m, m.search.Focus()
		case "tab":
			if m.focus == tuiFocusList {
				m.focus = tuiFocusDetail
			} else {
				m.focus = tuiFocusList
			}
			return m, nil
		case "esc":
			if m.focus == tuiFocusDetail {
				m.focus = tuiFocusList
				return m, nil
			}
		case "?":
			m.showHelp = !m.showHelp
			m.resize()
			return m, nil
		case "i":
			return m, m.openPicker(tuiPickAdd, filter.Ingredients)
		case "a":
			return m, m.openPicker(tuiPickAdd, filter.Appliances)
		case "u":
			if m.focus == tuiFocusList {
				return m, m.openPicker(tuiPickAdd, filter.Ustensils)
			}
		case "x":
			return m, m.openPicker(tuiPickRemove, "")
		case "c":
			m.session.Store().ClearAll()
			m.syncView(false)
			return m, nil
		case "R":
			m.searchSeq++
			m.search.SetValue("")
			m.session.Store().Reset()
			m.syncView(true)
			return m, nil
		case "ctrl+r":
			return m, tea.Batch(
				m.list.NewStatusMessage("Reloading recipes…"),
				loadTUIDataCmd(m.loadCfg, true),
			)
		case "]":
			m.jumpSection(1)
			return m, nil
		case "[":
			m.jumpSection(-1)
			return m, nil
		}

		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.jumpToSection(int(key[0] - '1'))
			return m, nil
		}

		if m.focus == tuiFocusDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.refreshDetail(false)
	return m, cmd
}

func (m recipesTUIModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchSeq++
		m.session.Store().SetSearchTerm(m.search.Value())
		m.search.Blur()
		m.focus = tuiFocusList
		m.syncView(false)
		return m, nil
	case "esc", "tab":
		m.search.Blur()
		m.focus = tuiFocusList
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	return m, tea.Batch(cmd, debounceSearch(m.searchSeq))
}

func (m recipesTUIModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.picker.FilterState() == list.Filtering

	switch msg.String() {
	case "esc":
		if !filtering && !m.picker.IsFiltered() {
			m.focus = tuiFocusList
			return m, nil
		}
	case "q":
		if !filtering {
			m.focus = tuiFocusList
			return m, nil
		}
	case "enter":
		if !filtering {
			if item, ok := m.picker.SelectedItem().(tuiOptionItem); ok {
				store := m.session.Store()
				if m.pickerMode == tuiPickAdd {
					store.Add(item.category, item.value)
				} else {
					store.Remove(item.category, item.value)
				}
			}
			m.focus = tuiFocusList
			m.syncView(false)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *recipesTUIModel) openPicker(mode tuiPickerMode, c filter.Category) tea.Cmd {
	var items []list.Item
	switch mode {
	case tuiPickAdd:
		for _, v := range m.view.Options.Get(c) {
			items = append(items, tuiOptionItem{category: c, value: v})
		}
		m.picker.Title = "Ajouter • " + c.Label()
	case tuiPickRemove:
		for _, tag := range m.view.Tags {
			items = append(items, tuiOptionItem{category: tag.Category, value: tag.Value})
		}
		m.picker.Title = "Retirer un filtre"
	}
	if len(items) == 0 {
		if mode == tuiPickRemove {
			return m.list.NewStatusMessage("No active filters.")
		}
		return m.list.NewStatusMessage("No " + strings.ToLower(c.Label()) + " left for these recipes.")
	}

	m.pickerMode = mode
	m.pickerCategory = c
	m.picker.ResetFilter()
	cmd := m.picker.SetItems(items)
	m.picker.Select(0)
	m.focus = tuiFocusPicker
	return cmd
}

// optionFilter matches picker options by accent- and case-insensitive
// substring, like the dropdown search box.
func optionFilter(term string, targets []string) []list.Rank {
	q := filter.NormalizeText(term)
	ranks := make([]list.Rank, 0, len(targets))
	for i, target := range targets {
		if q == "" || strings.Contains(filter.NormalizeText(target), q) {
			ranks = append(ranks, list.Rank{Index: i})
		}
	}
	return ranks
}

func (m *recipesTUIModel) startSession(recipes []recipe.Recipe) {
	query, selections := m.loadCfg.query, m.loadCfg.selections
	if m.session != nil {
		active := m.session.Store().Snapshot()
		query, selections = active.SearchTerm, selectionsFromActive(active)
		m.session.Close()
	}

	m.renderer = &tuiRenderer{}
	m.seen = 0
	m.session = m.loadCfg.app.newSession(recipes, query, selections, m.renderer)
	m.search.SetValue(query)
	m.syncView(true)
}

func (m *recipesTUIModel) close() {
	if m.session != nil {
		m.session.Close()
	}
}

// syncView applies the renderer's latest view if it changed since the last
// call, or unconditionally when resetSelection is set.
func (m *recipesTUIModel) syncView(resetSelection bool) {
	if m.renderer == nil {
		return
	}
	if m.renderer.version == m.seen && !resetSelection {
		return
	}
	m.seen = m.renderer.version
	m.view = m.renderer.latest

	currentID := m.selectedID
	items, starts := buildGroupedListItems(m.view.Recipes)
	m.groupStarts = starts

	m.list.Title = "Recettes • " + display.CountLabel(len(m.view.Recipes))
	m.list.SetItems(items)

	target := -1
	if !resetSelection && currentID != "" {
		target = findItemIndexByID(items, currentID)
	}
	if target < 0 {
		target = firstRecipeIndexFrom(items, 0)
	}
	if target < 0 && len(items) > 0 {
		target = 0
	}
	if target >= 0 {
		m.list.Select(target)
	}

	m.refreshDetail(true)
}

func (m recipesTUIModel) View() string {
	if m.loading {
		return m.loadingView()
	}
	if m.width == 0 || m.height == 0 {
		return tuiMetaStyle.Render("Loading interface...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(
				fmt.Sprintf(
					"Terminal too small (%dx%d).\nResize to at least %dx%d for the two-pane recipe browser.",
					m.width, m.height, minTUIWidth, minTUIHeight,
				),
			)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func (m recipesTUIModel) loadingView() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	skeletonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	lines := []string{
		tuiHeaderStyle.Render("plats tui"),
		tuiMetaStyle.Render("Preparing interactive interface..."),
		"",
		fmt.Sprintf("%s Loading recipes from %s", m.spinner.View(), m.sourceLabel()),
		tuiHintStyle.Render("Tip: press q to cancel."),
		"",
		skeletonStyle.Render("┌──────────────────────────────┬─────────────────────────────────────────┐"),
		skeletonStyle.Render("│  Loading recipe list...      │  Loading detail panel...               │"),
		skeletonStyle.Render("│  • appliance sections        │  • ingredients and quantities          │"),
		skeletonStyle.Render("│  • search index              │  • wrapped preparation text            │"),
		skeletonStyle.Render("│  • filter options            │  • scroll viewport                     │"),
		skeletonStyle.Render("└──────────────────────────────┴─────────────────────────────────────────┘"),
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (m recipesTUIModel) sourceLabel() string {
	if m.loadCfg.app == nil || m.loadCfg.app.cfg == nil {
		return api.EmbeddedSource
	}
	return api.SourceLabel(m.loadCfg.app.cfg.Source)
}

func (m *recipesTUIModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	if m.loading {
		return
	}

	m.tooSmall = m.width < minTUIWidth || m.height < minTUIHeight
	if m.tooSmall {
		return
	}

	headerH := 4
	footerH := 2
	if m.showHelp {
		footerH = 7
	}
	m.bodyHeight = maxInt(8, m.height-headerH-footerH-1)

	listWidth := maxInt(40, int(float64(m.width)*0.43))
	if listWidth > m.width-42 {
		listWidth = m.width / 2
	}
	detailWidth := m.width - listWidth - 1
	if detailWidth < 36 {
		detailWidth = 36
		listWidth = m.width - detailWidth - 1
	}

	m.listPaneWidth = listWidth
	m.detailPaneWidth = detailWidth

	listInnerWidth := maxInt(24, listWidth-4)
	detailInnerWidth := maxInt(24, detailWidth-4)
	panelInnerHeight := maxInt(6, m.bodyHeight-2)

	m.list.SetSize(listInnerWidth, panelInnerHeight)
	m.picker.SetSize(listInnerWidth, panelInnerHeight)
	m.search.Width = maxInt(20, m.width-len(m.search.Prompt)-4)
	m.detail.Width = detailInnerWidth
	m.detail.Height = panelInnerHeight
	m.refreshDetail(false)
}

func (m recipesTUIModel) headerView() string {
	focus := "list"
	switch m.focus {
	case tuiFocusDetail:
		focus = "detail"
	case tuiFocusSearch:
		focus = "search"
	case tuiFocusPicker:
		focus = "picker"
	}

	top := fmt.Sprintf("plats tui  |  %s", m.sourceLabel())
	meta := fmt.Sprintf(
		"%s visible / %d total  |  focus: %s",
		display.CountLabel(len(m.view.Recipes)), m.view.Total, focus,
	)

	chips := make([]string, 0, len(m.view.Tags))
	for _, tag := range m.view.Tags {
		chips = append(chips, tuiTagStyle.Render(tag.Label))
	}
	tags := tuiMutedStyle.Render("filtres: aucun")
	if len(chips) > 0 {
		tags = tuiMetaStyle.Render("filtres: ") + strings.Join(chips, " ")
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(strings.Join([]string{
			tuiHeaderStyle.Render(top) + "  " + tuiMetaStyle.Render(meta),
			tags,
			m.search.View(),
		}, "\n"))
}

func (m recipesTUIModel) bodyView() string {
	listBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)
	detailBorder := listBorder

	if m.focus == tuiFocusDetail {
		detailBorder = detailBorder.BorderForeground(lipgloss.Color("214"))
	} else {
		listBorder = listBorder.BorderForeground(lipgloss.Color("214"))
	}

	leftContent := m.list.View()
	if m.focus == tuiFocusPicker {
		leftContent = m.picker.View()
	}

	left := listBorder.
		Width(m.listPaneWidth).
		Height(m.bodyHeight).
		Render(leftContent)
	right := detailBorder.
		Width(m.detailPaneWidth).
		Height(m.bodyHeight).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m recipesTUIModel) footerView() string {
	base := "/ search • i ingredient • a appliance • u ustensil • x remove tag • c clear filters • R reset • tab pane • [/] section • ? help • q quit"
	switch m.focus {
	case tuiFocusDetail:
		base = "Detail: j/k or ↑/↓ scroll • u/d half-page • b/f page • esc list • ? help • q quit"
	case tuiFocusSearch:
		base = "Search: type to filter (applies after a short pause) • enter apply • esc back"
	case tuiFocusPicker:
		base = "Picker: ↑/↓ move • / search values • enter select • esc back"
	}

	if !m.showHelp {
		return lipgloss.NewStyle().Padding(0, 1).Render(tuiHintStyle.Render(base))
	}

	lines := []string{
		"Key Help",
		"list pane: ↑/↓ or j/k move • / search • i/a/u add ingredient/appliance/ustensil • x remove a tag",
		"filters: c clear ingredient/appliance/ustensil tags • R clear tags and search • ctrl+r reload recipes",
		"sections: ] next appliance • [ previous appliance • 1..9 jump to numbered section",
		"global: tab switch pane • esc list • ? toggle help • q quit • ctrl+c force quit",
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(tuiHintStyle.Render(strings.Join(lines, "\n")))
}

func (m *recipesTUIModel) refreshDetail(resetScroll bool) {
	var content string
	nextID := ""

	if selected := m.list.SelectedItem(); selected != nil {
		switch item := selected.(type) {
		case tuiRecipeItem:
			content = renderRecipeDetailContent(item.recipe, m.detail.Width)
			nextID = stableIDForRecipe(item.recipe)
		case tuiGroupItem:
			content = m.renderGroupDetail(item)
			nextID = stableIDForGroup(item.name)
		}
	}
	if content == "" {
		content = display.NoMatchMessage(m.view.SearchTerm) + "\n\nPress c to clear filters or R to reset everything."
	}

	if resetScroll || nextID != m.selectedID {
		m.detail.GotoTop()
	}
	m.selectedID = nextID
	m.detail.SetContent(content)
}

func (m recipesTUIModel) renderGroupDetail(group tuiGroupItem) string {
	preview := m.groupPreviewTitles(group.name, 5)

	lines := []string{
		tuiSectionStyle.Render(fmt.Sprintf("Section %d: %s", group.ordinal, group.name)),
		tuiMetaStyle.Render(display.CountLabel(group.count)),
		"",
		tuiMetaStyle.Render("Jump keys:"),
		"- `]` next section, `[` previous section",
		"- `1..9` jump directly to section number",
	}
	if len(preview) > 0 {
		lines = append(lines, "")
		lines = append(lines, tuiMetaStyle.Render("Preview:"))
		for _, title := range preview {
			lines = append(lines, "• "+title)
		}
	}

	return strings.Join(lines, "\n")
}

func (m recipesTUIModel) groupPreviewTitles(group string, max int) []string {
	out := make([]string, 0, max)
	for _, item := range m.list.Items() {
		r, ok := item.(tuiRecipeItem)
		if !ok || r.group != group {
			continue
		}
		out = append(out, r.title)
		if len(out) >= max {
			break
		}
	}
	return out
}

func (m *recipesTUIModel) jumpToSection(index int) {
	if index < 0 || index >= len(m.groupStarts) {
		return
	}

	target := firstRecipeIndexFrom(m.list.Items(), m.groupStarts[index])
	if target < 0 {
		target = m.groupStarts[index]
	}
	m.list.Select(target)
	m.refreshDetail(true)
}

func (m *recipesTUIModel) jumpSection(delta int) {
	if len(m.groupStarts) == 0 {
		return
	}

	current := m.currentSectionIndex()
	if current < 0 {
		current = 0
	}
	next := current + delta
	if next < 0 {
		next = len(m.groupStarts) - 1
	}
	if next >= len(m.groupStarts) {
		next = 0
	}
	m.jumpToSection(next)
}

func (m recipesTUIModel) currentSectionIndex() int {
	if len(m.groupStarts) == 0 {
		return -1
	}
	cursor := m.list.GlobalIndex()
	current := 0
	for i, start := range m.groupStarts {
		if start <= cursor {
			current = i
			continue
		}
		break
	}
	return current
}

// buildGroupedListItems sections recipes by appliance, largest section
// first. Recipes keep their filtered order inside a section.
func buildGroupedListItems(recipes []recipe.Recipe) (items []list.Item, starts []int) {
	if len(recipes) == 0 {
		return nil, nil
	}

	groups := map[string][]recipe.Recipe{}
	for _, r := range recipes {
		group := recipeGroupLabel(r)
		groups[group] = append(groups[group], r)
	}

	type groupMeta struct {
		name  string
		count int
	}

	metas := make([]groupMeta, 0, len(groups))
	for name, rs := range groups {
		metas = append(metas, groupMeta{name: name, count: len(rs)})
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].count != metas[j].count {
			return metas[i].count > metas[j].count
		}
		return metas[i].name < metas[j].name
	})

	items = make([]list.Item, 0, len(recipes)+len(metas))
	starts = make([]int, 0, len(metas))
	for idx, meta := range metas {
		starts = append(starts, len(items))

		items = append(items, tuiGroupItem{
			name:    meta.name,
			count:   meta.count,
			ordinal: idx + 1,
		})
		for _, r := range groups[meta.name] {
			items = append(items, buildTUIRecipeItem(r, meta.name))
		}
	}

	return items, starts
}

func recipeGroupLabel(r recipe.Recipe) string {
	if label := filter.Capitalize(r.Appliance); label != "" {
		return label
	}
	return "Sans appareil"
}

func buildTUIRecipeItem(r recipe.Recipe, group string) tuiRecipeItem {
	title := strings.TrimSpace(r.Name)
	if title == "" {
		title = fmt.Sprintf("Recette %d", r.ID)
	}

	descParts := []string{fmt.Sprintf("%d min", r.Time)}
	if names := r.IngredientNames(); len(names) > 0 {
		if len(names) > 3 {
			names = append(names[:3:3], "…")
		}
		descParts = append(descParts, strings.Join(names, ", "))
	}

	return tuiRecipeItem{
		recipe:      r,
		group:       group,
		title:       title,
		description: strings.Join(descParts, "  •  "),
	}
}

func renderRecipeDetailContent(r recipe.Recipe, width int) string {
	maxWidth := maxInt(24, width)

	title := strings.TrimSpace(r.Name)
	if title == "" {
		title = fmt.Sprintf("Recette %d", r.ID)
	}

	lines := []string{
		tuiRecipeStyle.Render(wrapText(title, maxWidth)),
	}

	metaBits := []string{fmt.Sprintf("%d min", r.Time)}
	if r.Servings > 0 {
		metaBits = append(metaBits, fmt.Sprintf("%d pers.", r.Servings))
	}
	if r.Appliance != "" {
		metaBits = append(metaBits, r.Appliance)
	}
	lines = append(lines, tuiMetaStyle.Render(wrapText(strings.Join(metaBits, "  |  "), maxWidth)))

	lines = append(lines, "")
	lines = append(lines, tuiMetaStyle.Render(filter.Ingredients.Label()+":"))
	if len(r.Ingredients) == 0 {
		lines = append(lines, tuiMutedStyle.Render("none listed"))
	}
	for _, ing := range r.Ingredients {
		lines = append(lines, "• "+tuiValueStyle.Render(display.FormatQuantity(ing)))
	}

	if len(r.Ustensils) > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("%s %s",
			tuiMetaStyle.Render(filter.Ustensils.Label()+":"),
			wrapText(strings.Join(r.Ustensils, ", "), maxWidth),
		))
	}

	desc := strings.TrimSpace(r.Description)
	if desc == "" {
		desc = "No description provided."
	}
	lines = append(lines, "")
	lines = append(lines, tuiMetaStyle.Render("Recette:"))
	lines = append(lines, wrapText(desc, maxWidth))

	if r.Image.JPGURL != "" {
		lines = append(lines, "")
		lines = append(lines, tuiMutedStyle.Render("Image:"))
		lines = append(lines, tuiMutedStyle.Render(wrapText(r.Image.JPGURL, maxWidth)))
	}

	return strings.Join(lines, "\n")
}

func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width < 12 {
		width = 12
	}

	line := words[0]
	lines := make([]string, 0, len(words)/6+1)
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func findItemIndexByID(items []list.Item, stableID string) int {
	for i, item := range items {
		if stableIDForItem(item) == stableID {
			return i
		}
	}
	return -1
}

func firstRecipeIndexFrom(items []list.Item, start int) int {
	for i := start; i < len(items); i++ {
		if _, ok := items[i].(tuiRecipeItem); ok {
			return i
		}
	}
	return -1
}

func stableIDForItem(item list.Item) string {
	switch value := item.(type) {
	case tuiRecipeItem:
		return stableIDForRecipe(value.recipe)
	case tuiGroupItem:
		return stableIDForGroup(value.name)
	default:
		return ""
	}
}

func stableIDForRecipe(r recipe.Recipe) string {
	if r.ID != 0 {
		return fmt.Sprintf("recipe:%d", r.ID)
	}
	return "recipe:name:" + strings.ToLower(strings.TrimSpace(r.Name))
}

func stableIDForGroup(group string) string {
	return "group:" + strings.ToLower(strings.TrimSpace(group))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
