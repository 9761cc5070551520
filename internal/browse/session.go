// Package browse keeps a rendered view of the recipe list in sync with the
// active filters of a session.
package browse

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tayloree/petits-plats/internal/filter"
	"github.com/tayloree/petits-plats/internal/recipe"
	"github.com/tayloree/petits-plats/internal/state"
)

// Tag is one active selection, shown as a removable chip.
type Tag struct {
	Category filter.Category `json:"category"`
	Value    string          `json:"value"`
	Label    string          `json:"label"`
}

// View is everything a renderer needs after a state change.
type View struct {
	Recipes    []recipe.Recipe `json:"recipes"`
	Tags       []Tag           `json:"tags"`
	Options    filter.Options  `json:"options"`
	SearchTerm string          `json:"searchTerm"`
	// Total is the size of the unfiltered catalog.
	Total int `json:"total"`
}

// Renderer draws a view.
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

// Render calls f(v).
func (f RendererFunc) Render(v View) { f(v) }

// Session recomputes the view on every store mutation and hands it to the
// renderer.
type Session struct {
	id       string
	mu       sync.RWMutex
	recipes  []recipe.Recipe
	store    *state.Store
	renderer Renderer
	view     View
	log      *zap.Logger

	unsubscribe func()
}

// New subscribes to store and renders the initial view. A nil renderer or
// logger is allowed.
func New(recipes []recipe.Recipe, store *state.Store, renderer Renderer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	s := &Session{
		id:       id,
		recipes:  recipes,
		store:    store,
		renderer: renderer,
		log:      log.With(zap.String("session", id)),
	}
	s.unsubscribe = store.Subscribe(s.update)
	s.update(store.Snapshot())
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// View returns the latest computed view.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Store returns the filter store driving the session.
func (s *Session) Store() *state.Store { return s.store }

// Close stops listening to the store.
func (s *Session) Close() {
	s.unsubscribe()
}

func (s *Session) update(active state.ActiveFilters) {
	view := Compute(s.recipes, active)

	s.mu.Lock()
	s.view = view
	s.mu.Unlock()

	s.log.Debug("view updated",
		zap.Int("matched", len(view.Recipes)),
		zap.Int("total", view.Total),
		zap.Int("tags", len(view.Tags)),
	)
	if s.renderer != nil {
		s.renderer.Render(view)
	}
}

// Compute filters recipes with active and derives tags and dropdown options.
func Compute(recipes []recipe.Recipe, active state.ActiveFilters) View {
	visible := filter.ApplyQuery(recipes, active.Query())
	return View{
		Recipes:    visible,
		Tags:       Tags(active),
		Options:    filter.Facets(visible, active.Filters()),
		SearchTerm: active.SearchTerm,
		Total:      len(recipes),
	}
}

// Tags lists the active selections in category order with values sorted.
func Tags(active state.ActiveFilters) []Tag {
	var tags []Tag
	for _, c := range filter.Categories {
		for _, v := range active.Get(c).Values() {
			tags = append(tags, Tag{Category: c, Value: v, Label: filter.Capitalize(v)})
		}
	}
	return tags
}
