// Package state holds the active filter selections of a browsing session.
package state

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tayloree/petits-plats/internal/filter"
)

// ActiveFilters is a point-in-time copy of the store. Mutating it never
// affects the store or later snapshots.
type ActiveFilters struct {
	Ingredients filter.Set
	Appliances  filter.Set
	Ustensils   filter.Set
	SearchTerm  string
}

// Get returns the selection for c, or nil for an unknown category.
func (a ActiveFilters) Get(c filter.Category) filter.Set {
	return a.Filters().Get(c)
}

// Filters returns the category selections in filter form.
func (a ActiveFilters) Filters() filter.Filters {
	return filter.Filters{
		Ingredients: a.Ingredients,
		Appliances:  a.Appliances,
		Ustensils:   a.Ustensils,
	}
}

// Query bundles the search term and the selections for filter.ApplyQuery.
func (a ActiveFilters) Query() filter.Query {
	return filter.Query{SearchTerm: a.SearchTerm, Filters: a.Filters()}
}

// Empty reports whether no category value is selected and no search term is set.
func (a ActiveFilters) Empty() bool {
	return a.Ingredients.Len() == 0 && a.Appliances.Len() == 0 && a.Ustensils.Len() == 0 &&
		strings.TrimSpace(a.SearchTerm) == ""
}

// Listener receives a snapshot after every effective mutation.
type Listener func(ActiveFilters)

// Store owns the active filters for one session. Mutations are applied
// under a lock and listeners run synchronously after it is released.
type Store struct {
	mu         sync.RWMutex
	sets       map[filter.Category]filter.Set
	searchTerm string

	listeners map[int]Listener
	nextID    int

	log *zap.Logger
}

// NewStore creates an empty store. A nil logger disables logging.
func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		sets:      make(map[filter.Category]filter.Set, len(filter.Categories)),
		listeners: make(map[int]Listener),
		log:       log,
	}
	for _, c := range filter.Categories {
		s.sets[c] = filter.NewSet()
	}
	return s
}

// Add selects value in category c. Unknown categories are ignored.
func (s *Store) Add(c filter.Category, value string) {
	s.mutate("add", c, value, func(set filter.Set) bool { return set.Add(value) })
}

// Remove deselects value in category c. Removing an absent value is a no-op.
func (s *Store) Remove(c filter.Category, value string) {
	s.mutate("remove", c, value, func(set filter.Set) bool { return set.Remove(value) })
}

// Toggle selects value if absent and deselects it otherwise.
func (s *Store) Toggle(c filter.Category, value string) {
	s.mutate("toggle", c, value, func(set filter.Set) bool {
		if set.Has(value) {
			return set.Remove(value)
		}
		return set.Add(value)
	})
}

// ClearAll empties the three category selections. The search term is kept.
func (s *Store) ClearAll() {
	s.mu.Lock()
	changed := false
	for _, c := range filter.Categories {
		if s.sets[c].Len() > 0 {
			s.sets[c] = filter.NewSet()
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.log.Debug("filters cleared")
		s.notify()
	}
}

// Reset clears the category selections and the search term.
func (s *Store) Reset() {
	s.mu.Lock()
	changed := s.searchTerm != ""
	s.searchTerm = ""
	for _, c := range filter.Categories {
		if s.sets[c].Len() > 0 {
			s.sets[c] = filter.NewSet()
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.log.Debug("filters reset")
		s.notify()
	}
}

// SetSearchTerm replaces the free-text query.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	if s.searchTerm == term {
		s.mu.Unlock()
		return
	}
	s.searchTerm = term
	s.mu.Unlock()

	s.log.Debug("search term set", zap.String("term", term))
	s.notify()
}

// SearchTerm returns the current free-text query.
func (s *Store) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchTerm
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() ActiveFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) mutate(op string, c filter.Category, value string, apply func(filter.Set) bool) {
	s.mu.Lock()
	set, ok := s.sets[c]
	if !ok {
		s.mu.Unlock()
		s.log.Debug("ignoring unknown filter category",
			zap.String("op", op),
			zap.String("category", string(c)),
		)
		return
	}
	changed := apply(set)
	s.mu.Unlock()

	if !changed {
		return
	}
	s.log.Debug("filter changed",
		zap.String("op", op),
		zap.String("category", string(c)),
		zap.String("value", value),
	)
	s.notify()
}

func (s *Store) notify() {
	s.mu.RLock()
	snap := s.snapshotLocked()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		// Each listener gets its own copy.
		fn(cloneActive(snap))
	}
}

func (s *Store) snapshotLocked() ActiveFilters {
	return ActiveFilters{
		Ingredients: s.sets[filter.Ingredients].Clone(),
		Appliances:  s.sets[filter.Appliances].Clone(),
		Ustensils:   s.sets[filter.Ustensils].Clone(),
		SearchTerm:  s.searchTerm,
	}
}

func cloneActive(a ActiveFilters) ActiveFilters {
	return ActiveFilters{
		Ingredients: a.Ingredients.Clone(),
		Appliances:  a.Appliances.Clone(),
		Ustensils:   a.Ustensils.Clone(),
		SearchTerm:  a.SearchTerm,
	}
}
