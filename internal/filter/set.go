package filter

import "sort"

// Set is an unordered selection of filter values. A nil Set means the
// filter is absent; an empty one means present but inactive.
type Set map[string]struct{}

// NewSet returns a non-nil set holding values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v and reports whether it was new.
func (s Set) Add(v string) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

// Remove deletes v and reports whether it was present.
func (s Set) Remove(v string) bool {
	if _, ok := s[v]; !ok {
		return false
	}
	delete(s, v)
	return true
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of values.
func (s Set) Len() int { return len(s) }

// Values returns the members sorted, so callers get a stable sequence.
func (s Set) Values() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone copies the set. Cloning nil yields nil so absence is preserved.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}
