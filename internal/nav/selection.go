package nav

import "sort"

// Selection keeps the selected entry ids of every route. Switching routes
// leaves other routes' selections untouched.
type Selection struct {
	sets map[string]map[string]struct{}
}

// NewSelection creates an empty selection store.
func NewSelection() *Selection {
	return &Selection{sets: make(map[string]map[string]struct{})}
}

func (s *Selection) set(route string) map[string]struct{} {
	set, ok := s.sets[route]
	if !ok {
		set = make(map[string]struct{})
		s.sets[route] = set
	}
	return set
}

// Toggle flips id in route's selection and returns the new state.
func (s *Selection) Toggle(route, id string) bool {
	set := s.set(route)
	if _, ok := set[id]; ok {
		delete(set, id)
		return false
	}
	set[id] = struct{}{}
	return true
}

// SelectAll selects every id given.
func (s *Selection) SelectAll(route string, ids []string) {
	set := s.set(route)
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

// Clear empties route's selection.
func (s *Selection) Clear(route string) {
	delete(s.sets, route)
}

// Remove drops a single id.
func (s *Selection) Remove(route, id string) {
	if set, ok := s.sets[route]; ok {
		delete(set, id)
	}
}

// RemoveAll drops every id given.
func (s *Selection) RemoveAll(route string, ids []string) {
	set, ok := s.sets[route]
	if !ok {
		return
	}
	for _, id := range ids {
		delete(set, id)
	}
}

// IsSelected reports whether id is selected in route.
func (s *Selection) IsSelected(route, id string) bool {
	_, ok := s.sets[route][id]
	return ok
}

// Count returns the number of selected ids in route.
func (s *Selection) Count(route string) int {
	return len(s.sets[route])
}

// SelectedIDs returns route's selection, sorted.
func (s *Selection) SelectedIDs(route string) []string {
	set := s.sets[route]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reconcile keeps only the ids still present in the route's entries and
// returns how many were dropped.
func (s *Selection) Reconcile(route string, present []string) int {
	set, ok := s.sets[route]
	if !ok {
		return 0
	}
	keep := make(map[string]struct{}, len(present))
	for _, id := range present {
		keep[id] = struct{}{}
	}
	dropped := 0
	for id := range set {
		if _, ok := keep[id]; !ok {
			delete(set, id)
			dropped++
		}
	}
	return dropped
}
