package facet

import "sort"

// Set holds the current facet selections for one category. It never
// contains a facet the registry does not declare for that category.
type Set struct {
	category Category
	values   map[string][]string
}

func NewSet(c Category) *Set {
	return &Set{
		category: c,
		values:   make(map[string][]string),
	}
}

func (s *Set) Category() Category {
	return s.category
}

// Put stores a single-valued facet. Facets not declared for the active
// category are rejected. Changing the institute resets the department
// selection: departments are scoped per institute+category pair.
func (s *Set) Put(name, value string) bool {
	return s.PutValues(name, []string{value})
}

// PutValues stores a facet with one or more values.
func (s *Set) PutValues(name string, values []string) bool {
	if !Allowed(s.category, name) {
		return false
	}
	if name == NameInstitute {
		delete(s.values, NameDepartment)
	}
	kept := values[:0:len(values)]
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		delete(s.values, name)
		return true
	}
	s.values[name] = kept
	return true
}

func (s *Set) Get(name string) string {
	vs := s.values[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

func (s *Set) Values(name string) []string {
	vs := s.values[name]
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

func (s *Set) Delete(name string) {
	delete(s.values, name)
}

func (s *Set) Len() int {
	return len(s.values)
}

// Names returns the currently set facet names, sorted for stable iteration.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SwitchCategory retargets the set to a new category and drops every facet
// value the new schema does not declare. Returns the dropped facet names.
func (s *Set) SwitchCategory(c Category) []string {
	s.category = c
	return s.Sanitize()
}

// Sanitize removes facets not legal for the active category and returns
// their names.
func (s *Set) Sanitize() []string {
	var dropped []string
	for name := range s.values {
		if !Allowed(s.category, name) {
			delete(s.values, name)
			dropped = append(dropped, name)
		}
	}
	sort.Strings(dropped)
	return dropped
}

// Snapshot copies the current selections.
func (s *Set) Snapshot() map[string][]string {
	out := make(map[string][]string, len(s.values))
	for name, vs := range s.values {
		cp := make([]string, len(vs))
		copy(cp, vs)
		out[name] = cp
	}
	return out
}
