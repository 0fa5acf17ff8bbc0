package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"edunotes-be/pkg/facet"

	gocache "github.com/patrickmn/go-cache"
)

const suggestionCacheTTL = 2 * time.Minute

// Suggestion is one delivered completion batch. Prefix is the prefix that
// produced it, so a renderer can tell a fresh batch from a stale one.
type Suggestion struct {
	Facet  string
	Prefix string
	Values []string
}

// Suggester resolves typeahead completions per facet. At most one request
// per facet is live at a time: issuing a new prefix supersedes the previous
// in-flight lookup, whose completion is silently discarded.
type Suggester struct {
	client   *Client
	category facet.Category

	mu          sync.Mutex
	generations map[string]uint64

	cache *gocache.Cache
}

func NewSuggester(client *Client, category facet.Category) *Suggester {
	return &Suggester{
		client:      client,
		category:    category,
		generations: make(map[string]uint64),
		cache:       gocache.New(suggestionCacheTTL, suggestionCacheTTL),
	}
}

// SetCategory retargets the suggester. Outstanding lookups for every facet
// are superseded; cached completions of the old category stay keyed apart.
func (s *Suggester) SetCategory(category facet.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
	for name := range s.generations {
		s.generations[name]++
	}
}

// Suggest resolves completions for prefix and delivers them through deliver.
// Empty prefixes and dependent facets without their parent resolve to an
// empty batch immediately, with no request. deliver runs at most once, and
// never after a newer Suggest call for the same facet.
func (s *Suggester) Suggest(ctx context.Context, name string, prefix string, parents map[string]string, deliver func(Suggestion)) {
	s.mu.Lock()
	s.generations[name]++
	generation := s.generations[name]
	category := s.category
	s.mu.Unlock()

	prefix = strings.TrimSpace(prefix)
	parent := s.parentValue(category, name, parents)

	empty := Suggestion{Facet: name, Prefix: prefix, Values: []string{}}
	if prefix == "" && name != facet.NameDepartment {
		deliver(empty)
		return
	}
	if required, ok := s.dependencyRequired(category, name); ok && required && parent == "" {
		deliver(empty)
		return
	}

	key := s.cacheKey(category, name, parent, prefix)
	if cached, found := s.cache.Get(key); found {
		if values, ok := cached.([]string); ok {
			deliver(Suggestion{Facet: name, Prefix: prefix, Values: values})
			return
		}
	}

	go func() {
		values, err := s.fetch(ctx, category, name, parent, prefix)

		s.mu.Lock()
		stale := s.generations[name] != generation
		s.mu.Unlock()
		if stale || ctx.Err() != nil {
			return
		}

		if err != nil {
			// A failed lookup is delivered as empty; typeahead never
			// surfaces transport errors to the caller.
			deliver(empty)
			return
		}
		if values == nil {
			values = []string{}
		}
		s.cache.SetDefault(key, values)
		deliver(Suggestion{Facet: name, Prefix: prefix, Values: values})
	}()
}

// InvalidateFacet drops every cached completion for the facet, across
// prefixes and parents.
func (s *Suggester) InvalidateFacet(name string) {
	marker := "/" + name + "/"
	for key := range s.cache.Items() {
		if strings.Contains(key, marker) {
			s.cache.Delete(key)
		}
	}
}

func (s *Suggester) fetch(ctx context.Context, category facet.Category, name string, parent, prefix string) ([]string, error) {
	switch name {
	case facet.NameInstitute:
		return s.client.SuggestInstitutes(ctx, string(category), prefix)
	case facet.NameState:
		return s.client.SuggestStates(ctx, string(category), prefix)
	case facet.NameDistrict:
		return s.client.SuggestDistricts(ctx, string(category), parent, prefix)
	case facet.NameDepartment:
		return s.client.Departments(ctx, parent, string(category))
	default:
		return []string{}, nil
	}
}

func (s *Suggester) parentValue(category facet.Category, name string, parents map[string]string) string {
	desc, ok := facet.Lookup(category, name)
	if !ok || desc.DependsOn == "" {
		return ""
	}
	return strings.TrimSpace(parents[desc.DependsOn])
}

func (s *Suggester) dependencyRequired(category facet.Category, name string) (bool, bool) {
	desc, ok := facet.Lookup(category, name)
	if !ok {
		return false, false
	}
	return desc.DependsOn != "", true
}

func (s *Suggester) cacheKey(category facet.Category, name string, parent, prefix string) string {
	return "/" + name + "/" + string(category) + "/" + strings.ToLower(parent) + "/" + strings.ToLower(prefix)
}

// HighlightPrefix splits value into the matched head and remaining tail when
// value starts with prefix case-insensitively. Otherwise the whole value is
// the tail.
func HighlightPrefix(value, prefix string) (head, tail string) {
	if prefix == "" || len(prefix) > len(value) {
		return "", value
	}
	if !strings.EqualFold(value[:len(prefix)], prefix) {
		return "", value
	}
	return value[:len(prefix)], value[len(prefix):]
}
