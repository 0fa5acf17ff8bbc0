package discovery

import (
	"context"
	"net/url"
	"strings"

	"edunotes-be/pkg/facet"
)

// BuildQuery renders the active filters as request params. Only facets the
// registry declares for the category survive; empty values are omitted;
// multi-valued facets are comma-joined. Every param narrows the result set.
func BuildQuery(category facet.Category, set *facet.Set, q string) url.Values {
	values := url.Values{}
	if category.Valid() {
		values.Set("category", string(category))
	}

	for _, desc := range facet.FacetsFor(category) {
		if desc.Multi {
			joined := strings.Join(set.Values(desc.Name), ",")
			if joined != "" {
				values.Set(desc.Name, joined)
			}
			continue
		}
		if v := strings.TrimSpace(set.Get(desc.Name)); v != "" {
			values.Set(desc.Name, v)
		}
	}

	if q = strings.TrimSpace(q); q != "" {
		values.Set("q", q)
	}
	return values
}

// RefineByInstitutePrefix narrows an already-fetched result set by institute
// prefix, case-insensitively, without another request. Pure and idempotent;
// an empty prefix returns the input unchanged.
func RefineByInstitutePrefix(notes []Note, prefix string) []Note {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return notes
	}
	lower := strings.ToLower(prefix)
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if strings.HasPrefix(strings.ToLower(n.Institute), lower) {
			out = append(out, n)
		}
	}
	return out
}

// Browser holds one browse view's filter state and executes it against the
// service. Queries run on explicit Apply and on category switches; a failed
// query is surfaced, never retried.
type Browser struct {
	client   *Client
	category facet.Category
	set      *facet.Set
	search   string
}

func NewBrowser(client *Client, category facet.Category) *Browser {
	return &Browser{
		client:   client,
		category: category,
		set:      facet.NewSet(category),
	}
}

func (b *Browser) Category() facet.Category {
	return b.category
}

// Facets exposes the mutable filter set; edits take effect on the next Apply.
func (b *Browser) Facets() *facet.Set {
	return b.set
}

func (b *Browser) SetSearch(q string) {
	b.search = q
}

// SwitchCategory retargets the view, drops now-illegal facets, and
// re-executes. The dropped facet names come back alongside the results.
func (b *Browser) SwitchCategory(ctx context.Context, category facet.Category) ([]Note, []string, error) {
	dropped := b.set.SwitchCategory(category)
	b.category = category
	notes, err := b.Apply(ctx)
	return notes, dropped, err
}

// Apply executes the current filters.
func (b *Browser) Apply(ctx context.Context) ([]Note, error) {
	return b.client.ListNotes(ctx, BuildQuery(b.category, b.set, b.search))
}
