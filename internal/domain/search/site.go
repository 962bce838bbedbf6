package search

import (
	"context"
	"sort"

	"github.com/workscout/workscout/internal/domain"
)

// Query is what the aggregator hands to each site adapter.
type Query struct {
	Keyword  string
	Location string            // location id, comma-separated ids, or domain.LocationRemote
	Params   map[string]string // adapters filter against their own allow-lists
}

// Response is a site adapter's answer. TimingMS covers the adapter's own
// HTTP round trip. A nil Jobs slice with a nil error is a valid empty
// result, not a failure.
type Response struct {
	Jobs     []domain.Job
	TimingMS float64
}

// Site is the adapter contract the aggregator depends on. Implementations
// enforce their own request timeout, honor ctx cancellation, and signal
// failure through the error return only, never through sentinel entries
// in the jobs slice.
type Site interface {
	ID() string
	DisplayName() string
	Search(ctx context.Context, q Query) (Response, error)
}

// Registry holds the statically configured available sites. It is built
// once at assembly time and injected into the Service; there is no
// process-wide mutable site table.
type Registry struct {
	sites map[string]Site
}

// NewRegistry builds a registry from the given sites. Later duplicates of
// the same id win, matching config-over-default layering.
func NewRegistry(sites ...Site) *Registry {
	m := make(map[string]Site, len(sites))
	for _, s := range sites {
		if s != nil {
			m[s.ID()] = s
		}
	}
	return &Registry{sites: m}
}

// Lookup returns the site registered under id.
func (r *Registry) Lookup(id string) (Site, bool) {
	s, ok := r.sites[id]
	return s, ok
}

// IDs returns all registered site ids, sorted for stable listings.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.sites))
	for id := range r.sites {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Infos returns registry entries for front-end listings.
func (r *Registry) Infos() []domain.SiteInfo {
	out := make([]domain.SiteInfo, 0, len(r.sites))
	for _, id := range r.IDs() {
		out = append(out, domain.SiteInfo{ID: id, Name: r.sites[id].DisplayName(), Enabled: true})
	}
	return out
}
