package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobID uniquely identifies a job
type JobID = uuid.UUID

// LocationRemote is the sentinel location value meaning "no geographic
// filter, remote work only". Adapters interpret it themselves.
const LocationRemote = "remote"

// CompanyRef references a company
type CompanyRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Job is the normalized job posting record. The aggregator treats it as
// opaque; only site adapters and presentation layers look inside.
type Job struct {
	ID             JobID      `json:"id"`
	Title          string     `json:"title"`
	Company        CompanyRef `json:"company"`
	Location       string     `json:"location,omitempty"`
	Remote         bool       `json:"remote"`
	URL            string     `json:"url,omitempty"`
	LogoURL        string     `json:"logo_url,omitempty"`
	Source         string     `json:"source"`
	ExternalID     string     `json:"external_id,omitempty"`
	Salary         string     `json:"salary,omitempty"`
	WorkFormat     string     `json:"work_format,omitempty"`
	Experience     string     `json:"experience,omitempty"`
	Employment     string     `json:"employment,omitempty"`
	Requirement    string     `json:"requirement,omitempty"`
	Responsibility string     `json:"responsibility,omitempty"`
	Skills         []string   `json:"skills,omitempty"`
	PublishedAt    time.Time  `json:"published_at,omitempty"`
	FetchedAt      time.Time  `json:"fetched_at"`
}

// SearchRequest describes one aggregate search. Constructed per call,
// immutable once handed to the aggregator.
type SearchRequest struct {
	Keyword  string
	Location string            // location id, comma-separated ids, or LocationRemote
	Sites    []string          // nil means "use configured default site list"
	Params   map[string]string // forwarded to adapters, which apply their allow-lists
}

// SiteStatus tags the outcome of one site's search.
type SiteStatus string

const (
	StatusSuccess SiteStatus = "success"
	StatusFailed  SiteStatus = "failed"
)

// SiteResult is the per-site outcome of one aggregate search. An empty
// jobs slice with StatusSuccess is a valid "nothing found" result and is
// distinct from StatusFailed.
type SiteResult struct {
	Site      string     `json:"site"`
	Name      string     `json:"name"`
	Jobs      []Job      `json:"jobs"`
	JobsCount int        `json:"jobs_count"`
	TimingMS  float64    `json:"timing_ms"`
	Status    SiteStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
}

// AggregateResult is the merged response of one SearchAllSites call. The
// Sites map is unordered; callers key by site id only.
type AggregateResult struct {
	Keyword      string                `json:"keyword"`
	Location     string                `json:"location,omitempty"`
	Sites        map[string]SiteResult `json:"sites"`
	TotalJobs    int                   `json:"total_jobs"`
	GlobalTimeMS float64               `json:"global_time_ms"`
	RequestedAt  time.Time             `json:"requested_at"`
}

// AllFailed reports whether every requested site ended up failed. A result
// with no sites at all also counts: there is nothing to show either way.
func (r AggregateResult) AllFailed() bool {
	for _, sr := range r.Sites {
		if sr.Status == StatusSuccess {
			return false
		}
	}
	return true
}

// SiteInfo describes one registry entry for front-ends.
type SiteInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
