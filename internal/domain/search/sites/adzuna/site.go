// Package adzuna adapts the Adzuna API client to the aggregator's site
// contract. Unlike HH, Adzuna takes free-form location names, so location
// ids pass through the resolver in reverse.
package adzuna

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/internal/domain/search"
	adzapi "github.com/workscout/workscout/pkg/adzuna"
	"github.com/workscout/workscout/pkg/logging"
)

const (
	SiteID = "adzuna"

	defaultDisplayName = "Adzuna"
)

// Client is the slice of the Adzuna API client the adapter needs.
type Client interface {
	SearchJobs(ctx context.Context, query string, params adzapi.SearchParams) ([]adzapi.Job, error)
}

// LocationNamer turns an HH area id back into a name Adzuna understands.
type LocationNamer interface {
	Name(ctx context.Context, id string) (string, bool, error)
}

// Site implements search.Site on top of the Adzuna API.
type Site struct {
	client    Client
	locations LocationNamer
	log       *logging.Logger

	name string
}

func New(client Client, locations LocationNamer, cfg config.AdzunaConfig, log *logging.Logger) *Site {
	name := cfg.Name
	if name == "" {
		name = defaultDisplayName
	}
	return &Site{
		client:    client,
		locations: locations,
		log:       log.Named("site.adzuna"),
		name:      name,
	}
}

func (s *Site) ID() string {
	return SiteID
}

func (s *Site) DisplayName() string {
	return s.name
}

func (s *Site) Search(ctx context.Context, q search.Query) (search.Response, error) {
	params := adzapi.SearchParams{}

	if q.Location == domain.LocationRemote {
		remote := true
		params.Remote = &remote
	} else if q.Location != "" {
		params.Location = s.locationName(ctx, q.Location)
	}
	if skills := q.Params["skills"]; skills != "" {
		params.Skills = strings.Split(skills, ",")
	}

	start := time.Now()
	found, err := s.client.SearchJobs(ctx, q.Keyword, params)
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		return search.Response{}, fmt.Errorf("adzuna search: %w", err)
	}

	jobs := make([]domain.Job, 0, len(found))
	now := time.Now()
	for _, j := range found {
		jobs = append(jobs, toJob(j, now))
	}

	s.log.Debug("search complete",
		"keyword", q.Keyword,
		"returned", len(jobs),
		"timing_ms", elapsed)

	return search.Response{Jobs: jobs, TimingMS: elapsed}, nil
}

// locationName maps the first id in a comma-separated list to its display
// name, falling back to the raw value for free-form input.
func (s *Site) locationName(ctx context.Context, location string) string {
	id := strings.TrimSpace(strings.Split(location, ",")[0])
	name, ok, err := s.locations.Name(ctx, id)
	if err != nil || !ok {
		return location
	}
	return name
}

func toJob(j adzapi.Job, fetchedAt time.Time) domain.Job {
	return domain.Job{
		ID:          uuid.New(),
		Title:       j.Title,
		Company:     domain.CompanyRef{Name: j.CompanyName},
		Location:    j.Location,
		Remote:      j.Remote,
		URL:         j.URL,
		Source:      SiteID,
		ExternalID:  j.ID,
		Salary:      formatSalary(j.SalaryMin, j.SalaryMax),
		Requirement: j.Description,
		PublishedAt: j.PostedAt,
		FetchedAt:   fetchedAt,
	}
}

func formatSalary(min, max float64) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("%.0f - %.0f", min, max)
	case min > 0:
		return fmt.Sprintf("from %.0f", min)
	case max > 0:
		return fmt.Sprintf("up to %.0f", max)
	default:
		return ""
	}
}
