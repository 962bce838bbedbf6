// Package hh adapts the HeadHunter API client to the aggregator's site
// contract.
package hh

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/internal/domain/search"
	hhapi "github.com/workscout/workscout/pkg/hh"
	"github.com/workscout/workscout/pkg/logging"
)

const (
	SiteID = "hh"

	defaultDisplayName = "HeadHunter"
	publishedAtLayout  = "2006-01-02T15:04:05-0700"
)

// Client is the slice of the HH API client the adapter needs.
type Client interface {
	SearchVacancies(ctx context.Context, query string, params hhapi.SearchParams) (hhapi.SearchResponse, error)
}

// LocationResolver validates HH area ids before they go on the wire.
type LocationResolver interface {
	ValidateID(ctx context.Context, id string) (bool, error)
}

// Site implements search.Site on top of the HeadHunter API.
type Site struct {
	client    Client
	locations LocationResolver
	log       *logging.Logger

	name        string
	defaultArea string
	allowed     map[string]struct{}
}

func New(client Client, locations LocationResolver, cfg config.HHConfig, defaultArea string, log *logging.Logger) *Site {
	name := cfg.Name
	if name == "" {
		name = defaultDisplayName
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedParams))
	for _, p := range cfg.AllowedParams {
		allowed[p] = struct{}{}
	}
	return &Site{
		client:      client,
		locations:   locations,
		log:         log.Named("site.hh"),
		name:        name,
		defaultArea: defaultArea,
		allowed:     allowed,
	}
}

func (s *Site) ID() string {
	return SiteID
}

func (s *Site) DisplayName() string {
	return s.name
}

func (s *Site) Search(ctx context.Context, q search.Query) (search.Response, error) {
	params := hhapi.SearchParams{Extra: s.filterParams(q.Params)}

	if q.Location == domain.LocationRemote {
		params.Schedule = "remote"
	} else if q.Location != "" {
		params.Area = s.resolveArea(ctx, q.Location)
	}

	start := time.Now()
	resp, err := s.client.SearchVacancies(ctx, q.Keyword, params)
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		return search.Response{}, fmt.Errorf("headhunter search: %w", err)
	}

	jobs := make([]domain.Job, 0, len(resp.Items))
	now := time.Now()
	for _, v := range resp.Items {
		jobs = append(jobs, s.toJob(v, now))
	}

	s.log.Debug("search complete",
		"keyword", q.Keyword,
		"found", resp.Found,
		"returned", len(jobs),
		"timing_ms", elapsed)

	return search.Response{Jobs: jobs, TimingMS: elapsed}, nil
}

// resolveArea picks the first valid id from a comma-separated location
// list, falling back to the configured default area.
func (s *Site) resolveArea(ctx context.Context, location string) string {
	for _, id := range strings.Split(location, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ok, err := s.locations.ValidateID(ctx, id)
		if err != nil {
			s.log.Warn("location validation failed, using id as-is", "id", id, "error", err)
			return id
		}
		if ok {
			return id
		}
		s.log.Debug("unknown location id, trying next", "id", id)
	}
	s.log.Warn("no valid location id, falling back to default", "location", location, "default", s.defaultArea)
	return s.defaultArea
}

func (s *Site) filterParams(params map[string]string) map[string]string {
	if len(params) == 0 || len(s.allowed) == 0 {
		return nil
	}
	out := make(map[string]string)
	for k, v := range params {
		if _, ok := s.allowed[k]; ok {
			out[k] = v
		}
	}
	return out
}

func (s *Site) toJob(v hhapi.Vacancy, fetchedAt time.Time) domain.Job {
	job := domain.Job{
		ID:         uuid.New(),
		Title:      v.Name,
		URL:        v.AlternateURL,
		Source:     SiteID,
		ExternalID: v.ID,
		Salary:     formatSalary(v.Salary),
		FetchedAt:  fetchedAt,
	}

	if v.Employer != nil {
		job.Company = domain.CompanyRef{ID: v.Employer.ID, Name: v.Employer.Name}
		job.LogoURL = v.Employer.LogoURLs["240"]
		if job.LogoURL == "" {
			job.LogoURL = v.Employer.LogoURLs["original"]
		}
	}
	if v.Area != nil {
		job.Location = v.Area.Name
	}
	if v.Schedule != nil && v.Schedule.ID == "remote" {
		job.Remote = true
	}
	for _, wf := range v.WorkFormat {
		if job.WorkFormat != "" {
			job.WorkFormat += ", "
		}
		job.WorkFormat += wf.Name
		if wf.ID == "REMOTE" {
			job.Remote = true
		}
	}
	if v.Experience != nil {
		job.Experience = v.Experience.Name
	}
	if v.Employment != nil {
		job.Employment = v.Employment.Name
	}
	if v.Snippet != nil {
		job.Requirement = stripHighlights(v.Snippet.Requirement)
		job.Responsibility = stripHighlights(v.Snippet.Responsibility)
	}
	for _, skill := range v.KeySkills {
		job.Skills = append(job.Skills, skill.Name)
	}
	if t, err := time.Parse(publishedAtLayout, v.PublishedAt); err == nil {
		job.PublishedAt = t
	} else if t, err := time.Parse(time.RFC3339, v.PublishedAt); err == nil {
		job.PublishedAt = t
	}

	return job
}

// stripHighlights removes HH's <highlighttext> markers from snippets.
func stripHighlights(s string) string {
	s = strings.ReplaceAll(s, "<highlighttext>", "")
	return strings.ReplaceAll(s, "</highlighttext>", "")
}

func formatSalary(s *hhapi.Salary) string {
	if s == nil {
		return ""
	}
	cur := currencySymbol(s.Currency)
	switch {
	case s.From != nil && s.To != nil:
		return fmt.Sprintf("%d - %d %s", *s.From, *s.To, cur)
	case s.From != nil:
		return fmt.Sprintf("от %d %s", *s.From, cur)
	case s.To != nil:
		return fmt.Sprintf("до %d %s", *s.To, cur)
	default:
		return ""
	}
}

func currencySymbol(code string) string {
	switch code {
	case "RUR", "RUB":
		return "₽"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	default:
		return code
	}
}
