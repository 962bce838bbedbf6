// Package geekjob adapts the GeekJob API client to the aggregator's site
// contract.
package geekjob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/internal/domain/search"
	gjapi "github.com/workscout/workscout/pkg/geekjob"
	"github.com/workscout/workscout/pkg/logging"
)

const (
	SiteID = "geekjob"

	defaultDisplayName = "GeekJob"
	modifyLayout       = "02.01.2006"
	vacancyURLBase     = "https://geekjob.ru/vacancy/"
)

// Client is the slice of the GeekJob API client the adapter needs.
type Client interface {
	SearchVacancies(ctx context.Context, query string, params gjapi.SearchParams) (gjapi.SearchResponse, error)
}

// Site implements search.Site on top of the GeekJob API.
type Site struct {
	client Client
	log    *logging.Logger

	name    string
	allowed map[string]struct{}
}

func New(client Client, cfg config.GeekJobConfig, log *logging.Logger) *Site {
	name := cfg.Name
	if name == "" {
		name = defaultDisplayName
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedParams))
	for _, p := range cfg.AllowedParams {
		allowed[p] = struct{}{}
	}
	return &Site{
		client:  client,
		log:     log.Named("site.geekjob"),
		name:    name,
		allowed: allowed,
	}
}

func (s *Site) ID() string {
	return SiteID
}

func (s *Site) DisplayName() string {
	return s.name
}

// Search runs one GeekJob query. GeekJob has no location filter in its
// search API; a remote location request tightens the rm flag instead.
func (s *Site) Search(ctx context.Context, q search.Query) (search.Response, error) {
	params := gjapi.SearchParams{Extra: s.filterParams(q.Params)}
	if q.Location == domain.LocationRemote {
		if params.Extra == nil {
			params.Extra = map[string]string{}
		}
		params.Extra["rm"] = "2"
	}

	start := time.Now()
	resp, err := s.client.SearchVacancies(ctx, q.Keyword, params)
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		return search.Response{}, fmt.Errorf("geekjob search: %w", err)
	}

	jobs := make([]domain.Job, 0, len(resp.Data))
	now := time.Now()
	for _, v := range resp.Data {
		jobs = append(jobs, s.toJob(v, now))
	}

	s.log.Debug("search complete",
		"keyword", q.Keyword,
		"found", resp.DocumentsCount,
		"returned", len(jobs),
		"timing_ms", elapsed)

	return search.Response{Jobs: jobs, TimingMS: elapsed}, nil
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

func (s *Site) toJob(v gjapi.Vacancy, fetchedAt time.Time) domain.Job {
	job := domain.Job{
		ID:         uuid.New(),
		Title:      v.Position,
		URL:        vacancyURLBase + v.ID,
		Source:     SiteID,
		ExternalID: v.ID,
		Salary:     v.Salary,
		FetchedAt:  fetchedAt,
	}

	if v.Company != nil {
		job.Company = domain.CompanyRef{ID: v.Company.ID, Name: v.Company.Name}
		job.LogoURL = v.Company.Logo
	}

	var loc []string
	if v.City != "" {
		loc = append(loc, v.City)
	}
	if v.Country != "" {
		loc = append(loc, v.Country)
	}
	job.Location = strings.Join(loc, ", ")

	if v.JobFormat != nil {
		job.Remote = v.JobFormat.Remote
		var formats []string
		if v.JobFormat.Remote {
			formats = append(formats, "удаленная работа")
		}
		if v.JobFormat.Inhouse {
			formats = append(formats, "офис")
		}
		if v.JobFormat.Parttime {
			formats = append(formats, "частичная занятость")
		}
		if v.JobFormat.Relocate {
			formats = append(formats, "релокация")
		}
		job.WorkFormat = strings.Join(formats, ", ")
	}

	if v.Log != nil && v.Log.Modify != "" {
		if t, err := time.Parse(modifyLayout, v.Log.Modify); err == nil {
			job.PublishedAt = t
		}
	}

	return job
}
