package adzuna

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/internal/domain/search"
	adzapi "github.com/workscout/workscout/pkg/adzuna"
	"github.com/workscout/workscout/pkg/logging"
)

type fakeClient struct {
	lastQuery  string
	lastParams adzapi.SearchParams
	jobs       []adzapi.Job
	err        error
}

func (f *fakeClient) SearchJobs(_ context.Context, query string, params adzapi.SearchParams) ([]adzapi.Job, error) {
	f.lastQuery = query
	f.lastParams = params
	return f.jobs, f.err
}

type fakeNamer struct {
	names map[string]string
}

func (f *fakeNamer) Name(_ context.Context, id string) (string, bool, error) {
	name, ok := f.names[id]
	return name, ok, nil
}

func newTestSite(client *fakeClient) *Site {
	return New(client, &fakeNamer{names: map[string]string{"1": "Москва"}}, config.AdzunaConfig{}, logging.NewNop())
}

func TestSearchMapsJobs(t *testing.T) {
	client := &fakeClient{jobs: []adzapi.Job{
		{
			ID:          "az-1",
			Title:       "Go Engineer",
			CompanyName: "Globex",
			Location:    "London, UK",
			URL:         "https://adzuna.com/details/az-1",
			SalaryMin:   60000,
			SalaryMax:   80000,
			Remote:      true,
			PostedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	site := newTestSite(client)

	resp, err := site.Search(context.Background(), search.Query{Keyword: "golang"})
	require.NoError(t, err)
	require.Len(t, resp.Jobs, 1)

	job := resp.Jobs[0]
	require.Equal(t, "Go Engineer", job.Title)
	require.Equal(t, "Globex", job.Company.Name)
	require.Equal(t, "60000 - 80000", job.Salary)
	require.Equal(t, "adzuna", job.Source)
	require.True(t, job.Remote)
}

func TestRemoteLocationSetsFlag(t *testing.T) {
	client := &fakeClient{}
	site := newTestSite(client)

	_, err := site.Search(context.Background(), search.Query{Keyword: "go", Location: domain.LocationRemote})
	require.NoError(t, err)
	require.NotNil(t, client.lastParams.Remote)
	require.True(t, *client.lastParams.Remote)
}

func TestLocationIDResolvedToName(t *testing.T) {
	client := &fakeClient{}
	site := newTestSite(client)

	_, err := site.Search(context.Background(), search.Query{Keyword: "go", Location: "1"})
	require.NoError(t, err)
	require.Equal(t, "Москва", client.lastParams.Location)

	// free-form location passes through untouched
	_, err = site.Search(context.Background(), search.Query{Keyword: "go", Location: "London"})
	require.NoError(t, err)
	require.Equal(t, "London", client.lastParams.Location)
}

func TestSkillsParamForwarded(t *testing.T) {
	client := &fakeClient{}
	site := newTestSite(client)

	_, err := site.Search(context.Background(), search.Query{
		Keyword: "go",
		Params:  map[string]string{"skills": "go,kubernetes"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"go", "kubernetes"}, client.lastParams.Skills)
}
