package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/internal/domain/search"
	"github.com/workscout/workscout/internal/resultlog"
	"github.com/workscout/workscout/pkg/logging"
	"github.com/workscout/workscout/pkg/workerpool"
)

type fakeSearcher struct {
	lastReq domain.SearchRequest
	res     domain.AggregateResult
	err     error
}

func (f *fakeSearcher) SearchAllSites(_ context.Context, req domain.SearchRequest) (domain.AggregateResult, error) {
	f.lastReq = req
	return f.res, f.err
}

func (f *fakeSearcher) AvailableSites() []domain.SiteInfo {
	return []domain.SiteInfo{
		{ID: "geekjob", Name: "GeekJob", Enabled: true},
		{ID: "hh", Name: "HeadHunter", Enabled: true},
	}
}

type fakeArchive struct {
	saved   []string
	records []resultlog.Record
	stats   resultlog.Stats
}

func (f *fakeArchive) Save(source string, _ domain.AggregateResult) {
	f.saved = append(f.saved, source)
}

func (f *fakeArchive) Recent(limit int) ([]resultlog.Record, error) {
	if limit > 0 && len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeArchive) Stats() (resultlog.Stats, error) {
	return f.stats, nil
}

type fakeLocations struct {
	ids        map[string]string
	refreshErr error
}

func (f *fakeLocations) ResolveID(_ context.Context, name string) (string, bool, error) {
	id, ok := f.ids[name]
	return id, ok, nil
}

func (f *fakeLocations) Refresh(_ context.Context) error {
	return f.refreshErr
}

func newTestRouter(searcher *fakeSearcher, archive *fakeArchive, locations *fakeLocations) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := &handlers{searcher: searcher, archive: archive, locations: locations, log: logging.NewNop()}
	router.GET("/healthz", h.health)
	v1 := router.Group("/api/v1")
	v1.GET("/search/:keyword", h.search)
	v1.GET("/sites", h.sites)
	v1.GET("/history", h.history)
	v1.GET("/stats", h.stats)
	v1.GET("/locations/resolve", h.resolveLocation)
	v1.POST("/locations/refresh", h.refreshLocations)

	return router
}

func doRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeSearcher{}, &fakeArchive{}, &fakeLocations{})

	w := doRequest(router, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestSearchShapesResponse(t *testing.T) {
	searcher := &fakeSearcher{res: domain.AggregateResult{
		Keyword:      "golang",
		TotalJobs:    2,
		GlobalTimeMS: 123.4,
		Sites: map[string]domain.SiteResult{
			"hh": {Site: "hh", Name: "HeadHunter", JobsCount: 2, Status: domain.StatusSuccess, Jobs: []domain.Job{{Title: "a"}, {Title: "b"}}},
		},
	}}
	archive := &fakeArchive{}
	router := newTestRouter(searcher, archive, &fakeLocations{})

	w := doRequest(router, http.MethodGet, "/api/v1/search/golang?location=1&sites=hh,geekjob&experience=noExperience")
	require.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "golang", resp.Keyword)
	require.Equal(t, 2, resp.TotalJobs)
	require.InDelta(t, 123.4, resp.GlobalTimeMS, 0.001)
	require.Contains(t, resp.Results, "hh")

	// request plumbing
	require.Equal(t, "golang", searcher.lastReq.Keyword)
	require.Equal(t, "1", searcher.lastReq.Location)
	require.Equal(t, []string{"hh", "geekjob"}, searcher.lastReq.Sites)
	require.Equal(t, map[string]string{"experience": "noExperience"}, searcher.lastReq.Params)

	require.Equal(t, []string{"http"}, archive.saved)
}

func TestSearchEmptyKeywordRejected(t *testing.T) {
	searcher := &fakeSearcher{err: search.ErrEmptyKeyword}
	archive := &fakeArchive{}
	router := newTestRouter(searcher, archive, &fakeLocations{})

	w := doRequest(router, http.MethodGet, "/api/v1/search/%20")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, archive.saved)
}

func TestSearchPoolClosedIs503(t *testing.T) {
	searcher := &fakeSearcher{err: workerpool.ErrPoolClosed}
	router := newTestRouter(searcher, &fakeArchive{}, &fakeLocations{})

	w := doRequest(router, http.MethodGet, "/api/v1/search/go")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSites(t *testing.T) {
	router := newTestRouter(&fakeSearcher{}, &fakeArchive{}, &fakeLocations{})

	w := doRequest(router, http.MethodGet, "/api/v1/sites")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"id":"hh"`)
	require.Contains(t, w.Body.String(), `"id":"geekjob"`)
}

func TestHistoryLimit(t *testing.T) {
	archive := &fakeArchive{records: []resultlog.Record{
		{Source: "cli"}, {Source: "http"}, {Source: "telegram"},
	}}
	router := newTestRouter(&fakeSearcher{}, archive, &fakeLocations{})

	w := doRequest(router, http.MethodGet, "/api/v1/history?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		History []resultlog.Record `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.History, 2)

	w = doRequest(router, http.MethodGet, "/api/v1/history?limit=zero")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStats(t *testing.T) {
	archive := &fakeArchive{stats: resultlog.Stats{Searches: 5, TotalJobs: 40}}
	router := newTestRouter(&fakeSearcher{}, archive, &fakeLocations{})

	w := doRequest(router, http.MethodGet, "/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"searches":5`)
}

func TestResolveLocation(t *testing.T) {
	locations := &fakeLocations{ids: map[string]string{"Москва": "1"}}
	router := newTestRouter(&fakeSearcher{}, &fakeArchive{}, locations)

	w := doRequest(router, http.MethodGet, "/api/v1/locations/resolve?name=Москва")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"id":"1"`)

	w = doRequest(router, http.MethodGet, "/api/v1/locations/resolve?name=Atlantis")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/locations/resolve")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshLocations(t *testing.T) {
	router := newTestRouter(&fakeSearcher{}, &fakeArchive{}, &fakeLocations{})
	w := doRequest(router, http.MethodPost, "/api/v1/locations/refresh")
	require.Equal(t, http.StatusOK, w.Code)

	router = newTestRouter(&fakeSearcher{}, &fakeArchive{}, &fakeLocations{refreshErr: errors.New("hh down")})
	w = doRequest(router, http.MethodPost, "/api/v1/locations/refresh")
	require.Equal(t, http.StatusBadGateway, w.Code)
}
