package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/pkg/logging"
	"github.com/workscout/workscout/pkg/workerpool"
)

// stubSite is a scriptable Site with a call counter.
type stubSite struct {
	id    string
	name  string
	jobs  int
	delay time.Duration
	err   error
	panic bool

	calls atomic.Int64
}

func (s *stubSite) ID() string {
	return s.id
}

func (s *stubSite) DisplayName() string {
	if s.name != "" {
		return s.name
	}
	return s.id
}

func (s *stubSite) Search(_ context.Context, q Query) (Response, error) {
	s.calls.Add(1)

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panic {
		panic("stub site exploded")
	}
	if s.err != nil {
		return Response{}, s.err
	}

	jobs := make([]domain.Job, 0, s.jobs)
	for i := 0; i < s.jobs; i++ {
		jobs = append(jobs, domain.Job{
			Title:      fmt.Sprintf("%s job %d for %s", s.id, i, q.Keyword),
			Source:     s.id,
			ExternalID: fmt.Sprintf("%s-%d", s.id, i),
		})
	}
	return Response{Jobs: jobs, TimingMS: float64(s.delay) / float64(time.Millisecond)}, nil
}

func newTestService(t *testing.T, sc config.SearchConfig, sites ...Site) (*Service, *workerpool.Pool) {
	t.Helper()

	pool, err := workerpool.New(4, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	if sc.DefaultKeyword == "" {
		sc.DefaultKeyword = "php"
	}
	if sc.DefaultSites == nil {
		sc.DefaultSites = []string{"hh", "geekjob"}
	}

	svc, err := NewService(
		WithRegistry(NewRegistry(sites...)),
		WithPool(pool),
		WithLogger(logging.NewNop()),
		WithSearchConfig(sc),
	)
	require.NoError(t, err)

	return svc, pool
}

// A failing site must not prevent a healthy site's jobs from coming back.
func TestFailureIsolation(t *testing.T) {
	healthy := &stubSite{id: "hh", jobs: 3}
	broken := &stubSite{id: "geekjob", err: errors.New("connection refused")}

	svc, _ := newTestService(t, config.SearchConfig{}, healthy, broken)

	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "golang",
		Sites:   []string{"hh", "geekjob"},
	})
	require.NoError(t, err)
	require.Len(t, res.Sites, 2)

	require.Equal(t, domain.StatusSuccess, res.Sites["hh"].Status)
	require.Equal(t, 3, res.Sites["hh"].JobsCount)

	require.Equal(t, domain.StatusFailed, res.Sites["geekjob"].Status)
	require.Empty(t, res.Sites["geekjob"].Jobs)
	require.Contains(t, res.Sites["geekjob"].Error, "connection refused")
}

// The result map's key set equals exactly the registry-filtered input set.
func TestResultCompleteness(t *testing.T) {
	a := &stubSite{id: "hh", jobs: 1}
	b := &stubSite{id: "geekjob", jobs: 1}
	svc, _ := newTestService(t, config.SearchConfig{}, a, b)

	cases := [][]string{
		{"hh"},
		{"geekjob"},
		{"hh", "geekjob"},
		{"hh", "hh", "geekjob"}, // duplicates collapse
	}
	for _, sites := range cases {
		res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{Keyword: "go", Sites: sites})
		require.NoError(t, err)

		want := map[string]struct{}{}
		for _, id := range sites {
			want[id] = struct{}{}
		}
		require.Len(t, res.Sites, len(want))
		for id := range want {
			require.Contains(t, res.Sites, id)
		}
	}
}

// Only unknown site ids requested: zero result, zero adapter calls.
func TestEmptySetShortCircuit(t *testing.T) {
	site := &stubSite{id: "hh", jobs: 5}
	svc, _ := newTestService(t, config.SearchConfig{}, site)

	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "golang",
		Sites:   []string{"monster", "dice"},
	})
	require.NoError(t, err)
	require.Empty(t, res.Sites)
	require.Zero(t, res.GlobalTimeMS)
	require.Zero(t, res.TotalJobs)
	require.EqualValues(t, 0, site.calls.Load())
}

// Two sites delayed by T each must finish closer to T than to 2T.
func TestParallelDispatch(t *testing.T) {
	const delay = 100 * time.Millisecond
	a := &stubSite{id: "hh", jobs: 1, delay: delay}
	b := &stubSite{id: "geekjob", jobs: 1, delay: delay}
	svc, _ := newTestService(t, config.SearchConfig{}, a, b)

	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "golang",
		Sites:   []string{"hh", "geekjob"},
	})
	require.NoError(t, err)

	require.GreaterOrEqual(t, res.GlobalTimeMS, float64(delay/time.Millisecond))
	require.Less(t, res.GlobalTimeMS, 1.8*float64(delay/time.Millisecond))
}

// An empty result is success, distinguishable from a failure.
func TestEmptyResultIsSuccess(t *testing.T) {
	empty := &stubSite{id: "hh", jobs: 0}
	broken := &stubSite{id: "geekjob", err: errors.New("boom")}
	svc, _ := newTestService(t, config.SearchConfig{}, empty, broken)

	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "golang",
		Sites:   []string{"hh", "geekjob"},
	})
	require.NoError(t, err)

	hh := res.Sites["hh"]
	require.Equal(t, domain.StatusSuccess, hh.Status)
	require.NotNil(t, hh.Jobs)
	require.Empty(t, hh.Jobs)
	require.Empty(t, hh.Error)

	require.Equal(t, domain.StatusFailed, res.Sites["geekjob"].Status)
}

func TestScenarioTwoSitesWithCounts(t *testing.T) {
	a := &stubSite{id: "hh", name: "HeadHunter", jobs: 3, delay: 120 * time.Millisecond}
	b := &stubSite{id: "geekjob", name: "GeekJob", jobs: 2, delay: 80 * time.Millisecond}
	svc, _ := newTestService(t, config.SearchConfig{}, a, b)

	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "python",
		Sites:   []string{"hh", "geekjob"},
	})
	require.NoError(t, err)

	require.Equal(t, 3, res.Sites["hh"].JobsCount)
	require.Equal(t, "HeadHunter", res.Sites["hh"].Name)
	require.Equal(t, 2, res.Sites["geekjob"].JobsCount)
	require.Equal(t, 5, res.TotalJobs)

	// Concurrent, so bounded by the slower site, not the sum.
	require.Less(t, res.GlobalTimeMS, 190.0)
}

func TestScenarioDefaultsApplied(t *testing.T) {
	a := &stubSite{id: "hh", jobs: 1}
	b := &stubSite{id: "geekjob", jobs: 1}
	svc, _ := newTestService(t, config.SearchConfig{
		DefaultKeyword: "php",
		DefaultSites:   []string{"hh", "geekjob"},
	}, a, b)

	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{})
	require.NoError(t, err)

	require.Equal(t, "php", res.Keyword)
	require.Len(t, res.Sites, 2)
	require.EqualValues(t, 1, a.calls.Load())
	require.EqualValues(t, 1, b.calls.Load())
}

func TestScenarioUnknownSiteFiltered(t *testing.T) {
	a := &stubSite{id: "hh", jobs: 2}
	svc, _ := newTestService(t, config.SearchConfig{}, a)

	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "golang",
		Sites:   []string{"hh", "unknownsite"},
	})
	require.NoError(t, err)

	require.Len(t, res.Sites, 1)
	require.Contains(t, res.Sites, "hh")
}

func TestRejectPolicyFailsBlankKeyword(t *testing.T) {
	a := &stubSite{id: "hh", jobs: 1}
	svc, _ := newTestService(t, config.SearchConfig{
		EmptyKeywordPolicy: config.EmptyKeywordReject,
	}, a)

	_, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{Sites: []string{"hh"}})
	require.ErrorIs(t, err, ErrEmptyKeyword)
	require.EqualValues(t, 0, a.calls.Load())
}

func TestPanicBecomesFailedResult(t *testing.T) {
	bad := &stubSite{id: "hh", panic: true}
	good := &stubSite{id: "geekjob", jobs: 1}
	svc, _ := newTestService(t, config.SearchConfig{}, bad, good)

	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "golang",
		Sites:   []string{"hh", "geekjob"},
	})
	require.NoError(t, err)

	require.Equal(t, domain.StatusFailed, res.Sites["hh"].Status)
	require.Contains(t, res.Sites["hh"].Error, "panic")
	require.Equal(t, domain.StatusSuccess, res.Sites["geekjob"].Status)
}

func TestStuckSiteHitsDeadline(t *testing.T) {
	stuck := &stubSite{id: "hh", jobs: 1, delay: 400 * time.Millisecond}
	fast := &stubSite{id: "geekjob", jobs: 2}
	svc, _ := newTestService(t, config.SearchConfig{Timeout: 80 * time.Millisecond}, stuck, fast)

	start := time.Now()
	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "golang",
		Sites:   []string{"hh", "geekjob"},
	})
	require.NoError(t, err)
	require.Less(t, time.Since(start), 300*time.Millisecond)

	require.Equal(t, domain.StatusFailed, res.Sites["hh"].Status)
	require.Contains(t, res.Sites["hh"].Error, "deadline")
	require.Equal(t, domain.StatusSuccess, res.Sites["geekjob"].Status)
	require.Equal(t, 2, res.Sites["geekjob"].JobsCount)
}

// A released pool is the one condition that propagates.
func TestReleasedPoolPropagates(t *testing.T) {
	a := &stubSite{id: "hh", jobs: 1}
	svc, pool := newTestService(t, config.SearchConfig{}, a)

	pool.Release()

	_, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "golang",
		Sites:   []string{"hh"},
	})
	require.ErrorIs(t, err, workerpool.ErrPoolClosed)
}

func TestAllFailed(t *testing.T) {
	a := &stubSite{id: "hh", err: errors.New("down")}
	b := &stubSite{id: "geekjob", err: errors.New("down too")}
	svc, _ := newTestService(t, config.SearchConfig{}, a, b)

	res, err := svc.SearchAllSites(context.Background(), domain.SearchRequest{
		Keyword: "golang",
		Sites:   []string{"hh", "geekjob"},
	})
	require.NoError(t, err)
	require.True(t, res.AllFailed())
	require.Len(t, res.Sites, 2)
}
