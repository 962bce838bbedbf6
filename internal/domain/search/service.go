package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/pkg/logging"
	"github.com/workscout/workscout/pkg/workerpool"
)

// ErrEmptyKeyword is returned when a blank keyword arrives and the
// configured policy is to reject instead of substituting the default.
var ErrEmptyKeyword = errors.New("search: keyword is required")

// Service is the concurrent search aggregation engine. It fans a keyword
// query out to every requested site on the shared worker pool and merges
// the per-site outcomes, tolerating partial failures: one site failing
// never fails the whole search.
type Service struct {
	registry *Registry
	pool     *workerpool.Pool
	log      *logging.Logger

	defaultKeyword     string
	defaultSites       []string
	emptyKeywordPolicy config.EmptyKeywordPolicy
	timeout            time.Duration

	clock func() time.Time
}

// Option configures Service.
type Option func(*serviceConfig)

type serviceConfig struct {
	registry *Registry
	pool     *workerpool.Pool
	log      *logging.Logger
	search   config.SearchConfig
	clock    func() time.Time
}

// WithRegistry sets the site registry.
func WithRegistry(r *Registry) Option {
	return func(c *serviceConfig) {
		c.registry = r
	}
}

// WithPool sets the shared worker pool.
func WithPool(p *workerpool.Pool) Option {
	return func(c *serviceConfig) {
		c.pool = p
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *serviceConfig) {
		c.log = log
	}
}

// WithSearchConfig sets defaults and policies.
func WithSearchConfig(sc config.SearchConfig) Option {
	return func(c *serviceConfig) {
		c.search = sc
	}
}

// WithClock sets a custom clock.
func WithClock(clock func() time.Time) Option {
	return func(c *serviceConfig) {
		c.clock = clock
	}
}

// NewService builds a Service from options.
func NewService(opts ...Option) (*Service, error) {
	cfg := &serviceConfig{clock: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.registry == nil {
		return nil, fmt.Errorf("search.Service: registry is required")
	}
	if cfg.pool == nil {
		return nil, fmt.Errorf("search.Service: worker pool is required")
	}
	if cfg.log == nil {
		cfg.log = logging.NewNop()
	}

	policy := cfg.search.EmptyKeywordPolicy
	if policy == "" {
		policy = config.EmptyKeywordDefault
	}

	return &Service{
		registry:           cfg.registry,
		pool:               cfg.pool,
		log:                cfg.log,
		defaultKeyword:     cfg.search.DefaultKeyword,
		defaultSites:       cfg.search.DefaultSites,
		emptyKeywordPolicy: policy,
		timeout:            cfg.search.Timeout,
		clock:              cfg.clock,
	}, nil
}

// AvailableSites lists the configured site registry for front-ends.
func (s *Service) AvailableSites() []domain.SiteInfo {
	return s.registry.Infos()
}

type siteOutcome struct {
	id     string
	result domain.SiteResult
}

// SearchAllSites runs one aggregate search. Per-site errors, panics and
// timeouts are folded into failed SiteResults; the only error this method
// itself returns is a rejected blank keyword or a worker pool that can no
// longer accept work, which callers should treat as fatal.
func (s *Service) SearchAllSites(ctx context.Context, req domain.SearchRequest) (domain.AggregateResult, error) {
	keyword, err := s.resolveKeyword(req.Keyword)
	if err != nil {
		return domain.AggregateResult{}, err
	}

	sites := s.resolveSites(req.Sites)

	out := domain.AggregateResult{
		Keyword:     keyword,
		Location:    req.Location,
		Sites:       make(map[string]domain.SiteResult, len(sites)),
		RequestedAt: s.clock(),
	}

	// Nothing valid to dispatch: short-circuit without touching the pool.
	if len(sites) == 0 {
		s.log.Warn("no valid sites in search request", "requested", req.Sites)
		return out, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	q := Query{Keyword: keyword, Location: req.Location, Params: req.Params}
	start := time.Now()

	// Buffered to the number of tasks so abandoned workers never block.
	outcomes := make(chan siteOutcome, len(sites))
	pending := make(map[string]struct{}, len(sites))

	for _, site := range sites {
		site := site
		if err := s.pool.Submit(func() {
			outcomes <- siteOutcome{id: site.ID(), result: s.searchSite(ctx, site, q)}
		}); err != nil {
			return domain.AggregateResult{}, fmt.Errorf("search: submit %s: %w", site.ID(), err)
		}
		pending[site.ID()] = struct{}{}
	}

	for len(pending) > 0 {
		select {
		case o := <-outcomes:
			delete(pending, o.id)
			out.Sites[o.id] = o.result
		case <-ctx.Done():
			// Abandon whatever is still running; each straggler gets a
			// failed entry so the result mapping stays complete.
			for id := range pending {
				site, _ := s.registry.Lookup(id)
				name := id
				if site != nil {
					name = site.DisplayName()
				}
				out.Sites[id] = failedResult(id, name, time.Since(start), fmt.Errorf("search deadline exceeded: %w", ctx.Err()))
			}
			pending = nil
		}
	}

	for _, sr := range out.Sites {
		out.TotalJobs += sr.JobsCount
	}
	out.GlobalTimeMS = float64(time.Since(start)) / float64(time.Millisecond)

	s.log.Info("aggregate search completed",
		"keyword", keyword,
		"location", req.Location,
		"sites", len(sites),
		"total_jobs", out.TotalJobs,
		"global_time_ms", out.GlobalTimeMS,
	)

	return out, nil
}

// SearchSingleSite runs one site only, with the same isolation rules.
func (s *Service) SearchSingleSite(ctx context.Context, siteID string, req domain.SearchRequest) (domain.AggregateResult, error) {
	req.Sites = []string{siteID}
	return s.SearchAllSites(ctx, req)
}

func (s *Service) resolveKeyword(keyword string) (string, error) {
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		return keyword, nil
	}
	if s.emptyKeywordPolicy == config.EmptyKeywordReject {
		return "", ErrEmptyKeyword
	}
	return s.defaultKeyword, nil
}

// resolveSites intersects the requested site ids with the registry. Nil
// means the configured default list; unknown ids are dropped, not errors.
func (s *Service) resolveSites(requested []string) []Site {
	ids := requested
	if ids == nil {
		ids = s.defaultSites
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]Site, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		site, ok := s.registry.Lookup(id)
		if !ok {
			s.log.Debug("dropping unknown site id", "site", id)
			continue
		}
		out = append(out, site)
	}

	return out
}

// searchSite runs one adapter call and normalizes the outcome. Panics and
// errors become failed results here so they never cross the pool boundary.
func (s *Service) searchSite(ctx context.Context, site Site, q Query) (result domain.SiteResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("site adapter panicked", "site", site.ID(), "panic", r)
			result = failedResult(site.ID(), site.DisplayName(), time.Since(start), fmt.Errorf("adapter panic: %v", r))
		}
	}()

	resp, err := site.Search(ctx, q)
	if err != nil {
		s.log.Warn("site search failed", "site", site.ID(), "keyword", q.Keyword, "err", err)
		return failedResult(site.ID(), site.DisplayName(), time.Since(start), err)
	}

	jobs := resp.Jobs
	if jobs == nil {
		jobs = []domain.Job{}
	}

	timing := resp.TimingMS
	if timing <= 0 {
		timing = float64(time.Since(start)) / float64(time.Millisecond)
	}

	return domain.SiteResult{
		Site:      site.ID(),
		Name:      site.DisplayName(),
		Jobs:      jobs,
		JobsCount: len(jobs),
		TimingMS:  timing,
		Status:    domain.StatusSuccess,
	}
}

func failedResult(id, name string, elapsed time.Duration, err error) domain.SiteResult {
	return domain.SiteResult{
		Site:     id,
		Name:     name,
		Jobs:     []domain.Job{},
		TimingMS: float64(elapsed) / float64(time.Millisecond),
		Status:   domain.StatusFailed,
		Error:    err.Error(),
	}
}
