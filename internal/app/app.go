// Package app assembles the aggregator and its front-ends from config.
package app

import (
	"fmt"

	"github.com/workscout/workscout/internal/api"
	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain/search"
	adzsite "github.com/workscout/workscout/internal/domain/search/sites/adzuna"
	gjsite "github.com/workscout/workscout/internal/domain/search/sites/geekjob"
	hhsite "github.com/workscout/workscout/internal/domain/search/sites/hh"
	"github.com/workscout/workscout/internal/location"
	"github.com/workscout/workscout/internal/mcp"
	"github.com/workscout/workscout/internal/resultlog"
	"github.com/workscout/workscout/pkg/adzuna"
	"github.com/workscout/workscout/pkg/geekjob"
	"github.com/workscout/workscout/pkg/hh"
	"github.com/workscout/workscout/pkg/logging"
	"github.com/workscout/workscout/pkg/workerpool"
)

// App holds every long-lived component of one workscout process.
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	Pool      *workerpool.Pool
	Locations *location.Service
	Search    *search.Service
	Archive   *resultlog.Logger
	API       *api.Server
	MCP       *mcp.Server
}

// Close releases the worker pool and flushes buffered log entries.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Release()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

func newApp(
	cfg config.Config,
	logger *logging.Logger,
	pool *workerpool.Pool,
	locations *location.Service,
	svc *search.Service,
	archive *resultlog.Logger,
	apiServer *api.Server,
	mcpServer *mcp.Server,
) *App {
	return &App{
		Config:    cfg,
		Logger:    logger,
		Pool:      pool,
		Locations: locations,
		Search:    svc,
		Archive:   archive,
		API:       apiServer,
		MCP:       mcpServer,
	}
}

func provideLogger(cfg config.Config) *logging.Logger {
	return logging.New(cfg.Log)
}

func providePool(cfg config.Config, log *logging.Logger) (*workerpool.Pool, error) {
	return workerpool.New(cfg.Search.Workers, log)
}

func provideHHClient(cfg config.Config) (*hh.Client, error) {
	return hh.NewClient(hh.Config{
		BaseURL:   cfg.Sites.HH.BaseURL,
		AreasURL:  cfg.Sites.HH.AreasURL,
		UserAgent: cfg.Search.UserAgent,
		Timeout:   cfg.Search.RequestTimeout,
		PerPage:   cfg.Sites.HH.PerPage,
		OrderBy:   cfg.Sites.HH.OrderBy,
	})
}

func provideGeekJobClient(cfg config.Config) (*geekjob.Client, error) {
	return geekjob.NewClient(geekjob.Config{
		BaseURL:   cfg.Sites.GeekJob.BaseURL,
		UserAgent: cfg.Search.UserAgent,
		Timeout:   cfg.Search.RequestTimeout,
		Page:      cfg.Sites.GeekJob.Page,
		Remote:    cfg.Sites.GeekJob.Remote,
	})
}

// provideAdzunaClient returns nil when the optional Adzuna site is off.
func provideAdzunaClient(cfg config.Config) (*adzuna.Client, error) {
	if !cfg.Sites.Adzuna.Enabled {
		return nil, nil
	}
	return adzuna.NewClient(adzuna.Config{
		AppID:     cfg.Sites.Adzuna.AppID,
		AppKey:    cfg.Sites.Adzuna.AppKey,
		Country:   cfg.Sites.Adzuna.Country,
		BaseURL:   cfg.Sites.Adzuna.BaseURL,
		UserAgent: cfg.Search.UserAgent,
		Timeout:   cfg.Search.RequestTimeout,
		PageSize:  cfg.Sites.Adzuna.PageSize,
	})
}

func provideLocations(cfg config.Config, client *hh.Client, log *logging.Logger) *location.Service {
	return location.NewService(client, cfg.Cache, log)
}

func provideRegistry(cfg config.Config, hhClient *hh.Client, gjClient *geekjob.Client, azClient *adzuna.Client, locations *location.Service, log *logging.Logger) *search.Registry {
	var sites []search.Site
	if cfg.Sites.HH.Enabled {
		sites = append(sites, hhsite.New(hhClient, locations, cfg.Sites.HH, cfg.Search.DefaultLocation, log))
	}
	if cfg.Sites.GeekJob.Enabled {
		sites = append(sites, gjsite.New(gjClient, cfg.Sites.GeekJob, log))
	}
	if cfg.Sites.Adzuna.Enabled && azClient != nil {
		sites = append(sites, adzsite.New(azClient, locations, cfg.Sites.Adzuna, log))
	}
	return search.NewRegistry(sites...)
}

func provideSearchService(cfg config.Config, registry *search.Registry, pool *workerpool.Pool, log *logging.Logger) (*search.Service, error) {
	svc, err := search.NewService(
		search.WithRegistry(registry),
		search.WithPool(pool),
		search.WithLogger(log),
		search.WithSearchConfig(cfg.Search),
	)
	if err != nil {
		return nil, fmt.Errorf("build search service: %w", err)
	}
	return svc, nil
}

func provideArchive(cfg config.Config, log *logging.Logger) *resultlog.Logger {
	return resultlog.New(cfg.ResultLog, log)
}

func provideAPIServer(cfg config.Config, svc *search.Service, archive *resultlog.Logger, locations *location.Service, log *logging.Logger) *api.Server {
	return api.NewServer(cfg.Server, svc, archive, locations, log)
}

func provideMCPServer(cfg config.Config, svc *search.Service, archive *resultlog.Logger, log *logging.Logger) *mcp.Server {
	return mcp.NewServer(cfg.MCP, svc, archive, log)
}
