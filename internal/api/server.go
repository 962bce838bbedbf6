// Package api exposes the aggregator over HTTP.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/internal/resultlog"
	"github.com/workscout/workscout/pkg/logging"
)

// Searcher is the aggregator surface the API depends on.
type Searcher interface {
	SearchAllSites(ctx context.Context, req domain.SearchRequest) (domain.AggregateResult, error)
	AvailableSites() []domain.SiteInfo
}

// Archiver archives completed searches and answers history queries.
// *resultlog.Logger satisfies it.
type Archiver interface {
	Save(source string, res domain.AggregateResult)
	Recent(limit int) ([]resultlog.Record, error)
	Stats() (resultlog.Stats, error)
}

// LocationResolver resolves location names for the locations endpoint.
type LocationResolver interface {
	ResolveID(ctx context.Context, name string) (string, bool, error)
	Refresh(ctx context.Context) error
}

// Server is the HTTP front-end.
type Server struct {
	server *http.Server
	log    *logging.Logger
}

func NewServer(cfg config.ServerConfig, searcher Searcher, archive Archiver, locations LocationResolver, log *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(log))

	h := &handlers{
		searcher:  searcher,
		archive:   archive,
		locations: locations,
		log:       log.Named("api"),
	}

	router.GET("/healthz", h.health)

	v1 := router.Group("/api/v1")
	v1.GET("/search/:keyword", h.search)
	v1.GET("/sites", h.sites)
	v1.GET("/history", h.history)
	v1.GET("/stats", h.stats)
	v1.GET("/locations/resolve", h.resolveLocation)
	v1.POST("/locations/refresh", h.refreshLocations)

	return &Server{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log.Named("api"),
	}
}

func (s *Server) Start() error {
	s.log.Info("starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

func loggerMiddleware(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Debug("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP())
	}
}
