package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/internal/domain/search"
	"github.com/workscout/workscout/pkg/logging"
	"github.com/workscout/workscout/pkg/workerpool"
)

// reserved query keys never forwarded to site adapters
var reservedQueryKeys = map[string]struct{}{
	"location": {},
	"sites":    {},
}

type handlers struct {
	searcher  Searcher
	archive   Archiver
	locations LocationResolver
	log       *logging.Logger
}

// searchResponse is the wire shape of one aggregate search.
type searchResponse struct {
	Keyword      string                       `json:"keyword"`
	Location     string                       `json:"location,omitempty"`
	TotalJobs    int                          `json:"total_jobs"`
	GlobalTimeMS float64                      `json:"global_time_ms"`
	Results      map[string]domain.SiteResult `json:"results"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *handlers) search(c *gin.Context) {
	req := domain.SearchRequest{
		Keyword:  c.Param("keyword"),
		Location: c.Query("location"),
	}
	if sites := c.Query("sites"); sites != "" {
		req.Sites = strings.Split(sites, ",")
	}

	params := map[string]string{}
	for k, vs := range c.Request.URL.Query() {
		if _, ok := reservedQueryKeys[k]; ok {
			continue
		}
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	if len(params) > 0 {
		req.Params = params
	}

	res, err := h.searcher.SearchAllSites(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, search.ErrEmptyKeyword):
			status = http.StatusBadRequest
		case errors.Is(err, workerpool.ErrPoolClosed):
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.archive.Save("http", res)

	c.JSON(http.StatusOK, searchResponse{
		Keyword:      res.Keyword,
		Location:     res.Location,
		TotalJobs:    res.TotalJobs,
		GlobalTimeMS: res.GlobalTimeMS,
		Results:      res.Sites,
	})
}

func (h *handlers) sites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sites": h.searcher.AvailableSites()})
}

func (h *handlers) history(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := h.archive.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (h *handlers) stats(c *gin.Context) {
	stats, err := h.archive.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) resolveLocation(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	id, ok, err := h.locations.ResolveID(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "id": id})
}

func (h *handlers) refreshLocations(c *gin.Context) {
	if err := h.locations.Refresh(c.Request.Context()); err != nil {
		h.log.Warn("location refresh failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}
