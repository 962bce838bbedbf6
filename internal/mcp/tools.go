package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workscout/workscout/internal/domain"
)

// JobSearchParams defines the arguments for the job_search tool
type JobSearchParams struct {
	Keyword  string            `json:"keyword,omitempty" jsonschema:"Search keyword; the configured default is used when empty"`
	Location string            `json:"location,omitempty" jsonschema:"HH area id, comma-separated ids, or the literal 'remote'"`
	Sites    []string          `json:"sites,omitempty" jsonschema:"Site ids to query; all configured sites when empty"`
	Params   map[string]string `json:"params,omitempty" jsonschema:"Extra site-specific query parameters"`
}

// ListSitesParams defines the arguments for the list_sites tool
type ListSitesParams struct{}

// SearchHistoryParams defines the arguments for the search_history tool
type SearchHistoryParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of archived searches to return, default 10"`
}

func registerTools(s *sdkmcp.Server, searcher Searcher, archive Archiver) {
	sdkmcp.AddTool(s, &sdkmcp.Tool{
		Name:        "job_search",
		Description: "Search configured job boards concurrently and return per-site results",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params *JobSearchParams) (*sdkmcp.CallToolResult, any, error) {
		_ = req
		return jobSearch(ctx, searcher, archive, params)
	})

	sdkmcp.AddTool(s, &sdkmcp.Tool{
		Name:        "list_sites",
		Description: "List the job boards available for searching",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params *ListSitesParams) (*sdkmcp.CallToolResult, any, error) {
		_ = ctx
		_ = req
		_ = params
		sites := searcher.AvailableSites()
		names := make([]string, 0, len(sites))
		for _, s := range sites {
			names = append(names, fmt.Sprintf("%s (%s)", s.ID, s.Name))
		}
		return textResult("Available sites: " + strings.Join(names, ", ")), sites, nil
	})

	sdkmcp.AddTool(s, &sdkmcp.Tool{
		Name:        "search_history",
		Description: "Return recently archived searches, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params *SearchHistoryParams) (*sdkmcp.CallToolResult, any, error) {
		_ = ctx
		_ = req
		limit := params.Limit
		if limit <= 0 {
			limit = 10
		}
		records, err := archive.Recent(limit)
		if err != nil {
			return nil, nil, fmt.Errorf("read search history: %w", err)
		}
		return textResult(fmt.Sprintf("%d archived searches", len(records))), records, nil
	})
}

func jobSearch(ctx context.Context, searcher Searcher, archive Archiver, params *JobSearchParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := searcher.SearchAllSites(ctx, domain.SearchRequest{
		Keyword:  params.Keyword,
		Location: params.Location,
		Sites:    params.Sites,
		Params:   params.Params,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("job search: %w", err)
	}

	archive.Save("mcp", res)

	return textResult(summarize(res)), res, nil
}

// summarize renders a short per-site digest for the text content block.
func summarize(res domain.AggregateResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d jobs for %q in %.0f ms.", res.TotalJobs, res.Keyword, res.GlobalTimeMS)
	for id, sr := range res.Sites {
		if sr.Status == domain.StatusSuccess {
			fmt.Fprintf(&b, " %s: %d jobs.", id, sr.JobsCount)
		} else {
			fmt.Fprintf(&b, " %s: failed (%s).", id, sr.Error)
		}
	}
	return b.String()
}

// Produce a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}
