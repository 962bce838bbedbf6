// Package cli runs one-shot searches from the command line.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/internal/resultlog"
)

// Searcher is the aggregator surface the CLI depends on.
type Searcher interface {
	SearchAllSites(ctx context.Context, req domain.SearchRequest) (domain.AggregateResult, error)
	AvailableSites() []domain.SiteInfo
}

// Archiver records CLI searches and answers history queries.
type Archiver interface {
	Save(source string, res domain.AggregateResult)
	Recent(limit int) ([]resultlog.Record, error)
	Stats() (resultlog.Stats, error)
}

// CLI is the command line front-end.
type CLI struct {
	searcher Searcher
	archive  Archiver
	out      io.Writer
}

func New(searcher Searcher, archive Archiver, out io.Writer) *CLI {
	return &CLI{searcher: searcher, archive: archive, out: out}
}

// Run parses args (excluding the program name) and executes one command.
func (c *CLI) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("workscout", flag.ContinueOnError)
	fs.SetOutput(c.out)

	keyword := fs.String("keyword", "", "search keyword; the configured default is used when empty")
	location := fs.String("location", "", "HH area id, comma-separated ids, or 'remote'")
	sites := fs.String("sites", "", "comma-separated site ids; all configured sites when empty")
	asJSON := fs.Bool("json", false, "print the raw aggregate result as JSON")
	listSites := fs.Bool("list-sites", false, "list available sites and exit")
	history := fs.Int("history", 0, "show the N most recent archived searches and exit")
	stats := fs.Bool("stats", false, "show archive statistics and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *listSites:
		return c.printSites()
	case *history > 0:
		return c.printHistory(*history)
	case *stats:
		return c.printStats()
	}

	req := domain.SearchRequest{
		Keyword:  *keyword,
		Location: *location,
	}
	if *sites != "" {
		req.Sites = strings.Split(*sites, ",")
	}

	res, err := c.searcher.SearchAllSites(ctx, req)
	if err != nil {
		return err
	}

	c.archive.Save("cli", res)

	if *asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	c.printResult(res)
	return nil
}

func (c *CLI) printSites() error {
	fmt.Fprintln(c.out, "Available sites:")
	for _, s := range c.searcher.AvailableSites() {
		fmt.Fprintf(c.out, "  %-10s %s\n", s.ID, s.Name)
	}
	return nil
}

func (c *CLI) printHistory(limit int) error {
	records, err := c.archive.Recent(limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(c.out, "No archived searches.")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(c.out, "%s  %-8s  %-20s  %d jobs\n",
			rec.SearchedAt.Format("2006-01-02 15:04:05"),
			rec.Source,
			rec.Result.Keyword,
			rec.Result.TotalJobs)
	}
	return nil
}

func (c *CLI) printStats() error {
	stats, err := c.archive.Stats()
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}
	fmt.Fprintf(c.out, "Searches: %d\nTotal jobs: %d\n", stats.Searches, stats.TotalJobs)

	keywords := make([]string, 0, len(stats.KeywordCount))
	for k := range stats.KeywordCount {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	for _, k := range keywords {
		fmt.Fprintf(c.out, "  %-20s %d\n", k, stats.KeywordCount[k])
	}
	return nil
}

func (c *CLI) printResult(res domain.AggregateResult) {
	fmt.Fprintf(c.out, "Keyword: %s\n", res.Keyword)
	if res.Location != "" {
		fmt.Fprintf(c.out, "Location: %s\n", res.Location)
	}
	fmt.Fprintf(c.out, "Total: %d jobs in %.0f ms\n", res.TotalJobs, res.GlobalTimeMS)

	ids := make([]string, 0, len(res.Sites))
	for id := range res.Sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		sr := res.Sites[id]
		fmt.Fprintln(c.out)
		if sr.Status == domain.StatusFailed {
			fmt.Fprintf(c.out, "%s: FAILED (%s)\n", sr.Name, sr.Error)
			continue
		}
		fmt.Fprintf(c.out, "%s: %d jobs, %.0f ms\n", sr.Name, sr.JobsCount, sr.TimingMS)
		for _, job := range sr.Jobs {
			fmt.Fprintf(c.out, "  - %s", job.Title)
			if job.Company.Name != "" {
				fmt.Fprintf(c.out, " @ %s", job.Company.Name)
			}
			if job.Salary != "" {
				fmt.Fprintf(c.out, " (%s)", job.Salary)
			}
			fmt.Fprintln(c.out)
			if job.URL != "" {
				fmt.Fprintf(c.out, "    %s\n", job.URL)
			}
		}
	}
}
