// Package resultlog archives completed searches as flat JSON files, one
// file per search. The archive is append-only and survives restarts;
// there is no database behind it.
package resultlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/pkg/logging"
)

const filePrefix = "job_search_"

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// Record is the archived form of one search.
type Record struct {
	Source     string                 `json:"source"` // cli, telegram, http, mcp
	SearchedAt time.Time              `json:"searched_at"`
	Result     domain.AggregateResult `json:"result"`
}

// Stats summarizes the archive for front-ends.
type Stats struct {
	Searches     int            `json:"searches"`
	TotalJobs    int            `json:"total_jobs"`
	KeywordCount map[string]int `json:"keyword_count"`
	SourceCount  map[string]int `json:"source_count"`
}

// Logger writes and reads the search archive.
type Logger struct {
	dir     string
	enabled bool
	log     *logging.Logger
}

func New(cfg config.ResultLogConfig, log *logging.Logger) *Logger {
	return &Logger{
		dir:     cfg.Dir,
		enabled: cfg.Enabled,
		log:     log.Named("resultlog"),
	}
}

// Save archives one search result. A disabled logger is a no-op, and
// write failures are logged but never surface to the caller.
func (l *Logger) Save(source string, res domain.AggregateResult) {
	if !l.enabled {
		return
	}
	if err := l.save(source, res); err != nil {
		l.log.Warn("failed to archive search result", "error", err)
	}
}

func (l *Logger) save(source string, res domain.AggregateResult) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}

	at := res.RequestedAt
	if at.IsZero() {
		at = time.Now()
	}
	name := fmt.Sprintf("%s%s_%s", filePrefix, at.Format("20060102_150405"), sanitize(res.Keyword))

	data, err := json.MarshalIndent(Record{Source: source, SearchedAt: at, Result: res}, "", "  ")
	if err != nil {
		return err
	}

	// same keyword in the same second collides, so take the next free name
	path := filepath.Join(l.dir, name+".json")
	for n := 2; ; n++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			if _, err := f.Write(data); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}
		if !os.IsExist(err) {
			return err
		}
		path = filepath.Join(l.dir, fmt.Sprintf("%s_%d.json", name, n))
	}
}

// Recent returns up to limit archived records, newest first.
func (l *Logger) Recent(limit int) ([]Record, error) {
	files, err := l.archiveFiles()
	if err != nil {
		return nil, err
	}

	// filenames embed the timestamp, so name order is time order
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	records := make([]Record, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(l.dir, f))
		if err != nil {
			l.log.Warn("unreadable archive file", "file", f, "error", err)
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			l.log.Warn("corrupt archive file", "file", f, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Stats aggregates the whole archive.
func (l *Logger) Stats() (Stats, error) {
	records, err := l.Recent(0)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		KeywordCount: map[string]int{},
		SourceCount:  map[string]int{},
	}
	for _, rec := range records {
		stats.Searches++
		stats.TotalJobs += rec.Result.TotalJobs
		stats.KeywordCount[rec.Result.Keyword]++
		stats.SourceCount[rec.Source]++
	}
	return stats, nil
}

func (l *Logger) archiveFiles() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, ".json") {
			files = append(files, name)
		}
	}
	return files, nil
}

func sanitize(keyword string) string {
	s := unsafeChars.ReplaceAllString(strings.TrimSpace(keyword), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "search"
	}
	return s
}
