package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workscout/workscout/internal/domain"
)

func TestParseSearchArgs(t *testing.T) {
	cases := []struct {
		args     string
		keyword  string
		location string
	}{
		{"golang", "golang", ""},
		{"golang remote", "golang", "remote"},
		{"golang 1", "golang", "1"},
		{"golang 1,2", "golang", "1,2"},
		{"go developer", "go developer", ""},
		{"go developer 113", "go developer", "113"},
		{"remote", "remote", ""}, // a lone word is always the keyword
		{"", "", ""},
	}
	for _, tc := range cases {
		keyword, location := parseSearchArgs(tc.args)
		require.Equal(t, tc.keyword, keyword, "args=%q", tc.args)
		require.Equal(t, tc.location, location, "args=%q", tc.args)
	}
}

func TestFormatResultListsJobsPerSite(t *testing.T) {
	res := domain.AggregateResult{
		Keyword:      "golang",
		TotalJobs:    3,
		GlobalTimeMS: 412,
		Sites: map[string]domain.SiteResult{
			"hh": {
				Site: "hh", Name: "HeadHunter", JobsCount: 2, Status: domain.StatusSuccess,
				Jobs: []domain.Job{
					{Title: "Go developer", URL: "https://hh.ru/vacancy/1", Salary: "от 200000 ₽", Company: domain.CompanyRef{Name: "Acme"}},
					{Title: "Backend <Go>", URL: "https://hh.ru/vacancy/2"},
				},
			},
			"geekjob": {
				Site: "geekjob", Name: "GeekJob", JobsCount: 1, Status: domain.StatusSuccess,
				Jobs: []domain.Job{{Title: "Golang engineer", URL: "https://geekjob.ru/vacancy/x"}},
			},
		},
	}

	msg := formatResult(res, 5)
	require.Contains(t, msg, "<b>golang</b>: 3 вакансий")
	require.Contains(t, msg, "<b>HeadHunter</b> (2):")
	require.Contains(t, msg, "<b>GeekJob</b> (1):")
	require.Contains(t, msg, "от 200000 ₽")
	require.Contains(t, msg, "Acme")
	// HTML in job titles is escaped
	require.Contains(t, msg, "Backend &lt;Go&gt;")
	// GeekJob section comes first, ids are sorted
	require.Less(t, strings.Index(msg, "GeekJob"), strings.Index(msg, "HeadHunter"))
}

func TestFormatResultTruncatesLongLists(t *testing.T) {
	jobs := make([]domain.Job, 8)
	for i := range jobs {
		jobs[i] = domain.Job{Title: "Job", URL: "https://hh.ru"}
	}
	res := domain.AggregateResult{
		Keyword:   "golang",
		TotalJobs: 8,
		Sites: map[string]domain.SiteResult{
			"hh": {Site: "hh", Name: "HeadHunter", JobsCount: 8, Jobs: jobs, Status: domain.StatusSuccess},
		},
	}

	msg := formatResult(res, 5)
	require.Contains(t, msg, "и еще 3")
}

func TestFormatResultNothingFound(t *testing.T) {
	res := domain.AggregateResult{
		Keyword: "cobol",
		Sites: map[string]domain.SiteResult{
			"hh": {Site: "hh", Name: "HeadHunter", Jobs: []domain.Job{}, Status: domain.StatusSuccess},
		},
	}
	require.Contains(t, formatResult(res, 5), "ничего не найдено")
}

func TestFormatResultAllFailed(t *testing.T) {
	res := domain.AggregateResult{
		Keyword: "golang",
		Sites: map[string]domain.SiteResult{
			"hh":      {Site: "hh", Status: domain.StatusFailed, Error: "timeout"},
			"geekjob": {Site: "geekjob", Status: domain.StatusFailed, Error: "500"},
		},
	}
	require.Contains(t, formatResult(res, 5), "Все сайты недоступны")
}

func TestFormatResultPartialFailureNoted(t *testing.T) {
	res := domain.AggregateResult{
		Keyword:   "golang",
		TotalJobs: 1,
		Sites: map[string]domain.SiteResult{
			"hh":      {Site: "hh", Name: "HeadHunter", JobsCount: 1, Status: domain.StatusSuccess, Jobs: []domain.Job{{Title: "Go dev", URL: "https://hh.ru/vacancy/1"}}},
			"geekjob": {Site: "geekjob", Name: "GeekJob", Status: domain.StatusFailed, Error: "boom"},
		},
	}
	msg := formatResult(res, 5)
	require.Contains(t, msg, "Go dev")
	require.Contains(t, msg, "<b>GeekJob</b>: ошибка поиска")
}

func TestFormatSites(t *testing.T) {
	msg := formatSites([]domain.SiteInfo{
		{ID: "hh", Name: "HeadHunter", Enabled: true},
		{ID: "geekjob", Name: "GeekJob", Enabled: true},
	})
	require.Contains(t, msg, "HeadHunter")
	require.Contains(t, msg, "<code>geekjob</code>")
}
