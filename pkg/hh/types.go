package hh

import (
	"net/http"
	"time"
)

// Config defines HeadHunter API client settings.
type Config struct {
	BaseURL    string
	AreasURL   string
	UserAgent  string
	HTTPClient *http.Client
	Timeout    time.Duration
	PerPage    int
	OrderBy    string
}

// Client queries the HeadHunter job search API.
type Client struct {
	baseURL    string
	areasURL   string
	userAgent  string
	httpClient *http.Client
	perPage    int
	orderBy    string
}

// SearchParams describe a vacancy search request.
type SearchParams struct {
	Area     string            // location id; empty means no geographic filter
	Schedule string            // e.g. "remote"
	Extra    map[string]string // already allow-listed by the caller
}

// SearchResponse is the paginated vacancy listing.
type SearchResponse struct {
	Items   []Vacancy `json:"items"`
	Found   int       `json:"found"`
	Pages   int       `json:"pages"`
	PerPage int       `json:"per_page"`
	Page    int       `json:"page"`
}

// Vacancy mirrors the subset of the HH vacancy shape the aggregator needs.
type Vacancy struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	AlternateURL string      `json:"alternate_url"`
	PublishedAt  string      `json:"published_at"`
	Salary       *Salary     `json:"salary"`
	Area         *Area       `json:"area"`
	Address      *Address    `json:"address"`
	Employer     *Employer   `json:"employer"`
	Schedule     *Named      `json:"schedule"`
	Experience   *Named      `json:"experience"`
	Employment   *Named      `json:"employment"`
	WorkFormat   []Named     `json:"work_format"`
	Snippet      *Snippet    `json:"snippet"`
	KeySkills    []KeySkill  `json:"key_skills"`
	Description  string      `json:"description"`
}

type Salary struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
	Gross    bool   `json:"gross"`
}

type Area struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Areas []Area `json:"areas,omitempty"`
}

type Address struct {
	City string `json:"city"`
}

type Employer struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	AlternateURL string            `json:"alternate_url"`
	LogoURLs     map[string]string `json:"logo_urls"`
}

// Named is the generic {id,name} pair HH uses for dictionaries.
type Named struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Snippet struct {
	Requirement    string `json:"requirement"`
	Responsibility string `json:"responsibility"`
}

type KeySkill struct {
	Name string `json:"name"`
}
