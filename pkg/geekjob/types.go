package geekjob

import (
	"net/http"
	"time"
)

// Config defines GeekJob API client settings.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Timeout    time.Duration
	Page       int
	Remote     int // rm flag the site uses; 1 keeps remote postings in
}

// Client queries the GeekJob vacancy API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	page       int
	remote     int
}

// SearchParams describe a vacancy search request.
type SearchParams struct {
	Extra map[string]string // already allow-listed by the caller
}

// SearchResponse is the GeekJob listing payload.
type SearchResponse struct {
	Data           []Vacancy `json:"data"`
	DocumentsCount int       `json:"documentsCount"`
	NextPage       int       `json:"nextpage"`
	Page           int       `json:"page"`
	PageCount      int       `json:"pagecount"`
}

// Vacancy mirrors the GeekJob posting shape.
type Vacancy struct {
	ID        string     `json:"id"`
	Position  string     `json:"position"`
	Salary    string     `json:"salary"`
	Country   string     `json:"country"`
	City      string     `json:"city"`
	JobFormat *JobFormat `json:"jobFormat"`
	Log       *ChangeLog `json:"log"`
	Company   *Company   `json:"company"`
}

type JobFormat struct {
	Remote   bool `json:"remote"`
	Relocate bool `json:"relocate"`
	Parttime bool `json:"parttime"`
	Inhouse  bool `json:"inhouse"`
}

type ChangeLog struct {
	Modify   string `json:"modify"`
	Archived string `json:"archived"`
}

type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}
