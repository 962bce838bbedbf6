package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/workscout/workscout/pkg/logging"
)

// EmptyKeywordPolicy decides what happens when a search arrives with a
// blank keyword.
type EmptyKeywordPolicy string

const (
	// EmptyKeywordDefault substitutes the configured default keyword.
	EmptyKeywordDefault EmptyKeywordPolicy = "default"
	// EmptyKeywordReject fails validation instead.
	EmptyKeywordReject EmptyKeywordPolicy = "reject"
)

// Config contains runtime settings for all workscout binaries.
type Config struct {
	Log       logging.Config  `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	MCP       MCPConfig       `mapstructure:"mcp"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Search    SearchConfig    `mapstructure:"search"`
	Sites     SitesConfig     `mapstructure:"sites"`
	Cache     CacheConfig     `mapstructure:"cache"`
	ResultLog ResultLogConfig `mapstructure:"result_log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type MCPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
}

type TelegramConfig struct {
	Token    string `mapstructure:"token"`
	Debug    bool   `mapstructure:"debug"`
	PageSize int    `mapstructure:"page_size"` // jobs shown per site in one message
}

type SearchConfig struct {
	DefaultKeyword     string             `mapstructure:"default_keyword"`
	DefaultSites       []string           `mapstructure:"default_sites"`
	DefaultLocation    string             `mapstructure:"default_location"`
	EmptyKeywordPolicy EmptyKeywordPolicy `mapstructure:"empty_keyword_policy"`
	Workers            int                `mapstructure:"workers"`
	Timeout            time.Duration      `mapstructure:"timeout"`         // overall per-request deadline
	RequestTimeout     time.Duration      `mapstructure:"request_timeout"` // per-site HTTP timeout
	UserAgent          string             `mapstructure:"user_agent"`
}

type SitesConfig struct {
	HH      HHConfig      `mapstructure:"hh"`
	GeekJob GeekJobConfig `mapstructure:"geekjob"`
	Adzuna  AdzunaConfig  `mapstructure:"adzuna"`
}

type HHConfig struct {
	Name          string   `mapstructure:"name"`
	Enabled       bool     `mapstructure:"enabled"`
	BaseURL       string   `mapstructure:"base_url"`
	AreasURL      string   `mapstructure:"areas_url"`
	PerPage       int      `mapstructure:"per_page"`
	OrderBy       string   `mapstructure:"order_by"`
	AllowedParams []string `mapstructure:"allowed_params"`
}

type GeekJobConfig struct {
	Name          string   `mapstructure:"name"`
	Enabled       bool     `mapstructure:"enabled"`
	BaseURL       string   `mapstructure:"base_url"`
	PerPage       int      `mapstructure:"per_page"`
	Page          int      `mapstructure:"page"`
	Remote        int      `mapstructure:"remote"`
	AllowedParams []string `mapstructure:"allowed_params"`
}

// AdzunaConfig enables the optional Adzuna site. It stays disabled until
// API credentials are provided.
type AdzunaConfig struct {
	Name     string `mapstructure:"name"`
	Enabled  bool   `mapstructure:"enabled"`
	AppID    string `mapstructure:"app_id"`
	AppKey   string `mapstructure:"app_key"`
	Country  string `mapstructure:"country"`
	BaseURL  string `mapstructure:"base_url"`
	PageSize int    `mapstructure:"page_size"`
}

type CacheConfig struct {
	Dir          string        `mapstructure:"dir"`
	LocationsTTL time.Duration `mapstructure:"locations_ttl"`
}

type ResultLogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// Load reads configuration from an optional YAML file plus environment
// variables (WORKSCOUT_SERVER_PORT and friends). Every setting has a
// default so a missing file is fine; only the Telegram token is truly
// external and stays empty unless provided.
func Load(path string) (Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("workscout")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("telegram.token", "TELEGRAM_TOKEN")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file.filename", "logs/workscout.log")
	v.SetDefault("log.file.max_size_mb", 50)
	v.SetDefault("log.file.max_age_days", 14)
	v.SetDefault("log.file.max_backups", 5)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")

	v.SetDefault("mcp.enabled", false)
	v.SetDefault("mcp.host", "0.0.0.0")
	v.SetDefault("mcp.port", "8090")

	v.SetDefault("telegram.page_size", 3)

	v.SetDefault("search.default_keyword", "php")
	v.SetDefault("search.default_sites", []string{"hh", "geekjob"})
	v.SetDefault("search.default_location", "113")
	v.SetDefault("search.empty_keyword_policy", string(EmptyKeywordDefault))
	v.SetDefault("search.workers", 4)
	v.SetDefault("search.timeout", 30*time.Second)
	v.SetDefault("search.request_timeout", 10*time.Second)
	v.SetDefault("search.user_agent", "workscout/1.0")

	v.SetDefault("sites.hh.name", "HeadHunter")
	v.SetDefault("sites.hh.enabled", true)
	v.SetDefault("sites.hh.base_url", "https://api.hh.ru/vacancies")
	v.SetDefault("sites.hh.areas_url", "https://api.hh.ru/areas")
	v.SetDefault("sites.hh.per_page", 2)
	v.SetDefault("sites.hh.order_by", "publication_time")
	v.SetDefault("sites.hh.allowed_params", []string{
		"experience", "employment", "schedule", "salary", "only_with_salary", "period",
	})

	v.SetDefault("sites.geekjob.name", "GeekJob")
	v.SetDefault("sites.geekjob.enabled", true)
	v.SetDefault("sites.geekjob.base_url", "https://geekjob.ru/json/find/vacancy")
	v.SetDefault("sites.geekjob.per_page", 2)
	v.SetDefault("sites.geekjob.page", 1)
	v.SetDefault("sites.geekjob.remote", 1)
	v.SetDefault("sites.geekjob.allowed_params", []string{"page", "rm"})

	v.SetDefault("sites.adzuna.name", "Adzuna")
	v.SetDefault("sites.adzuna.enabled", false)
	v.SetDefault("sites.adzuna.country", "gb")
	v.SetDefault("sites.adzuna.page_size", 2)

	v.SetDefault("cache.dir", "cache")
	v.SetDefault("cache.locations_ttl", 7*24*time.Hour)

	v.SetDefault("result_log.enabled", true)
	v.SetDefault("result_log.dir", "logs/job_results")
}

func (c Config) validate() error {
	switch c.Search.EmptyKeywordPolicy {
	case EmptyKeywordDefault, EmptyKeywordReject:
	default:
		return fmt.Errorf("config: unknown empty keyword policy %q", c.Search.EmptyKeywordPolicy)
	}

	if c.Search.Workers <= 0 {
		return fmt.Errorf("config: search.workers must be positive, got %d", c.Search.Workers)
	}

	if len(c.Search.DefaultSites) == 0 {
		return fmt.Errorf("config: search.default_sites must not be empty")
	}

	if c.Sites.Adzuna.Enabled && (c.Sites.Adzuna.AppID == "" || c.Sites.Adzuna.AppKey == "") {
		return fmt.Errorf("config: sites.adzuna requires app_id and app_key when enabled")
	}

	return nil
}
