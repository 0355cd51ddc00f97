package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/spf13/viper"
)

// HomeEnv overrides the jobscout home directory.
const HomeEnv = "JOBSCOUT_HOME"

// Config holds the application configuration
type Config struct {
	Sources  SourcesConfig        `mapstructure:"sources"`
	Ranking  RankingConfig        `mapstructure:"ranking"`
	Filters  models.SearchFilters `mapstructure:"filters"`
	Server   ServerConfig         `mapstructure:"server"`
	Log      LogConfig            `mapstructure:"log"`
	Database DatabaseConfig       `mapstructure:"database"`
	LinkedIn LinkedInConfig       `mapstructure:"linkedin"`
	Watch    WatchConfig          `mapstructure:"watch"`
}

type SourcesConfig struct {
	Enabled []string      `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
	Adzuna  AdzunaConfig  `mapstructure:"adzuna"`
}

// AdzunaConfig leaves the adapter inert unless all three are set.
type AdzunaConfig struct {
	AppID   string `mapstructure:"app_id"`
	AppKey  string `mapstructure:"app_key"`
	Country string `mapstructure:"country"`
}

type RankingConfig struct {
	Target          int      `mapstructure:"target"`
	Floor           int      `mapstructure:"floor"`
	PerSourceCap    int      `mapstructure:"per_source_cap"`
	ExtraATSDomains []string `mapstructure:"extra_ats_domains"`
	ExtraUSKeywords []string `mapstructure:"extra_us_keywords"`
	ExtraTitles     []string `mapstructure:"extra_titles"`
}

type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second
	Burst     int     `mapstructure:"burst"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LinkedInConfig struct {
	ProfileURL string        `mapstructure:"profile_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type WatchConfig struct {
	Schedule string `mapstructure:"schedule"` // cron spec
}

// envAliases are the provider variable names accepted next to the
// JOBSCOUT_ prefixed ones.
var envAliases = map[string]string{
	"sources.adzuna.app_id":  "ADZUNA_APP_ID",
	"sources.adzuna.app_key": "ADZUNA_APP_KEY",
	"sources.adzuna.country": "ADZUNA_COUNTRY",
}

// Dir returns the jobscout home directory.
func Dir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".jobscout")
}

// Initialize loads the configuration file at path, or the default one under
// Dir, creating it on first run. Values from .env files and the environment
// override the file.
func Initialize(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfig(path); err != nil {
			return nil, err
		}
	}

	// Missing .env files are fine
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	setDefaults()

	viper.SetEnvPrefix("JOBSCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for key, alias := range envAliases {
		envKey := "JOBSCOUT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := viper.BindEnv(key, envKey, alias); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", alias, err)
		}
	}

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Load()
}

// Load unmarshals the current viper state.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(Dir(), "jobscout.db")
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("sources.enabled", []string{"remotive", "remoteok", "arbeitnow", "adzuna"})
	viper.SetDefault("sources.timeout", "8s")
	viper.SetDefault("sources.adzuna.app_id", "")
	viper.SetDefault("sources.adzuna.app_key", "")
	viper.SetDefault("sources.adzuna.country", "")

	viper.SetDefault("ranking.target", 15)
	viper.SetDefault("ranking.floor", 10)
	viper.SetDefault("ranking.per_source_cap", 8)
	viper.SetDefault("ranking.extra_ats_domains", []string{})
	viper.SetDefault("ranking.extra_us_keywords", []string{})
	viper.SetDefault("ranking.extra_titles", []string{})

	d := models.DefaultSearchFilters()
	viper.SetDefault("filters.locations", []string{})
	viper.SetDefault("filters.keywords", []string{})
	viper.SetDefault("filters.remote_only", d.RemoteOnly)
	viper.SetDefault("filters.relocation", d.Relocation)
	viper.SetDefault("filters.level", d.Level)
	viper.SetDefault("filters.min_relevance", d.MinRelevance)
	viper.SetDefault("filters.us_only", d.USOnly)
	viper.SetDefault("filters.posted_within_days", d.PostedWithinDays)

	viper.SetDefault("server.addr", "127.0.0.1:8080")
	viper.SetDefault("server.rate_limit", 5)
	viper.SetDefault("server.burst", 10)

	viper.SetDefault("log.json", false)
	viper.SetDefault("log.debug", false)

	viper.SetDefault("database.path", "")

	viper.SetDefault("linkedin.profile_url", "")
	viper.SetDefault("linkedin.timeout", "45s")

	viper.SetDefault("watch.schedule", "0 8 * * *")
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# jobscout configuration

sources:
  # remotive, remoteok, arbeitnow, adzuna
  enabled: [remotive, remoteok, arbeitnow, adzuna]
  timeout: 8s
  # Adzuna stays disabled until all three are set (or ADZUNA_APP_ID,
  # ADZUNA_APP_KEY and ADZUNA_COUNTRY are exported)
  adzuna:
    app_id: ""
    app_key: ""
    country: ""

ranking:
  target: 15
  floor: 10
  per_source_cap: 8
  extra_ats_domains: []
  extra_us_keywords: []
  extra_titles: []

# Default search filters
filters:
  remote_only: false
  relocation: any
  level: ""
  min_relevance: 1
  us_only: true
  posted_within_days: 0

server:
  addr: 127.0.0.1:8080
  rate_limit: 5
  burst: 10

log:
  json: false
  debug: false

linkedin:
  profile_url: ""
  timeout: 45s

watch:
  schedule: "0 8 * * *"
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value
func Set(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// Keys lists every known configuration key.
func Keys() []string {
	return viper.AllKeys()
}

// GetConfigPath returns the path to the default config file
func GetConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}
