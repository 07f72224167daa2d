package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed selection
	OpmlURL  string `long:"opml-url" env:"OPML_URL" description:"URL of an OPML feed directory; builtin catalog is used when unset or unreachable"`
	MaxFeeds int    `long:"max-feeds" env:"MAX_FEEDS" default:"20" description:"Maximum number of feeds polled per run"`

	// Digest pipeline
	HoursBack int `long:"hours-back" env:"HOURS_BACK" default:"24" description:"Time window in hours; items published earlier are dropped"`
	MaxItems  int `long:"max-items" env:"MAX_ITEMS" default:"50" description:"Maximum number of items in the assembled digest"`
	ChunkSize int `long:"chunk-size" env:"CHUNK_SIZE" default:"4" description:"Number of feeds fetched concurrently"`

	// Networking
	FetchTimeout int     `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Per-feed fetch timeout in seconds"`
	FetchRate    float64 `long:"fetch-rate" env:"FETCH_RATE" default:"4" description:"Outbound request rate limit in requests per second"`

	// Background processing
	RefreshInterval int `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"30" description:"Digest refresh interval in minutes"`
	WorkerCount     int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background task workers"`

	// HTTP server
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the authenticated endpoints (optional)"`

	// AI summarization
	OpenAIAPIKey string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key; summarization is disabled when unset"`
	OpenAIModel  string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"OpenAI model used for item summaries"`

	// Storage
	DBPath string `long:"db-path" env:"DB_PATH" default:"./secdigest.db" description:"Path to the SQLite database file"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"SecDigest/1.0" description:"User agent string for outbound HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g. UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		OpmlURL:         raw.OpmlURL,
		MaxFeeds:        raw.MaxFeeds,
		HoursBack:       raw.HoursBack,
		MaxItems:        raw.MaxItems,
		ChunkSize:       raw.ChunkSize,
		FetchTimeout:    raw.FetchTimeout,
		FetchRate:       raw.FetchRate,
		RefreshInterval: raw.RefreshInterval,
		WorkerCount:     raw.WorkerCount,
		Port:            raw.Port,
		APIAccessKey:    raw.APIAccessKey,
		OpenAIAPIKey:    raw.OpenAIAPIKey,
		OpenAIModel:     raw.OpenAIModel,
		DBPath:          raw.DBPath,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	normalize(cfg)

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// normalize replaces out-of-range values with their defaults so a bad
// environment never disables the pipeline.
func normalize(cfg *Cfg) {
	if cfg.HoursBack <= 0 {
		cfg.HoursBack = 24
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 50
	}
	if cfg.MaxFeeds <= 0 {
		cfg.MaxFeeds = 20
	}
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = 4
	}
	if cfg.ChunkSize > 10 {
		cfg.ChunkSize = 10
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10
	}
	if cfg.FetchRate <= 0 {
		cfg.FetchRate = 4
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 30
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 2
	}
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
