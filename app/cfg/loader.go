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
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./bioradar.db" description:"Path to the sqlite database file"`

	// Application configuration
	WatchlistsDir string `long:"watchlists-dir" env:"WATCHLISTS_DIR" default:"./watchlists" description:"Directory containing watchlist configuration files"`
	Port          string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount   int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of concurrent source fetch workers"`
	GatherTimeout int    `long:"gather-timeout" env:"GATHER_TIMEOUT" default:"60" description:"Whole-run gathering budget in seconds"`
	FetchTimeout  int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Per-query fetch timeout in seconds"`
	APIAccessKey  string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for watchlist endpoints (optional)"`

	// Keyword expansion
	OpenAIKey     string `long:"openai-key" env:"OPENAI_API_KEY" description:"OpenAI API key for keyword expansion (optional, expansion disabled when empty)"`
	OpenAIBaseURL string `long:"openai-base-url" env:"OPENAI_BASE_URL" description:"OpenAI-compatible API base URL override"`
	OpenAIModel   string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"Model used for keyword expansion"`
	MaxExpansions int    `long:"max-expansions" env:"MAX_EXPANSIONS" default:"3" description:"Maximum AI-expanded phrases per keyword"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"BioRadar/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
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
		DBPath:        raw.DBPath,
		WatchlistsDir: raw.WatchlistsDir,
		Port:          raw.Port,
		WorkerCount:   raw.WorkerCount,
		GatherTimeout: raw.GatherTimeout,
		FetchTimeout:  raw.FetchTimeout,
		APIAccessKey:  raw.APIAccessKey,
		OpenAIKey:     raw.OpenAIKey,
		OpenAIBaseURL: raw.OpenAIBaseURL,
		OpenAIModel:   raw.OpenAIModel,
		MaxExpansions: raw.MaxExpansions,
		UserAgent:     raw.UserAgent,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

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

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
