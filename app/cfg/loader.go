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

const (
	LengthPolicyFixed  = "fixed"
	LengthPolicyScaled = "scaled"
)

type rawCfg struct {
	// HTTP configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	FrontendOrigin string `long:"frontend-origin" env:"FRONTEND_URL" default:"http://localhost:5173" description:"Allowed CORS origin for the frontend"`

	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./contentflow.db" description:"Path to the SQLite database file"`

	// Seeding configuration
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing scrape source configuration files"`
	SeedLimit  int    `long:"seed-limit" env:"SEED_LIMIT" default:"5" description:"Maximum articles to seed per source"`

	// Search provider configuration
	SearchAPIURL string `long:"search-api-url" env:"SEARCH_API_URL" default:"https://www.searchapi.io/api/v1/search" description:"Web search provider endpoint"`
	SearchAPIKey string `long:"search-api-key" env:"SEARCH_API_KEY" description:"Web search provider API key"`
	SearchLimit  int    `long:"search-limit" env:"SEARCH_LIMIT" default:"2" description:"Maximum search results per enhancement query"`

	// Generative-text provider configuration
	LLMAPIURL string `long:"llm-api-url" env:"LLM_API_URL" default:"https://aipipe.org/geminiv1beta/models/gemini-2.5-flash:generateContent" description:"Generative-text provider endpoint, model included in the path"`
	LLMAPIKey string `long:"llm-api-key" env:"LLM_API_KEY" description:"Generative-text provider API key"`

	// Rewrite length policy
	LengthPolicy     string  `long:"length-policy" env:"LENGTH_POLICY" default:"fixed" choice:"fixed" choice:"scaled" description:"Rewrite target length policy"`
	TargetWordCount  int     `long:"target-words" env:"TARGET_WORDS" default:"50" description:"Target word count for the fixed length policy"`
	LengthMultiplier float64 `long:"length-multiplier" env:"LENGTH_MULTIPLIER" default:"1.5" description:"Multiplier of the original word count for the scaled length policy"`
	ReferenceChars   int     `long:"reference-chars" env:"REFERENCE_CHARS" default:"500" description:"Maximum characters per reference excerpt included in the rewrite prompt"`

	// Pipeline timing
	FetchTimeout    int     `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Reference fetch timeout in seconds"`
	EnhanceInterval int     `long:"enhance-interval" env:"ENHANCE_INTERVAL" default:"2" description:"Delay between enhanced articles in seconds"`
	EnhanceJitter   float64 `long:"enhance-jitter" env:"ENHANCE_JITTER" default:"0" description:"Jitter factor (0.0-1.0) applied to the enhancement delay"`

	// Background processing
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"1" description:"Number of background workers for task processing"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Scheduler interval in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36" description:"User agent string for outbound HTTP requests"`
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
		Port:              raw.Port,
		FrontendOrigin:    raw.FrontendOrigin,
		DBPath:            raw.DBPath,
		SourcesDir:        raw.SourcesDir,
		SeedLimit:         raw.SeedLimit,
		SearchAPIURL:      raw.SearchAPIURL,
		SearchAPIKey:      raw.SearchAPIKey,
		SearchLimit:       raw.SearchLimit,
		LLMAPIURL:         raw.LLMAPIURL,
		LLMAPIKey:         raw.LLMAPIKey,
		LengthPolicy:      raw.LengthPolicy,
		TargetWordCount:   raw.TargetWordCount,
		LengthMultiplier:  raw.LengthMultiplier,
		ReferenceChars:    raw.ReferenceChars,
		FetchTimeout:      raw.FetchTimeout,
		EnhanceInterval:   raw.EnhanceInterval,
		EnhanceJitter:     raw.EnhanceJitter,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
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

// Set replaces the process configuration. Intended for tests.
func Set(cfg *Cfg) {
	globalCfg = cfg
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
