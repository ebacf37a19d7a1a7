package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete runtime configuration. Defaults come from
// DefaultConfig; the CLI layers flag and environment overrides on top.
type Config struct {
	LLM          LLMConfig         `yaml:"llm"`
	Search       SearchConfig      `yaml:"search"`
	Verify       VerifyConfig      `yaml:"verify"`
	HTTP         HTTPConfig        `yaml:"http"`
	Cache        CacheConfig       `yaml:"cache"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	Server       ServerConfig      `yaml:"server"`
	Output       OutputConfig      `yaml:"output"`
}

// LLMConfig selects and tunes the generation backends.
type LLMConfig struct {
	// Provider preference: "claude", "openai", or "auto" (subscription CLI
	// first, hosted API as fallback).
	Provider string `yaml:"provider"`

	// CLIPath is the claude binary to invoke for the subscription runner.
	CLIPath string `yaml:"cli_path"`

	// ClaudeModel / ClaudeFastModel are alias or model names passed to the CLI.
	ClaudeModel     string `yaml:"claude_model"`
	ClaudeFastModel string `yaml:"claude_fast_model"`

	// OpenAIModel / OpenAIFastModel name the hosted chat-completion models.
	OpenAIModel     string `yaml:"openai_model"`
	OpenAIFastModel string `yaml:"openai_fast_model"`

	// APIKey for the hosted API. Empty disables that provider.
	APIKey string `yaml:"-"`

	// CLITimeout is the hard wall-clock cap on one subprocess call (seconds).
	CLITimeout int `yaml:"cli_timeout"`

	// APITimeout bounds one hosted API request (seconds).
	APITimeout int `yaml:"api_timeout"`

	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// SearchConfig points at the search backend used for claim verification.
type SearchConfig struct {
	BaseURL    string `yaml:"base_url"`
	Timeout    int    `yaml:"timeout"` // Seconds
	MaxResults int    `yaml:"max_results"`
}

// VerifyConfig tunes claim and quote verification.
type VerifyConfig struct {
	// FactCheckDomains are weighted double when classifying search results.
	// Empty means the built-in list.
	FactCheckDomains []string `yaml:"fact_check_domains"`
}

// HTTPConfig covers outbound page fetches (quote checking).
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// CacheConfig controls the layered result cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig sizes the batch worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RateLimitConfig tunes the rate-limited batch verification primitive.
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size"`
	VerifyDelay       time.Duration `yaml:"verify_delay"` // Fixed delay between verification calls
}

// ServerConfig covers the HTTP serving mode.
type ServerConfig struct {
	Port          int    `yaml:"port"`
	ProbeSchedule string `yaml:"probe_schedule"` // Cron spec for provider availability re-probes
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns sensible defaults for all subsystems.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:        "auto",
			CLIPath:         "claude",
			ClaudeModel:     "sonnet",
			ClaudeFastModel: "haiku",
			OpenAIModel:     "gpt-4o",
			OpenAIFastModel: "gpt-4o-mini",
			CLITimeout:      300,
			APITimeout:      120,
			MaxTokens:       4000,
			Temperature:     0.3,
		},
		Search: SearchConfig{
			BaseURL:    "http://localhost:8888",
			Timeout:    10,
			MaxResults: 8,
		},
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "Veracity/0.1 (+https://github.com/snedea/veracity)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1.0,
			BurstSize:         3,
			VerifyDelay:       500 * time.Millisecond,
		},
		Server: ServerConfig{
			Port:          8080,
			ProbeSchedule: "*/5 * * * *",
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".veracity-cache"
	}
	return filepath.Join(home, ".veracity", "cache")
}
