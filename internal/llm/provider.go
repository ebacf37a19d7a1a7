package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snedea/veracity/internal/model"
)

// Provider defines the interface for LLM generation backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a single-turn completion for the given prompts
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one generation call
type GenerateRequest struct {
	// SystemPrompt sets the assistant's role and constraints
	SystemPrompt string

	// UserPrompt is the task content
	UserPrompt string

	// Model overrides the provider's configured model (provider-specific name)
	Model string

	// Fast selects the provider's cheaper model when Model is empty.
	// Used for high-volume extraction passes.
	Fast bool

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling randomness (0 uses the configured default)
	Temperature float64

	// JSONResponse requests a JSON object response. Providers with a native
	// response_format use it; all providers validate that the returned
	// content parses as JSON and report ErrMalformedJSON when it does not.
	JSONResponse bool
}

// GenerateResponse contains the generation output
type GenerateResponse struct {
	// Content is the raw response text
	Content string

	// Model is the model that generated the response
	Model string

	// Provider names the backend that served the call
	Provider string

	// TokensUsed tracks token consumption. Authoritative for the hosted API;
	// a word-count estimate for the CLI runner, which reports none.
	TokensUsed int
}

// Provider error taxonomy. Pipeline passes match on these with errors.Is to
// decide between degrading and surfacing; only ErrNoProvider ever crosses the
// pipeline boundary.
var (
	// ErrNoProvider means no generation backend is configured at all
	ErrNoProvider = errors.New("no usable LLM provider configured")

	// ErrUnauthorized means the backend rejected the credential
	ErrUnauthorized = errors.New("provider authentication failed")

	// ErrRateLimited means the backend throttled the call
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrTimeout means the call exceeded its wall-clock budget
	ErrTimeout = errors.New("provider call timed out")

	// ErrMalformedJSON means JSON was requested but the content does not parse
	ErrMalformedJSON = errors.New("provider returned malformed JSON")
)

// RateLimitError carries the backend's throttling details. It unwraps to
// ErrRateLimited so errors.Is works; retry-aware callers can use errors.As
// to read RetryAfter.
type RateLimitError struct {
	Provider    string
	RetryAfter  time.Duration
	RawResponse string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limit exceeded, retry after %v", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s rate limit exceeded", e.Provider)
}

// Unwrap ties the structured error into the sentinel taxonomy.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// Config holds LLM provider configuration
type Config struct {
	// Provider preference: "claude", "openai", or "auto"
	Provider string

	// CLIPath is the claude binary for the subscription runner
	CLIPath string

	// ClaudeModel / ClaudeFastModel name the CLI models
	ClaudeModel     string
	ClaudeFastModel string

	// OpenAIModel / OpenAIFastModel name the hosted chat-completion models
	OpenAIModel     string
	OpenAIFastModel string

	// APIKey for the hosted API (empty disables that provider)
	APIKey string

	// BaseURL overrides the hosted API endpoint (tests, proxies)
	BaseURL string

	// CLITimeout is the hard wall-clock cap on one subprocess call (seconds)
	CLITimeout int

	// APITimeout bounds one hosted API request (seconds)
	APITimeout int

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float64
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
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
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:        mc.Provider,
		CLIPath:         mc.CLIPath,
		ClaudeModel:     mc.ClaudeModel,
		ClaudeFastModel: mc.ClaudeFastModel,
		OpenAIModel:     mc.OpenAIModel,
		OpenAIFastModel: mc.OpenAIFastModel,
		APIKey:          mc.APIKey,
		CLITimeout:      mc.CLITimeout,
		APITimeout:      mc.APITimeout,
		MaxTokens:       mc.MaxTokens,
		Temperature:     mc.Temperature,
	}
}

// EstimateTokens approximates token consumption for backends that do not
// report usage. The heuristic is word-count based: English text averages
// roughly three words per four tokens.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return words * 4 / 3
}
