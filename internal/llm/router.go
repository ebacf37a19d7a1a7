package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Router implements Provider on top of the two backends, applying the
// configured preference:
//
//	claude  - subscription CLI runner only
//	openai  - hosted API only
//	auto    - CLI first, hosted API as transparent fallback
//
// In auto mode any failure of the CLI path (unavailability or a generation
// error) falls through to the hosted API without surfacing an intermediate
// error, preserving the caller's contract.
type Router struct {
	claude     Provider
	openai     Provider
	preference string
	logger     *zap.Logger
}

// NewRouter builds both backends from configuration. The hosted provider is
// only constructed when a credential is present; the CLI provider is always
// constructed and its availability is probed at call time.
func NewRouter(config Config, logger *zap.Logger) (*Router, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	preference := strings.ToLower(strings.TrimSpace(config.Provider))
	if preference == "" {
		preference = "auto"
	}
	switch preference {
	case "claude", "openai", "auto":
	default:
		return nil, fmt.Errorf("unknown LLM provider preference: %s (supported: claude, openai, auto)", config.Provider)
	}

	r := &Router{
		claude:     NewClaudeCLIProvider(config),
		preference: preference,
		logger:     logger,
	}

	if config.APIKey != "" {
		hosted, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, fmt.Errorf("configure OpenAI provider: %w", err)
		}
		r.openai = hosted
	}

	return r, nil
}

// Name returns the configured preference.
func (r *Router) Name() string {
	return r.preference
}

// Generate dispatches one call according to the preference.
func (r *Router) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	switch r.preference {
	case "claude":
		return r.claude.Generate(ctx, req)

	case "openai":
		if r.openai == nil {
			return nil, fmt.Errorf("openai preference set but no API key configured: %w", ErrNoProvider)
		}
		return r.openai.Generate(ctx, req)

	default: // auto
		if r.claude.IsAvailable(ctx) {
			resp, err := r.claude.Generate(ctx, req)
			if err == nil {
				return resp, nil
			}
			if r.openai == nil {
				return nil, err
			}
			r.logger.Warn("claude CLI generation failed, falling back to hosted API",
				zap.Error(err))
		}

		if r.openai == nil {
			return nil, fmt.Errorf("claude CLI unavailable and no OpenAI key configured: %w", ErrNoProvider)
		}
		return r.openai.Generate(ctx, req)
	}
}

// IsAvailable reports whether the preferred path can serve a call.
func (r *Router) IsAvailable(ctx context.Context) bool {
	switch r.preference {
	case "claude":
		return r.claude.IsAvailable(ctx)
	case "openai":
		return r.openai != nil && r.openai.IsAvailable(ctx)
	default:
		if r.claude.IsAvailable(ctx) {
			return true
		}
		return r.openai != nil && r.openai.IsAvailable(ctx)
	}
}

// Availability probes each backend independently. Used by the health surface.
func (r *Router) Availability(ctx context.Context) map[string]bool {
	avail := map[string]bool{
		"claude": r.claude.IsAvailable(ctx),
		"openai": false,
	}
	if r.openai != nil {
		avail["openai"] = r.openai.IsAvailable(ctx)
	}
	return avail
}
