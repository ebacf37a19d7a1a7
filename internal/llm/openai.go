package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface over the hosted
// chat-completion API. Token usage comes from the API response and is
// authoritative, unlike the CLI runner's estimate.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable reports whether a credential is configured. Unlike the CLI
// runner there is no liveness probe: key presence is the availability test,
// and a bad key surfaces as ErrUnauthorized from Generate.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	return p.config.APIKey != ""
}

// Generate calls the chat-completion endpoint. Authentication failures, rate
// limiting, and other API failures map to distinct error kinds.
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		if req.Fast {
			model = p.config.OpenAIFastModel
		} else {
			model = p.config.OpenAIModel
		}
	}
	if model == "" {
		model = openai.GPT4o
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 4000
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.Temperature
	}

	timeout := time.Duration(p.config.APITimeout) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.UserPrompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: float32(temperature),
	}

	if req.JSONResponse {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(callCtx, chatReq)
	if err != nil {
		return nil, classifyAPIError(err, timeout)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in OpenAI response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	// json_object mode should guarantee valid JSON, but the contract is
	// checked anyway so callers can rely on it.
	if req.JSONResponse && !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("OpenAI content is not valid JSON: %w", ErrMalformedJSON)
	}

	return &GenerateResponse{
		Content:    content,
		Model:      resp.Model,
		Provider:   "openai",
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// classifyAPIError maps go-openai errors onto the provider error taxonomy.
func classifyAPIError(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("OpenAI call exceeded %v: %w", timeout, ErrTimeout)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("OpenAI rejected credential: %v: %w", apiErr.Message, ErrUnauthorized)
		case http.StatusTooManyRequests:
			return &RateLimitError{Provider: "openai", RawResponse: apiErr.Message}
		}
	}

	return fmt.Errorf("OpenAI API error: %w", err)
}
