package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func successChatResponse(model, content string, tokens int) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:     "chatcmpl-123",
		Object: "chat.completion",
		Model:  model,
		Choices: []openai.ChatCompletionChoice{
			{
				Index: 0,
				Message: openai.ChatCompletionMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: openai.Usage{TotalTokens: tokens},
	}
}

func TestOpenAIProvider_Generate_Success(t *testing.T) {
	var gotReq openai.ChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(successChatResponse("gpt-4o", `{"overall_score": 70}`, 150))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL
	cfg.APITimeout = 5

	provider, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		SystemPrompt: "You are an analyst.",
		UserPrompt:   "Score this.",
		JSONResponse: true,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Content != `{"overall_score": 70}` {
		t.Errorf("Unexpected content: %s", resp.Content)
	}
	if resp.TokensUsed != 150 {
		t.Errorf("Expected authoritative usage 150, got %d", resp.TokensUsed)
	}
	if resp.Provider != "openai" {
		t.Errorf("Expected provider openai, got %s", resp.Provider)
	}

	// The JSON request must be forwarded as a native response_format.
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Error("Expected response_format json_object in API request")
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("Unexpected message layout: %+v", gotReq.Messages)
	}
}

func TestOpenAIProvider_Generate_FastModel(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		_ = json.NewEncoder(w).Encode(successChatResponse(req.Model, "ok", 10))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL
	cfg.OpenAIModel = "gpt-4o"
	cfg.OpenAIFastModel = "gpt-4o-mini"

	provider, _ := NewOpenAIProvider(cfg)

	if _, err := provider.Generate(context.Background(), GenerateRequest{UserPrompt: "x", Fast: true}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if gotModel != "gpt-4o-mini" {
		t.Errorf("Fast request should use gpt-4o-mini, got %s", gotModel)
	}

	if _, err := provider.Generate(context.Background(), GenerateRequest{UserPrompt: "x"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if gotModel != "gpt-4o" {
		t.Errorf("Default request should use gpt-4o, got %s", gotModel)
	}
}

func TestOpenAIProvider_Generate_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "bad-key"
	cfg.BaseURL = server.URL

	provider, _ := NewOpenAIProvider(cfg)
	_, err := provider.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestOpenAIProvider_Generate_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL

	provider, _ := NewOpenAIProvider(cfg)
	_, err := provider.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Expected ErrRateLimited, got %v", err)
	}

	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatal("Expected *RateLimitError via errors.As")
	}
	if rle.Provider != "openai" {
		t.Errorf("Unexpected provider in rate limit error: %s", rle.Provider)
	}
}

func TestOpenAIProvider_Generate_GenericAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL

	provider, _ := NewOpenAIProvider(cfg)
	_, err := provider.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrRateLimited) {
		t.Errorf("Generic server error misclassified: %v", err)
	}
}

func TestOpenAIProvider_Generate_MalformedJSONContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(successChatResponse("gpt-4o", "not json at all", 20))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL

	provider, _ := NewOpenAIProvider(cfg)
	_, err := provider.Generate(context.Background(), GenerateRequest{UserPrompt: "x", JSONResponse: true})
	if !errors.Is(err, ErrMalformedJSON) {
		t.Errorf("Expected ErrMalformedJSON, got %v", err)
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	provider, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if !provider.IsAvailable(context.Background()) {
		t.Error("Provider with key should be available")
	}

	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected constructor to reject missing API key")
	}
}
