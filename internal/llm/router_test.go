package llm

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// mockProvider is a hand-rolled Provider for routing tests.
type mockProvider struct {
	name      string
	available bool
	resp      *GenerateResponse
	err       error
	calls     int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return m.available }

func newTestRouter(pref string, claude, openai Provider) *Router {
	return &Router{
		claude:     claude,
		openai:     openai,
		preference: pref,
		logger:     zap.NewNop(),
	}
}

func TestRouter_Auto_ClaudeFirst(t *testing.T) {
	claude := &mockProvider{name: "claude", available: true, resp: &GenerateResponse{Content: "from cli", Provider: "claude"}}
	hosted := &mockProvider{name: "openai", available: true, resp: &GenerateResponse{Content: "from api", Provider: "openai"}}

	r := newTestRouter("auto", claude, hosted)
	resp, err := r.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Provider != "claude" {
		t.Errorf("Expected claude to serve, got %s", resp.Provider)
	}
	if hosted.calls != 0 {
		t.Errorf("Hosted API should not be called when CLI succeeds, got %d calls", hosted.calls)
	}
}

func TestRouter_Auto_FallbackOnGenerationError(t *testing.T) {
	claude := &mockProvider{name: "claude", available: true, err: errors.New("cli exploded")}
	hosted := &mockProvider{name: "openai", available: true, resp: &GenerateResponse{Content: "from api", Provider: "openai"}}

	r := newTestRouter("auto", claude, hosted)
	resp, err := r.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if err != nil {
		t.Fatalf("Expected transparent fallback, got error: %v", err)
	}
	if resp.Provider != "openai" {
		t.Errorf("Expected openai to serve the fallback, got %s", resp.Provider)
	}
	if claude.calls != 1 || hosted.calls != 1 {
		t.Errorf("Expected one call each, got claude=%d openai=%d", claude.calls, hosted.calls)
	}
}

func TestRouter_Auto_SkipsUnavailableCLI(t *testing.T) {
	claude := &mockProvider{name: "claude", available: false, err: errors.New("should not be called")}
	hosted := &mockProvider{name: "openai", available: true, resp: &GenerateResponse{Content: "ok", Provider: "openai"}}

	r := newTestRouter("auto", claude, hosted)
	resp, err := r.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Provider != "openai" {
		t.Errorf("Expected openai, got %s", resp.Provider)
	}
	if claude.calls != 0 {
		t.Errorf("Unavailable CLI should not receive a generation call, got %d", claude.calls)
	}
}

func TestRouter_Auto_NoFallbackConfigured(t *testing.T) {
	wantErr := errors.New("cli exploded")
	claude := &mockProvider{name: "claude", available: true, err: wantErr}

	r := newTestRouter("auto", claude, nil)
	_, err := r.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected the CLI error to propagate, got %v", err)
	}
}

func TestRouter_Auto_NothingUsable(t *testing.T) {
	claude := &mockProvider{name: "claude", available: false}

	r := newTestRouter("auto", claude, nil)
	_, err := r.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("Expected ErrNoProvider, got %v", err)
	}
	if r.IsAvailable(context.Background()) {
		t.Error("Router with nothing usable should report unavailable")
	}
}

func TestRouter_OpenAIPreferenceWithoutKey(t *testing.T) {
	claude := &mockProvider{name: "claude", available: true, resp: &GenerateResponse{Content: "x"}}

	r := newTestRouter("openai", claude, nil)
	_, err := r.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("Expected ErrNoProvider, got %v", err)
	}
	if claude.calls != 0 {
		t.Error("openai preference must never route to the CLI")
	}
}

func TestRouter_ClaudePreferenceNeverFallsBack(t *testing.T) {
	wantErr := errors.New("cli exploded")
	claude := &mockProvider{name: "claude", available: true, err: wantErr}
	hosted := &mockProvider{name: "openai", available: true, resp: &GenerateResponse{Content: "x"}}

	r := newTestRouter("claude", claude, hosted)
	_, err := r.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected CLI error, got %v", err)
	}
	if hosted.calls != 0 {
		t.Error("claude preference must never route to the hosted API")
	}
}

func TestRouter_Availability(t *testing.T) {
	claude := &mockProvider{name: "claude", available: false}
	hosted := &mockProvider{name: "openai", available: true}

	r := newTestRouter("auto", claude, hosted)
	avail := r.Availability(context.Background())
	if avail["claude"] {
		t.Error("Expected claude unavailable")
	}
	if !avail["openai"] {
		t.Error("Expected openai available")
	}
	if !r.IsAvailable(context.Background()) {
		t.Error("Router should be available when one backend is")
	}
}

func TestNewRouter_Validation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "gemini"
	if _, err := NewRouter(cfg, nil); err == nil {
		t.Error("Expected rejection of unknown preference")
	}

	cfg.Provider = "openai"
	cfg.APIKey = ""
	r, err := NewRouter(cfg, nil)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	if r.IsAvailable(context.Background()) {
		t.Error("openai preference without key should be unavailable")
	}

	cfg.APIKey = "test-key"
	r, err = NewRouter(cfg, nil)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	if !r.IsAvailable(context.Background()) {
		t.Error("openai preference with key should be available")
	}
}
