package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ClaudeCLIProvider implements Provider by shelling out to the local
// authenticated claude CLI. Calls are non-interactive single turns
// (`claude -p --output-format json`) with permission prompts bypassed, capped
// by a hard wall-clock timeout. The CLI reports no token usage, so
// TokensUsed is estimated from word counts.
type ClaudeCLIProvider struct {
	binary    string
	model     string
	fastModel string
	timeout   time.Duration
}

// claudeCLIResponse is the JSON envelope from `claude --output-format json`.
// Older CLI versions nest the text under result.content[].text; newer ones
// put the full text in a plain "result" string. Both are accepted.
type claudeCLIResponse struct {
	Result        json.RawMessage `json:"result"`
	IsError       bool            `json:"is_error,omitempty"`
	IsRateLimited bool            `json:"is_rate_limited,omitempty"`
	Error         *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewClaudeCLIProvider creates the subscription runner from configuration.
// Missing fields fall back to defaults (binary "claude", 300s timeout).
func NewClaudeCLIProvider(config Config) *ClaudeCLIProvider {
	binary := config.CLIPath
	if binary == "" {
		binary = "claude"
	}

	model := config.ClaudeModel
	if model == "" {
		model = "sonnet"
	}

	fastModel := config.ClaudeFastModel
	if fastModel == "" {
		fastModel = model
	}

	timeout := time.Duration(config.CLITimeout) * time.Second
	if timeout == 0 {
		timeout = 300 * time.Second
	}

	return &ClaudeCLIProvider{
		binary:    binary,
		model:     model,
		fastModel: fastModel,
		timeout:   timeout,
	}
}

// Name returns the provider name
func (p *ClaudeCLIProvider) Name() string {
	return "claude"
}

// IsAvailable probes the CLI with a cheap liveness check (--version), never
// a generation call. A missing binary or a hung CLI both report unavailable.
func (p *ClaudeCLIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath(p.binary); err != nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, p.binary, "--version")
	return cmd.Run() == nil
}

// Generate runs one subprocess call and parses the JSON envelope.
// Timeout, non-zero exit, and malformed JSON are reported as distinct
// failure kinds so the router and pipeline can tell them apart.
func (p *ClaudeCLIProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		if req.Fast {
			model = p.fastModel
		} else {
			model = p.model
		}
	}

	// The CLI takes a single prompt; system instructions are prepended.
	prompt := req.UserPrompt
	if strings.TrimSpace(req.SystemPrompt) != "" {
		prompt = fmt.Sprintf("[System Instructions]\n%s\n\n[User Request]\n%s", req.SystemPrompt, req.UserPrompt)
	}
	if req.JSONResponse {
		prompt += "\n\nRespond with a single valid JSON object and nothing else."
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--model", model,
		"--dangerously-skip-permissions",
	}

	cmd := exec.CommandContext(callCtx, p.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("claude CLI exceeded %v: %w", p.timeout, ErrTimeout)
		}
		if errors.Is(callCtx.Err(), context.Canceled) {
			return nil, fmt.Errorf("claude CLI call canceled: %w", callCtx.Err())
		}

		stderrStr := stderr.String()
		if isRateLimitMessage(stderrStr) {
			return nil, &RateLimitError{Provider: "claude", RawResponse: stderrStr}
		}
		return nil, fmt.Errorf("claude CLI exited with error: %v (stderr: %s)", err, truncate(stderrStr, 500))
	}

	content, err := parseCLIEnvelope(stdout.Bytes())
	if err != nil {
		return nil, err
	}

	if req.JSONResponse && !json.Valid([]byte(content)) {
		// Tolerate a fenced code block around otherwise valid JSON.
		stripped := stripCodeFences(content)
		if !json.Valid([]byte(stripped)) {
			return nil, fmt.Errorf("claude CLI content is not valid JSON: %w", ErrMalformedJSON)
		}
		content = stripped
	}

	return &GenerateResponse{
		Content:    content,
		Model:      model,
		Provider:   "claude",
		TokensUsed: EstimateTokens(prompt) + EstimateTokens(content),
	}, nil
}

// parseCLIEnvelope extracts the response text from the CLI's JSON output.
func parseCLIEnvelope(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("empty response from claude CLI: %w", ErrMalformedJSON)
	}

	var envelope claudeCLIResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", fmt.Errorf("unparseable claude CLI envelope: %v (raw: %s): %w", err, truncate(string(data), 500), ErrMalformedJSON)
	}

	if envelope.IsRateLimited {
		return "", &RateLimitError{Provider: "claude", RawResponse: string(data)}
	}
	if envelope.Error != nil {
		if isRateLimitMessage(envelope.Error.Message) || isRateLimitMessage(envelope.Error.Type) {
			return "", &RateLimitError{Provider: "claude", RawResponse: envelope.Error.Message}
		}
		return "", fmt.Errorf("claude CLI error: %s (type: %s)", envelope.Error.Message, envelope.Error.Type)
	}

	text, err := decodeResult(envelope.Result)
	if err != nil {
		return "", err
	}
	if envelope.IsError {
		return "", fmt.Errorf("claude CLI reported error: %s", truncate(text, 300))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text content in claude CLI response: %w", ErrMalformedJSON)
	}
	return text, nil
}

// decodeResult handles both envelope variants: a plain string result and an
// object with content blocks.
func decodeResult(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}

	var asObject struct {
		Content []claudeContentBlock `json:"content"`
	}
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return "", fmt.Errorf("unrecognized claude CLI result shape: %w", ErrMalformedJSON)
	}

	var b strings.Builder
	for _, block := range asObject.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

// stripCodeFences removes a ```json ... ``` wrapper if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// isRateLimitMessage checks if an error message indicates throttling.
func isRateLimitMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "rate_limit") ||
		strings.Contains(lower, "too many requests") ||
		strings.Contains(lower, "429")
}

// truncate shortens a string for error messages.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
