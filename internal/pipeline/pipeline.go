// Package pipeline orchestrates manipulation/trust analysis: segmentation,
// one or more LLM passes, response normalization, claim verification, and
// score aggregation into a single result object.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snedea/veracity/internal/llm"
	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/normalize"
	"github.com/snedea/veracity/internal/reference"
	"github.com/snedea/veracity/internal/verify"
)

// Verification caps per mode. Deep mode restricts verification to factual
// claims; quick mode takes the first claims of any type.
const (
	maxQuickVerifications = 5
	maxDeepVerifications  = 10
)

// ClaimVerifier is the slice of the verification service the pipeline needs.
// Satisfied by verify.Verifier (unthrottled) and verify.BatchVerifier
// (rate-limited, for batch callers).
type ClaimVerifier interface {
	VerifyClaim(ctx context.Context, claimText string) verify.Outcome
}

// Pipeline runs the manipulation analysis. All collaborators are injected at
// construction; instances are stateless across runs and safe for concurrent
// use.
type Pipeline struct {
	provider llm.Provider
	verifier ClaimVerifier
	config   *model.Config
	logger   *zap.Logger
}

// NewPipeline wires the pipeline. A nil verifier disables claim verification;
// a nil logger disables logging.
func NewPipeline(provider llm.Provider, verifier ClaimVerifier, cfg *model.Config, logger *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		provider: provider,
		verifier: verifier,
		config:   cfg,
		logger:   logger,
	}
}

// IsAvailable reports whether at least one LLM backend can serve a run.
func (p *Pipeline) IsAvailable(ctx context.Context) bool {
	return p.provider.IsAvailable(ctx)
}

// Analyze runs one analysis. It returns an error only for precondition
// failures (no usable provider, empty transcript, unknown mode); every
// in-pipeline failure - bad JSON, API errors, search failures - degrades to
// a lower-quality but present result, so callers always get something to
// render once the preconditions hold.
func (p *Pipeline) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.ManipulationAnalysisResult, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	mode := req.Mode
	if mode == "" {
		mode = model.ModeQuick
	}
	if mode != model.ModeQuick && mode != model.ModeDeep {
		return nil, fmt.Errorf("unknown analysis mode: %s", req.Mode)
	}
	req.Mode = mode

	if !p.provider.IsAvailable(ctx) {
		return nil, fmt.Errorf("analysis unavailable: %w", llm.ErrNoProvider)
	}

	start := time.Now()
	result := &model.ManipulationAnalysisResult{
		AnalysisMode:    mode,
		DimensionScores: map[model.Dimension]model.DimensionScore{},
		Segments:        []model.AnalyzedSegment{},
		Claims:          []model.DetectedClaim{},
		Annotations:     []model.SegmentAnnotation{},
		TopConcerns:     []string{},
		TopStrengths:    []string{},
		Title:           req.Title,
		Author:          req.Author,
	}

	if mode == model.ModeDeep {
		p.runDeep(ctx, req, result)
	} else {
		p.runQuick(ctx, req, result)
	}

	result.OverallScore = OverallScore(result.DimensionScores)
	result.OverallGrade = Grade(result.OverallScore)
	result.DeviceSummary = BuildDeviceSummary(result.Annotations)
	result.DurationSeconds = time.Since(start).Seconds()
	result.AnalyzedAt = time.Now().UTC()

	return result, nil
}

// runQuick is the single-pass path: one generation call carries dimension
// scores, claims, technique detections, and synthesis together.
func (p *Pipeline) runQuick(ctx context.Context, req model.AnalysisRequest, result *model.ManipulationAnalysisResult) {
	result.Segments = BuildSegments(req.Transcript, req.TimedSegments)

	system, user := buildQuickPrompts(req)
	resp, err := p.generate(ctx, system, user, false)
	if err != nil {
		p.logger.Warn("quick analysis pass failed", zap.Error(err))
		return
	}
	result.TokensUsed += resp.TokensUsed
	result.Provider = resp.Provider

	raw, err := normalize.ParseJSONObject(resp.Content)
	if err != nil {
		p.logger.Warn("quick analysis response not a JSON object", zap.Error(err))
		return
	}
	result.PassesCompleted = 1

	result.DimensionScores = normalize.DimensionScores(raw)
	result.Claims = parseClaims(raw)
	result.Annotations = parseAnnotations(raw)
	applySynthesis(raw, result)

	AssignClaims(result.Segments, result.Claims)
	AssignAnnotations(result.Segments, result.Annotations)

	if req.VerifyClaims {
		if p.verifier == nil {
			p.logger.Warn("claim verification requested but no verifier configured")
		} else {
			result.ClaimsVerified = p.verifyQuick(ctx, result.Claims)
		}
	}
}

// runDeep is the multi-pass path. Every pass is independently fault-tolerant:
// a failed pass contributes empty output and is skipped in the pass counter,
// never aborting the run.
func (p *Pipeline) runDeep(ctx context.Context, req model.AnalysisRequest, result *model.ManipulationAnalysisResult) {
	result.Segments = BuildSegments(req.Transcript, req.TimedSegments)

	claims, tokens, provider, ok := p.extractClaims(ctx, req)
	result.TokensUsed += tokens
	if provider != "" {
		result.Provider = provider
	}
	if ok {
		result.PassesCompleted++
	}
	result.Claims = claims

	annotations, tokens, provider, ok := p.scanTechniques(ctx, req)
	result.TokensUsed += tokens
	if provider != "" {
		result.Provider = provider
	}
	if ok {
		result.PassesCompleted++
	}
	result.Annotations = annotations

	AssignClaims(result.Segments, result.Claims)
	AssignAnnotations(result.Segments, result.Annotations)

	stats := passStatistics(result.Claims, result.Annotations)
	tokens, provider, ok = p.scoreDimensions(ctx, req, stats, result)
	result.TokensUsed += tokens
	if provider != "" {
		result.Provider = provider
	}
	if ok {
		result.PassesCompleted++
	}

	if req.VerifyClaims {
		if p.verifier == nil {
			p.logger.Warn("claim verification requested but no verifier configured")
		} else {
			result.ClaimsVerified = p.verifyDeep(ctx, result.Claims)
			result.PassesCompleted++
		}
	}
}

// extractClaims runs the deep-mode claim extraction pass on the cheaper
// model. A failed pass yields an empty list.
func (p *Pipeline) extractClaims(ctx context.Context, req model.AnalysisRequest) ([]model.DetectedClaim, int, string, bool) {
	system, user := buildClaimPrompts(req)
	resp, err := p.generate(ctx, system, user, true)
	if err != nil {
		p.logger.Warn("claim extraction pass failed", zap.Error(err))
		return []model.DetectedClaim{}, 0, "", false
	}

	raw, err := normalize.ParseJSONObject(resp.Content)
	if err != nil {
		p.logger.Warn("claim extraction response not a JSON object", zap.Error(err))
		return []model.DetectedClaim{}, resp.TokensUsed, resp.Provider, false
	}

	return parseClaims(raw), resp.TokensUsed, resp.Provider, true
}

// scanTechniques runs the deep-mode manipulation scan pass.
func (p *Pipeline) scanTechniques(ctx context.Context, req model.AnalysisRequest) ([]model.SegmentAnnotation, int, string, bool) {
	system, user := buildTechniquePrompts(req)
	resp, err := p.generate(ctx, system, user, false)
	if err != nil {
		p.logger.Warn("technique scan pass failed", zap.Error(err))
		return []model.SegmentAnnotation{}, 0, "", false
	}

	raw, err := normalize.ParseJSONObject(resp.Content)
	if err != nil {
		p.logger.Warn("technique scan response not a JSON object", zap.Error(err))
		return []model.SegmentAnnotation{}, resp.TokensUsed, resp.Provider, false
	}

	return parseAnnotations(raw), resp.TokensUsed, resp.Provider, true
}

// scoreDimensions runs the deep-mode scoring pass and writes dimension
// scores plus synthesis fields into the result. On failure the result keeps
// its empty scores and empty summary.
func (p *Pipeline) scoreDimensions(ctx context.Context, req model.AnalysisRequest, stats string, result *model.ManipulationAnalysisResult) (int, string, bool) {
	system, user := buildScoringPrompts(req, stats)
	resp, err := p.generate(ctx, system, user, false)
	if err != nil {
		p.logger.Warn("dimension scoring pass failed", zap.Error(err))
		return 0, "", false
	}

	raw, err := normalize.ParseJSONObject(resp.Content)
	if err != nil {
		p.logger.Warn("dimension scoring response not a JSON object", zap.Error(err))
		return resp.TokensUsed, resp.Provider, false
	}

	result.DimensionScores = normalize.DimensionScores(raw)
	applySynthesis(raw, result)
	return resp.TokensUsed, resp.Provider, true
}

// verifyQuick checks the first claims of any type, up to the quick cap. The
// verifier's own short-circuit still applies per claim.
func (p *Pipeline) verifyQuick(ctx context.Context, claims []model.DetectedClaim) int {
	checked := 0
	for i := range claims {
		if checked >= maxQuickVerifications {
			break
		}
		verify.ApplyOutcome(&claims[i], p.verifier.VerifyClaim(ctx, claims[i].Text))
		checked++
	}
	return checked
}

// verifyDeep checks up to the first ten factual claims. Non-factual claims
// are marked unverifiable without a search call; factual claims past the cap
// stay unverified.
func (p *Pipeline) verifyDeep(ctx context.Context, claims []model.DetectedClaim) int {
	checked := 0
	for i := range claims {
		if claims[i].Type != model.ClaimTypeFactual {
			claims[i].Status = model.StatusUnverifiable
			claims[i].VerificationConfidence = 0.0
			claims[i].VerificationDetail = "only factual claims are checked against search"
			continue
		}
		if checked >= maxDeepVerifications {
			continue
		}
		verify.ApplyOutcome(&claims[i], p.verifier.VerifyClaim(ctx, claims[i].Text))
		checked++
	}
	return checked
}

// generate issues one provider call with the run's configured limits.
func (p *Pipeline) generate(ctx context.Context, system, user string, fast bool) (*llm.GenerateResponse, error) {
	return p.provider.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		Fast:         fast,
		MaxTokens:    p.config.LLM.MaxTokens,
		Temperature:  p.config.LLM.Temperature,
		JSONResponse: true,
	})
}

// parseClaims reads the "claims" list from a response object. Entries without
// text are dropped; unrecognized types default to factual. New claims start
// unverified.
func parseClaims(raw map[string]any) []model.DetectedClaim {
	items := normalize.ObjectList(raw, "claims")
	claims := make([]model.DetectedClaim, 0, len(items))

	for _, item := range items {
		text := strings.TrimSpace(normalize.String(item, "text", ""))
		if text == "" {
			continue
		}

		claims = append(claims, model.DetectedClaim{
			ID:           uuid.NewString(),
			Text:         text,
			Type:         model.ParseClaimType(normalize.String(item, "type", "")),
			Confidence:   normalize.Float(item, "confidence", 0.5),
			SegmentIndex: -1,
			Status:       model.StatusUnverified,
		})
	}
	return claims
}

// parseAnnotations reads the "techniques" list from a response object.
// Entries without a technique identifier are dropped; the category comes
// from the reference catalog, not the response.
func parseAnnotations(raw map[string]any) []model.SegmentAnnotation {
	items := normalize.ObjectList(raw, "techniques")
	annotations := make([]model.SegmentAnnotation, 0, len(items))

	for _, item := range items {
		techniqueID := strings.TrimSpace(normalize.String(item, "technique", ""))
		if techniqueID == "" {
			continue
		}

		category := ""
		if t, ok := reference.TechniqueByID(techniqueID); ok {
			category = t.Category
		}

		annotations = append(annotations, model.SegmentAnnotation{
			ID:           uuid.NewString(),
			SegmentIndex: -1,
			Span:         strings.TrimSpace(normalize.String(item, "span", "")),
			Technique:    techniqueID,
			Category:     category,
			Confidence:   normalize.Float(item, "confidence", 0.5),
			Explanation:  normalize.String(item, "explanation", ""),
			Severity:     model.ParseSeverity(normalize.String(item, "severity", "")),
		})
	}
	return annotations
}

// applySynthesis copies the executive narrative fields from a scoring
// response onto the result.
func applySynthesis(raw map[string]any, result *model.ManipulationAnalysisResult) {
	result.ExecutiveSummary = normalize.String(raw, "executive_summary", "")
	result.TopConcerns = normalize.StringList(raw, "top_concerns")
	result.TopStrengths = normalize.StringList(raw, "top_strengths")
	result.CharitableInterpretation = normalize.String(raw, "charitable_interpretation", "")
	result.ConcerningInterpretation = normalize.String(raw, "concerning_interpretation", "")
}
