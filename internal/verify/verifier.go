package verify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/snedea/veracity/internal/model"
)

// MinSearchableLength is the shortest claim text worth searching. Anything
// shorter is too vague to query meaningfully and is marked unverifiable
// without an external call.
const MinSearchableLength = 20

// Cue words for classifying a search hit. A contradicting cue anywhere in the
// hit overrides supporting cues, so "claim debunked as not true" counts
// against the claim.
var (
	supportingCues    = []string{"true", "correct", "verified", "confirmed", "accurate"}
	contradictingCues = []string{"false", "incorrect", "misleading", "debunked", "myth", "hoax"}
)

// Searcher is the slice of SearchClient the verifier needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Outcome is the result of checking one claim or quote.
type Outcome struct {
	Status        model.VerificationStatus
	Confidence    float64
	Detail        string
	Supporting    []string
	Contradicting []string
}

// Verifier classifies claims as verified / disputed / unverified /
// unverifiable from search evidence. Hits from known fact-checking domains
// weigh double.
type Verifier struct {
	search  Searcher
	domains map[string]bool
	logger  *zap.Logger
}

// NewVerifier creates a claim verifier. An empty domain list selects the
// built-in fact-check domains.
func NewVerifier(search Searcher, factCheckDomains []string, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(factCheckDomains) == 0 {
		factCheckDomains = DefaultFactCheckDomains()
	}

	domains := make(map[string]bool, len(factCheckDomains))
	for _, d := range factCheckDomains {
		domains[strings.ToLower(strings.TrimSpace(d))] = true
	}

	return &Verifier{
		search:  search,
		domains: domains,
		logger:  logger,
	}
}

// DefaultFactCheckDomains lists the domains weighted double during
// classification.
func DefaultFactCheckDomains() []string {
	return []string{
		"snopes.com",
		"factcheck.org",
		"politifact.com",
		"fullfact.org",
		"apnews.com",
		"reuters.com",
		"afp.com",
		"leadstories.com",
	}
}

// VerifyClaim checks one claim text against the search backend. It never
// returns an error: search failures map to unverified with a diagnostic
// detail and zero confidence.
func (v *Verifier) VerifyClaim(ctx context.Context, claimText string) Outcome {
	text := strings.TrimSpace(claimText)
	if len(text) < MinSearchableLength {
		return Outcome{
			Status:     model.StatusUnverifiable,
			Confidence: 0.0,
			Detail:     "claim too short to search meaningfully",
		}
	}

	query := fmt.Sprintf("%s fact check", text)
	results, err := v.search.Search(ctx, query)
	if err != nil {
		v.logger.Debug("claim search failed", zap.Error(err))
		return Outcome{
			Status:     model.StatusUnverified,
			Confidence: 0.0,
			Detail:     fmt.Sprintf("search failed: %v", err),
		}
	}

	outcome := v.classify(results)
	return outcome
}

// classify applies the cue-count decision rule over search hits.
func (v *Verifier) classify(results []SearchResult) Outcome {
	var supporting, contradicting int
	var supportingURLs, contradictingURLs []string

	for _, r := range results {
		weight := 1
		if v.isFactCheckDomain(r.URL) {
			weight = 2
		}

		switch classifyResult(r) {
		case leaningSupporting:
			supporting += weight
			supportingURLs = append(supportingURLs, r.URL)
		case leaningContradicting:
			contradicting += weight
			contradictingURLs = append(contradictingURLs, r.URL)
		}
	}

	status, confidence, detail := decide(supporting, contradicting)
	return Outcome{
		Status:        status,
		Confidence:    confidence,
		Detail:        detail,
		Supporting:    supportingURLs,
		Contradicting: contradictingURLs,
	}
}

// decide maps weighted counts to a status. The thresholds require a clear
// 2:1 margin before committing to verified or disputed.
func decide(supporting, contradicting int) (model.VerificationStatus, float64, string) {
	switch {
	case supporting == 0 && contradicting == 0:
		return model.StatusUnverified, 0.3, "no clear signal in search results"
	case contradicting > 2*supporting:
		conf := min1(0.9, 0.5+0.1*float64(contradicting-supporting))
		return model.StatusDisputed, conf, fmt.Sprintf("contradicting sources outweigh supporting (%d vs %d)", contradicting, supporting)
	case supporting > 2*contradicting:
		conf := min1(0.9, 0.5+0.1*float64(supporting-contradicting))
		return model.StatusVerified, conf, fmt.Sprintf("supporting sources outweigh contradicting (%d vs %d)", supporting, contradicting)
	default:
		return model.StatusUnverified, 0.4, fmt.Sprintf("mixed signal (%d supporting, %d contradicting)", supporting, contradicting)
	}
}

type leaning int

const (
	leaningNeutral leaning = iota
	leaningSupporting
	leaningContradicting
)

// classifyResult reads the cue words in one hit's title and snippet.
func classifyResult(r SearchResult) leaning {
	text := strings.ToLower(r.Title + " " + r.Content)

	for _, cue := range contradictingCues {
		if strings.Contains(text, cue) {
			return leaningContradicting
		}
	}
	for _, cue := range supportingCues {
		if strings.Contains(text, cue) {
			return leaningSupporting
		}
	}
	return leaningNeutral
}

// isFactCheckDomain reports whether the URL's host is (or is a subdomain of)
// a known fact-checking domain.
func (v *Verifier) isFactCheckDomain(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if v.domains[host] {
		return true
	}
	for domain := range v.domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// ApplyOutcome writes a verification outcome onto a claim. Re-verification
// overwrites the previous status wholesale; states never accumulate.
func ApplyOutcome(claim *model.DetectedClaim, o Outcome) {
	claim.Status = o.Status
	claim.VerificationConfidence = o.Confidence
	claim.VerificationDetail = o.Detail
	claim.SupportingSources = o.Supporting
	claim.ContradictingSources = o.Contradicting
}

func min1(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
