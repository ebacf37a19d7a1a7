package verify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/worker"
)

// BatchVerifier wraps a Verifier with rate limiting and a fixed delay between
// search calls. The analysis pipeline's own verification loop is unthrottled;
// callers that fan out over many claims at once (batch runs, concurrent
// analyses sharing one search backend) should go through this instead.
type BatchVerifier struct {
	verifier *Verifier
	limiter  *worker.Limiter
	rateKey  string
	delay    time.Duration
	logger   *zap.Logger
}

// NewBatchVerifier creates a rate-limited verifier. rateKey is the search
// backend URL the limiter buckets calls under; delay is the fixed pause added
// after each limiter clearance.
func NewBatchVerifier(v *Verifier, limiter *worker.Limiter, rateKey string, delay time.Duration, logger *zap.Logger) *BatchVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BatchVerifier{
		verifier: v,
		limiter:  limiter,
		rateKey:  rateKey,
		delay:    delay,
		logger:   logger,
	}
}

// VerifyClaim waits for rate-limit clearance plus the configured delay, then
// delegates to the wrapped verifier. Context cancellation during the wait
// yields unverified with a detail string, matching the verifier's
// never-raise contract.
func (b *BatchVerifier) VerifyClaim(ctx context.Context, claimText string) Outcome {
	if err := b.limiter.WaitWithDelay(ctx, b.rateKey, b.delay); err != nil {
		b.logger.Debug("rate limit wait aborted", zap.Error(err))
		return Outcome{
			Status:     model.StatusUnverified,
			Confidence: 0.0,
			Detail:     "verification aborted: " + err.Error(),
		}
	}

	return b.verifier.VerifyClaim(ctx, claimText)
}

// VerifyClaims checks each claim in order, pacing every search call, and
// writes the outcome onto the claim. Returns the number of claims checked;
// a cancelled context stops the loop early.
func (b *BatchVerifier) VerifyClaims(ctx context.Context, claims []*model.DetectedClaim) int {
	checked := 0
	for _, claim := range claims {
		if ctx.Err() != nil {
			break
		}

		ApplyOutcome(claim, b.VerifyClaim(ctx, claim.Text))
		checked++
	}
	return checked
}
