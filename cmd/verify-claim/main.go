// Manual probe for the claim verification stack against a live search
// backend. Runs a few claims through the verifier and prints the raw
// outcomes with their evidence URLs.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/verify"
)

func main() {
	fmt.Println("=== Claim Verification Probe ===")
	fmt.Println()

	// Default claims exercise the main outcomes: a well-documented fact,
	// a contested one, and one under the searchable-length floor
	claims := []string{
		"The Berlin Wall fell in 1989",
		"Drinking eight glasses of water a day is required for health",
		"Too short.",
	}
	if len(os.Args) > 1 {
		claims = os.Args[1:]
	}

	cfg := model.DefaultConfig()
	if base := os.Getenv("VERACITY_SEARCH_BASE_URL"); base != "" {
		cfg.Search.BaseURL = base
	}
	fmt.Printf("Search backend: %s\n\n", cfg.Search.BaseURL)

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	verifier := verify.NewVerifier(
		verify.NewSearchClient(cfg.Search, cfg.HTTP),
		cfg.Verify.FactCheckDomains,
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, claim := range claims {
		fmt.Printf("Claim: %s\n", claim)
		fmt.Println(strings.Repeat("-", 60))

		outcome := verifier.VerifyClaim(ctx, claim)
		switch outcome.Status {
		case model.StatusVerified:
			fmt.Printf("  ✓ VERIFIED (confidence %.2f)\n", outcome.Confidence)
		case model.StatusDisputed:
			fmt.Printf("  ⚠️  DISPUTED (confidence %.2f)\n", outcome.Confidence)
		default:
			fmt.Printf("  - %s (confidence %.2f)\n", strings.ToUpper(string(outcome.Status)), outcome.Confidence)
		}
		if outcome.Detail != "" {
			fmt.Printf("    %s\n", outcome.Detail)
		}
		for _, u := range outcome.Supporting {
			fmt.Printf("    + %s\n", u)
		}
		for _, u := range outcome.Contradicting {
			fmt.Printf("    - %s\n", u)
		}

		fmt.Println()
	}

	fmt.Println("=== Probe Complete ===")
	fmt.Println()
	fmt.Println("Note: outcomes depend on what the search backend has indexed.")
	fmt.Println("Point VERACITY_SEARCH_BASE_URL at a SearXNG instance to test.")
}
