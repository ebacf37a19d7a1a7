package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/snedea/veracity/internal/llm"
	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/pipeline"
	"github.com/snedea/veracity/internal/verify"
	"github.com/snedea/veracity/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// analysisMode, verifyClaims, providerOverride and noFooter are defined
	// in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple transcripts from a list file in parallel",
	Long: `Batch processes multiple transcript files concurrently:
- Read transcript paths from input file (one per line, # starts a comment)
- Analyze files in parallel with configurable worker count
- Claim verification is rate limited across the whole batch
- Generate individual JSON and Markdown reports per transcript

Example:
  veracity batch transcripts.txt
  veracity batch transcripts.txt --concurrency 8 --output-dir ./reports
  veracity batch transcripts.txt --mode deep --verify --timeout 1h`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./veracity-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Analysis flags shared with the analyze command
	batchCmd.Flags().StringVar(&analysisMode, "mode", "quick", "analysis mode (quick, deep)")
	batchCmd.Flags().BoolVar(&verifyClaims, "verify", false, "cross-check factual claims against the search backend")
	batchCmd.Flags().StringVar(&providerOverride, "provider", "", "LLM provider preference (claude, openai, auto; default from config)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Veracity Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", analysisMode)
	fmt.Fprintf(os.Stderr, "  Verify:       %v\n", verifyClaims)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Build configuration
	cfg := loadConfig()
	if providerOverride != "" {
		cfg.LLM.Provider = providerOverride
	}
	cfg.Concurrency.Workers = concurrency
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline. All workers share one rate-limited verifier so the
	// search backend sees a bounded call rate for the whole batch.
	router, err := llm.NewRouter(llm.ConfigFromModel(cfg.LLM), logger)
	if err != nil {
		return fmt.Errorf("configure LLM providers: %w", err)
	}
	searchClient := verify.NewSearchClient(cfg.Search, cfg.HTTP)
	verifier := verify.NewVerifier(searchClient, cfg.Verify.FactCheckDomains, logger)
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	batchVerifier := verify.NewBatchVerifier(verifier, limiter, searchClient.BaseURL(), cfg.RateLimiting.VerifyDelay, logger)
	p := pipeline.NewPipeline(router, batchVerifier, cfg, logger)

	// Create batch processor
	processor := worker.NewBatchProcessor(p, concurrency, model.AnalysisMode(analysisMode), verifyClaims)

	// Process transcripts
	fmt.Fprintf(os.Stderr, "⚙️  Reading transcript list...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d transcripts\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Analyzing with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	// Process results
	successCount := 0
	failureCount := 0

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		successCount++

		// Generate output file names
		slug := sanitizeFilename(worker.TitleFromPath(result.Path))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		// Render report
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Result, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (overall: %.1f/100 %s)\n",
			result.Result.Title, result.Result.OverallScore, result.Result.OverallGrade)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d transcripts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
