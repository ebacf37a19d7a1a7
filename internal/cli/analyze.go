package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/snedea/veracity/internal/llm"
	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/pipeline"
	"github.com/snedea/veracity/internal/verify"
	"github.com/snedea/veracity/internal/worker"
)

var (
	outJSON          string
	outMD            string
	analysisMode     string
	verifyClaims     bool
	providerOverride string
	transcriptTitle  string
	transcriptAuthor string
	analyzeTimeout   time.Duration
	noFooter         bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <transcript-file>",
	Short: "Analyze a transcript for manipulation techniques",
	Long: `Analyze runs one transcript through the analysis pipeline to:
- Score five dimensions of epistemic quality and manipulation risk
- Extract and classify the claims the text makes
- Detect known manipulation techniques with severity and examples
- Optionally cross-check factual claims against a search backend
- Generate JSON and Markdown reports plus a terminal summary

Quick mode runs a single pass; deep mode runs separate extraction,
technique, and scoring passes over segmented text.

Example:
  veracity analyze speech.txt
  veracity analyze speech.txt --mode deep --verify
  veracity analyze speech.txt --json report.json --md report.md
  veracity analyze speech.txt --provider openai --title "Town hall"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	analyzeCmd.Flags().StringVar(&analysisMode, "mode", "quick", "analysis mode (quick, deep)")
	analyzeCmd.Flags().BoolVar(&verifyClaims, "verify", false, "cross-check factual claims against the search backend")
	analyzeCmd.Flags().StringVar(&providerOverride, "provider", "", "LLM provider preference (claude, openai, auto; default from config)")
	analyzeCmd.Flags().StringVar(&transcriptTitle, "title", "", "transcript title for prompt context (default: file name)")
	analyzeCmd.Flags().StringVar(&transcriptAuthor, "author", "", "speaker or author for prompt context")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 10*time.Minute, "overall analysis timeout (deep mode runs several LLM passes)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	// Build configuration from flags
	cfg := loadConfig()
	if providerOverride != "" {
		cfg.LLM.Provider = providerOverride
	}
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Mode: %s\n", analysisMode)
		fmt.Fprintf(os.Stderr, "Provider preference: %s\n", cfg.LLM.Provider)
		fmt.Fprintf(os.Stderr, "Verify claims: %v\n", verifyClaims)
		fmt.Fprintln(os.Stderr)
	}

	// Create pipeline
	router, err := llm.NewRouter(llm.ConfigFromModel(cfg.LLM), logger)
	if err != nil {
		return fmt.Errorf("configure LLM providers: %w", err)
	}
	verifier := verify.NewVerifier(verify.NewSearchClient(cfg.Search, cfg.HTTP), cfg.Verify.FactCheckDomains, logger)
	p := pipeline.NewPipeline(router, verifier, cfg, logger)

	req := model.AnalysisRequest{
		Transcript:   string(data),
		Mode:         model.AnalysisMode(analysisMode),
		VerifyClaims: verifyClaims,
		Title:        transcriptTitle,
		Author:       transcriptAuthor,
	}
	if req.Title == "" {
		req.Title = worker.TitleFromPath(path)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Running %s analysis...\n", analysisMode)
	}

	result, err := p.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Completed %d passes (%d tokens, provider: %s)\n",
			result.PassesCompleted, result.TokensUsed, result.Provider)
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims (%d verified)\n", len(result.Claims), result.ClaimsVerified)
		fmt.Fprintf(os.Stderr, "✓ Detected %d technique uses\n", result.DeviceSummary.TotalDetections)
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outMD)
		}
	}

	renderer.RenderSummary(result)

	return nil
}
