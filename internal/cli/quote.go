package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/verify"
)

var quoteTimeout time.Duration

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote <url> <text>",
	Short: "Check whether a quote appears on its cited source page",
	Long: `Quote fetches a source page (robots.txt permitting) and reports
whether the quoted text appears in its visible content. Matching is
case- and whitespace-insensitive.

Network failures and robots denials report unverifiable, not errors.

Example:
  veracity quote https://example.org/speech "we will act now"
  veracity quote https://example.org/speech "we will act now" --timeout 30s`,
	Args: cobra.ExactArgs(2),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().DurationVar(&quoteTimeout, "timeout", 30*time.Second, "fetch timeout")
}

func runQuote(cmd *cobra.Command, args []string) error {
	sourceURL, quoted := args[0], args[1]
	ctx, cancel := context.WithTimeout(context.Background(), quoteTimeout)
	defer cancel()

	cfg := loadConfig()
	cfg.HTTP.Timeout = quoteTimeout

	if verbose {
		fmt.Fprintf(os.Stderr, "Fetching: %s\n", sourceURL)
		fmt.Fprintln(os.Stderr)
	}

	checker := verify.NewQuoteChecker(cfg.HTTP)
	outcome := checker.CheckQuote(ctx, quoted, sourceURL)

	switch outcome.Status {
	case model.StatusVerified:
		fmt.Printf("✓ verified (confidence %.2f)\n", outcome.Confidence)
	default:
		fmt.Printf("✗ %s (confidence %.2f)\n", outcome.Status, outcome.Confidence)
	}
	if outcome.Detail != "" {
		fmt.Printf("  %s\n", outcome.Detail)
	}

	return nil
}
