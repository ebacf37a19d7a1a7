package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snedea/veracity/internal/cache"
	"github.com/snedea/veracity/internal/llm"
	"github.com/snedea/veracity/internal/pipeline"
	"github.com/snedea/veracity/internal/server"
	"github.com/snedea/veracity/internal/verify"
)

var (
	servePort int
	noCache   bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long: `Serve exposes the analysis pipeline over HTTP:
- POST /api/v1/analyze              run an analysis
- GET  /api/v1/analyses/:content_id fetch a cached result
- GET  /api/v1/health               provider availability

Results are cached under their content and owner IDs so repeat
lookups skip the LLM entirely. Provider availability is re-probed on
a schedule; health checks answer from the cached snapshot instead of
spawning CLI probes.

Example:
  veracity serve
  veracity serve --port 9090
  veracity serve --no-cache`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (0 uses the configured default)")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Build configuration from flags
	cfg := loadConfig()
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.Verbose = verbose

	// Wire the pipeline behind the HTTP surface
	router, err := llm.NewRouter(llm.ConfigFromModel(cfg.LLM), logger)
	if err != nil {
		return fmt.Errorf("configure LLM providers: %w", err)
	}
	verifier := verify.NewVerifier(verify.NewSearchClient(cfg.Search, cfg.HTTP), cfg.Verify.FactCheckDomains, logger)
	p := pipeline.NewPipeline(router, verifier, cfg, logger)
	store := cache.NewResultStoreFromConfig(cfg.Cache)

	if verbose {
		fmt.Fprintf(os.Stderr, "Cache enabled: %v\n", cfg.Cache.Enabled)
		fmt.Fprintf(os.Stderr, "Probe schedule: %s\n", cfg.Server.ProbeSchedule)
	}
	fmt.Fprintf(os.Stderr, "Serving on :%d\n", cfg.Server.Port)

	srv := server.New(p, router, store, cfg, logger)
	return srv.Run()
}
