// Package server exposes the analysis pipeline over HTTP: one endpoint to
// run an analysis, one to fetch a stored result by content id, and a health
// surface backed by periodically cached provider probes.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/snedea/veracity/internal/cache"
	"github.com/snedea/veracity/internal/model"
)

// Analyzer is the slice of the analysis pipeline the server needs.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.ManipulationAnalysisResult, error)
}

// Server serves the analysis API. A nil store disables result persistence;
// everything else is required.
type Server struct {
	engine   *gin.Engine
	analyzer Analyzer
	store    *cache.ResultStore
	health   *healthMonitor
	logger   *zap.Logger
	port     int
}

// New wires the server and its routes.
func New(analyzer Analyzer, prober AvailabilityProber, store *cache.ResultStore, cfg *model.Config, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:   engine,
		analyzer: analyzer,
		store:    store,
		health:   newHealthMonitor(prober, cfg.Server.ProbeSchedule, logger),
		logger:   logger,
		port:     cfg.Server.Port,
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api/v1")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/analyses/:content_id", s.handleGetAnalysis)
		api.GET("/health", s.handleHealth)
	}
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the availability probes and serves until the listener fails.
func (s *Server) Run() error {
	if err := s.health.Start(); err != nil {
		return err
	}
	defer s.health.Stop()

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("http server listening", zap.String("addr", addr))

	return s.engine.Run(addr)
}
