package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/snedea/veracity/internal/llm"
	"github.com/snedea/veracity/internal/model"
)

// AnalyzeRequest is the POST /api/v1/analyze body. ContentID and OwnerID are
// optional; when a content id is present and the cache is enabled, the
// result is stored for later retrieval.
type AnalyzeRequest struct {
	Transcript   string `json:"transcript" binding:"required"`
	Mode         string `json:"mode"`
	VerifyClaims bool   `json:"verify_claims"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	ContentID    string `json:"content_id"`
	OwnerID      string `json:"owner_id"`
}

// handleAnalyze handles POST /api/v1/analyze
func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := s.analyzer.Analyze(c.Request.Context(), model.AnalysisRequest{
		Transcript:   req.Transcript,
		Mode:         model.AnalysisMode(req.Mode),
		VerifyClaims: req.VerifyClaims,
		Title:        req.Title,
		Author:       req.Author,
	})
	if err != nil {
		// The pipeline raises only for precondition failures; anything
		// mid-run degrades into the result instead.
		if errors.Is(err, llm.ErrNoProvider) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_PROVIDER",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if s.store != nil && req.ContentID != "" {
		if err := s.store.Save(req.ContentID, req.OwnerID, result); err != nil {
			s.logger.Warn("store analysis result",
				zap.String("content_id", req.ContentID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// handleGetAnalysis handles GET /api/v1/analyses/:content_id
func (s *Server) handleGetAnalysis(c *gin.Context) {
	contentID := c.Param("content_id")
	ownerID := c.Query("owner_id")

	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "result cache is disabled",
			},
		})
		return
	}

	result, found := s.store.Get(contentID, ownerID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "no stored analysis for this content",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// handleHealth handles GET /api/v1/health. Reports 503 when no provider can
// serve an analysis, so load balancers stop routing here.
func (s *Server) handleHealth(c *gin.Context) {
	providers, checkedAt := s.health.Snapshot()

	status := "degraded"
	code := http.StatusServiceUnavailable
	for _, ok := range providers {
		if ok {
			status = "ok"
			code = http.StatusOK
			break
		}
	}

	c.JSON(code, gin.H{
		"success": true,
		"data": gin.H{
			"status":     status,
			"providers":  providers,
			"checked_at": checkedAt,
		},
	})
}
