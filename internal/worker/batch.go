package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/snedea/veracity/internal/model"
)

// Analyzer is the slice of the analysis pipeline batch jobs need.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.ManipulationAnalysisResult, error)
}

// AnalysisJob analyzes one transcript file.
type AnalysisJob struct {
	Path     string
	Request  model.AnalysisRequest // Transcript and Title are filled from Path
	Analyzer Analyzer
}

// Execute reads the transcript file and runs the analysis.
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &AnalysisJobResult{
			Path:  j.Path,
			Error: fmt.Errorf("read transcript: %w", err),
		}
	}

	req := j.Request
	req.Transcript = string(data)
	if req.Title == "" {
		req.Title = TitleFromPath(j.Path)
	}

	result, err := j.Analyzer.Analyze(ctx, req)
	if err != nil {
		return &AnalysisJobResult{Path: j.Path, Error: err}
	}
	return &AnalysisJobResult{Path: j.Path, Result: result}
}

// AnalysisJobResult pairs one input file with its analysis outcome.
type AnalysisJobResult struct {
	Path   string
	Result *model.ManipulationAnalysisResult
	Error  error
}

// GetError returns the error from the job, if any.
func (r *AnalysisJobResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many transcript files concurrently. All jobs share
// one Analyzer; mode and verification options are fixed per batch.
type BatchProcessor struct {
	analyzer     Analyzer
	concurrency  int
	mode         model.AnalysisMode
	verifyClaims bool
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(analyzer Analyzer, concurrency int, mode model.AnalysisMode, verifyClaims bool) *BatchProcessor {
	return &BatchProcessor{
		analyzer:     analyzer,
		concurrency:  concurrency,
		mode:         mode,
		verifyClaims: verifyClaims,
	}
}

// ProcessPaths analyzes the given transcript files on the worker pool.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalysisJobResult {
	if len(paths) == 0 {
		return []*AnalysisJobResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&AnalysisJob{
			Path: path,
			Request: model.AnalysisRequest{
				Mode:         b.mode,
				VerifyClaims: b.verifyClaims,
			},
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	jobResults := make([]*AnalysisJobResult, len(results))
	for i, result := range results {
		jobResults[i] = result.(*AnalysisJobResult)
	}

	return jobResults
}

// ProcessFile reads transcript paths from a list file and analyzes them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*AnalysisJobResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read transcript list: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads transcript paths from a file, one per line. Blank
// lines and #-comments are skipped; duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// TitleFromPath derives a report title from a transcript file name.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
