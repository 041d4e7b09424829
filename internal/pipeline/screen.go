// Package pipeline provides the high-level orchestration for a screening run.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/embedding"
	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/ranking"
	"github.com/jonathan/resume-screener/internal/schemas"
	"github.com/jonathan/resume-screener/internal/types"
)

// Steps reported through ProgressEvent
const (
	StepIngestJob      = "ingest_job"
	StepExtractResumes = "extract_resumes"
	StepRank           = "rank"
	StepWriteOutput    = "write_output"
)

// defaultConcurrency bounds parallel file extraction when the config leaves it unset
const defaultConcurrency = 4

// ProgressEvent represents a progress update during a screening run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when screening progress occurs
type ProgressCallback func(event ProgressEvent)

// ScreenOptions holds configuration for a screening run
type ScreenOptions struct {
	JobPath     string   // Job description file; ignored when JobText is set
	JobText     string   // Inline job description
	ResumePaths []string // Resume files, ranked in this order before ResumeDir entries
	ResumeDir   string   // Directory scanned for supported resume files
	OutputPath  string   // Ranked JSON is written here when set
	Config      config.Config
	// Provider overrides the provider built from Config
	Provider   embedding.Provider
	Logger     *slog.Logger
	OnProgress ProgressCallback
}

// ScreenResult holds the outputs of a screening run
type ScreenResult struct {
	RunID      uuid.UUID
	Ranked     *types.RankedResumes
	Documents  []*ingestion.Document
	OutputPath string
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *ScreenOptions, runID uuid.UUID, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   runID.String(),
			Content: content,
		})
	}
}

// RunScreening extracts the job description and resumes, ranks the resumes and
// optionally writes the ranking as JSON.
func RunScreening(ctx context.Context, opts ScreenOptions) (*ScreenResult, error) {
	runID := uuid.New()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("run_id", runID.String()))
	start := time.Now()

	// Step 1: Job description
	jobText, err := loadJob(opts)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobText) == "" {
		logger.Warn("job_description_empty")
	}
	emitProgress(&opts, runID, StepIngestJob, fmt.Sprintf("Loaded job description (%d chars)", len(jobText)), nil)

	// Step 2: Resumes
	paths, err := collectResumePaths(opts)
	if err != nil {
		return nil, err
	}
	docs, err := extractAll(ctx, paths, opts.Config.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("resume extraction failed: %w", err)
	}
	for _, doc := range docs {
		if doc.Empty() {
			logger.Warn("resume_text_empty", slog.String("source", doc.Source))
		}
	}
	logger.Info("resumes_extracted", slog.Int("resume_count", len(docs)))
	emitProgress(&opts, runID, StepExtractResumes, fmt.Sprintf("Extracted %d resumes", len(docs)), nil)

	// Step 3: Rank
	provider := opts.Provider
	if provider == nil {
		provider, err = embedding.NewProvider(ctx, opts.Config.EmbeddingConfig(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding provider: %w", err)
		}
		if closer, ok := provider.(io.Closer); ok {
			defer func() { _ = closer.Close() }()
		}
	}

	rankOpts, err := opts.Config.RankingOptions(logger)
	if err != nil {
		return nil, err
	}
	ranker, err := ranking.NewRanker(provider, rankOpts)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	ranked, err := ranker.Rank(ctx, jobText, texts)
	if err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}
	ranked.RunID = runID.String()
	for i := range ranked.Ranked {
		ranked.Ranked[i].Source = docs[ranked.Ranked[i].Index].Source
	}
	emitProgress(&opts, runID, StepRank, fmt.Sprintf("Ranked %d resumes", len(ranked.Ranked)), ranked)

	result := &ScreenResult{
		RunID:     runID,
		Ranked:    ranked,
		Documents: docs,
	}

	// Step 4: Output
	if opts.OutputPath != "" {
		if err := writeOutput(opts.OutputPath, ranked, logger); err != nil {
			return nil, err
		}
		result.OutputPath = opts.OutputPath
		emitProgress(&opts, runID, StepWriteOutput, fmt.Sprintf("Wrote ranking to %s", opts.OutputPath), nil)
	}

	logger.Info("screening_completed",
		slog.Int("resume_count", len(ranked.Ranked)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// loadJob returns the inline job text, or the extracted job file
func loadJob(opts ScreenOptions) (string, error) {
	if opts.JobText != "" {
		return ingestion.CleanText(opts.JobText), nil
	}
	if opts.JobPath == "" {
		return "", errors.New("a job description file or text is required")
	}
	doc, err := ingestion.ExtractFile(opts.JobPath)
	if err != nil {
		return "", fmt.Errorf("job ingestion from file failed: %w", err)
	}
	return doc.Text, nil
}

// collectResumePaths lists explicit resume paths followed by the directory contents, without duplicates
func collectResumePaths(opts ScreenOptions) ([]string, error) {
	paths := make([]string, 0, len(opts.ResumePaths))
	seen := make(map[string]bool)
	add := func(path string) {
		key := filepath.Clean(path)
		if !seen[key] {
			seen[key] = true
			paths = append(paths, path)
		}
	}

	for _, path := range opts.ResumePaths {
		add(path)
	}
	if opts.ResumeDir != "" {
		dirPaths, err := ingestion.ListDocuments(opts.ResumeDir)
		if err != nil {
			return nil, err
		}
		for _, path := range dirPaths {
			add(path)
		}
	}
	return paths, nil
}

// extractAll extracts every file concurrently, keeping input order
func extractAll(ctx context.Context, paths []string, concurrency int) ([]*ingestion.Document, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	docs := make([]*ingestion.Document, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			doc, err := ingestion.ExtractFile(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// writeOutput writes the ranking as indented JSON and validates it against the schema.
// A schema mismatch is logged, not returned.
func writeOutput(path string, ranked *types.RankedResumes, logger *slog.Logger) error {
	jsonBytes, err := json.MarshalIndent(ranked, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ranking: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := schemas.ValidateRankedResumes(jsonBytes); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			logger.Warn("output_schema_mismatch", slog.String("path", path), slog.String("error", err.Error()))
		} else {
			logger.Warn("output_schema_unavailable", slog.String("error", err.Error()))
		}
	}
	return nil
}
