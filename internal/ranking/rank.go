package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/resume-screener/internal/embedding"
	"github.com/jonathan/resume-screener/internal/keywords"
	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/types"
)

// Options configures a Ranker. Zero values select the defaults.
type Options struct {
	// Weights defaults to DefaultWeights when all components are zero
	Weights Weights
	// Stopwords defaults to the English list when unset; a configured empty set disables stopwords
	Stopwords parsing.StopwordSet
	// TopKeywords is the number of job keywords used for matching
	TopKeywords int
	// MaxFeatures caps the keyword vocabulary
	MaxFeatures int
	Logger      *slog.Logger
}

// Ranker ranks resumes against a job description.
// It holds no per-call state and is safe for concurrent use when its provider is.
type Ranker struct {
	provider  embedding.Provider
	weights   Weights
	stopwords parsing.StopwordSet
	extractor *keywords.Extractor
	logger    *slog.Logger
}

// NewRanker creates a Ranker using provider for all embeddings
func NewRanker(provider embedding.Provider, opts Options) (*Ranker, error) {
	if provider == nil {
		return nil, errors.New("embedding provider is required")
	}

	weights := opts.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}

	stopwords := opts.Stopwords
	if stopwords.IsZero() {
		stopwords = parsing.DefaultStopwords()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Ranker{
		provider:  provider,
		weights:   weights,
		stopwords: stopwords,
		extractor: keywords.NewExtractor(stopwords, opts.TopKeywords, opts.MaxFeatures),
		logger:    logger,
	}, nil
}

// JobKeywords normalizes the job description and extracts its keywords
func (r *Ranker) JobKeywords(jobDescription string) []string {
	return keywords.Terms(r.extractor.Extract(parsing.Normalize(jobDescription, r.stopwords)))
}

// Rank scores every resume against the job description and returns them sorted by score,
// highest first. Equal scores keep their input order. Each result carries the resume's
// input position as Index.
//
// A blank job description or an empty resume list yields an empty ranking without calling
// the provider. All embeddings are requested in one provider call; a provider failure is
// returned as an error matching embedding.ErrEmbeddingUnavailable.
func (r *Ranker) Rank(ctx context.Context, jobDescription string, resumes []string) (*types.RankedResumes, error) {
	result := &types.RankedResumes{
		Provider:    r.provider.Version(),
		JobKeywords: []string{},
		Ranked:      []types.RankedResume{},
	}
	if strings.TrimSpace(jobDescription) == "" || len(resumes) == 0 {
		return result, nil
	}

	start := time.Now()
	r.logger.Info("ranking_started",
		slog.Int("resume_count", len(resumes)),
		slog.String("provider", r.provider.Version()),
	)

	jobClean := parsing.Normalize(jobDescription, r.stopwords)
	jobKeywords := keywords.Terms(r.extractor.Extract(jobClean))
	result.JobKeywords = jobKeywords

	cleaned := parsing.NormalizeAll(resumes, r.stopwords)
	sections := make([]map[parsing.Section]string, len(resumes))

	batch := newTextBatch()
	batch.add(jobClean)
	for i, raw := range resumes {
		batch.add(cleaned[i])
		sections[i] = parsing.ExtractSections(raw)
		for _, s := range parsing.Sections() {
			batch.add(sections[i][s])
		}
	}

	embedStart := time.Now()
	embedded, err := batch.encode(ctx, r.provider)
	if err != nil {
		r.logger.Error("ranking_embedding_failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	r.logger.Debug("embedding_batch_completed",
		slog.Int("text_count", len(batch.texts)),
		slog.Duration("elapsed", time.Since(embedStart)),
	)

	jobVec := embedded.lookup(jobClean)
	result.Ranked = make([]types.RankedResume, 0, len(resumes))
	for i, raw := range resumes {
		breakdown, err := r.scoreResume(jobVec, jobKeywords, raw, cleaned[i], sections[i], embedded)
		if err != nil {
			return nil, fmt.Errorf("failed to score resume %d: %w", i, err)
		}

		result.Ranked = append(result.Ranked, types.RankedResume{
			Index:     i,
			Score:     clampScore(breakdown.Total),
			Breakdown: breakdown,
			Notes:     generateNotes(raw, breakdown, len(jobKeywords)),
		})
	}

	// Stable sort keeps input order among equal scores
	sort.SliceStable(result.Ranked, func(i, j int) bool {
		return result.Ranked[i].Score > result.Ranked[j].Score
	})

	r.logger.Info("ranking_completed",
		slog.Int("resume_count", len(result.Ranked)),
		slog.Int("job_keyword_count", len(jobKeywords)),
		slog.Float64("top_score", result.Ranked[0].Score),
		slog.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// Score computes the breakdown of a single resume against a job description using the
// given job keywords. It issues its own provider call; Rank batches across resumes instead.
func (r *Ranker) Score(ctx context.Context, jobDescription, resumeText string, jobKeywords []string) (types.ScoreBreakdown, error) {
	jobClean := parsing.Normalize(jobDescription, r.stopwords)
	resumeClean := parsing.Normalize(resumeText, r.stopwords)
	sections := parsing.ExtractSections(resumeText)

	batch := newTextBatch()
	batch.add(jobClean)
	batch.add(resumeClean)
	for _, s := range parsing.Sections() {
		batch.add(sections[s])
	}

	embedded, err := batch.encode(ctx, r.provider)
	if err != nil {
		return types.ScoreBreakdown{}, fmt.Errorf("failed to embed texts: %w", err)
	}

	return r.scoreResume(embedded.lookup(jobClean), jobKeywords, resumeText, resumeClean, sections, embedded)
}

// scoreResume combines semantic, keyword and section signals for one resume.
// Empty texts have nil vectors and therefore similarity 0.
func (r *Ranker) scoreResume(jobVec []float32, jobKeywords []string, raw, clean string, sections map[parsing.Section]string, embedded *embeddings) (types.ScoreBreakdown, error) {
	version := r.provider.Version()

	semanticSim, err := similarity(version, jobVec, embedded.lookup(clean))
	if err != nil {
		return types.ScoreBreakdown{}, err
	}

	keywordRatio, matched := computeKeywordMatch(jobKeywords, raw)

	sectionSims := make(map[parsing.Section]float64, len(sections))
	for _, s := range parsing.Sections() {
		text := sections[s]
		if text == "" {
			sectionSims[s] = 0
			continue
		}
		sim, err := similarity(version, jobVec, embedded.lookup(text))
		if err != nil {
			return types.ScoreBreakdown{}, err
		}
		sectionSims[s] = sim
	}

	return composeBreakdown(r.weights, semanticSim, keywordRatio, matched, sectionSims), nil
}
