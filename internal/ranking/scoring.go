// Package ranking scores and ranks resumes against a job description.
package ranking

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-screener/internal/embedding"
	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/types"
)

// Default weights for scoring components
const (
	semanticWeight = 0.4
	keywordWeight  = 0.3
	sectionWeight  = 0.3

	// weightTolerance is the allowed deviation of the weight sum from 1
	weightTolerance = 1e-6
	// maxScore is the nominal upper bound of a total score
	maxScore = 100.0
)

// Weights sets the contribution of each score component. They must sum to 1.
type Weights struct {
	Semantic float64 `json:"semantic" yaml:"semantic" validate:"gte=0,lte=1"`
	Keyword  float64 `json:"keyword" yaml:"keyword" validate:"gte=0,lte=1"`
	Section  float64 `json:"section" yaml:"section" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the 0.4 / 0.3 / 0.3 split
func DefaultWeights() Weights {
	return Weights{Semantic: semanticWeight, Keyword: keywordWeight, Section: sectionWeight}
}

// SemanticOnly returns weights that reduce scoring to plain embedding similarity
func SemanticOnly() Weights {
	return Weights{Semantic: 1}
}

// Validate checks every weight is in [0, 1] and that they sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{"semantic": w.Semantic, "keyword": w.Keyword, "section": w.Section} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%s weight must be within [0, 1], got %v", name, v)
		}
	}
	if sum := w.Semantic + w.Keyword + w.Section; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}
	return nil
}

// computeKeywordMatch returns the fraction of job keywords found as case-insensitive
// substrings of the raw resume text, and the matched keywords in job keyword order.
func computeKeywordMatch(jobKeywords []string, resumeText string) (float64, []string) {
	matched := make([]string, 0)
	if len(jobKeywords) == 0 || resumeText == "" {
		return 0.0, matched
	}

	resumeLower := strings.ToLower(resumeText)
	for _, keyword := range jobKeywords {
		// Substring match, so "experience" also matches "experienced"
		if strings.Contains(resumeLower, strings.ToLower(keyword)) {
			matched = append(matched, keyword)
		}
	}

	return float64(len(matched)) / float64(len(jobKeywords)), matched
}

// similarity is the cosine similarity of two embeddings. Malformed vectors are reported
// as provider errors since they can only come from the provider.
func similarity(provider string, a, b []float32) (float64, error) {
	sim, err := embedding.CosineSimilarity(a, b)
	if err != nil {
		return 0, &embedding.ProviderError{Provider: provider, Message: "inconsistent embeddings", Cause: err}
	}
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, &embedding.ProviderError{Provider: provider, Message: "embedding contains non-finite values"}
	}
	return sim, nil
}

// composeBreakdown weights the raw signals into a ScoreBreakdown.
// semanticSim and sectionSims are cosine similarities; keywordRatio is in [0, 1].
// Missing sections count as 0 and the section average always divides by the number of sections.
func composeBreakdown(w Weights, semanticSim, keywordRatio float64, matched []string, sectionSims map[parsing.Section]float64) types.ScoreBreakdown {
	sections := parsing.Sections()
	perSection := make(map[string]float64, len(sections))
	var sectionSum float64
	for _, s := range sections {
		pct := sectionSims[s] * 100
		perSection[s.String()] = pct
		sectionSum += pct
	}

	semantic := semanticSim * 100 * w.Semantic
	keyword := keywordRatio * 100 * w.Keyword
	section := sectionSum / float64(len(sections)) * w.Section

	return types.ScoreBreakdown{
		Semantic:           semantic,
		Keyword:            keyword,
		Section:            section,
		Total:              semantic + keyword + section,
		SemanticSimilarity: semanticSim * 100,
		SectionSimilarity:  perSection,
		MatchedKeywords:    matched,
	}
}

// clampScore bounds a total to [0, 100]
func clampScore(total float64) float64 {
	if total > maxScore {
		return maxScore
	}
	if total < 0 {
		return 0
	}
	return total
}
