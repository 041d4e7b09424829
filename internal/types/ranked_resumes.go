// Package types provides type definitions for structured data used throughout the resume-screener system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RankedResumes represents the ranking of a resume set against one job description
type RankedResumes struct {
	RunID       string         `json:"run_id,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	JobKeywords []string       `json:"job_keywords"`
	Ranked      []RankedResume `json:"ranked"`
}

// RankedResume represents a single resume's total score and its position in the input
type RankedResume struct {
	// Index is the resume's position in the input sequence
	Index int `json:"index"`
	// Score is the total match score in [0, 100]
	Score     float64        `json:"score"`
	Source    string         `json:"source,omitempty"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Notes     string         `json:"notes"`
}

// ScoreBreakdown holds the weighted components of a resume's score
type ScoreBreakdown struct {
	Semantic float64 `json:"semantic"`
	Keyword  float64 `json:"keyword"`
	Section  float64 `json:"section"`
	// Total is the unclamped sum of the three weighted components
	Total float64 `json:"total"`
	// SemanticSimilarity is the unweighted resume similarity (0-100)
	SemanticSimilarity float64 `json:"semantic_similarity"`
	// SectionSimilarity is the unweighted similarity (0-100) per section name
	SectionSimilarity map[string]float64 `json:"section_similarity"`
	MatchedKeywords   []string           `json:"matched_keywords"`
}

// ScoreIndex is a bare (score, original index) pair
type ScoreIndex struct {
	Score float64 `json:"score"`
	Index int     `json:"index"`
}

// Pairs returns the ranking as (score, index) pairs in ranked order
func (r *RankedResumes) Pairs() []ScoreIndex {
	pairs := make([]ScoreIndex, len(r.Ranked))
	for i, rr := range r.Ranked {
		pairs[i] = ScoreIndex{Score: rr.Score, Index: rr.Index}
	}
	return pairs
}
