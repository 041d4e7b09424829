package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/types"
)

// maxNotedKeywords limits how many matched keywords are listed in notes
const maxNotedKeywords = 5

// generateNotes creates a brief explanation of a resume's score.
func generateNotes(raw string, b types.ScoreBreakdown, jobKeywordCount int) string {
	if strings.TrimSpace(raw) == "" {
		return "Empty resume text"
	}

	var parts []string

	// Semantic similarity description
	switch sim := b.SemanticSimilarity / 100; {
	case sim >= 0.7:
		parts = append(parts, "Strong semantic match")
	case sim >= 0.4:
		parts = append(parts, "Moderate semantic match")
	case sim > 0:
		parts = append(parts, "Weak semantic match")
	default:
		parts = append(parts, "No semantic match")
	}

	// Keyword match description
	if len(b.MatchedKeywords) > 0 {
		shown := b.MatchedKeywords
		suffix := ""
		if len(shown) > maxNotedKeywords {
			shown = shown[:maxNotedKeywords]
			suffix = ", ..."
		}
		parts = append(parts, fmt.Sprintf("Matched %d/%d job keywords (%s%s)",
			len(b.MatchedKeywords), jobKeywordCount, strings.Join(shown, ", "), suffix))
	} else {
		parts = append(parts, "No job keyword matches")
	}

	// Section coverage description
	var found []string
	for _, s := range parsing.Sections() {
		if b.SectionSimilarity[s.String()] != 0 {
			found = append(found, s.String())
		}
	}
	if len(found) > 0 {
		parts = append(parts, "Scored sections: "+strings.Join(found, ", "))
	} else {
		parts = append(parts, "No recognised sections")
	}

	return strings.Join(parts, ". ")
}
