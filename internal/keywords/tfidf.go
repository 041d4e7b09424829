// Package keywords extracts salient terms from text using TF-IDF weighting.
package keywords

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/jonathan/resume-screener/internal/parsing"
)

const (
	// DefaultTopN is the number of keywords returned when no limit is configured
	DefaultTopN = 20
	// DefaultMaxFeatures bounds the vocabulary considered per extraction
	DefaultMaxFeatures = 5000
)

// Keyword is a term with its TF-IDF weight.
type Keyword struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Extractor computes TF-IDF keywords. The zero value is not usable; use NewExtractor.
type Extractor struct {
	stopwords   parsing.StopwordSet
	topN        int
	maxFeatures int
}

// NewExtractor creates an extractor. Non-positive topN or maxFeatures fall back to the defaults.
func NewExtractor(stopwords parsing.StopwordSet, topN, maxFeatures int) *Extractor {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Extractor{
		stopwords:   stopwords,
		topN:        topN,
		maxFeatures: maxFeatures,
	}
}

// ExtractKeywords returns the top N terms of text using the default English stopwords.
func ExtractKeywords(text string, topN int) []string {
	return Terms(NewExtractor(parsing.DefaultStopwords(), topN, DefaultMaxFeatures).Extract(text))
}

// Terms returns the terms of keywords, preserving order.
func Terms(keywords []Keyword) []string {
	terms := make([]string, len(keywords))
	for i, kw := range keywords {
		terms[i] = kw.Term
	}
	return terms
}

// Extract returns up to topN keywords of a single document ordered by descending weight.
// With a single document every term has the same inverse document frequency, so the
// ranking follows term frequency. Empty input yields an empty slice.
func (e *Extractor) Extract(text string) []Keyword {
	return e.ExtractCorpus([]string{text})[0]
}

// ExtractCorpus returns the keywords of every document, weighting terms against the whole corpus.
// The vocabulary is shared across documents and capped at the most frequent terms.
func (e *Extractor) ExtractCorpus(docs []string) [][]Keyword {
	results := make([][]Keyword, len(docs))
	if len(docs) == 0 {
		return results
	}

	counts := make([]map[string]int, len(docs))
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, doc := range docs {
		counts[i] = e.termCounts(doc)
		for term, n := range counts[i] {
			corpusFreq[term] += n
			docFreq[term]++
		}
	}

	vocab := limitVocabulary(corpusFreq, e.maxFeatures)
	n := float64(len(docs))

	for i, tc := range counts {
		weights := make([]Keyword, 0, len(tc))
		var sumSquares float64
		for term, count := range tc {
			if _, ok := vocab[term]; !ok {
				continue
			}
			idf := math.Log((1+n)/(1+float64(docFreq[term]))) + 1
			w := float64(count) * idf
			sumSquares += w * w
			weights = append(weights, Keyword{Term: term, Weight: w})
		}

		if sumSquares > 0 {
			norm := math.Sqrt(sumSquares)
			for j := range weights {
				weights[j].Weight /= norm
			}
		}

		sortKeywords(weights)
		if len(weights) > e.topN {
			weights = weights[:e.topN]
		}
		results[i] = weights
	}

	return results
}

// termCounts tokenizes text into terms of at least two characters, minus stopwords.
func (e *Extractor) termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, token := range parsing.Tokenize(text) {
		if utf8.RuneCountInString(token) < 2 || e.stopwords.Contains(token) {
			continue
		}
		counts[token]++
	}
	return counts
}

// limitVocabulary keeps the maxFeatures most frequent terms; ties keep the alphabetically first.
func limitVocabulary(freq map[string]int, maxFeatures int) map[string]struct{} {
	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}

	if len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if freq[terms[i]] != freq[terms[j]] {
				return freq[terms[i]] > freq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}

	vocab := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		vocab[term] = struct{}{}
	}
	return vocab
}

// sortKeywords orders by weight descending, then term ascending for reproducibility.
func sortKeywords(kws []Keyword) {
	sort.Slice(kws, func(i, j int) bool {
		if kws[i].Weight != kws[j].Weight {
			return kws[i].Weight > kws[j].Weight
		}
		return kws[i].Term < kws[j].Term
	})
}
