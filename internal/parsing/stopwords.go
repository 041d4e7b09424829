package parsing

import (
	"bufio"
	"io"
	"strings"
)

// englishStopwords is the standard English stopword list used by NLTK.
var englishStopwords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're",
	"you've", "you'll", "you'd", "your", "yours", "yourself", "yourselves", "he", "him", "his",
	"himself", "she", "she's", "her", "hers", "herself", "it", "it's", "its", "itself",
	"they", "them", "their", "theirs", "themselves", "what", "which", "who", "whom", "this",
	"that", "that'll", "these", "those", "am", "is", "are", "was", "were", "be",
	"been", "being", "have", "has", "had", "having", "do", "does", "did", "doing",
	"a", "an", "the", "and", "but", "if", "or", "because", "as", "until",
	"while", "of", "at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from", "up", "down",
	"in", "out", "on", "off", "over", "under", "again", "further", "then", "once",
	"here", "there", "when", "where", "why", "how", "all", "any", "both", "each",
	"few", "more", "most", "other", "some", "such", "no", "nor", "not", "only",
	"own", "same", "so", "than", "too", "very", "s", "t", "can", "will",
	"just", "don", "don't", "should", "should've", "now", "d", "ll", "m", "o",
	"re", "ve", "y", "ain", "aren", "aren't", "couldn", "couldn't", "didn", "didn't",
	"doesn", "doesn't", "hadn", "hadn't", "hasn", "hasn't", "haven", "haven't", "isn", "isn't",
	"ma", "mightn", "mightn't", "mustn", "mustn't", "needn", "needn't", "shan", "shan't", "shouldn",
	"shouldn't", "wasn", "wasn't", "weren", "weren't", "won", "won't", "wouldn", "wouldn't",
}

// StopwordSet is an immutable set of lowercase stopwords.
// The zero value is an empty set that also reports IsZero, meaning "not configured";
// sets built by NewStopwordSet or LoadStopwords are configured even when empty.
type StopwordSet struct {
	words map[string]struct{}
}

// NewStopwordSet builds a set from the given words, lowercasing and trimming each one.
func NewStopwordSet(words ...string) StopwordSet {
	set := StopwordSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set.words[w] = struct{}{}
		}
	}
	return set
}

// DefaultStopwords returns the fixed English stopword list.
func DefaultStopwords() StopwordSet {
	return NewStopwordSet(englishStopwords...)
}

// LoadStopwords reads one stopword per line. Blank lines and lines starting with '#' are ignored.
func LoadStopwords(r io.Reader) (StopwordSet, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return StopwordSet{}, &ParseError{Message: "failed to read stopword list", Cause: err}
	}
	return NewStopwordSet(words...), nil
}

// Contains reports whether word is a stopword. The lookup is exact; callers pass lowercase tokens.
func (s StopwordSet) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

// IsZero reports whether the set is the zero value rather than a configured, possibly empty, list.
func (s StopwordSet) IsZero() bool {
	return s.words == nil
}

// Len returns the number of stopwords in the set.
func (s StopwordSet) Len() int {
	return len(s.words)
}

// With returns a copy of the set extended with extra words.
func (s StopwordSet) With(extra ...string) StopwordSet {
	out := StopwordSet{words: make(map[string]struct{}, len(s.words)+len(extra))}
	for w := range s.words {
		out.words[w] = struct{}{}
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out.words[w] = struct{}{}
		}
	}
	return out
}
