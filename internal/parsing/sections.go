package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Section names a resume section recognised by the extractor.
type Section string

// Recognised sections, in scoring order.
const (
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionSkills     Section = "skills"
)

// sectionHeadings lists the heading synonyms for each section. Alternation order matters:
// at equal positions the first synonym wins.
var sectionHeadings = map[Section]*regexp.Regexp{
	SectionExperience: regexp.MustCompile(`(?i)(experience|work history|employment)`),
	SectionEducation:  regexp.MustCompile(`(?i)(education|academic background)`),
	SectionSkills:     regexp.MustCompile(`(?i)(skills|technical skills|key skills)`),
}

// Sections returns the recognised sections in their fixed order.
func Sections() []Section {
	return []Section{SectionExperience, SectionEducation, SectionSkills}
}

// ParseSection resolves a section name case-insensitively.
func ParseSection(name string) (Section, error) {
	s := Section(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := sectionHeadings[s]; !ok {
		return "", &UnknownSectionError{Name: name}
	}
	return s, nil
}

// String returns the section name.
func (s Section) String() string {
	return string(s)
}

// ExtractSection returns the text of a section, starting at the first heading match.
//
// The capture includes the heading, the run of non-word characters after it and
// everything up to the first blank line, or the end of the text. A single newline
// terminating the text is not part of the capture. Headings are matched as plain
// substrings, so "Experienced engineer" opens an experience section.
// Unknown sections and texts without a heading yield "".
func ExtractSection(text string, section Section) string {
	pattern, ok := sectionHeadings[section]
	if !ok || text == "" {
		return ""
	}

	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	start, pos := loc[0], loc[1]

	// Skip separators such as ":" or newlines following the heading.
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if isWordRune(r) {
			break
		}
		pos += size
	}

	end := len(text)
	if strings.HasSuffix(text, "\n") && len(text)-1 >= pos {
		end = len(text) - 1
	}
	if idx := strings.Index(text[pos:], "\n\n"); idx >= 0 && pos+idx < end {
		end = pos + idx
	}

	return text[start:end]
}

// ExtractSections extracts every recognised section. Missing sections map to "".
func ExtractSections(text string) map[Section]string {
	sections := make(map[Section]string, len(sectionHeadings))
	for _, s := range Sections() {
		sections[s] = ExtractSection(text, s)
	}
	return sections
}
