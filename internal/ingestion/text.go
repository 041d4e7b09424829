package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpace      = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	excessiveBlanks = regexp.MustCompile(`\n\n\n+`)
)

// CleanText cleans and normalizes extracted text while preserving structure.
// Blank lines separating blocks survive, since section boundaries depend on them.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\x00", "")

	// 2. Clean each line
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	// 3. Collapse runs of blank lines to a single blank line
	result := excessiveBlanks.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving its indentation
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t\f\v\u00a0")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	// Markdown headings lose their indentation
	if strings.HasPrefix(trimmed, "#") {
		return multiSpace.ReplaceAllString(trimmed, " ")
	}

	content := multiSpace.ReplaceAllString(trimmed, " ")
	if indent := len(line) - len(trimmed); indent > 0 {
		return strings.Repeat(" ", indent) + content
	}
	return content
}
