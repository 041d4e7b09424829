package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// Format identifies a supported document format
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

// formatsByExtension maps file extensions to formats
var formatsByExtension = map[string]Format{
	".txt":  FormatText,
	".text": FormatText,
	".md":   FormatMarkdown,
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
}

// formatsByMIME maps MIME types to formats
var formatsByMIME = map[string]Format{
	"text/plain":      FormatText,
	"text/markdown":   FormatMarkdown,
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
}

// Document is the cleaned text of an ingested file
type Document struct {
	Source string `json:"source"`
	Format Format `json:"format"`
	Text   string `json:"text"`
	Hash   string `json:"hash"` // SHA256 hex digest of Text
}

// newDocument builds a Document and computes its content hash
func newDocument(source string, format Format, text string) *Document {
	return &Document{
		Source: source,
		Format: format,
		Text:   text,
		Hash:   computeHash(text),
	}
}

// Empty reports whether no text could be extracted
func (d *Document) Empty() bool {
	return strings.TrimSpace(d.Text) == ""
}

// FormatForPath detects the format from a file extension
func FormatForPath(path string) (Format, bool) {
	f, ok := formatsByExtension[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// FormatForMIME detects the format from a MIME type, ignoring parameters such as charset
func FormatForMIME(mime string) (Format, bool) {
	mime, _, _ = strings.Cut(mime, ";")
	f, ok := formatsByMIME[strings.ToLower(strings.TrimSpace(mime))]
	return f, ok
}

// SupportedExtensions lists the extensions ExtractFile accepts
func SupportedExtensions() []string {
	return []string{".docx", ".md", ".pdf", ".text", ".txt"}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
