// Package ingestion turns job descriptions and resume files into cleaned plain text.
package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:p/>|<w:br/>`)
	docxTab          = regexp.MustCompile(`<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
	xmlEntities      = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
)

// ExtractFile reads a document from disk and returns its cleaned text.
// The format is chosen by extension; unsupported extensions yield an *ExtractionError.
func ExtractFile(path string) (*Document, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, &ExtractionError{
			Source:  path,
			Message: fmt.Sprintf("unsupported file type %q (supported: %s)", filepath.Ext(path), strings.Join(SupportedExtensions(), ", ")),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ExtractionError{Source: path, Message: "file not found", Cause: err}
		}
		return nil, &ExtractionError{Source: path, Message: "failed to read file", Cause: err}
	}

	text, err := extract(format, data)
	if err != nil {
		return nil, &ExtractionError{Source: path, Message: fmt.Sprintf("failed to parse %s", format), Cause: err}
	}
	return newDocument(path, format, text), nil
}

// ExtractText extracts cleaned text from an in-memory document identified by MIME type
func ExtractText(mime string, data []byte) (string, error) {
	format, ok := FormatForMIME(mime)
	if !ok {
		return "", &ExtractionError{Source: "<memory>", Message: fmt.Sprintf("unsupported file type: %s", mime)}
	}
	text, err := extract(format, data)
	if err != nil {
		return "", &ExtractionError{Source: "<memory>", Message: fmt.Sprintf("failed to parse %s", format), Cause: err}
	}
	return text, nil
}

// ExtractDir extracts every supported file directly inside dir, sorted by name.
// Files with other extensions are skipped.
func ExtractDir(ctx context.Context, dir string) ([]*Document, error) {
	paths, err := ListDocuments(dir)
	if err != nil {
		return nil, err
	}
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := ExtractFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ListDocuments returns the supported files directly inside dir, sorted by name
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := FormatForPath(entry.Name()); ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// extract dispatches on format and cleans the result
func extract(format Format, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatText, FormatMarkdown:
		text = string(data)
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

// extractPDFText concatenates the plain text of every page.
// Pages without content, such as scanned images, contribute nothing.
func extractPDFText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(pageText)
	}
	return builder.String(), nil
}

// extractDocxText reads word/document.xml and strips its markup, keeping paragraphs as lines
func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return xmlEntities.Replace(content), nil
}
