// Package observability provides logging and formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/jonathan/resume-screener/internal/keywords"
	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxMatchedWidth truncates the matched keyword column
	maxMatchedWidth = 40
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// newTable creates a borderless, left-aligned table
func (p *Printer) newTable() *tablewriter.Table {
	return tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

// renderTable writes headers and rows through tablewriter
func (p *Printer) renderTable(headers []string, rows [][]string) error {
	table := p.newTable()
	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to add table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// PrintRankings outputs the top ranked resumes as a table, followed by the notes of
// the leading entries. top <= 0 prints every resume.
func (p *Printer) PrintRankings(ranked *types.RankedResumes, top int) error {
	if ranked == nil || len(ranked.Ranked) == 0 {
		_, _ = fmt.Fprintln(p.out, "No resumes ranked.")
		return nil
	}

	count := len(ranked.Ranked)
	if top > 0 && top < count {
		count = top
	}

	rows := make([][]string, 0, count)
	for i := 0; i < count; i++ {
		rr := ranked.Ranked[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			displaySource(rr),
			fmt.Sprintf("%.1f", rr.Score),
			fmt.Sprintf("%.1f", rr.Breakdown.Semantic),
			fmt.Sprintf("%.1f", rr.Breakdown.Keyword),
			fmt.Sprintf("%.1f", rr.Breakdown.Section),
			truncate(strings.Join(rr.Breakdown.MatchedKeywords, ", "), maxMatchedWidth),
		})
	}

	if err := p.renderTable([]string{"Rank", "Resume", "Score", "Semantic", "Keyword", "Section", "Matched"}, rows); err != nil {
		return err
	}

	var sb strings.Builder
	notes := min(count, maxItemsToShow)
	for i := 0; i < notes; i++ {
		rr := ranked.Ranked[i]
		sb.WriteString(fmt.Sprintf("#%d %s\n", i+1, displaySource(rr)))
		for _, note := range strings.Split(rr.Notes, ". ") {
			sb.WriteString(fmt.Sprintf("  • %s\n", note))
		}
	}
	if len(ranked.Ranked) > count {
		sb.WriteString(fmt.Sprintf("... and %d more resumes\n", len(ranked.Ranked)-count))
	}
	p.printBox("TOP MATCHES", strings.TrimSuffix(sb.String(), "\n"))
	return nil
}

// PrintKeywords outputs job keywords with their TF-IDF weights
func (p *Printer) PrintKeywords(kws []keywords.Keyword) error {
	if len(kws) == 0 {
		_, _ = fmt.Fprintln(p.out, "No keywords found.")
		return nil
	}

	rows := make([][]string, len(kws))
	for i, kw := range kws {
		rows[i] = []string{fmt.Sprintf("%d", i+1), kw.Term, fmt.Sprintf("%.4f", kw.Weight)}
	}
	return p.renderTable([]string{"Rank", "Keyword", "Weight"}, rows)
}

// PrintCorpusKeywords outputs one keyword table per document, titled by file name
func (p *Printer) PrintCorpusKeywords(sources []string, corpus [][]keywords.Keyword) error {
	for i, kws := range corpus {
		if i > 0 {
			_, _ = fmt.Fprintln(p.out)
		}
		_, _ = fmt.Fprintf(p.out, "%s\n", filepath.Base(sources[i]))
		if err := p.PrintKeywords(kws); err != nil {
			return err
		}
	}
	return nil
}

// PrintSections outputs every recognised section of a resume in a box
func (p *Printer) PrintSections(sections map[parsing.Section]string) {
	var sb strings.Builder
	for i, s := range parsing.Sections() {
		sb.WriteString(strings.ToUpper(s.String()) + ":\n")
		text := strings.TrimSpace(sections[s])
		if text == "" {
			sb.WriteString("  (not found)\n")
		} else {
			for _, line := range strings.Split(text, "\n") {
				sb.WriteString("  " + line + "\n")
			}
		}
		if i < len(parsing.Sections())-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("RESUME SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the run identity and job keywords of a ranking
func (p *Printer) PrintSummary(ranked *types.RankedResumes, outputPath string) {
	if ranked == nil {
		return
	}

	var sb strings.Builder
	if ranked.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run:       %s\n", ranked.RunID))
	}
	sb.WriteString(fmt.Sprintf("Provider:  %s\n", ranked.Provider))
	sb.WriteString(fmt.Sprintf("Resumes:   %d\n", len(ranked.Ranked)))
	if outputPath != "" {
		sb.WriteString(fmt.Sprintf("Output:    %s\n", outputPath))
	}
	if len(ranked.JobKeywords) > 0 {
		shown := min(len(ranked.JobKeywords), maxItemsToShow)
		sb.WriteString(fmt.Sprintf("Keywords:  %s", strings.Join(ranked.JobKeywords[:shown], ", ")))
		if len(ranked.JobKeywords) > shown {
			sb.WriteString(fmt.Sprintf(" (+%d more)", len(ranked.JobKeywords)-shown))
		}
		sb.WriteString("\n")
	}

	p.printBox("SCREENING SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// displaySource names a resume by file name, or by input position when it has no source
func displaySource(rr types.RankedResume) string {
	if rr.Source != "" {
		return filepath.Base(rr.Source)
	}
	return fmt.Sprintf("resume[%d]", rr.Index)
}

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
