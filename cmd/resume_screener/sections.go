package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/parsing"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Print the sections detected in a resume",
	Long:  "Extracts a resume and prints the experience, education and skills sections found by the heading heuristic used for section scoring.",
	RunE:  runSections,
}

var (
	sectionsResume string
	sectionsFormat string
)

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsResume, "resume", "r", "", "Path to resume file (required)")
	sectionsCmd.Flags().StringVarP(&sectionsFormat, "format", "f", "table", "Output format (table|json)")

	if err := sectionsCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, _ []string) error {
	doc, err := ingestion.ExtractFile(sectionsResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	sections := parsing.ExtractSections(doc.Text)

	switch sectionsFormat {
	case "json":
		byName := make(map[string]string, len(sections))
		for s, text := range sections {
			byName[s.String()] = text
		}
		jsonOutput, err := json.MarshalIndent(byName, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal sections to JSON: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonOutput))
		return nil
	case "table":
		observability.NewPrinter(cmd.OutOrStdout()).PrintSections(sections)
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected table or json)", sectionsFormat)
	}
}
