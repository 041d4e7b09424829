package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/keywords"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/parsing"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Print the TF-IDF keywords of job descriptions",
	Long: `Normalizes a job description and prints its top keywords with their TF-IDF weights. These are the keywords resumes are matched against.

Repeat --job to extract several files at once: terms are then weighted against the whole set, so words shared by every file rank lower.`,
	RunE: runKeywords,
}

var (
	keywordsJobs      []string
	keywordsTop       int
	keywordsStopwords []string
	keywordsFormat    string
)

// documentKeywords is the JSON shape of one file's keywords when several files are given
type documentKeywords struct {
	Source   string             `json:"source"`
	Keywords []keywords.Keyword `json:"keywords"`
}

func init() {
	keywordsCmd.Flags().StringSliceVarP(&keywordsJobs, "job", "j", nil, "Path to job description file, repeatable (required)")
	keywordsCmd.Flags().IntVarP(&keywordsTop, "top", "n", keywords.DefaultTopN, "Number of keywords per file")
	keywordsCmd.Flags().StringSliceVar(&keywordsStopwords, "stopword", nil, "Extra stopword, repeatable")
	keywordsCmd.Flags().StringVarP(&keywordsFormat, "format", "f", "table", "Output format (table|json)")

	if err := keywordsCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, _ []string) error {
	if keywordsTop <= 0 {
		return fmt.Errorf("--top must be positive, got %d", keywordsTop)
	}
	if keywordsFormat != "table" && keywordsFormat != "json" {
		return fmt.Errorf("unknown format %q (expected table or json)", keywordsFormat)
	}

	stopwords := parsing.DefaultStopwords().With(keywordsStopwords...)
	texts := make([]string, len(keywordsJobs))
	for i, path := range keywordsJobs {
		doc, err := ingestion.ExtractFile(path)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		texts[i] = parsing.Normalize(doc.Text, stopwords)
	}

	extractor := keywords.NewExtractor(stopwords, keywordsTop, keywords.DefaultMaxFeatures)
	corpus := extractor.ExtractCorpus(texts)

	out := cmd.OutOrStdout()
	if keywordsFormat == "table" {
		printer := observability.NewPrinter(out)
		if len(corpus) == 1 {
			return printer.PrintKeywords(corpus[0])
		}
		return printer.PrintCorpusKeywords(keywordsJobs, corpus)
	}

	var payload any = corpus[0]
	if len(corpus) > 1 {
		docs := make([]documentKeywords, len(corpus))
		for i, kws := range corpus {
			docs[i] = documentKeywords{Source: keywordsJobs[i], Keywords: kws}
		}
		payload = docs
	}
	jsonOutput, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keywords to JSON: %w", err)
	}
	_, _ = fmt.Fprintln(out, string(jsonOutput))
	return nil
}
