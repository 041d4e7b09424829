// Package main implements the resume_screener CLI, which ranks resumes against a job description.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "resume_screener",
	Short: "Rank resumes against a job description",
	Long: `Resume Screener scores a set of resumes against one job description by combining
embedding similarity, TF-IDF keyword overlap and per-section similarity, and prints or
writes the ranked result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	rootVerbose   bool
	rootLogFormat string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "text", "Log output format (text|json)")
}

// newLogger builds the command logger on stderr; verbose enables debug records
func newLogger(cmd *cobra.Command, verbose bool, format string) (*slog.Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return observability.NewLogger(cmd.ErrOrStderr(), level, format)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
