package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/pipeline"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank resumes against a job description",
	Long: `Extracts the job description and every resume (.txt, .md, .pdf, .docx), scores each
resume and prints them from best to worst match. The ranking is also written as JSON with --out.

Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments override config file values.`,
	RunE: runRank,
}

var (
	rankConfigPath  string
	rankJob         string
	rankJobText     string
	rankResumes     []string
	rankResumeDir   string
	rankOutput      string
	rankProvider    string
	rankModel       string
	rankAPIKey      string
	rankTop         int
	rankFormat      string
	rankConcurrency int
)

func init() {
	// Config file flag (processed first)
	rankCmd.Flags().StringVar(&rankConfigPath, "config", "", "Path to config file, .json or .yaml (values can be overridden by other flags)")

	rankCmd.Flags().StringVarP(&rankJob, "job", "j", "", "Path to job description file (mutually exclusive with --job-text)")
	rankCmd.Flags().StringVar(&rankJobText, "job-text", "", "Job description text (mutually exclusive with --job)")
	rankCmd.Flags().StringSliceVarP(&rankResumes, "resume", "r", nil, "Resume file, repeatable")
	rankCmd.Flags().StringVarP(&rankResumeDir, "resume-dir", "d", "", "Directory of resume files")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Path to output ranked JSON file")
	rankCmd.Flags().StringVar(&rankProvider, "provider", "", "Embedding provider (gemini|ollama|hashing, default hashing)")
	rankCmd.Flags().StringVar(&rankModel, "model", "", "Embedding model (defaults to the provider's model)")
	rankCmd.Flags().IntVarP(&rankTop, "top", "n", 0, "Number of resumes to print (0 prints all)")
	rankCmd.Flags().StringVarP(&rankFormat, "format", "f", "", "Output format (table|json, default table)")
	rankCmd.Flags().IntVar(&rankConcurrency, "concurrency", 0, "Parallel file extractions")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	rankCmd.Flags().StringVar(&rankAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rankCmd.MarkFlagsMutuallyExclusive("job", "job-text")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	// Step 1: Load config file if provided
	var cfg config.Config
	if rankConfigPath != "" {
		loadedCfg, err := config.LoadConfig(rankConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("job") {
		cfg.Job = rankJob
	}
	if cmd.Flags().Changed("resume") {
		cfg.Resumes = rankResumes
	}
	if cmd.Flags().Changed("resume-dir") {
		cfg.ResumeDir = rankResumeDir
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = rankOutput
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = rankProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = rankModel
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = rankAPIKey
	}
	if cmd.Flags().Changed("top") {
		cfg.Top = rankTop
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = rankFormat
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = rankConcurrency
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = rootVerbose
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = rootLogFormat
	}

	// Step 3: Fill credentials from the environment, then defaults for unset values
	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Default())

	// Step 4: Validate merged config
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg.Verbose, cfg.LogFormat)
	if err != nil {
		return err
	}
	if rankConfigPath != "" {
		logger.Debug("config_loaded", "path", rankConfigPath)
	}
	if cfg.Job == "" && rankJobText == "" {
		return errors.New("a job description is required: use --job, --job-text or 'job' in the config file")
	}
	if len(cfg.Resumes) == 0 && cfg.ResumeDir == "" {
		return errors.New("at least one resume is required: use --resume or --resume-dir")
	}

	// Step 5: Run screening
	result, err := pipeline.RunScreening(cmd.Context(), pipeline.ScreenOptions{
		JobPath:     cfg.Job,
		JobText:     rankJobText,
		ResumePaths: cfg.Resumes,
		ResumeDir:   cfg.ResumeDir,
		OutputPath:  cfg.Output,
		Config:      cfg,
		Logger:      logger,
		OnProgress: func(event pipeline.ProgressEvent) {
			logger.Debug("screening_progress", "step", event.Step, "message", event.Message)
		},
	})
	if err != nil {
		return err
	}

	// Step 6: Print results
	out := cmd.OutOrStdout()
	if cfg.Format == "json" {
		jsonOutput, err := json.MarshalIndent(result.Ranked, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal ranking to JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(jsonOutput))
		return nil
	}

	printer := observability.NewPrinter(out)
	printer.PrintSummary(result.Ranked, result.OutputPath)
	return printer.PrintRankings(result.Ranked, cfg.Top)
}
