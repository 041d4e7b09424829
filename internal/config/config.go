// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-screener/internal/embedding"
	"github.com/jonathan/resume-screener/internal/keywords"
	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/ranking"
)

// Environment variables consulted by ApplyEnv
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Job       string   `json:"job,omitempty" yaml:"job,omitempty"`               // Path to job description file
	Resumes   []string `json:"resumes,omitempty" yaml:"resumes,omitempty"`       // Resume file paths
	ResumeDir string   `json:"resume_dir,omitempty" yaml:"resume_dir,omitempty"` // Directory scanned for resumes
	Output    string   `json:"output,omitempty" yaml:"output,omitempty"`         // Path of the ranked JSON output
	Format    string   `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=table json"`
	Top       int      `json:"top,omitempty" yaml:"top,omitempty" validate:"gte=0"` // Rows printed, 0 prints all

	// Embedding provider
	Provider       string `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=gemini ollama hashing"`
	Model          string `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL        string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	APIKey         string `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Gemini API key
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"gte=0"`
	BatchSize      int    `json:"batch_size,omitempty" yaml:"batch_size,omitempty" validate:"gte=0,lte=100"`
	CacheSize      int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty" validate:"gte=0"`
	Dimensions     int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty" validate:"gte=0"`

	// Scoring
	Weights       *ranking.Weights `json:"weights,omitempty" yaml:"weights,omitempty"`
	TopKeywords   int              `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty" validate:"gte=0"`
	MaxFeatures   int              `json:"max_features,omitempty" yaml:"max_features,omitempty" validate:"gte=0"`
	Stopwords     []string         `json:"stopwords,omitempty" yaml:"stopwords,omitempty"`           // Extra stopwords
	StopwordsFile string           `json:"stopwords_file,omitempty" yaml:"stopwords_file,omitempty"` // Replaces the English list

	// Behavior
	Concurrency int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"gte=0"` // Parallel file extractions
	LogFormat   string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=text json"`
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Print detailed debug information
}

// Default returns the configuration used when neither a file nor flags set a value
func Default() Config {
	weights := ranking.DefaultWeights()
	embed := embedding.DefaultConfig()
	return Config{
		Format:         "table",
		Provider:       string(embed.Provider),
		BaseURL:        embed.BaseURL,
		TimeoutSeconds: int(embed.Timeout / time.Second),
		BatchSize:      embed.BatchSize,
		CacheSize:      embed.CacheSize,
		Dimensions:     embed.Dimensions,
		Weights:        &weights,
		TopKeywords:    keywords.DefaultTopN,
		MaxFeatures:    keywords.DefaultMaxFeatures,
		Concurrency:    4,
		LogFormat:      "text",
	}
}

// LoadConfig loads configuration from a JSON file, or YAML when the extension is .yaml or .yml.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	if err := validate.Struct(c); err != nil {
		return newValidationError(err)
	}

	if c.Weights != nil {
		if err := c.Weights.Validate(); err != nil {
			return &ValidationError{Field: "weights", Message: err.Error()}
		}
	}

	// Validate file paths exist (if specified)
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return &ValidationError{Field: "job", Message: fmt.Sprintf("job file not found: %s", c.Job)}
		}
	}
	if c.StopwordsFile != "" {
		if _, err := os.Stat(c.StopwordsFile); os.IsNotExist(err) {
			return &ValidationError{Field: "stopwords_file", Message: fmt.Sprintf("stopwords file not found: %s", c.StopwordsFile)}
		}
	}
	if c.ResumeDir != "" {
		info, err := os.Stat(c.ResumeDir)
		if err != nil || !info.IsDir() {
			return &ValidationError{Field: "resume_dir", Message: fmt.Sprintf("resume directory not found: %s", c.ResumeDir)}
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.ResumeDir == "" {
		result.ResumeDir = defaults.ResumeDir
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.StopwordsFile == "" {
		result.StopwordsFile = defaults.StopwordsFile
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Slices: use default if empty
	if len(result.Resumes) == 0 {
		result.Resumes = defaults.Resumes
	}
	if len(result.Stopwords) == 0 {
		result.Stopwords = defaults.Stopwords
	}

	// Int fields: use default if zero
	if result.Top == 0 {
		result.Top = defaults.Top
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}
	if result.CacheSize == 0 {
		result.CacheSize = defaults.CacheSize
	}
	if result.Dimensions == 0 {
		result.Dimensions = defaults.Dimensions
	}
	if result.TopKeywords == 0 {
		result.TopKeywords = defaults.TopKeywords
	}
	if result.MaxFeatures == 0 {
		result.MaxFeatures = defaults.MaxFeatures
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Weights are set as a whole
	if result.Weights == nil && defaults.Weights != nil {
		weights := *defaults.Weights
		result.Weights = &weights
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills credentials and endpoints from the environment when the config leaves them empty
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvGeminiAPIKey)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvGoogleAPIKey)
	}
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvOllamaHost)
		// OLLAMA_HOST is commonly set as host:port
		if c.BaseURL != "" && !strings.Contains(c.BaseURL, "://") {
			c.BaseURL = "http://" + c.BaseURL
		}
	}
}

// EmbeddingConfig converts the provider settings into an embedding.Config whose providers log to logger
func (c *Config) EmbeddingConfig(logger *slog.Logger) *embedding.Config {
	cfg := embedding.DefaultConfig()
	cfg.Logger = logger
	if c.Provider != "" {
		cfg = cfg.WithProvider(embedding.ProviderKind(c.Provider))
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	cfg.APIKey = c.APIKey
	if c.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.BatchSize > 0 {
		cfg.BatchSize = c.BatchSize
	}
	cfg.CacheSize = c.CacheSize
	if c.Dimensions > 0 {
		cfg.Dimensions = c.Dimensions
	}
	return cfg
}

// LoadStopwords builds the stopword set: the file when configured, else the English list,
// plus any extra words.
func (c *Config) LoadStopwords() (parsing.StopwordSet, error) {
	base := parsing.DefaultStopwords()
	if c.StopwordsFile != "" {
		f, err := os.Open(c.StopwordsFile)
		if err != nil {
			return parsing.StopwordSet{}, fmt.Errorf("failed to open stopwords file: %w", err)
		}
		defer func() { _ = f.Close() }()

		base, err = parsing.LoadStopwords(f)
		if err != nil {
			return parsing.StopwordSet{}, fmt.Errorf("failed to load stopwords file %s: %w", c.StopwordsFile, err)
		}
	}
	return base.With(c.Stopwords...), nil
}

// RankingOptions converts the scoring settings into ranking.Options
func (c *Config) RankingOptions(logger *slog.Logger) (ranking.Options, error) {
	stopwords, err := c.LoadStopwords()
	if err != nil {
		return ranking.Options{}, err
	}
	opts := ranking.Options{
		Stopwords:   stopwords,
		TopKeywords: c.TopKeywords,
		MaxFeatures: c.MaxFeatures,
		Logger:      logger,
	}
	if c.Weights != nil {
		opts.Weights = *c.Weights
	}
	return opts, nil
}

// ValidationError describes the first invalid configuration field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

// newValidationError converts validator errors into a ValidationError naming the first field
func newValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ValidationError{
			Field:   ve.Field(),
			Message: fmt.Sprintf("failed '%s' check (value: %v)", ve.Tag(), ve.Value()),
		}
	}
	return fmt.Errorf("config error: %w", err)
}

// jsonFieldName reports fields by their file keys
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
