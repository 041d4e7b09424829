package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/embedding"
	"github.com/jonathan/resume-screener/internal/ranking"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"resumes": ["a.pdf", "b.docx"],
		"provider": "ollama",
		"model": "mxbai-embed-large",
		"weights": {"semantic": 0.5, "keyword": 0.25, "section": 0.25},
		"top_keywords": 15,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"a.pdf", "b.docx"}, cfg.Resumes)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "mxbai-embed-large", cfg.Model)
	require.NotNil(t, cfg.Weights)
	assert.Equal(t, ranking.Weights{Semantic: 0.5, Keyword: 0.25, Section: 0.25}, *cfg.Weights)
	assert.Equal(t, 15, cfg.TopKeywords)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yml", `
provider: gemini
resume_dir: ./resumes
weights:
  semantic: 1
  keyword: 0
  section: 0
stopwords:
  - responsibilities
  - requirements
batch_size: 50
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "./resumes", cfg.ResumeDir)
	assert.Equal(t, ranking.SemanticOnly(), *cfg.Weights)
	assert.Equal(t, []string{"responsibilities", "requirements"}, cfg.Stopwords)
	assert.Equal(t, 50, cfg.BatchSize)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", "provider: [unterminated")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "hashing", cfg.Provider)
	assert.Equal(t, ranking.DefaultWeights(), *cfg.Weights)
	assert.Equal(t, 20, cfg.TopKeywords)
	assert.Equal(t, 5000, cfg.MaxFeatures)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"Empty", Config{}, ""},
		{"Unknown provider", Config{Provider: "openai"}, "'provider'"},
		{"Unknown format", Config{Format: "csv"}, "'format'"},
		{"Negative top", Config{Top: -1}, "'top'"},
		{"Batch too large", Config{BatchSize: 101}, "'batch_size'"},
		{"Invalid base URL", Config{BaseURL: "not a url"}, "'base_url'"},
		{"Weight out of range", Config{Weights: &ranking.Weights{Semantic: 1.5}}, "'semantic'"},
		{"Weights do not sum to 1", Config{Weights: &ranking.Weights{Semantic: 0.5, Keyword: 0.2}}, "sum to 1"},
		{"Missing job file", Config{Job: "/nonexistent/job.txt"}, "job file not found"},
		{"Missing resume dir", Config{ResumeDir: "/nonexistent/resumes"}, "resume directory not found"},
		{"Valid", Config{Provider: "ollama", Format: "json", BaseURL: "http://localhost:11434", Weights: &ranking.Weights{Semantic: 0.6, Keyword: 0.2, Section: 0.2}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Default()
	defaults.Resumes = []string{"default.txt"}

	partial := Config{
		Provider:    "gemini",
		TopKeywords: 10,
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "gemini", merged.Provider)
	assert.Equal(t, 10, merged.TopKeywords)

	// Default values should fill in empty fields
	assert.Equal(t, []string{"default.txt"}, merged.Resumes)
	assert.Equal(t, 5000, merged.MaxFeatures)
	assert.Equal(t, "table", merged.Format)
	require.NotNil(t, merged.Weights)
	assert.Equal(t, ranking.DefaultWeights(), *merged.Weights)

	// Merged weights must not alias the defaults
	merged.Weights.Semantic = 0
	assert.Equal(t, 0.4, defaults.Weights.Semantic)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Provider: "ollama", Top: 3}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "ollama", merged.Provider)
	assert.Equal(t, 3, merged.Top)
	assert.Nil(t, merged.Weights)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvGeminiAPIKey, "")
	t.Setenv(EnvGoogleAPIKey, "google-key")
	t.Setenv(EnvOllamaHost, "http://ollama:11434")

	cfg := Config{}
	cfg.ApplyEnv()
	assert.Equal(t, "google-key", cfg.APIKey)
	assert.Equal(t, "http://ollama:11434", cfg.BaseURL)

	t.Setenv(EnvGeminiAPIKey, "gemini-key")
	cfg = Config{}
	cfg.ApplyEnv()
	assert.Equal(t, "gemini-key", cfg.APIKey)

	cfg = Config{APIKey: "explicit"}
	cfg.ApplyEnv()
	assert.Equal(t, "explicit", cfg.APIKey)

	t.Setenv(EnvOllamaHost, "127.0.0.1:11434")
	cfg = Config{}
	cfg.ApplyEnv()
	assert.Equal(t, "http://127.0.0.1:11434", cfg.BaseURL)
}

func TestEmbeddingConfig(t *testing.T) {
	cfg := Default()
	cfg.Provider = "ollama"
	cfg.TimeoutSeconds = 5

	logger := slog.New(slog.DiscardHandler)
	embed := cfg.EmbeddingConfig(logger)

	assert.Same(t, logger, embed.Logger)
	assert.Equal(t, embedding.ProviderOllama, embed.Provider)
	assert.Equal(t, "nomic-embed-text", embed.GetModel())
	assert.Equal(t, 5*time.Second, embed.Timeout)
	assert.Equal(t, 1024, embed.CacheSize)
	assert.Equal(t, "http://localhost:11434", embed.BaseURL)
}

func TestEmbeddingConfig_ModelOverride(t *testing.T) {
	cfg := Config{Provider: "gemini", Model: "gemini-embedding-001", APIKey: "k"}
	embed := cfg.EmbeddingConfig(nil)

	assert.Equal(t, embedding.ProviderGemini, embed.Provider)
	assert.Equal(t, "gemini-embedding-001", embed.GetModel())
	assert.Equal(t, "k", embed.APIKey)
	assert.Zero(t, embed.CacheSize)
}

func TestLoadStopwords(t *testing.T) {
	cfg := Config{Stopwords: []string{"Responsibilities"}}
	set, err := cfg.LoadStopwords()
	require.NoError(t, err)
	assert.True(t, set.Contains("the"))
	assert.True(t, set.Contains("responsibilities"))

	path := writeConfig(t, "stopwords.txt", "foo\nbar\n")
	cfg = Config{StopwordsFile: path, Stopwords: []string{"baz"}}
	set, err = cfg.LoadStopwords()
	require.NoError(t, err)
	assert.True(t, set.Contains("foo"))
	assert.True(t, set.Contains("baz"))
	assert.False(t, set.Contains("the"))

	cfg = Config{StopwordsFile: "/nonexistent/stopwords.txt"}
	_, err = cfg.LoadStopwords()
	assert.Error(t, err)
}

func TestRankingOptions(t *testing.T) {
	cfg := Default()
	opts, err := cfg.RankingOptions(nil)
	require.NoError(t, err)

	assert.Equal(t, ranking.DefaultWeights(), opts.Weights)
	assert.Equal(t, 20, opts.TopKeywords)
	assert.Equal(t, 5000, opts.MaxFeatures)
	assert.Positive(t, opts.Stopwords.Len())
}

func TestRankingOptions_EmptyStopwordsFileDisablesStopwords(t *testing.T) {
	cfg := Default()
	cfg.StopwordsFile = writeConfig(t, "stopwords.txt", "# no stopwords\n")

	opts, err := cfg.RankingOptions(nil)
	require.NoError(t, err)
	assert.Zero(t, opts.Stopwords.Len())
	assert.False(t, opts.Stopwords.IsZero())

	ranker, err := ranking.NewRanker(embedding.NewHashingProvider(8), opts)
	require.NoError(t, err)
	assert.Contains(t, ranker.JobKeywords("the python developer"), "the")
}
