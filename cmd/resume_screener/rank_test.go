package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/types"
)

func TestRankCommand_Table(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)

	stdout, _, err := executeCommand(t, "rank", "--job", jobPath, "--resume-dir", resumeDir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "SCREENING SUMMARY")
	assert.Contains(t, stdout, "hashing/")
	assert.Contains(t, stdout, "python.md")
	assert.Contains(t, stdout, "designer.txt")
	assert.Contains(t, stdout, "TOP MATCHES")
}

func TestRankCommand_JSON(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)

	stdout, _, err := executeCommand(t, "rank", "-j", jobPath, "-d", resumeDir, "--format", "json")
	require.NoError(t, err)

	var ranked types.RankedResumes
	require.NoError(t, json.Unmarshal([]byte(stdout), &ranked))
	require.Len(t, ranked.Ranked, 2)
	assert.Equal(t, filepath.Join(resumeDir, "python.md"), ranked.Ranked[0].Source)
	assert.NotEmpty(t, ranked.RunID)
	assert.Contains(t, ranked.JobKeywords, "python")
}

func TestRankCommand_JobTextAndExplicitResumes(t *testing.T) {
	dir := t.TempDir()
	java := writeFile(t, dir, "java.txt", "Java developer")
	python := writeFile(t, dir, "python.txt", "Python developer")

	stdout, _, err := executeCommand(t, "rank", "--job-text", "Python developer",
		"--resume", java, "--resume", python, "--format", "json")
	require.NoError(t, err)

	var ranked types.RankedResumes
	require.NoError(t, json.Unmarshal([]byte(stdout), &ranked))
	require.Len(t, ranked.Ranked, 2)
	assert.Equal(t, 1, ranked.Ranked[0].Index)
	assert.Equal(t, python, ranked.Ranked[0].Source)
}

func TestRankCommand_OutputThenValidate(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)
	outPath := filepath.Join(t.TempDir(), "ranked.json")

	stdout, _, err := executeCommand(t, "rank", "--job", jobPath, "--resume-dir", resumeDir, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Output:")
	assert.FileExists(t, outPath)

	stdout, _, err = executeCommand(t, "validate", "--json", outPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
}

func TestRankCommand_ConfigFile(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)
	cfgPath := writeFile(t, t.TempDir(), "screener.yaml", `
job: `+jobPath+`
resume_dir: `+resumeDir+`
format: json
weights:
  semantic: 1
  keyword: 0
  section: 0
`)

	stdout, _, err := executeCommand(t, "rank", "--config", cfgPath)
	require.NoError(t, err)

	var ranked types.RankedResumes
	require.NoError(t, json.Unmarshal([]byte(stdout), &ranked))
	require.Len(t, ranked.Ranked, 2)
	for _, rr := range ranked.Ranked {
		assert.Zero(t, rr.Breakdown.Keyword)
		assert.Zero(t, rr.Breakdown.Section)
	}
}

func TestRankCommand_FlagsOverrideConfig(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)
	cfgPath := writeFile(t, t.TempDir(), "screener.json", `{"format": "json", "resume_dir": "`+resumeDir+`"}`)

	stdout, _, err := executeCommand(t, "rank", "--config", cfgPath, "--job", jobPath, "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, stdout, "SCREENING SUMMARY")
}

func TestRankCommand_InvalidConfig(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "screener.json", `{"provider": "openai"}`)

	_, _, err := executeCommand(t, "rank", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'provider'")
}

func TestRankCommand_MissingJob(t *testing.T) {
	_, resumeDir := setupFixtures(t)

	_, _, err := executeCommand(t, "rank", "--resume-dir", resumeDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description is required")
}

func TestRankCommand_MissingResumes(t *testing.T) {
	jobPath, _ := setupFixtures(t)

	_, _, err := executeCommand(t, "rank", "--job", jobPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one resume is required")
}

func TestRankCommand_JobFlagsMutuallyExclusive(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)

	_, _, err := executeCommand(t, "rank", "--job", jobPath, "--job-text", "Go developer", "--resume-dir", resumeDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others")
}

func TestRankCommand_UnknownProvider(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)

	_, _, err := executeCommand(t, "rank", "--job", jobPath, "--resume-dir", resumeDir, "--provider", "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'provider'")
}

func TestRankCommand_VerboseLogsToStderr(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)

	_, stderr, err := executeCommand(t, "rank", "--job", jobPath, "--resume-dir", resumeDir, "--verbose", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"ranking_completed"`)
	assert.Contains(t, stderr, `"run_id"`)
}

func TestRankCommand_ConfigControlsLogging(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)
	cfgPath := writeFile(t, t.TempDir(), "screener.json",
		`{"job": "`+jobPath+`", "resume_dir": "`+resumeDir+`", "log_format": "json", "verbose": true}`)

	_, stderr, err := executeCommand(t, "rank", "--config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, stderr, `"msg":"config_loaded"`)
	assert.Contains(t, stderr, `"level":"DEBUG"`)
	assert.Contains(t, stderr, `"msg":"ranking_completed"`)
}

func TestRankCommand_LoggingFlagsOverrideConfig(t *testing.T) {
	jobPath, resumeDir := setupFixtures(t)
	cfgPath := writeFile(t, t.TempDir(), "screener.json",
		`{"job": "`+jobPath+`", "resume_dir": "`+resumeDir+`", "log_format": "json", "verbose": true}`)

	_, stderr, err := executeCommand(t, "rank", "--config", cfgPath, "--log-format", "text")
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=ranking_completed")
	assert.NotContains(t, stderr, `"msg":`)

	_, stderr, err = executeCommand(t, "rank", "--config", cfgPath, "--verbose=false")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "ranking_completed")
}
