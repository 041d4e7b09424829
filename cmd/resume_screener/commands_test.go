package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordsCommand(t *testing.T) {
	jobPath, _ := setupFixtures(t)

	stdout, _, err := executeCommand(t, "keywords", "--job", jobPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "python")
	assert.Contains(t, stdout, "developer")
	assert.NotContains(t, stdout, " with ")
}

func TestKeywordsCommand_JSONWithExtraStopwords(t *testing.T) {
	jobPath, _ := setupFixtures(t)

	stdout, _, err := executeCommand(t, "keywords", "--job", jobPath, "--top", "3", "--stopword", "looking", "--format", "json")
	require.NoError(t, err)

	var kws []struct {
		Term   string  `json:"term"`
		Weight float64 `json:"weight"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &kws))
	require.Len(t, kws, 3)
	for _, kw := range kws {
		assert.NotEqual(t, "looking", kw.Term)
		assert.Positive(t, kw.Weight)
	}
}

func TestKeywordsCommand_SeveralFilesShareIDF(t *testing.T) {
	dir := t.TempDir()
	python := writeFile(t, dir, "python.txt", "Python developer, Python")
	java := writeFile(t, dir, "java.txt", "Java developer")

	// Alone, both terms of the Java posting weigh the same
	stdout, _, err := executeCommand(t, "keywords", "--job", java, "--format", "json")
	require.NoError(t, err)
	var single []struct {
		Term   string  `json:"term"`
		Weight float64 `json:"weight"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &single))
	require.Len(t, single, 2)
	assert.Equal(t, "developer", single[0].Term)
	assert.InDelta(t, single[0].Weight, single[1].Weight, 1e-9)

	stdout, _, err = executeCommand(t, "keywords", "-j", python, "-j", java, "--format", "json")
	require.NoError(t, err)

	var docs []struct {
		Source   string `json:"source"`
		Keywords []struct {
			Term   string  `json:"term"`
			Weight float64 `json:"weight"`
		} `json:"keywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, python, docs[0].Source)
	assert.Equal(t, java, docs[1].Source)

	// "developer" occurs in both files, so its IDF is lower than "java"
	require.Len(t, docs[1].Keywords, 2)
	assert.Equal(t, "java", docs[1].Keywords[0].Term)
	assert.InDelta(t, 0.8148, docs[1].Keywords[0].Weight, 1e-4)
	assert.Equal(t, "developer", docs[1].Keywords[1].Term)
	assert.InDelta(t, 0.5797, docs[1].Keywords[1].Weight, 1e-4)

	require.Len(t, docs[0].Keywords, 2)
	assert.Equal(t, "python", docs[0].Keywords[0].Term)
	assert.InDelta(t, 0.3352, docs[0].Keywords[1].Weight, 1e-4)
}

func TestKeywordsCommand_SeveralFilesTable(t *testing.T) {
	dir := t.TempDir()
	python := writeFile(t, dir, "python.txt", "Python developer")
	java := writeFile(t, dir, "java.txt", "Java developer")

	stdout, _, err := executeCommand(t, "keywords", "--job", python, "--job", java)
	require.NoError(t, err)

	assert.Contains(t, stdout, "python.txt")
	assert.Contains(t, stdout, "java.txt")
	assert.Less(t, strings.Index(stdout, "python.txt"), strings.Index(stdout, "java.txt"))
}

func TestKeywordsCommand_UnknownFormat(t *testing.T) {
	jobPath, _ := setupFixtures(t)

	_, _, err := executeCommand(t, "keywords", "--job", jobPath, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestKeywordsCommand_MissingJobFlag(t *testing.T) {
	_, _, err := executeCommand(t, "keywords")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "job" not set`)
}

func TestKeywordsCommand_InvalidTop(t *testing.T) {
	jobPath, _ := setupFixtures(t)

	_, _, err := executeCommand(t, "keywords", "--job", jobPath, "--top", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--top must be positive")
}

func TestSectionsCommand(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", "Jane Doe\n\nWork History:\nAcme Corp, Go\n\nEducation: MSc Physics\n\nTechnical Skills: Go, SQL")

	stdout, _, err := executeCommand(t, "sections", "--resume", resume)
	require.NoError(t, err)

	assert.Contains(t, stdout, "RESUME SECTIONS")
	assert.Contains(t, stdout, "Work History:")
	assert.Contains(t, stdout, "Education: MSc Physics")
	assert.Contains(t, stdout, "Skills: Go, SQL")
}

func TestSectionsCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.md", "Skills: Go\n\nHobbies: chess")

	stdout, _, err := executeCommand(t, "sections", "-r", resume, "-f", "json")
	require.NoError(t, err)

	var sections map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &sections))
	assert.Equal(t, map[string]string{"experience": "", "education": "", "skills": "Skills: Go"}, sections)
}

func TestSectionsCommand_UnsupportedFile(t *testing.T) {
	resume := writeFile(t, t.TempDir(), "resume.odt", "x")

	_, _, err := executeCommand(t, "sections", "--resume", resume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestValidateCommand_Failure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ranked.json", `{"job_keywords": [], "ranked": [{"index": -1}]}`)

	_, _, err := executeCommand(t, "validate", "--json", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateCommand_CustomSchema(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `{"type": "object", "required": ["name"]}`)
	doc := writeFile(t, dir, "doc.json", `{"name": "x"}`)

	stdout, _, err := executeCommand(t, "validate", "--json", doc, "--schema", schema)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
}
