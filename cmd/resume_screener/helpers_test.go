package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of cmd and its subcommands to its default,
// since the commands are package globals shared between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the CLI in-process and returns stdout and stderr
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// setupFixtures writes a job description and a resume directory
func setupFixtures(t *testing.T) (jobPath, resumeDir string) {
	t.Helper()
	dir := t.TempDir()
	jobPath = writeFile(t, dir, "job.txt", "Looking for a Python developer with machine learning experience")

	resumeDir = filepath.Join(dir, "resumes")
	require.NoError(t, os.Mkdir(resumeDir, 0755))
	writeFile(t, resumeDir, "designer.txt", "Graphic designer with Adobe Photoshop skills")
	writeFile(t, resumeDir, "python.md", "Experience:\nPython developer skilled in machine learning and data science\n\nSkills: Python, PyTorch")
	return jobPath, resumeDir
}
