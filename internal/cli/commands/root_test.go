package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into dir; resgen.yml is looked up in the working directory
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
}

func writeFile(t *testing.T, rel, content string) {
	t.Helper()
	p := filepath.FromSlash(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

// run executes the root command with args and returns stdout and stderr
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "resgen", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "generate", "check", "init", "watch"} {
		assert.Contains(t, names, expected)
	}

	for _, flag := range []string{"config", "verbose", "json", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit
	Version, GitCommit = "1.0.0-test", "abc123"
	t.Cleanup(func() { Version, GitCommit = oldVersion, oldCommit })

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resgen version: 1.0.0-test")
	assert.Contains(t, out, "Git commit: abc123")
	assert.Contains(t, out, "Go version:")
}

func TestRootOptions_Logger(t *testing.T) {
	for _, opts := range []rootOptions{{}, {verbose: true}, {json: true}, {verbose: true, json: true}} {
		logger, err := opts.logger()
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := run(t, "build")
	assert.Error(t, err)
}
