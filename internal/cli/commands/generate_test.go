package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resgen-dev/resgen/internal/errors"
)

const appResources = `resources:
  - key: app_name
    kind: string
    value: Demo
  - key: app-version
    kind: string
    value: "1.0"
`

func readGenerated(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.FromSlash(rel))
	require.NoError(t, err)
	return string(data)
}

func TestGenerateCommand(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "resources/app.res.yaml", appResources)

	out, _, err := run(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 file in generated (1 written)")

	src := readGenerated(t, "generated/resgen/resources.go")
	assert.Contains(t, src, "package resgen")
	assert.Regexp(t, `AppName\s+= "Demo"`, src)
	assert.Regexp(t, `AppVersion\s+= "1.0"`, src)

	out, _, err = run(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "(0 written)")
}

func TestGenerateCommand_ConfigAndFlags(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "res/app.res.yaml", appResources)
	writeFile(t, "resgen.yml", `source_dir: res
output_dir: out
generation_type: java
target_package: com.example.app
`)

	_, _, err := run(t, "generate")
	require.NoError(t, err)
	src := readGenerated(t, "out/com/example/app/Res.java")
	assert.Contains(t, src, "package com.example.app;")
	assert.Contains(t, src, `APP_NAME = "Demo"`)

	_, _, err = run(t, "generate", "--type", "go", "--package", "res", "--casing", "upper_snake")
	require.NoError(t, err)
	assert.Regexp(t, `APP_VERSION\s+= "1.0"`, readGenerated(t, "out/res/resources.go"))
}

func TestGenerateCommand_InjectDependencies(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "resources/app.res.yaml", appResources)

	out, _, err := run(t, "generate", "--type", "java", "--inject-deps")
	require.NoError(t, err)
	assert.Contains(t, out, "requires org.jetbrains:annotations:23.0.0")
}

func TestGenerateCommand_Collision(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "resources/app.res.yaml", `resources:
  - key: app_name
    kind: string
    value: a
  - key: app-name
    kind: string
    value: b
`)

	out, stderr, err := run(t, "generate")
	require.Error(t, err)
	assert.True(t, errors.IsNameCollision(err))

	var reported reportedError
	assert.True(t, errors.As(err, &reported))
	assert.Empty(t, out)
	assert.Contains(t, stderr, "RES100")
	assert.Contains(t, stderr, "app.res.yaml:5")
	assert.Contains(t, stderr, "see also app.res.yaml:2")
	assert.NoDirExists(t, "generated/resgen")
}

func TestGenerateCommand_Suffix(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "resources/app.res.yaml", `resources:
  - key: app_name
    kind: string
    value: a
  - key: app-name
    kind: string
    value: b
`)

	_, stderr, err := run(t, "generate", "--collisions", "suffix")
	require.NoError(t, err)
	assert.Contains(t, stderr, "RES103")
	assert.Regexp(t, `AppName2\s+= "b"`, readGenerated(t, "generated/resgen/resources.go"))
}

func TestGenerateCommand_InvalidFlag(t *testing.T) {
	chdir(t, t.TempDir())

	_, stderr, err := run(t, "generate", "--casing", "kebab")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
	assert.Contains(t, stderr, "CONFIGURATION ERROR")
}

func TestGenerateCommand_MissingSource(t *testing.T) {
	chdir(t, t.TempDir())

	_, stderr, err := run(t, "generate")
	require.Error(t, err)
	assert.True(t, errors.IsScanError(err))
	assert.Contains(t, stderr, "SCN001")
}

func TestGenerateCommand_JSON(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "resources/app.res.yaml", appResources)

	out, _, err := run(t, "--json", "generate")
	require.NoError(t, err)

	var result struct {
		Files []string `json:"files"`
		Stage string   `json:"stage"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "DONE", result.Stage)
	assert.Equal(t, []string{filepath.Join("generated", "resgen", "resources.go")}, result.Files)
}

func TestGenerateCommand_JSONFailure(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "resources/bad.res.yaml", "resources: {}\n")

	out, _, err := run(t, "--json", "generate")
	require.Error(t, err)

	var result struct {
		Stage       string `json:"stage"`
		FailedIn    string `json:"failed_in"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "FAILED", result.Stage)
	assert.Equal(t, "SCANNING", result.FailedIn)
	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, "SCN002", result.Diagnostics[len(result.Diagnostics)-1].Code)
}

func TestGenerateCommand_List(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "resources/app.res.yaml", appResources)

	out, _, err := run(t, "generate", "--list")
	require.NoError(t, err)
	assert.Regexp(t, `PACKAGE\s+IDENTIFIER\s+KIND\s+KEY\s+SOURCE`, out)
	assert.Regexp(t, `resgen\s+AppName\s+string\s+app_name\s+app.res.yaml:2`, out)
	assert.Regexp(t, `resgen\s+AppVersion\s+string\s+app-version\s+app.res.yaml:5`, out)
}

func TestGenerateCommand_OutputAtProjectRoot(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "resources/app.res.yaml", appResources)

	out, _, err := run(t, "generate", "--output", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 file")
	assert.Regexp(t, `AppName\s+= "Demo"`, readGenerated(t, "resgen/resources.go"))
}
