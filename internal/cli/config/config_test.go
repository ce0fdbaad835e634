package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resolver"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	content := `
source_dir: src/main/resources
output_dir: build/generated
generation_type: java
target_package: com.example
inject_dependencies: true
scan_assets: false
naming:
  casing: camel
  collisions: suffix
dependencies:
  jetbrains_annotations: 24.1.0
`
	require.NoError(t, os.WriteFile("resgen.yml", []byte(content), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "src/main/resources", cfg.SourceDir)
	assert.Equal(t, "build/generated", cfg.OutputDir)
	assert.Equal(t, "java", cfg.GenerationType)
	assert.Equal(t, "com.example", cfg.TargetPackage)
	assert.True(t, cfg.InjectDependencies)
	assert.False(t, cfg.ScanAssets)
	assert.Equal(t, "camel", cfg.Naming.Casing)
	assert.Equal(t, "suffix", cfg.Naming.Collisions)
	assert.Equal(t, "24.1.0", cfg.Dependencies.JetbrainsAnnotations)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generation_type: properties\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "properties", cfg.GenerationType)
	assert.Equal(t, "resources", cfg.SourceDir)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RESGEN_GENERATION_TYPE", "java")
	t.Setenv("RESGEN_NAMING_CASING", "snake")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "java", cfg.GenerationType)
	assert.Equal(t, "snake", cfg.Naming.Casing)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"generation type", "generation_type: kotlin\n"},
		{"casing", "naming:\n  casing: kebab\n"},
		{"collisions", "naming:\n  collisions: rename\n"},
		{"output dir", "output_dir: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			require.NoError(t, os.WriteFile("resgen.yml", []byte(tt.content), 0644))

			_, err := Load("")
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
		})
	}
}

func TestConfig_Generator(t *testing.T) {
	cfg := Default()
	cfg.TargetPackage = "com example-app"
	cfg.Naming.Casing = "upper_snake"
	cfg.Naming.Collisions = "suffix"

	g := cfg.Generator()
	assert.Equal(t, "com.example_app", g.TargetPackage)
	assert.Equal(t, resolver.CasingUpperSnake, g.Casing)
	assert.Equal(t, resolver.CollisionSuffix, g.Collisions)
	assert.Equal(t, "23.0.0", g.AnnotationsVersion)
	assert.True(t, g.ScanAssets)
}

func TestConfig_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	assert.False(t, Exists(dir))

	cfg := Default()
	cfg.GenerationType = "java"
	cfg.TargetPackage = "com.example"
	require.NoError(t, cfg.Save("resgen.yml"))
	assert.True(t, Exists(dir))

	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
