package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resolver"
	"github.com/resgen-dev/resgen/internal/resource"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newGenerator(t *testing.T) *Generator {
	return New(WithLogger(zaptest.NewLogger(t)))
}

func testConfig(t *testing.T, typ string) Config {
	cfg := DefaultConfig()
	cfg.GenerationType = typ
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.ScanAssets = false
	return cfg
}

const appResources = `resources:
  - key: app_name
    kind: string
    value: Demo
  - key: app-version
    kind: string
    value: "1.0"
`

func TestGenerate_GoScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", appResources)
	cfg := testConfig(t, "go")

	result, err := newGenerator(t).Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, StageDone, result.Stage)

	target := filepath.Join(cfg.OutputDir, "resgen", "resources.go")
	assert.Equal(t, []string{target}, result.Files)
	assert.Equal(t, []string{target}, result.Written)

	src := readFile(t, target)
	assert.Regexp(t, `AppName\s+= "Demo"`, src)
	assert.Regexp(t, `AppVersion\s+= "1\.0"`, src)
}

func TestGenerate_JavaScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", appResources)
	cfg := testConfig(t, "java")
	cfg.TargetPackage = "com.example"

	result, err := newGenerator(t).Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	src := readFile(t, filepath.Join(cfg.OutputDir, "com", "example", "Res.java"))
	assert.Contains(t, src, "public static final String APP_NAME = \"Demo\";")
	assert.Contains(t, src, "public static final String APP_VERSION = \"1.0\";")
}

func TestGenerate_CollisionWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", `resources:
  - key: app_name
    kind: string
    value: one
  - key: app-name
    kind: string
    value: two
`)
	cfg := testConfig(t, "go")

	result, err := newGenerator(t).Generate(context.Background(), cfg, root)
	require.Error(t, err)
	assert.True(t, errors.IsNameCollision(err))

	assert.Equal(t, StageFailed, result.Stage)
	assert.Equal(t, StageResolving, result.FailedIn)
	assert.False(t, result.OK())
	assert.Empty(t, result.Files)
	require.Len(t, result.Errors(), 1)
	assert.Equal(t, string(errors.ErrNameCollision), result.Errors()[0].Code)
	assert.Equal(t, 5, result.Errors()[0].Location.Line)

	assert.NoDirExists(t, cfg.OutputDir)
}

func TestGenerate_CollisionSuffixWarns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", `resources:
  - key: app_name
    kind: string
    value: one
  - key: app-name
    kind: string
    value: two
`)
	cfg := testConfig(t, "go")
	cfg.Collisions = resolver.CollisionSuffix

	result, err := newGenerator(t).Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, resource.SeverityWarning, result.Diagnostics[0].Severity)

	src := readFile(t, result.Files[0])
	assert.Regexp(t, `AppName2\s+= "two"`, src)
}

func TestGenerate_MalformedDeclarationFailsBeforeResolving(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", `resources:
  - key: colour
    kind: color
    value: red
`)
	cfg := testConfig(t, "go")

	result, err := newGenerator(t).Generate(context.Background(), cfg, root)
	require.Error(t, err)
	assert.True(t, errors.IsScanError(err))
	assert.Equal(t, StageScanning, result.FailedIn)
	assert.Nil(t, result.Resolution)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestGenerate_UnsupportedTypeFailsWhileEmitting(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", appResources)
	cfg := testConfig(t, "kotlin")

	result, err := newGenerator(t).Generate(context.Background(), cfg, root)
	require.Error(t, err)
	assert.True(t, errors.IsEmitError(err))
	assert.True(t, errors.HasCode(err, errors.ErrUnsupportedGenerationType))
	assert.Equal(t, StageEmitting, result.FailedIn)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "go")
	cfg.Casing = "kebab"

	result, err := newGenerator(t).Generate(context.Background(), cfg, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
	assert.Equal(t, StageFailed, result.Stage)
	assert.Equal(t, StageIdle, result.FailedIn)
}

func TestGenerate_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", appResources)
	writeFile(t, root, "labels.res.toml", `[[resources]]
key = "labels"
kind = "group"

  [[resources.resources]]
  key = "save"
  kind = "string"
  value = "Save"
`)
	cfg := testConfig(t, "properties")

	gen := newGenerator(t)
	first, err := gen.Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	require.Len(t, first.Files, 4)

	contents := make(map[string]string)
	for _, f := range first.Files {
		contents[f] = readFile(t, f)
	}

	second, err := gen.Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)
	assert.Empty(t, second.Written)
	for _, f := range second.Files {
		assert.Equal(t, contents[f], readFile(t, f))
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", appResources)
	writeFile(t, root, "messages.properties", "greeting=Hello\nfarewell=Bye\n")
	writeFile(t, root, "images/logo.png", "png")
	cfg := testConfig(t, "go")
	cfg.ScanAssets = true

	result, err := newGenerator(t).Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	require.NotNil(t, result.Resolution)
	require.Len(t, result.Resolution.Resources, 5)

	for _, res := range result.Resolution.Resources {
		byKey, ok := result.Resolution.Lookup(res.Package, res.Declaration.Key)
		require.True(t, ok)
		byIdent, ok := result.Resolution.LookupIdentifier(res.Package, res.Identifier)
		require.True(t, ok)
		assert.Equal(t, byKey, byIdent)

		src := readFile(t, filepath.Join(cfg.OutputDir, "resgen", "resources.go"))
		assert.Contains(t, src, res.Identifier)
	}
}

func TestGenerate_OutputInsideSourceRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "logo.png", "png")
	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(root, "generated")

	gen := newGenerator(t)
	first, err := gen.Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	require.Len(t, first.Resolution.Resources, 1)

	second, err := gen.Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Len(t, second.Resolution.Resources, 1)
	assert.Empty(t, second.Written)
}

func TestGenerate_OutputEnclosingSourceRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "resources")
	writeFile(t, root, "app.res.yaml", appResources)
	cfg := DefaultConfig()
	cfg.OutputDir = base

	gen := newGenerator(t)
	result, err := gen.Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(base, "resgen", "resources.go")}, result.Files)
	assert.Len(t, result.Resolution.Resources, 2)
	assert.Contains(t, readFile(t, result.Files[0]), "AppName")

	check, err := gen.Check(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Empty(t, check.Stale)
}

func TestGenerate_OutputEqualsSourceRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", appResources)
	cfg := DefaultConfig()
	cfg.OutputDir = root

	result, err := newGenerator(t).Generate(context.Background(), cfg, root)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
	assert.Equal(t, StageIdle, result.FailedIn)
	assert.NoDirExists(t, filepath.Join(root, "resgen"))
}

func TestGenerate_InjectDependencies(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", appResources)
	cfg := testConfig(t, "java")
	cfg.InjectDependencies = true

	result, err := newGenerator(t).Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"org.jetbrains:annotations:23.0.0"}, result.Dependencies)
	assert.Contains(t, readFile(t, result.Files[0]), "@NotNull")
}

func TestGenerate_EmptySourceRoot(t *testing.T) {
	cfg := testConfig(t, "go")

	result, err := newGenerator(t).Generate(context.Background(), cfg, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, resource.SeverityInfo, result.Diagnostics[0].Severity)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newGenerator(t).Generate(ctx, testConfig(t, "go"), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StageFailed, result.Stage)
}

func TestCheck(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", appResources)
	cfg := testConfig(t, "go")
	gen := newGenerator(t)

	result, err := gen.Check(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"resgen/resources.go"}, result.Stale)
	assert.NoDirExists(t, cfg.OutputDir)

	_, err = gen.Generate(context.Background(), cfg, root)
	require.NoError(t, err)

	result, err = gen.Check(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Empty(t, result.Stale)

	writeFile(t, root, "app.res.yaml", appResources+`  - key: debug
    kind: bool
    value: true
`)
	result, err = gen.Check(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"resgen/resources.go"}, result.Stale)
}

func TestGenerate_RemovedGroupDeletesOrphan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.res.yaml", appResources)
	writeFile(t, root, "labels.res.toml", `[[resources]]
key = "labels"
kind = "group"

  [[resources.resources]]
  key = "save"
  kind = "string"
  value = "Save"
`)
	cfg := testConfig(t, "go")
	gen := newGenerator(t)

	first, err := gen.Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	orphan := filepath.Join(cfg.OutputDir, "resgen", "labels", "resources.go")
	require.Contains(t, first.Files, orphan)

	require.NoError(t, os.Remove(filepath.Join(root, "labels.res.toml")))

	checked, err := gen.Check(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"resgen/labels/resources.go"}, checked.Stale)
	assert.FileExists(t, orphan)

	second, err := gen.Generate(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(cfg.OutputDir, "resgen", "resources.go")}, second.Files)
	assert.Equal(t, []string{orphan}, second.Removed)
	assert.NoFileExists(t, orphan)
	assert.NoDirExists(t, filepath.Dir(orphan))

	checked, err = gen.Check(context.Background(), cfg, root)
	require.NoError(t, err)
	assert.Empty(t, checked.Stale)
}

func TestSanitizePackage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "resgen"},
		{"   ", "resgen"},
		{"com.example", "com.example"},
		{" com example  res ", "com.example.res"},
		{"my-app.res", "my_app.res"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizePackage(tt.in), tt.in)
	}
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "IDLE", StageIdle.String())
	assert.Equal(t, "SCANNING", StageScanning.String())
	assert.Equal(t, "RESOLVING", StageResolving.String())
	assert.Equal(t, "EMITTING", StageEmitting.String())
	assert.Equal(t, "DONE", StageDone.String())
	assert.Equal(t, "FAILED", StageFailed.String())
}
