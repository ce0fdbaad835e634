package commands

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/resgen-dev/resgen/internal/cli/config"
	"github.com/resgen-dev/resgen/internal/generator"
)

func TestWatch_RegeneratesOnChange(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "resources/app.res.yaml", appResources)

	cfg := config.Default()
	logger := zaptest.NewLogger(t)
	gen := generator.New(generator.WithLogger(logger))
	opts := &rootOptions{noColor: true}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- opts.watch(ctx, cmd, gen, cfg, logger, 50*time.Millisecond)
	}()

	generated := "generated/resgen/resources.go"
	require.Eventually(t, func() bool {
		_, err := os.Stat(generated)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	// Allow watcher to initialize
	time.Sleep(150 * time.Millisecond)
	writeFile(t, "resources/app.res.yaml", appResources+`  - key: debug
    kind: bool
    value: true
`)

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(generated)
		return err == nil && strings.Contains(string(data), "Debug")
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}

	assert.Contains(t, out.String(), "Watching resources")
	assert.Contains(t, out.String(), "1 file changed")
}

func TestWatch_MissingSourceFails(t *testing.T) {
	chdir(t, t.TempDir())

	_, stderr, err := run(t, "watch")
	require.Error(t, err)
	assert.Contains(t, stderr, "SCN001")
}
