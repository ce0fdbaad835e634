package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) record(files []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, files)
	return nil
}

func (r *recorder) saw(file string) bool {
	for _, f := range r.all() {
		if f == file {
			return true
		}
	}
	return false
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

func startWatcher(t *testing.T, root string, opts Options) *recorder {
	t.Helper()
	rec := &recorder{}
	opts.Logger = zaptest.NewLogger(t)
	opts.Debounce = 50 * time.Millisecond

	fw, err := NewFileWatcher(root, rec.record, opts)
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	t.Cleanup(func() { _ = fw.Stop() })

	// Allow watcher to initialize
	time.Sleep(100 * time.Millisecond)
	return rec
}

func TestFileWatcher_DetectsChanges(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "app.res.yaml")
	require.NoError(t, os.WriteFile(file, []byte("resources: []"), 0644))

	rec := startWatcher(t, root, Options{})
	require.NoError(t, os.WriteFile(file, []byte("resources: [ ]"), 0644))

	assert.Eventually(t, func() bool {
		return rec.saw(file)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestFileWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root, Options{})

	dir := filepath.Join(root, "images")
	require.NoError(t, os.Mkdir(dir, 0755))
	time.Sleep(150 * time.Millisecond)

	file := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0644))

	assert.Eventually(t, func() bool {
		return rec.saw(file)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestFileWatcher_IgnoresOutputAndHidden(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "generated")
	require.NoError(t, os.Mkdir(out, 0755))

	rec := startWatcher(t, root, Options{Ignored: []string{out}})

	require.NoError(t, os.WriteFile(filepath.Join(out, "resources.go"), []byte("package resgen"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".swp"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)

	assert.Empty(t, rec.all())
}

func TestFileWatcher_IgnoredParentDoesNotHideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "resources")
	require.NoError(t, os.Mkdir(root, 0755))

	rec := startWatcher(t, root, Options{Ignored: []string{base}})
	file := filepath.Join(root, "app.res.yaml")
	require.NoError(t, os.WriteFile(file, []byte("resources: []"), 0644))

	assert.Eventually(t, func() bool {
		return rec.saw(file)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestFileWatcher_StopTwice(t *testing.T) {
	fw, err := NewFileWatcher(t.TempDir(), func([]string) error { return nil }, Options{})
	require.NoError(t, err)
	require.NoError(t, fw.Start())

	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}

func TestDebouncer_BatchesAndSorts(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string

	d := NewDebouncer(50 * time.Millisecond)
	d.SetCallback(func(files []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, files)
	})
	defer d.Stop()

	d.Add("b.txt")
	d.Add("a.txt")
	d.Add("b.txt")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"a.txt", "b.txt"}, batches[0])
	mu.Unlock()
}

func TestDebouncer_CallbacksDoNotOverlap(t *testing.T) {
	var mu sync.Mutex
	active, maxActive, calls := 0, 0, 0

	d := NewDebouncer(10 * time.Millisecond)
	d.SetCallback(func([]string) {
		mu.Lock()
		active++
		calls++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(50 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
	})

	d.Add("a")
	time.Sleep(30 * time.Millisecond)
	d.Add("b")
	time.Sleep(30 * time.Millisecond)
	d.Add("c")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2 && active == 0
	}, time.Second, 10*time.Millisecond)
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxActive)
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	called := make(chan struct{}, 1)

	d := NewDebouncer(50 * time.Millisecond)
	d.SetCallback(func([]string) { called <- struct{}{} })

	d.Add("a")
	d.Stop()
	d.Add("b")

	select {
	case <-called:
		t.Fatal("callback ran after Stop")
	case <-time.After(150 * time.Millisecond):
	}
}
