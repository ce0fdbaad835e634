package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInside(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "resources")

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"child", filepath.Join(root, "generated"), true},
		{"nested child", filepath.Join(root, "a", "b"), true},
		{"root itself", root, false},
		{"parent of root", base, false},
		{"sibling", filepath.Join(base, "generated"), false},
		{"sibling sharing prefix", root + "-out", false},
		{"dotted child name", filepath.Join(root, "..out"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Inside(root, []string{tt.candidate})
			if tt.want {
				assert.Equal(t, []string{tt.candidate}, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestUnder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	dirs := []string{dir}

	assert.True(t, Under(dir, dirs))
	assert.True(t, Under(filepath.Join(dir, "resgen", "resources.go"), dirs))
	assert.False(t, Under(dir+"2", dirs))
	assert.False(t, Under(filepath.Dir(dir), dirs))
	assert.False(t, Under(dir, nil))
}

func TestSame(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, Same(dir, filepath.Join(dir, "x", "..")))
	assert.False(t, Same(dir, filepath.Join(dir, "x")))
}
