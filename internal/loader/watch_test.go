package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/sqlschema/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	files := testutil.WriteFiles(t, other, "one.txt", "")

	w, err := NewWatcher([]string{dir, files[0]}, Options{}, time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"sql in dir", filepath.Join(dir, "a.sql"), true},
		{"sql in subdir", filepath.Join(dir, "sub", "b.sql"), true},
		{"other extension in dir", filepath.Join(dir, "notes.txt"), false},
		{"hidden file in dir", filepath.Join(dir, ".a.sql"), false},
		{"named file", files[0], true},
		{"sibling of named file", filepath.Join(other, "two.txt"), false},
		{"outside", filepath.Join(filepath.Dir(dir), "x.sql"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.path))
		})
	}
}

func TestNewWatcher_MissingPath(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "missing.sql")}, Options{}, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	paths := testutil.WriteFiles(t, dir, "a.sql", testutil.Customers)

	w, err := NewWatcher([]string{dir}, Options{Logger: testutil.NewTestLogger(t)}, 20*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) {
			batches <- changed
		})
	}()

	// Ignored: does not match the include patterns.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	// A burst of writes to one file is reported once.
	for range 3 {
		require.NoError(t, os.WriteFile(paths[0], []byte(testutil.Orders), 0o600))
	}

	select {
	case changed := <-batches:
		assert.Equal(t, []string{paths[0]}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
