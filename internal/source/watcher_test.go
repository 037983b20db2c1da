package source

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan ScannedFile, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, f ScannedFile) { got <- f })
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "ignored.png"), "x")
	writeFile(t, filepath.Join(dir, ".hidden.txt"), "x")
	writeFile(t, filepath.Join(dir, "paper.txt"), "first")
	writeFile(t, filepath.Join(dir, "paper.txt"), "first and second")

	select {
	case f := <-got:
		assert.Equal(t, "paper.txt", f.RelPath)
		assert.Equal(t, KindText, f.Kind)
		assert.Equal(t, int64(len("first and second")), f.Size)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the file")
	}

	// debounced writes are reported once
	select {
	case f := <-got:
		t.Fatalf("unexpected second event: %+v", f)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), 0)
	err := w.Run(context.Background(), func(context.Context, ScannedFile) {})
	assert.Error(t, err)
}

func TestWatchable(t *testing.T) {
	assert.True(t, watchable("/in/a.json"))
	assert.False(t, watchable("/in/.a.json"))
	assert.False(t, watchable("/in/a.pdf"))
}
