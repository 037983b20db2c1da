package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"sciingest/internal/contextutil"
)

// DefaultDebounce is how long a file must be quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// HandlerFunc receives files that settled after a create or write.
type HandlerFunc func(ctx context.Context, f ScannedFile)

// Watcher reports ingestible files created or written in a directory.
// Subdirectories are not watched.
type Watcher struct {
	dir      string
	debounce time.Duration
}

// NewWatcher creates a Watcher. debounce <= 0 selects DefaultDebounce.
func NewWatcher(dir string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, debounce: debounce}
}

// Run blocks until ctx is done, calling handle once per settled file.
// Calls to handle are serialized.
func (w *Watcher) Run(ctx context.Context, handle HandlerFunc) error {
	logger := contextutil.LoggerFromContext(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	logger.InfoContext(ctx, "watching ingest dir", "dir", w.dir, "debounce", w.debounce)

	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()
	ready := make(chan string, 16)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !watchable(event.Name) {
				continue
			}
			if t, ok := pending[event.Name]; ok {
				t.Reset(w.debounce)
				continue
			}
			name := event.Name
			pending[name] = time.AfterFunc(w.debounce, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case name := <-ready:
			delete(pending, name)
			f, err := w.describe(name)
			if err != nil {
				logger.WarnContext(ctx, "skipping watched file", "path", name, "error", err)
				continue
			}
			handle(ctx, f)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "watcher error", "error", err)
		}
	}
}

func (w *Watcher) describe(path string) (ScannedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ScannedFile{}, err
	}
	if info.IsDir() {
		return ScannedFile{}, fmt.Errorf("is a directory")
	}
	kind, _ := KindForPath(path)
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return ScannedFile{
		Kind:    kind,
		RelPath: filepath.ToSlash(rel),
		AbsPath: path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func watchable(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	_, ok := KindForPath(path)
	return ok
}
