package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeCatalogFile(t, testItems)
	c, err := NewFileCatalog(Config{Path: path}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(c, 20*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	updated := `
items:
  - id: bow.hunting
    name: Hunting Bow
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to rewrite catalog file: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := c.Resolve("bow.hunting"); err == nil {
			cancel()
			if werr := <-done; werr != nil {
				t.Errorf("Watch returned error: %v", werr)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("catalog was not reloaded after file change")
}

func TestWatcher_ShouldProcessEvent(t *testing.T) {
	path := writeCatalogFile(t, testItems)
	c, err := NewFileCatalog(Config{Path: path}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	w := NewWatcher(c, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if !w.shouldProcessEvent(fsnotify.Event{Name: path, Op: fsnotify.Write}) {
		t.Error("expected write to the catalog file processed")
	}
	if w.shouldProcessEvent(fsnotify.Event{Name: path, Op: fsnotify.Chmod}) {
		t.Error("chmod events must be ignored")
	}
	if w.shouldProcessEvent(fsnotify.Event{Name: path + ".bak", Op: fsnotify.Write}) {
		t.Error("writes to other files must be ignored")
	}
}
