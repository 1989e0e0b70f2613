package filewatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCSVWatcher_Creation(t *testing.T) {
	watcher, err := NewCSVWatcher(filepath.Join(t.TempDir(), "data.csv"), 0)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if watcher.debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce, got %v", watcher.debounce)
	}
}

func TestCSVWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	os.WriteFile(path, []byte("a,b\n"), 0644)

	watcher, _ := NewCSVWatcher(path, 50*time.Millisecond)
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	signals, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(path, []byte("a,b\nc,d\n"), 0644)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
		t.Error("timeout waiting for signal")
	}
}

func TestCSVWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	os.WriteFile(path, []byte("a,b\n"), 0644)

	watcher, _ := NewCSVWatcher(path, 50*time.Millisecond)
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	signals, _ := watcher.Watch(ctx)

	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("hi"), 0644)

	select {
	case <-signals:
		t.Error("should not signal for unrelated files")
	case <-time.After(300 * time.Millisecond):
		// Expected - no signal
	}
}

func TestCSVWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	os.WriteFile(path, []byte("a\n"), 0644)

	watcher, _ := NewCSVWatcher(path, 150*time.Millisecond)
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	signals, _ := watcher.Watch(ctx)

	for i := 0; i < 5; i++ {
		os.WriteFile(path, []byte("a\nb\n"), 0644)
		time.Sleep(20 * time.Millisecond)
	}

	// One signal for the whole burst.
	select {
	case <-signals:
	case <-ctx.Done():
		t.Fatal("timeout waiting for signal")
	}

	select {
	case <-signals:
		t.Error("burst should collapse into a single signal")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestCSVWatcher_Stop(t *testing.T) {
	watcher, _ := NewCSVWatcher(filepath.Join(t.TempDir(), "data.csv"), 0)
	if err := watcher.Stop(); err != nil {
		t.Errorf("stop failed: %v", err)
	}
}
