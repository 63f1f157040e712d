package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "procesos.txt")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(watched, []byte("P1,1,0,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(100 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	changed := make(chan string, 10)
	w.OnChange = func(path string) error {
		changed <- path
		return nil
	}
	if err := w.Watch(watched); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if files := w.Files(); len(files) != 1 || filepath.Base(files[0]) != "procesos.txt" {
		t.Errorf("Files() = %v", files)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// burst of writes, plus an unrelated file
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(watched, []byte("P1,2,0,1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		want, _ := filepath.Abs(watched)
		if path != want {
			t.Errorf("OnChange(%q), want %q", path, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	// debounced: the burst is reported once
	select {
	case path := <-changed:
		t.Errorf("second OnChange(%q) for one burst", path)
	case <-time.After(400 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestWatchMissingDir(t *testing.T) {
	w, err := NewWatcher(0)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()
	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "procesos.txt")); err == nil {
		t.Error("Watch() of a file in a missing directory succeeded")
	}
}
