package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testDebounce = 50 * time.Millisecond

func waitForEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case event, ok := <-w.Events():
		if !ok {
			t.Fatal("Events channel closed unexpectedly")
		}
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for watch event")
	}
	return Event{}
}

func createWatchedFile(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	return dir, path
}

func TestFile_ReportsChange(t *testing.T) {
	_, path := createWatchedFile(t)

	w, err := FileWithDebounce(path, testDebounce)
	if err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer w.Close()

	// Several writes in a row collapse into one event
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("v2"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	event := waitForEvent(t, w)
	if event.Kind != Changed {
		t.Errorf("Expected changed event, got %s", event.Kind)
	}
	if event.Path != w.Path() {
		t.Errorf("Expected path %s, got %s", w.Path(), event.Path)
	}
}

func TestFile_ReportsRemoval(t *testing.T) {
	_, path := createWatchedFile(t)

	w, err := FileWithDebounce(path, testDebounce)
	if err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer w.Close()

	if err := os.Remove(path); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}

	if event := waitForEvent(t, w); event.Kind != Removed {
		t.Errorf("Expected removed event, got %s", event.Kind)
	}
}

func TestFile_IgnoresSiblings(t *testing.T) {
	dir, path := createWatchedFile(t)

	w, err := FileWithDebounce(path, testDebounce)
	if err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.mp4"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write sibling: %v", err)
	}

	select {
	case event := <-w.Events():
		t.Errorf("Unexpected event for sibling file: %+v", event)
	case <-time.After(4 * testDebounce):
	}
}

func TestClose_Idempotent(t *testing.T) {
	_, path := createWatchedFile(t)

	w, err := File(path)
	if err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second close should be a no-op, got: %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events channel should be closed after Close")
	}
}

func TestFile_MissingDirectory(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "missing", "clip.mp4")); err == nil {
		t.Error("Expected error when the directory does not exist")
	}
}
