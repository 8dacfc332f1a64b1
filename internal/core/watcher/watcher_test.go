package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForPath(t *testing.T, ch <-chan []string, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case paths := <-ch:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change on %s", want)
		}
	}
}

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadGlob(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, []string{"[unterminated"}, func([]string) {}); err == nil {
		t.Fatal("expected glob compile error")
	}
}

func TestWatcher_TrackedFileChange(t *testing.T) {
	tmpDir := t.TempDir()
	shader := filepath.Join(tmpDir, "main.glsl")
	if err := os.WriteFile(shader, []byte("struct A { float x; };"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan []string, 8)
	w, err := NewWatcher(50*time.Millisecond, nil, func(paths []string) {
		changed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Track([]string{shader}); err != nil {
		t.Fatal(err)
	}
	w.Start()

	// Untracked siblings are ignored.
	other := filepath.Join(tmpDir, "other.glsl")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case paths := <-changed:
		t.Fatalf("unexpected change for untracked file: %v", paths)
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(shader, []byte("struct B { float y; };"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, changed, shader, 2*time.Second)
}

func TestWatcher_Debounces(t *testing.T) {
	tmpDir := t.TempDir()
	shader := filepath.Join(tmpDir, "main.glsl")
	if err := os.WriteFile(shader, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan []string, 16)
	w, err := NewWatcher(150*time.Millisecond, nil, func(paths []string) {
		changed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Track([]string{shader}); err != nil {
		t.Fatal(err)
	}
	w.Start()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(shader, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	waitForPath(t, changed, shader, 2*time.Second)
	select {
	case paths := <-changed:
		t.Fatalf("expected a single debounced callback, got another: %v", paths)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_RenameIntoPlace(t *testing.T) {
	tmpDir := t.TempDir()
	shader := filepath.Join(tmpDir, "main.glsl")
	if err := os.WriteFile(shader, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan []string, 8)
	w, err := NewWatcher(50*time.Millisecond, nil, func(paths []string) {
		changed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Track([]string{shader}); err != nil {
		t.Fatal(err)
	}
	w.Start()

	tmp := filepath.Join(tmpDir, ".main.glsl.swp")
	if err := os.WriteFile(tmp, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, shader); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, changed, shader, 2*time.Second)
}

func TestWatcher_TrackReplacesSet(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	a := filepath.Join(dirA, "a.glsl")
	b := filepath.Join(dirB, "b.glsl")
	excluded := filepath.Join(dirB, "b.bak")

	w, err := NewWatcher(time.Millisecond, []string{"*.bak"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Track([]string{a}); err != nil {
		t.Fatal(err)
	}
	if got := w.Tracked(); len(got) != 1 || got[0] != a {
		t.Fatalf("unexpected tracked set %v", got)
	}

	if err := w.Track([]string{b, excluded}); err != nil {
		t.Fatal(err)
	}
	got := w.Tracked()
	if len(got) != 1 || got[0] != b {
		t.Fatalf("expected only %s to be tracked, got %v", b, got)
	}
	if w.isTracked(a) {
		t.Fatal("expected previous file to be dropped")
	}
}

func TestWatcher_TrackMissingDirectory(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, nil, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	missing := filepath.Join(t.TempDir(), "nope", "x.glsl")
	if err := w.Track([]string{missing}); err == nil {
		t.Fatal("expected error when parent directory does not exist")
	}
}
