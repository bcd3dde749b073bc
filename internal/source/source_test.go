package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string, modTime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResolveLiteralPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")
	writeFile(t, path, "TMP 20.0\n", time.Time{})

	f := New(path, 0)

	got, exists := f.Resolve()
	if !exists {
		t.Fatal("expected file to exist")
	}
	if got != path {
		t.Errorf("expected %q, got %q", path, got)
	}
}

func TestResolveLiteralMissing(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "nope.txt"), 0)

	if _, exists := f.Resolve(); exists {
		t.Error("expected missing file")
	}
}

func TestResolveGlobPicksNewest(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, filepath.Join(dir, "telem-1.txt"), "old\n", now.Add(-time.Hour))
	writeFile(t, filepath.Join(dir, "telem-2.txt"), "new\n", now)

	f := New(filepath.Join(dir, "telem-*.txt"), 0)

	got, exists := f.Resolve()
	if !exists {
		t.Fatal("expected a glob match")
	}
	if filepath.Base(got) != "telem-2.txt" {
		t.Errorf("expected newest match, got %q", got)
	}
}

func TestResolveGlobNoMatch(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "telem-*.txt"), 0)

	if _, exists := f.Resolve(); exists {
		t.Error("expected no match")
	}
}

func TestAge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")
	now := time.Now()
	writeFile(t, path, "TMP 20.0\n", now.Add(-45*time.Second))

	if age := Age(path, now); age != 45 {
		t.Errorf("expected age 45, got %d", age)
	}
}

func TestAgeFailOpen(t *testing.T) {
	// Missing metadata and future modification times both read as age 1:
	// fresh, never stale.
	if age := Age(filepath.Join(t.TempDir(), "missing.txt"), time.Now()); age != 1 {
		t.Errorf("expected fail-open age 1 for missing file, got %d", age)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")
	now := time.Now()
	writeFile(t, path, "x\n", now.Add(2*time.Minute))

	if age := Age(path, now); age != 1 {
		t.Errorf("expected fail-open age 1 for future mtime, got %d", age)
	}
}

func TestFreshBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")
	now := time.Now()
	f := New(path, DefaultStaleAfter)

	writeFile(t, path, "x\n", now.Add(-120*time.Second))
	if !f.Fresh(path, now) {
		t.Error("age 120 should still be fresh (threshold is exclusive)")
	}

	writeFile(t, path, "x\n", now.Add(-121*time.Second))
	if f.Fresh(path, now) {
		t.Error("age 121 should be stale")
	}
}

func TestReadAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")
	writeFile(t, path, "TMP 20.0\nMS5611 21.0 1001.2 305.0\n", time.Time{})

	f := New(path, 0)
	content, err := f.ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if content != "TMP 20.0\nMS5611 21.0 1001.2 305.0\n" {
		t.Errorf("unexpected content: %q", content)
	}

	if _, err := f.ReadAll(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
