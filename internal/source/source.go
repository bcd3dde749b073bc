// Package source models the telemetry log produced by the CubeSat simulator:
// an append-only text file whose existence, freshness and content are checked
// once per poll cycle. Every check is fallible and independently recoverable.
package source

import (
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultStaleAfter is how long the file may go unmodified before the
// telemetry feed is considered stale. A larger age means the simulator has
// stopped writing, even if old content remains on disk.
const DefaultStaleAfter = 120 * time.Second

// File is the telemetry source. The configured location may be a literal
// path or a glob pattern (e.g. "logs/telem-*.txt"); globs resolve to the
// most recently modified match.
type File struct {
	pattern    string
	staleAfter time.Duration
}

// New creates a File for the given path or glob pattern. A zero staleAfter
// falls back to DefaultStaleAfter.
func New(pattern string, staleAfter time.Duration) *File {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &File{pattern: pattern, staleAfter: staleAfter}
}

// Resolve returns the concrete file path and whether it exists right now.
// Resolution happens every cycle so a rotated or newly created file is
// picked up without restart.
func (f *File) Resolve() (string, bool) {
	if !strings.ContainsAny(f.pattern, "*?[{") {
		_, err := os.Stat(f.pattern)
		return f.pattern, err == nil
	}

	matches, err := doublestar.FilepathGlob(f.pattern, doublestar.WithFilesOnly())
	if err != nil || len(matches) == 0 {
		return "", false
	}

	newest := matches[0]
	var newestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if mod := info.ModTime(); mod.After(newestMod) {
			newest = m
			newestMod = mod
		}
	}
	return newest, true
}

// Age returns the file's age in whole seconds at the given instant.
// Unreadable metadata or a modification time in the future both yield 1:
// fail open, treating the feed as fresh rather than stale.
func Age(path string, now time.Time) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 1
	}
	age := now.Unix() - info.ModTime().Unix()
	if age < 0 {
		return 1
	}
	return age
}

// Fresh reports whether the file at path has been modified recently enough
// to treat the feed as live.
func (f *File) Fresh(path string, now time.Time) bool {
	return Age(path, now) <= int64(f.staleAfter/time.Second)
}

// ReadAll returns the file's full content. The file is small (the simulator
// truncates it periodically), so whole-file reads per cycle are fine.
func (f *File) ReadAll(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
