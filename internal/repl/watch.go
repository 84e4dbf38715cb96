package repl

import (
	"fmt"
	"os"
	"path/filepath"
)

// Watch tracks the latest modification time under a file or directory
type Watch struct {
	path  string
	mtime int64
}

// NewWatch resolves path to its canonical absolute form and records the
// initial snapshot. A path that does not exist is an error.
func NewWatch(path string) (*Watch, error) {
	if path == "" {
		return nil, fmt.Errorf("watch path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve watch path %q: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("watch path %q does not exist or is not readable: %w", path, err)
	}

	return &Watch{
		path:  resolved,
		mtime: Snapshot(resolved),
	}, nil
}

// Path returns the resolved path being watched
func (w *Watch) Path() string {
	return w.path
}

// Changed recomputes the snapshot and reports whether it differs from the
// one recorded by NewWatch. The stored snapshot is left untouched.
func (w *Watch) Changed() bool {
	return Snapshot(w.path) != w.mtime
}

// Snapshot returns the most recent modification time, in nanoseconds, of
// path. For a directory it is the maximum across the directory and every
// entry below it. Unreadable paths yield 0.
func Snapshot(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}

	latest := info.ModTime().UnixNano()
	if !info.IsDir() {
		return latest
	}

	queue := []string{path}
	for i := 0; i < len(queue); i++ {
		entries, err := os.ReadDir(queue[i])
		if err != nil {
			continue
		}

		for _, entry := range entries {
			full := filepath.Join(queue[i], entry.Name())

			info, err := os.Stat(full)
			if err != nil {
				continue
			}
			if mt := info.ModTime().UnixNano(); mt > latest {
				latest = mt
			}

			// Symlinked directories are stat'ed but not descended into.
			if entry.IsDir() {
				queue = append(queue, full)
			}
		}
	}

	return latest
}
