package js

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dop251/goja"
)

// FSModule provides the `fs` object: read-only helpers for inspecting the
// site's files from the shell.
type FSModule struct {
	// WorkDir resolves relative paths
	WorkDir string

	// MaxFileSize caps how much of a file fs.read returns (default: 1MB)
	MaxFileSize int64

	// ExcludeDirs are skipped by fs.list and fs.glob
	ExcludeDirs []string
}

// NewFSModule creates a filesystem module rooted at workDir
func NewFSModule(workDir string) *FSModule {
	return &FSModule{
		WorkDir:     workDir,
		MaxFileSize: 1024 * 1024,
		ExcludeDirs: []string{".git", "node_modules", "vendor"},
	}
}

func (f *FSModule) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(f.WorkDir, path)
}

// List returns name, isDir, size and mtime for each entry of a directory
func (f *FSModule) List(path string) ([]map[string]any, error) {
	entries, err := os.ReadDir(f.resolve(path))
	if err != nil {
		return nil, err
	}

	result := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() && slices.Contains(f.ExcludeDirs, entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		result = append(result, map[string]any{
			"name":  entry.Name(),
			"isDir": entry.IsDir(),
			"size":  info.Size(),
			"mtime": info.ModTime().Unix(),
		})
	}
	return result, nil
}

// Read returns a file's contents, truncated to MaxFileSize
func (f *FSModule) Read(path string) (string, error) {
	file, err := os.Open(f.resolve(path))
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", os.ErrInvalid
	}

	content, err := io.ReadAll(io.LimitReader(file, f.MaxFileSize))
	if err != nil {
		return "", err
	}
	if info.Size() > f.MaxFileSize {
		return string(content) + "\n... [truncated]", nil
	}
	return string(content), nil
}

// Glob returns paths matching pattern, relative to WorkDir when possible
func (f *FSModule) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(f.resolve(pattern))
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(matches))
	for _, match := range matches {
		if f.excluded(match) {
			continue
		}
		if rel, err := filepath.Rel(f.WorkDir, match); err == nil {
			match = rel
		}
		result = append(result, match)
	}
	return result, nil
}

// Exists reports whether path exists
func (f *FSModule) Exists(path string) bool {
	_, err := os.Stat(f.resolve(path))
	return err == nil
}

func (f *FSModule) excluded(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if slices.Contains(f.ExcludeDirs, part) {
			return true
		}
	}
	return false
}

// SetupFSModule adds the `fs` object to the runtime
func SetupFSModule(vm *goja.Runtime, fsModule *FSModule) error {
	fs := vm.NewObject()

	pathArg := func(call goja.FunctionCall, name string) string {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("fs.%s requires 1 argument: path", name))
		}
		return call.Arguments[0].String()
	}

	funcs := map[string]func(goja.FunctionCall) goja.Value{
		// fs.list(path = ".") -> [{name, isDir, size, mtime}]
		"list": func(call goja.FunctionCall) goja.Value {
			path := "."
			if len(call.Arguments) > 0 {
				path = call.Arguments[0].String()
			}
			result, err := fsModule.List(path)
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return vm.ToValue(result)
		},

		// fs.read(path) -> string
		"read": func(call goja.FunctionCall) goja.Value {
			content, err := fsModule.Read(pathArg(call, "read"))
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return vm.ToValue(content)
		},

		// fs.glob(pattern) -> [path]
		"glob": func(call goja.FunctionCall) goja.Value {
			matches, err := fsModule.Glob(pathArg(call, "glob"))
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return vm.ToValue(matches)
		},

		// fs.exists(path) -> bool
		"exists": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(fsModule.Exists(pathArg(call, "exists")))
		},
	}

	for name, fn := range funcs {
		if err := fs.Set(name, fn); err != nil {
			return err
		}
	}
	return vm.Set("fs", fs)
}
