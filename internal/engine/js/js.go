// Package js evaluates shell input as JavaScript in a persistent goja
// runtime wired to the site environment.
package js

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"

	"github.com/itsmostafa/wpshell/internal/engine"
	"github.com/itsmostafa/wpshell/internal/site"
)

// Executor runs JavaScript in one runtime for the whole session, so
// globals defined on one line are visible on the next.
type Executor struct {
	vm      *goja.Runtime
	site    *site.Site
	fs      *FSModule
	workDir string

	// output collects everything written by echo/print while a line runs
	output strings.Builder

	// loaded records included files by absolute path
	loaded map[string]bool
}

// New creates an executor attached to s
func New(s *site.Site) (*Executor, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	e := &Executor{
		vm:      goja.New(),
		site:    s,
		fs:      NewFSModule(wd),
		workDir: wd,
		loaded:  make(map[string]bool),
	}

	if err := e.setupEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to setup environment: %w", err)
	}
	return e, nil
}

// Execute runs code and returns what was printed since the previous call,
// which includes output from hook callbacks fired in between. Code starting
// with `return` is run as a function body and its return value is exported.
func (e *Executor) Execute(code string) (string, any, error) {
	src := code
	if engine.IsReturn(code) {
		src = "(function() {\n" + code + "\n}).call(this)"
	}

	val, err := e.vm.RunString(src)
	out := e.output.String()
	e.output.Reset()
	if err != nil {
		return out, nil, err
	}

	return out, export(val), nil
}

// Include loads a bootstrap script into the runtime and returns what it
// printed.
func (e *Executor) Include(path string) (string, error) {
	_, err := e.load(path, false)
	out := e.output.String()
	e.output.Reset()
	return out, err
}

// load runs the file at path. With once set, a file already loaded is
// skipped and true is returned.
func (e *Executor) load(path string, once bool) (goja.Value, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.workDir, path)
	}
	abs = filepath.Clean(abs)

	if once && e.loaded[abs] {
		return e.vm.ToValue(true), nil
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	e.loaded[abs] = true
	return e.vm.RunScript(abs, string(src))
}

// export converts a goja value to plain Go values
func export(val goja.Value) any {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}
