// Package tengo evaluates shell input as Tengo scripts. Each line is
// compiled on its own; global variables are carried from one line to the
// next.
package tengo

import (
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/itsmostafa/wpshell/internal/engine"
	"github.com/itsmostafa/wpshell/internal/site"
)

// resultVar receives the value of code that returns
const resultVar = "__result"

// modules that can be imported; fmt and os are left out because they write
// around the captured output
var modules = []string{"math", "text", "times", "rand", "json", "base64", "hex", "enum"}

// Executor implements the shell executor on top of Tengo
type Executor struct {
	site      *site.Site
	variables map[string]any
	output    *strings.Builder

	// unset collects names removed during the current run
	unset []string
}

// New creates a Tengo executor attached to s
func New(s *site.Site) *Executor {
	return &Executor{
		site:      s,
		variables: make(map[string]any),
		output:    &strings.Builder{},
	}
}

// Execute compiles and runs code. Code starting with `return` is wrapped
// in a function whose result is returned as value.
func (e *Executor) Execute(code string) (string, any, error) {
	e.output.Reset()
	e.unset = nil

	src := code
	returns := engine.IsReturn(code)
	if returns {
		src = resultVar + " := func() {\n" + code + "\n}()"
	}

	script := tengo.NewScript([]byte(src))
	script.SetImports(stdlib.GetModuleMap(modules...))

	for name, value := range e.variables {
		if err := script.Add(name, value); err != nil {
			// Values Tengo cannot hold are dropped
			delete(e.variables, name)
		}
	}
	e.addBuiltinFunctions(script)

	compiled, err := script.Compile()
	if err != nil {
		return "", nil, fmt.Errorf("compile error: %w", err)
	}

	runErr := compiled.Run()
	out := e.output.String()
	if runErr != nil {
		return out, nil, fmt.Errorf("runtime error: %w", runErr)
	}

	e.extractVariables(compiled)

	var value any
	if returns {
		value = toGo(compiled.Get(resultVar).Object())
	}
	return out, value, nil
}

// Include runs a script file, keeping the globals it defines, and returns
// what it printed
func (e *Executor) Include(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	out, _, err := e.Execute(string(src))
	return out, err
}

// extractVariables stores the globals of a finished run for the next one
func (e *Executor) extractVariables(compiled *tengo.Compiled) {
	for _, v := range compiled.GetAll() {
		name := v.Name()
		if name == "" || name == resultVar || isBuiltin(name) {
			continue
		}
		obj := v.Object()
		// Compiled functions are bound to their own program
		if _, ok := obj.(*tengo.CompiledFunction); ok {
			continue
		}
		if _, ok := obj.(*tengo.ImmutableMap); ok && isModule(obj) {
			continue
		}
		e.variables[name] = toGo(obj)
	}

	for _, name := range e.unset {
		delete(e.variables, name)
	}
}

// isModule reports whether obj is an imported stdlib module
func isModule(obj tengo.Object) bool {
	m := obj.(*tengo.ImmutableMap)
	_, ok := m.Value["__module_name__"]
	return ok
}

// toGo converts a Tengo object to a Go value
func toGo(obj tengo.Object) any {
	switch v := obj.(type) {
	case nil, *tengo.Undefined:
		return nil
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return v.Value
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Char:
		return string(v.Value)
	case *tengo.Bytes:
		return string(v.Value)
	case *tengo.Array:
		return toGoSlice(v.Value)
	case *tengo.ImmutableArray:
		return toGoSlice(v.Value)
	case *tengo.Map:
		return toGoMap(v.Value)
	case *tengo.ImmutableMap:
		return toGoMap(v.Value)
	case *tengo.Time:
		return v.Value
	case *tengo.Error:
		return map[string]any{"error": toGo(v.Value)}
	default:
		return obj.String()
	}
}

func toGoSlice(items []tengo.Object) []any {
	arr := make([]any, len(items))
	for i, item := range items {
		arr[i] = toGo(item)
	}
	return arr
}

func toGoMap(items map[string]tengo.Object) map[string]any {
	m := make(map[string]any, len(items))
	for k, item := range items {
		m[k] = toGo(item)
	}
	return m
}
