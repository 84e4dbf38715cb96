package js

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/itsmostafa/wpshell/internal/site"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	e, err := New(site.New(site.DefaultConfig()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	e.workDir = t.TempDir()
	e.fs.WorkDir = e.workDir
	return e
}

func TestExecutor_Execute(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantOutput string
		wantValue  any
	}{
		{name: "blog name", code: "return get_bloginfo( 'name' );", wantValue: "WP-CLI"},
		{name: "integer", code: "return 1 + 2;", wantValue: int64(3)},
		{name: "float", code: "return 1 / 4;", wantValue: 0.25},
		{name: "null", code: "return null;", wantValue: nil},
		{name: "whitespace only", code: "return    ;", wantValue: nil},
		{name: "array", code: "return [1, 'a'];", wantValue: []any{int64(1), "a"}},
		{name: "object", code: "return {a: true};", wantValue: map[string]any{"a": true}},
		{name: "echo statement", code: "echo('hello', ' ', 'world');", wantOutput: "hello world"},
		{name: "print statement", code: "print('a', 'b');", wantOutput: "a b\n"},
		{name: "console log in expression", code: "return (console.log('side'), 5);", wantOutput: "side\n", wantValue: int64(5)},
		{name: "if statement", code: "if (true) { echo('yes'); };", wantOutput: "yes"},
		{name: "for statement", code: "for (var i = 0; i < 3; i++) { echo(i); };", wantOutput: "012"},
		{name: "default option", code: "return get_option('missing', 'fallback');", wantValue: "fallback"},
		{name: "option false default", code: "return get_option('missing');", wantValue: false},
		{name: "did action", code: "return did_action('init');", wantValue: int64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExecutor(t)

			output, value, err := e.Execute(tt.code)
			if err != nil {
				t.Fatalf("Execute(%q) unexpected error: %v", tt.code, err)
			}
			if output != tt.wantOutput {
				t.Errorf("output = %q, want %q", output, tt.wantOutput)
			}
			if !reflect.DeepEqual(value, tt.wantValue) {
				t.Errorf("value = %#v, want %#v", value, tt.wantValue)
			}
		})
	}
}

func TestExecutor_StatePersists(t *testing.T) {
	e := newTestExecutor(t)

	if _, _, err := e.Execute("return counter = 41;"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if _, _, err := e.Execute("function bump() { return ++counter; };"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	_, value, err := e.Execute("return bump();")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if value != int64(42) {
		t.Errorf("value = %#v, want 42", value)
	}

	if _, _, err := e.Execute("unset('counter');"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	_, value, err = e.Execute("return typeof counter;")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if value != "undefined" {
		t.Errorf("typeof counter = %v, want undefined", value)
	}
}

func TestExecutor_OutputNotCarriedOver(t *testing.T) {
	e := newTestExecutor(t)

	if _, _, err := e.Execute("echo('first');"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	output, _, err := e.Execute("return 1;")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if output != "" {
		t.Errorf("expected fresh output buffer, got %q", output)
	}
}

func TestExecutor_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "undefined function", code: "return undefined_function();"},
		{name: "syntax error", code: "global $wpdb;"},
		{name: "thrown", code: "return (function() { throw new Error('boom'); })();"},
		{name: "require missing", code: "require('missing.js');"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExecutor(t)
			if _, _, err := e.Execute(tt.code); err == nil {
				t.Errorf("Execute(%q) expected error", tt.code)
			}
		})
	}
}

func TestExecutor_Includes(t *testing.T) {
	e := newTestExecutor(t)

	script := filepath.Join(e.workDir, "plugin.js")
	if err := os.WriteFile(script, []byte("loads = (typeof loads === 'undefined' ? 0 : loads) + 1;\nfunction hello() { return 'Hello Dolly'; }\n"), 0644); err != nil {
		t.Fatal(err)
	}

	steps := []string{
		"include('plugin.js');",
		"include_once('plugin.js');",
		"require_once('plugin.js');",
		"require('plugin.js');",
	}
	for _, code := range steps {
		if _, _, err := e.Execute(code); err != nil {
			t.Fatalf("Execute(%q) error: %v", code, err)
		}
	}

	_, value, err := e.Execute("return [loads, hello()];")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := []any{int64(2), "Hello Dolly"}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("value = %#v, want %#v", value, want)
	}

	output, _, err := e.Execute("include('missing.js');")
	if err != nil {
		t.Fatalf("include of a missing file should only warn, got %v", err)
	}
	if !strings.Contains(output, "Warning: include(missing.js)") {
		t.Errorf("expected include warning, got %q", output)
	}
}

func TestExecutor_Hooks(t *testing.T) {
	s := site.New(site.DefaultConfig())
	e, err := New(s)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if _, _, err := e.Execute("add_action('init', function() { update_option('booted', 'yes'); });"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if err := s.Hooks.DoAction("init"); err != nil {
		t.Fatalf("DoAction() error: %v", err)
	}

	if got := s.Option("booted", nil); got != "yes" {
		t.Errorf("booted option = %v, want yes", got)
	}

	_, value, err := e.Execute("return did_action('init');")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if value != int64(1) {
		t.Errorf("did_action = %#v, want 1", value)
	}
}

func TestExecutor_IncludeBootstrap(t *testing.T) {
	e := newTestExecutor(t)
	script := filepath.Join(e.workDir, "boot.js")
	if err := os.WriteFile(script, []byte(`booted = true; echo("plugin loaded\n");`), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := e.Include(script)
	if err != nil {
		t.Fatalf("Include() error: %v", err)
	}
	if output != "plugin loaded\n" {
		t.Errorf("Include() output = %q, want %q", output, "plugin loaded\n")
	}
	_, value, err := e.Execute("return booted;")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if value != true {
		t.Errorf("booted = %#v, want true", value)
	}

	if _, err := e.Include(filepath.Join(e.workDir, "missing.js")); err == nil {
		t.Error("expected error including a missing bootstrap script")
	}
}

func TestExecutor_UUID(t *testing.T) {
	e := newTestExecutor(t)
	_, value, err := e.Execute("return wp_generate_uuid4();")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if s, ok := value.(string); !ok || len(s) != 36 {
		t.Errorf("uuid = %#v", value)
	}
}
