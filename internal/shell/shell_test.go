package shell

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsmostafa/wpshell/internal/engine"
	"github.com/itsmostafa/wpshell/internal/repl"
	"github.com/itsmostafa/wpshell/internal/restart"
	"github.com/itsmostafa/wpshell/internal/site"
	"github.com/itsmostafa/wpshell/internal/ui"
)

// scriptedSource replays lines, then reports end of input
type scriptedSource struct {
	lines []string
}

func (s *scriptedSource) ReadLine(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// sessions hands out one scripted source per session
func sessions(scripts ...[]string) func(*repl.Session) (repl.LineSource, error) {
	i := 0
	return func(*repl.Session) (repl.LineSource, error) {
		if i >= len(scripts) {
			return nil, errors.New("unexpected session")
		}
		src := &scriptedSource{lines: scripts[i]}
		i++
		return src, nil
	}
}

type fakeRestarter struct {
	calls []restart.Options
	err   error
}

func (f *fakeRestarter) Restart(opts restart.Options) error {
	f.calls = append(f.calls, opts)
	return f.err
}

func testConfig(out, status *bytes.Buffer, scripts ...[]string) Config {
	return Config{
		Engine:    engine.JS,
		Quiet:     false,
		Out:       out,
		Logger:    &ui.Logger{Out: status, Err: status, Quiet: true},
		Restarter: &fakeRestarter{err: restart.ErrUnsupported},
		NewSource: sessions(scripts...),
	}
}

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_EvaluatesUntilExit(t *testing.T) {
	var out, status bytes.Buffer
	cfg := testConfig(&out, &status, []string{
		`get_bloginfo("name")`,
		`echo("hi");`,
		"exit",
		`echo("unreachable");`,
	})

	if err := Run(cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := "=> string(6) \"WP-CLI\"\nhi\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRun_QuietHidesValues(t *testing.T) {
	var out, status bytes.Buffer
	cfg := testConfig(&out, &status, []string{`1 + 2`, `echo("done");`})
	cfg.Quiet = true

	if err := Run(cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out.String() != "done\n" {
		t.Errorf("output = %q, want %q", out.String(), "done\n")
	}
}

func TestRun_EvaluationErrorIsFatal(t *testing.T) {
	var out, status bytes.Buffer
	cfg := testConfig(&out, &status, []string{`undefined_function()`, `echo("after");`})

	err := Run(cfg)
	if err == nil {
		t.Fatal("expected evaluation error")
	}
	if !strings.Contains(err.Error(), "undefined_function") {
		t.Errorf("error = %v, want it to name the missing function", err)
	}
	if strings.Contains(out.String(), "after") {
		t.Error("loop continued after an evaluation error")
	}
}

func TestRun_RestartInPlace(t *testing.T) {
	var out, status bytes.Buffer
	cfg := testConfig(&out, &status,
		[]string{`counter = 41`, "restart"},
		[]string{`typeof counter`, "exit"},
	)
	restarter := &fakeRestarter{err: restart.ErrUnsupported}
	cfg.Restarter = restarter
	cfg.Logger = &ui.Logger{Out: &status, Err: &status}
	cfg.Watch = t.TempDir()
	cfg.Hook = ""

	if err := Run(cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(restarter.calls) != 1 {
		t.Fatalf("restart calls = %d, want 1", len(restarter.calls))
	}
	if restarter.calls[0].Watch != cfg.Watch || restarter.calls[0].Engine != "js" {
		t.Errorf("restart options = %+v", restarter.calls[0])
	}

	if !strings.Contains(status.String(), "Shell restarted in place.") {
		t.Errorf("status = %q, want the in-place restart notice", status.String())
	}

	// The second session starts from a fresh runtime.
	want := "=> int(41)\n=> string(9) \"undefined\"\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRun_Bootstrap(t *testing.T) {
	script := writeScript(t, "boot.js", `greeting = "Hello Dolly";`)

	var out, status bytes.Buffer
	cfg := testConfig(&out, &status, []string{"greeting"})
	cfg.Requires = []string{script}

	if err := Run(cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out.String() != "=> string(11) \"Hello Dolly\"\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_BootstrapOutput(t *testing.T) {
	script := writeScript(t, "plugin.js", `echo("plugin loaded\n");`)

	var out, status bytes.Buffer
	cfg := testConfig(&out, &status, []string{"1"})
	cfg.Requires = []string{script}

	if err := Run(cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := "plugin loaded\n=> int(1)\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRun_SiteConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "boot.tengo"), []byte(`motto := "Just another site"`), 0644); err != nil {
		t.Fatal(err)
	}
	config := filepath.Join(dir, "site.yaml")
	yaml := "name: Dolly\nbootstrap:\n  - boot.tengo\n"
	if err := os.WriteFile(config, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	var out, status bytes.Buffer
	cfg := testConfig(&out, &status, []string{`get_bloginfo("name")`, "motto"})
	cfg.Engine = engine.Tengo
	cfg.SiteConfig = config

	if err := Run(cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := "=> string(5) \"Dolly\"\n=> string(17) \"Just another site\"\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRun_HookDeferral(t *testing.T) {
	script := writeScript(t, "plugin.js", `add_action("plugins_loaded", function() { update_option("plugin_ready", "yes"); });`)

	var out, status bytes.Buffer
	cfg := testConfig(&out, &status, []string{
		`get_option("plugin_ready")`,
		`did_action("init")`,
		`did_action("wp_loaded")`,
	})
	cfg.Requires = []string{script}
	cfg.Hook = "init"

	if err := Run(cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := "=> string(3) \"yes\"\n=> int(1)\n=> int(0)\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRun_HookNeverFired(t *testing.T) {
	var out, status bytes.Buffer
	cfg := testConfig(&out, &status, []string{`echo("never");`})
	cfg.Hook = "rest_api_init"

	err := Run(cfg)
	if !errors.Is(err, site.ErrHookNeverFired) {
		t.Fatalf("Run() error = %v, want ErrHookNeverFired", err)
	}
	if !strings.Contains(err.Error(), `"rest_api_init"`) {
		t.Errorf("error %q should name the hook", err)
	}
	if out.Len() != 0 {
		t.Errorf("shell ran without its hook: %q", out.String())
	}
}

func TestRun_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "unknown engine", modify: func(c *Config) { c.Engine = "php" }},
		{name: "missing watch path", modify: func(c *Config) { c.Watch = filepath.Join(os.TempDir(), "wpshell-does-not-exist") }},
		{name: "missing site config", modify: func(c *Config) { c.SiteConfig = filepath.Join(os.TempDir(), "wpshell-missing.yaml") }},
		{name: "missing bootstrap script", modify: func(c *Config) { c.Requires = []string{filepath.Join(os.TempDir(), "wpshell-missing.js")} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, status bytes.Buffer
			cfg := testConfig(&out, &status, []string{`echo("never");`})
			tt.modify(&cfg)

			if err := Run(cfg); err == nil {
				t.Error("expected configuration error")
			}
			if out.Len() != 0 {
				t.Errorf("unexpected output %q", out.String())
			}
		})
	}
}

func TestValidateHook(t *testing.T) {
	tests := []struct {
		name    string
		hook    string
		set     bool
		wantErr bool
	}{
		{name: "not given", hook: "", set: false},
		{name: "named", hook: "init", set: true},
		{name: "empty", hook: "", set: true, wantErr: true},
		{name: "blank", hook: "  ", set: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHook(tt.hook, tt.set)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHook(%q, %v) error = %v, wantErr %v", tt.hook, tt.set, err, tt.wantErr)
			}
		})
	}
}

func TestRestartOptions(t *testing.T) {
	cfg := Config{
		Basic:      true,
		Engine:     engine.Tengo,
		Watch:      "plugins",
		SiteConfig: "site.yaml",
		Requires:   []string{"a.tengo"},
		Prompt:     "site> ",
	}

	got := restartOptions(cfg).Args()
	want := []string{"shell", "--basic", "--engine=tengo", "--watch=plugins", "--config=site.yaml", "--prompt=site> ", "--require=a.tengo"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Args() = %q, want %q", got, want)
	}
}
