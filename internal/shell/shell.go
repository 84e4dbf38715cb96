// Package shell drives an interactive session: it prepares the site
// environment and script engine, picks a line source, optionally waits for
// a lifecycle hook, and restarts the loop when asked to.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/itsmostafa/wpshell/internal/engine"
	"github.com/itsmostafa/wpshell/internal/engine/js"
	"github.com/itsmostafa/wpshell/internal/engine/tengo"
	"github.com/itsmostafa/wpshell/internal/repl"
	"github.com/itsmostafa/wpshell/internal/restart"
	"github.com/itsmostafa/wpshell/internal/site"
	"github.com/itsmostafa/wpshell/internal/ui"
)

// ErrBlankHook is returned when --hook is given without a name
var ErrBlankHook = errors.New("the hook name must not be empty")

// Restarter replaces the running process. It returns only when the
// replacement did not happen.
type Restarter interface {
	Restart(opts restart.Options) error
}

// Config holds the shell configuration
type Config struct {
	Basic      bool
	Quiet      bool
	Engine     engine.Name
	Watch      string
	SiteConfig string
	Requires   []string
	Hook       string
	Prompt     string

	// Stdin decides between the line editor and the shell reader
	Stdin *os.File

	// Out receives evaluated output (default stdout)
	Out io.Writer

	Logger    *ui.Logger
	Restarter Restarter

	// NewSource overrides line source selection
	NewSource func(session *repl.Session) (repl.LineSource, error)
}

// executor is what an engine provides: line evaluation and bootstrap loading
type executor interface {
	repl.Executor
	site.Loader
}

// Run starts the shell and returns when the user exits. A restart request
// first tries to replace the process and otherwise starts a fresh session
// in place.
func Run(cfg Config) error {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Logger == nil {
		cfg.Logger = ui.NewLogger(cfg.Quiet)
	}
	if cfg.Restarter == nil {
		cfg.Restarter = restart.NewController(cfg.Logger)
	}
	if cfg.Engine == "" {
		cfg.Engine = engine.JS
	}

	if _, err := engine.Validate(string(cfg.Engine)); err != nil {
		return err
	}

	for {
		code, err := runSession(cfg)
		if err != nil {
			return err
		}
		if code != repl.ExitRestart {
			return nil
		}

		// Failures are already reported as warnings by the restarter.
		_ = cfg.Restarter.Restart(restartOptions(cfg))
		cfg.Logger.Success("Shell restarted in place.")
	}
}

// runSession builds a fresh environment and runs one loop in it
func runSession(cfg Config) (repl.ExitCode, error) {
	session, err := repl.NewSession(cfg.Prompt)
	if err != nil {
		return repl.ExitNormal, err
	}
	if cfg.Watch != "" {
		if err := session.SetWatch(cfg.Watch); err != nil {
			return repl.ExitNormal, err
		}
	}

	s, exec, err := newEnvironment(cfg)
	if err != nil {
		return repl.ExitNormal, err
	}

	code := repl.ExitNormal
	started := false
	start := func() error {
		started = true

		var err error
		code, err = loop(cfg, session, s, exec)
		return err
	}

	if cfg.Hook != "" {
		if err := s.Hooks.AddAction(cfg.Hook, start); err != nil {
			return repl.ExitNormal, err
		}
	}

	if err := s.Boot(exec, cfg.Out); err != nil {
		return repl.ExitNormal, err
	}

	if cfg.Hook == "" {
		if err := start(); err != nil {
			return repl.ExitNormal, err
		}
	} else if !started {
		return repl.ExitNormal, fmt.Errorf("%w: %q", site.ErrHookNeverFired, cfg.Hook)
	}

	return code, nil
}

// loop opens a line source and runs the read-eval-print loop
func loop(cfg Config, session *repl.Session, s *site.Site, exec executor) (repl.ExitCode, error) {
	src, mode, err := openSource(cfg, session)
	if err != nil {
		return repl.ExitNormal, err
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	watch := ""
	if session.Watch != nil {
		watch = session.Watch.Path()
	}
	cfg.Logger.FormatHeader(ui.HeaderInfo{
		Site:   s.BlogInfo("name"),
		Engine: string(cfg.Engine),
		Mode:   mode,
		Watch:  watch,
		Hook:   cfg.Hook,
	})

	r := repl.New(repl.Config{
		Session:  session,
		Source:   src,
		Executor: exec,
		Out:      cfg.Out,
		Logger:   cfg.Logger,
		Quiet:    cfg.Quiet,
	})
	return r.Run()
}

// newEnvironment loads the site and attaches the selected engine to it
func newEnvironment(cfg Config) (*site.Site, executor, error) {
	siteCfg, err := site.LoadConfig(cfg.SiteConfig)
	if err != nil {
		return nil, nil, err
	}
	siteCfg.Bootstrap = append(siteCfg.Bootstrap, cfg.Requires...)

	s := site.New(siteCfg)

	switch cfg.Engine {
	case engine.Tengo:
		return s, tengo.New(s), nil
	default:
		exec, err := js.New(s)
		if err != nil {
			return nil, nil, err
		}
		return s, exec, nil
	}
}

// openSource picks the line source. The line editor needs a terminal; in
// basic mode or without one, lines are read through the external shell.
func openSource(cfg Config, session *repl.Session) (repl.LineSource, string, error) {
	if cfg.NewSource != nil {
		src, err := cfg.NewSource(session)
		return src, "custom", err
	}

	if !cfg.Basic && isTerminal(cfg.Stdin) {
		src, err := repl.NewReadlineSource(session.HistoryFile)
		if err == nil {
			return src, "readline", nil
		}
		cfg.Logger.Warning("%v, falling back to basic mode.", err)
	}

	src, err := repl.NewShellSource(session.HistoryFile)
	if err != nil {
		return nil, "", err
	}
	src.Stdin = cfg.Stdin
	return src, "basic (" + src.Shell() + ")", nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// restartOptions carries the session flags into a new process
func restartOptions(cfg Config) restart.Options {
	return restart.Options{
		Basic:    cfg.Basic,
		Quiet:    cfg.Quiet,
		Engine:   string(cfg.Engine),
		Watch:    cfg.Watch,
		Config:   cfg.SiteConfig,
		Hook:     cfg.Hook,
		Prompt:   cfg.Prompt,
		Requires: cfg.Requires,
	}
}

// ValidateHook rejects a hook flag that was given but is blank
func ValidateHook(hook string, set bool) error {
	if set && strings.TrimSpace(hook) == "" {
		return ErrBlankHook
	}
	return nil
}
