package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/itsmostafa/wpshell/internal/dump"
	"github.com/itsmostafa/wpshell/internal/ui"
)

// ExitCode tells the caller how the loop ended
type ExitCode int

const (
	// ExitNormal ends the shell
	ExitNormal ExitCode = 0
	// ExitRestart asks the caller to start a fresh loop or process.
	// It is never used as the process exit status.
	ExitRestart ExitCode = 10
)

const (
	restartCommand = "restart"
	valueMarker    = "=> "
)

// Executor runs code in the environment the shell is attached to. Code
// starting with `return` yields the returned value; output is everything
// the code wrote while running.
type Executor interface {
	Execute(code string) (output string, value any, err error)
}

// Config holds the loop configuration
type Config struct {
	Session  *Session
	Source   LineSource
	Executor Executor

	// Out receives evaluated output and value dumps (default stdout)
	Out io.Writer

	// Logger receives status notices
	Logger *ui.Logger

	// Quiet suppresses the "=> " value display
	Quiet bool
}

// REPL is the read-eval-print loop
type REPL struct {
	cfg    Config
	reader *Reader
	out    io.Writer
	log    *ui.Logger
}

// New creates a REPL from cfg
func New(cfg Config) *REPL {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	log := cfg.Logger
	if log == nil {
		log = ui.NewLogger(cfg.Quiet)
	}

	return &REPL{
		cfg:    cfg,
		reader: NewReader(cfg.Source),
		out:    out,
		log:    log,
	}
}

// Run reads and evaluates lines until exit, end of input or a restart
// request. Errors from the executor are returned as is.
func (r *REPL) Run() (ExitCode, error) {
	session := r.cfg.Session

	for {
		if session.Watch != nil && session.Watch.Changed() {
			r.log.Log("Detected changes in %s, restarting shell...", session.Watch.Path())
			return ExitRestart, nil
		}

		line := r.reader.ReadLogical(session.Prompt)
		if line == "" {
			continue
		}

		switch strings.TrimSpace(line) {
		case exitCommand:
			return ExitNormal, nil
		case restartCommand:
			r.log.Log("Restarting shell...")
			return ExitRestart, nil
		}

		if err := r.eval(Normalize(line)); err != nil {
			return ExitNormal, err
		}
	}
}

// eval runs one line and prints its output. Output written before a
// failure is still printed, then the failure is returned.
func (r *REPL) eval(line string) error {
	if Classify(line) == Statement {
		output, _, err := r.cfg.Executor.Execute(line)
		_, werr := io.WriteString(r.out, normalizeOutput(output))
		if err != nil {
			return err
		}
		return werr
	}

	output, value, err := r.cfg.Executor.Execute(AsReturn(line))
	if err != nil {
		_, _ = io.WriteString(r.out, normalizeOutput(output))
		return err
	}

	var b strings.Builder
	b.WriteString(normalizeOutput(output))
	if !r.cfg.Quiet {
		b.WriteString(valueMarker)
		b.WriteString(dump.Value(value))
	}

	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// normalizeOutput ends non-empty output with exactly one newline
func normalizeOutput(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimRight(s, "\n") + "\n"
}
