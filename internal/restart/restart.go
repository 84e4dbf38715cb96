// Package restart replaces the running shell process with a fresh copy of
// itself so reloaded code takes effect.
package restart

import (
	"errors"
	"fmt"
	"os"

	"github.com/itsmostafa/wpshell/internal/ui"
)

// ErrUnsupported is returned when the platform cannot replace the process image
var ErrUnsupported = errors.New("process replacement not supported on this platform")

// Options are the shell flags carried into the new process
type Options struct {
	Basic    bool
	Quiet    bool
	Engine   string
	Watch    string
	Config   string
	Hook     string
	Prompt   string
	Requires []string
}

// Args rebuilds the command line for the shell subcommand, without the
// binary name.
func (o Options) Args() []string {
	args := []string{"shell"}
	if o.Basic {
		args = append(args, "--basic")
	}
	if o.Quiet {
		args = append(args, "--quiet")
	}
	if o.Engine != "" {
		args = append(args, "--engine="+o.Engine)
	}
	if o.Watch != "" {
		args = append(args, "--watch="+o.Watch)
	}
	if o.Config != "" {
		args = append(args, "--config="+o.Config)
	}
	if o.Hook != "" {
		args = append(args, "--hook="+o.Hook)
	}
	if o.Prompt != "" {
		args = append(args, "--prompt="+o.Prompt)
	}
	for _, r := range o.Requires {
		args = append(args, "--require="+r)
	}
	return args
}

// ExecFunc replaces the current process. It only returns on failure.
type ExecFunc func(binary string, argv []string, env []string) error

// Controller restarts the shell by process replacement
type Controller struct {
	// Exec defaults to the platform exec; nil when unsupported
	Exec ExecFunc

	// Executable resolves the running binary (default os.Executable)
	Executable func() (string, error)

	Logger *ui.Logger
}

// NewController creates a Controller using the platform's exec
func NewController(logger *ui.Logger) *Controller {
	return &Controller{
		Exec:       platformExec,
		Executable: os.Executable,
		Logger:     logger,
	}
}

// Restart replaces the process with a new invocation carrying opts. On
// success it does not return. ErrUnsupported is returned immediately when
// the platform has no exec; any other failure is reported as a warning and
// returned so the caller can restart in process.
func (c *Controller) Restart(opts Options) error {
	if c.Exec == nil {
		return ErrUnsupported
	}

	executable := c.Executable
	if executable == nil {
		executable = os.Executable
	}

	binary, err := executable()
	if err != nil {
		err = fmt.Errorf("cannot resolve shell binary: %w", err)
		c.warn(err)
		return err
	}

	argv := append([]string{binary}, opts.Args()...)
	if err := c.Exec(binary, argv, os.Environ()); err != nil {
		err = fmt.Errorf("process restart failed: %w", err)
		c.warn(err)
		return err
	}

	// Exec returned without an error, so the process was not replaced.
	err = errors.New("process restart did not take effect")
	c.warn(err)
	return err
}

func (c *Controller) warn(err error) {
	if c.Logger != nil {
		c.Logger.Warning("%v, restarting in place.", err)
	}
}
