package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
)

const (
	// ShellEnvVar overrides the shell binary used to read lines
	ShellEnvVar = "WPSHELL_CUSTOM_SHELL"

	// DefaultShell is used when ShellEnvVar is not set
	DefaultShell = "/bin/bash"
)

// ErrInvalidShell is returned when the configured shell binary cannot be used
var ErrInvalidShell = errors.New("invalid shell binary")

// ShellSource reads lines by running `read -e` in an interactive shell, so
// line editing and history come from the shell itself.
type ShellSource struct {
	shell       string
	historyFile string

	// Stdin and Stderr are attached to the shell; the prompt is written to
	// Stderr by `read -p`.
	Stdin  io.Reader
	Stderr io.Writer
}

// NewShellSource validates the configured shell binary and returns a source
// persisting history to historyFile.
func NewShellSource(historyFile string) (*ShellSource, error) {
	shell, err := ResolveShell()
	if err != nil {
		return nil, err
	}

	return &ShellSource{
		shell:       shell,
		historyFile: historyFile,
		Stdin:       os.Stdin,
		Stderr:      os.Stderr,
	}, nil
}

// ResolveShell returns the shell binary from ShellEnvVar or DefaultShell,
// checking that it is an existing, readable regular file.
func ResolveShell() (string, error) {
	shell := os.Getenv(ShellEnvVar)
	if shell == "" {
		shell = DefaultShell
	}

	invalid := fmt.Errorf("%w: the shell binary '%s' is not valid. You can override the shell to be used through the %s environment variable",
		ErrInvalidShell, shell, ShellEnvVar)

	info, err := os.Stat(shell)
	if err != nil || !info.Mode().IsRegular() {
		return "", invalid
	}

	f, err := os.Open(shell)
	if err != nil {
		return "", invalid
	}
	f.Close()

	return shell, nil
}

// Shell returns the shell binary in use
func (s *ShellSource) Shell() string {
	return s.shell
}

// ReadLine runs the shell once to read a single line. io.EOF is returned
// when the shell produced no line (end of input or a failed read).
func (s *ShellSource) ReadLine(prompt string) (string, error) {
	var stdout bytes.Buffer

	cmd := exec.Command(s.shell, "-c", promptScript(prompt, s.historyFile))
	cmd.Stdin = s.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = s.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("line read failed: %w", err)
	}

	if stdout.Len() == 0 {
		return "", io.EOF
	}

	return strings.TrimSuffix(stdout.String(), "\n"), nil
}

// promptScript builds the shell program that loads history, reads a line
// with editing enabled, appends it to history and prints it.
func promptScript(prompt, historyFile string) string {
	p := shellescape.Quote(prompt)
	h := shellescape.Quote(historyFile)

	return strings.Join([]string{
		"set -f",
		"history -r " + h,
		`LINE=""`,
		"read -re -p " + p + " LINE",
		"[ $? -eq 0 ] || exit 0",
		`history -s "$LINE"`,
		"history -w " + h,
		`printf '%s\n' "$LINE"`,
	}, "; ") + ";"
}
