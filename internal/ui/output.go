// Package ui renders the status lines wpshell prints around the REPL.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted status text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warningStyle for the warning prefix
	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	// errorStyle for the error prefix
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	// headerBoxStyle for the session header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)
)

// Logger writes status messages. Log and Success go to Out and are
// silenced by Quiet; Warning and Error go to Err and are always shown.
type Logger struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool
}

// NewLogger creates a Logger writing to stdout and stderr
func NewLogger(quiet bool) *Logger {
	return &Logger{
		Out:   os.Stdout,
		Err:   os.Stderr,
		Quiet: quiet,
	}
}

func (l *Logger) out() io.Writer {
	if l.Out == nil {
		return os.Stdout
	}
	return l.Out
}

func (l *Logger) err() io.Writer {
	if l.Err == nil {
		return os.Stderr
	}
	return l.Err
}

// Log writes an informational line
func (l *Logger) Log(format string, args ...any) {
	if l.Quiet {
		return
	}
	fmt.Fprintln(l.out(), dimStyle.Render(fmt.Sprintf(format, args...)))
}

// Success writes a line prefixed with a success marker
func (l *Logger) Success(format string, args ...any) {
	if l.Quiet {
		return
	}
	fmt.Fprintf(l.out(), "%s %s\n", successStyle.Render("Success:"), fmt.Sprintf(format, args...))
}

// Warning writes a line prefixed with "Warning:"
func (l *Logger) Warning(format string, args ...any) {
	fmt.Fprintf(l.err(), "%s %s\n", warningStyle.Render("Warning:"), fmt.Sprintf(format, args...))
}

// Error writes a line prefixed with "Error:"
func (l *Logger) Error(format string, args ...any) {
	fmt.Fprintf(l.err(), "%s %s\n", errorStyle.Render("Error:"), fmt.Sprintf(format, args...))
}

// HeaderInfo describes the session shown in the header box
type HeaderInfo struct {
	Site   string
	Engine string
	Mode   string
	Watch  string
	Hook   string
}

// FormatHeader renders the session header with configuration info
func (l *Logger) FormatHeader(info HeaderInfo) {
	if l.Quiet {
		return
	}

	content := fmt.Sprintf("%s %s  %s %s  %s %s",
		dimStyle.Render("Site:"), titleStyle.Render(info.Site),
		dimStyle.Render("Engine:"), titleStyle.Render(info.Engine),
		dimStyle.Render("Mode:"), info.Mode,
	)
	if info.Hook != "" {
		content += fmt.Sprintf("\n%s %s", dimStyle.Render("Hook:"), info.Hook)
	}
	if info.Watch != "" {
		content += fmt.Sprintf("\n%s %s", dimStyle.Render("Watch:"), successStyle.Render(info.Watch))
	}
	content += "\n" + dimStyle.Render("Type 'exit' to quit, 'restart' to reload.")

	fmt.Fprintln(l.out(), headerBoxStyle.Render(content))
}
