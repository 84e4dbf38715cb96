// Package repl implements the shell's read-eval-print loop: logical line
// assembly, statement/expression dispatch, output capture and the watch
// state that triggers a restart.
package repl

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
)

// DefaultPrompt is the prompt shown for the first fragment of a line
const DefaultPrompt = "wp> "

// historyPrefix names history files in the temp directory
const historyPrefix = "wpshell-history-"

// Session holds the state of one loop invocation. It is discarded when the
// loop exits or restarts.
type Session struct {
	// Prompt is shown when reading the first fragment of a logical line
	Prompt string

	// HistoryFile is where the line editor persists input history
	HistoryFile string

	// Watch is the optional path monitor; nil when not watching
	Watch *Watch
}

// NewSession creates a session whose history file is derived from the
// current working directory and the invoking user.
func NewSession(prompt string) (*Session, error) {
	if prompt == "" {
		prompt = DefaultPrompt
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	return &Session{
		Prompt:      prompt,
		HistoryFile: HistoryPath(os.TempDir(), cwd, currentUser()),
	}, nil
}

// HistoryPath returns the history file for a (working directory, user)
// pair inside tmpDir. The same pair always maps to the same file.
func HistoryPath(tmpDir, cwd, username string) string {
	sum := md5.Sum([]byte(cwd + username))
	return filepath.Join(tmpDir, historyPrefix+hex.EncodeToString(sum[:]))
}

// SetWatch configures path monitoring for the session
func (s *Session) SetWatch(path string) error {
	w, err := NewWatch(path)
	if err != nil {
		return err
	}
	s.Watch = w
	return nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
