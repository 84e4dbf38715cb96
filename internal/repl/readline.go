package repl

import (
	"errors"
	"fmt"

	"github.com/chzyer/readline"
)

// ReadlineSource reads lines with in-process editing, sharing the history
// file with ShellSource.
type ReadlineSource struct {
	rl *readline.Instance
}

// NewReadlineSource opens a readline instance on the terminal
func NewReadlineSource(historyFile string) (*ReadlineSource, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          DefaultPrompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       exitCommand,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open line editor: %w", err)
	}
	return &ReadlineSource{rl: rl}, nil
}

// ReadLine reads a single line. Ctrl+C returns ErrInterrupted; Ctrl+D
// ends input.
func (s *ReadlineSource) ReadLine(prompt string) (string, error) {
	s.rl.SetPrompt(prompt)

	line, err := s.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// Close restores the terminal
func (s *ReadlineSource) Close() error {
	return s.rl.Close()
}
