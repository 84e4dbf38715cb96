package repl

import (
	"errors"
	"strings"
)

// ContinuationPrompt is shown while a line ending in a backslash is being
// continued
const ContinuationPrompt = "--> "

// exitCommand is returned when input ends before anything was read
const exitCommand = "exit"

// ErrInterrupted is returned by a LineSource when the user cancels the
// line being typed
var ErrInterrupted = errors.New("interrupted")

// LineSource reads one raw line of input using the given prompt.
// ErrInterrupted discards the logical line being assembled; any other
// error, including io.EOF, means no line is available.
type LineSource interface {
	ReadLine(prompt string) (string, error)
}

// Reader assembles logical lines from a LineSource
type Reader struct {
	src LineSource
}

// NewReader creates a Reader pulling fragments from src
func NewReader(src LineSource) *Reader {
	return &Reader{src: src}
}

// ReadLogical reads fragments until one does not end in a backslash and
// returns them joined with the trailing backslashes removed. When the source
// fails before any fragment is read it returns "exit". An interrupt drops
// every fragment read so far and returns an empty line.
func (r *Reader) ReadLogical(prompt string) string {
	var full strings.Builder
	started := false

	for {
		p := prompt
		if started {
			p = ContinuationPrompt
		}

		line, err := r.src.ReadLine(p)
		if errors.Is(err, ErrInterrupted) {
			return ""
		}
		if err != nil {
			break
		}

		line = strings.TrimRight(line, "\n")
		if strings.HasSuffix(line, `\`) {
			full.WriteString(line[:len(line)-1])
			started = true
			continue
		}

		full.WriteString(line)
		return full.String()
	}

	if !started {
		return exitCommand
	}
	return full.String()
}
