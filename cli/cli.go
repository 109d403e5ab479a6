// Package cli provides the line-oriented query shell: command parsing,
// fuzzy name resolution and plain-terminal output for the encounter engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// CLI runs a Session over plain line I/O.
type CLI struct {
	Session   *Session
	In        io.Reader
	Out       io.Writer
	Err       io.Writer // trace output
	EchoInput bool      // echo each input line after the prompt (for script playback)
}

// New creates a CLI over stdin and stdout.
func New(s *Session) *CLI {
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

// Run reads queries until /quit or end of input. Lines starting with "#"
// are comments, so script files can be annotated.
func (c *CLI) Run(ctx context.Context) {
	lines := bufio.NewScanner(c.In)
	for fmt.Fprint(c.Out, "> "); lines.Scan(); fmt.Fprint(c.Out, "> ") {
		input := strings.TrimSpace(lines.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			fmt.Fprintln(c.Out, input)
		}
		r := c.Session.Exec(ctx, input)
		c.write(r)
		if r.Quit {
			return
		}
	}
}

// write prints a result. System output is bracketed; trace lines go to
// Err when it is set.
func (c *CLI) write(r Result) {
	format := "%s\n"
	if r.System {
		format = "[%s]\n"
	}
	for _, l := range r.Output {
		fmt.Fprintf(c.Out, format, l)
	}
	trace := c.Err
	if trace == nil {
		trace = c.Out
	}
	for _, l := range r.Trace {
		fmt.Fprintln(trace, l)
	}
}
