package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/authline/internal/client"
)

// Session sends one line and returns the reply.
type Session interface {
	Send(msg string) (string, error)
}

// REPL is the read-eval-print loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	session   Session
	completer *Completer
	history   *History
	prompt    string
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory replaces the default history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithPrompt sets the prompt text.
func WithPrompt(p string) Option {
	return func(r *REPL) {
		r.prompt = p
	}
}

// New creates a REPL over session.
func New(session Session, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		session:   session,
		completer: NewCompleter(),
		history:   NewHistory(),
		prompt:    "authline> ",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until exit or end of input. A failed exchange ends the
// loop since the connection is no longer usable.
func (r *REPL) Run() error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: could not load history: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: could not save history: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)
	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		done, execErr := r.execute(line)
		if execErr != nil {
			return fmt.Errorf("send %q: %w", line, execErr)
		}
		if done {
			return nil
		}
	}
}

// execute handles one line. It reports true when the REPL should stop.
func (r *REPL) execute(line string) (bool, error) {
	switch line {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintf(r.output, "commands: %s\n", strings.Join(r.completer.Commands(), ", "))
		return false, nil
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false, nil
	}

	reply, err := r.session.Send(line)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(r.output, reply)

	if client.IsUnknownCommand(reply) {
		if hints := r.completer.Complete(line); len(hints) > 0 {
			fmt.Fprintf(r.output, "did you mean: %s\n", strings.Join(hints, ", "))
		}
	}
	return false, nil
}
