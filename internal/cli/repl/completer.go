package repl

import "strings"

// Completer suggests known commands for a prefix.
type Completer struct {
	commands []string
}

// NewCompleter returns a Completer for the server commands and the
// local REPL words.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{"ping", "help", "history", "exit", "quit"},
	}
}

// Complete returns the commands that start with prefix.
func (c *Completer) Complete(prefix string) []string {
	var out []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}

// Commands returns every known command.
func (c *Completer) Commands() []string {
	return append([]string(nil), c.commands...)
}
