package repl

import (
	"sort"
	"strings"
)

// DefaultCommands are the command paths offered for completion.
var DefaultCommands = []string{
	"login",
	"user", "user list", "user get", "user create", "user update", "user delete",
	"system", "system health", "system status", "system greet", "system whoami",
	"config", "config show",
	"help", "history", "exit", "quit",
}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer over commands. Nil selects
// DefaultCommands.
func NewCompleter(commands []string) *Completer {
	if commands == nil {
		commands = DefaultCommands
	}
	sorted := append([]string(nil), commands...)
	sort.Strings(sorted)
	return &Completer{commands: sorted}
}

// Complete returns the commands starting with prefix, in sorted order.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
