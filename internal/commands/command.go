// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"easytask/internal/config"
	"easytask/internal/session"
	"easytask/internal/tasklist"
)

// Env bundles the collaborators a command runs against. Session is always
// hydrated before dispatch; Tasks is wired to the same session's token.
type Env struct {
	Cfg     *config.Config
	Session *session.Manager
	Tasks   *tasklist.Synchronizer

	// Stdin is where interactive prompts (passwords, confirmations) read from.
	Stdin io.Reader
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires an authenticated
	// session. Commands like help, version, register, verify, login,
	// and logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional arguments after flag
	// parsing and returns an exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
