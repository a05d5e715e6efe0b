package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"easytask/internal/exitcode"
	"easytask/internal/output"
	"easytask/internal/session"
)

func init() {
	Register(&LogoutCmd{})
	Register(&WhoamiCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove stored credentials" }
func (c *LogoutCmd) Usage() string     { return "easytask logout" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	loggedIn := env.Session.State() == session.Authenticated

	if err := env.Session.Logout(); err != nil {
		fmt.Fprintf(errOut, "error: failed to clear credentials: %v\n", err)
		return exitcode.AuthError
	}

	if !env.Cfg.Quiet {
		if loggedIn {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "not logged in")
		}
	}
	return exitcode.Success
}

// WhoamiCmd prints the cached profile of the active session. It never
// touches the network; the profile comes from startup hydration.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the logged-in user" }
func (c *WhoamiCmd) Usage() string     { return "easytask whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	profile, ok := env.Session.Profile()
	if !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: easytask login)")
		return exitcode.AuthError
	}
	output.FormatProfile(out, profile)
	return exitcode.Success
}
