package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"easytask/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
	Register(&VersionCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "easytask help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  easytask                                           List tasks
  easytask list [--label <l>] [--priority <p>] [--details]
  easytask add [--desc <text>] [--priority <p>] [--label <l>] [--remind <time>] <title...>
  easytask done <ref>                                Toggle done state (ref: number or id)
  easytask rm [--yes] <ref>                          Delete a task
  easytask register [--name <full-name>] [--phone <number>] <email>
  easytask verify <email> <code>
  easytask resend <email>
  easytask login <email>
  easytask logout
  easytask whoami
  easytask help
  easytask version

Labels:     work, personal, urgent, other
Priorities: low, medium, high

Common flags:
  --config <dir>   Override config directory
  --api <url>      Override API endpoint (or EASYTASK_API_URL)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`

// Version is the application version. Set at build time.
var Version = "0.1.0"

// VersionCmd implements the version command.
type VersionCmd struct{}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "easytask version" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "easytask %s\n", Version)
	return exitcode.Success
}
