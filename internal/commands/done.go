package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"easytask/internal/exitcode"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles: marking a completed
// task "done" again reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's done state" }
func (c *DoneCmd) Usage() string     { return "easytask done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	task, err := resolveTask(ctx, env, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		if errors.Is(err, ErrTaskRefRequired) || env.Tasks.LastError() == nil {
			return exitcode.UserError
		}
		return exitcode.BackendError
	}

	if err := env.Tasks.Toggle(ctx, task.ID); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if !env.Cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
