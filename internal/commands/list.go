package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"easytask/internal/exitcode"
	"easytask/internal/output"
	"easytask/internal/service"
	"easytask/internal/tasklist"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command, the default when easytask is run
// with no arguments.
type ListCmd struct {
	label    string
	priority string
	details  bool
}

// SetFilter sets the filter flags (for testing).
func (c *ListCmd) SetFilter(label, priority string) {
	c.label = label
	c.priority = priority
}

// SetDetails sets the details flag (for testing).
func (c *ListCmd) SetDetails(details bool) {
	c.details = details
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "easytask list [--label <label>] [--priority <priority>] [--details]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.label, "label", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.BoolVar(&c.details, "details", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	filter := tasklist.Filter{
		Label:    service.Label(c.label),
		Priority: service.Priority(c.priority),
	}

	if err := env.Tasks.SetFilter(ctx, filter); err != nil {
		if env.Tasks.LastError() == nil {
			// Rejected before dispatch: bad filter value.
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	tasks := env.Tasks.Tasks()
	if len(tasks) == 0 {
		if !env.Cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, task := range tasks {
		output.FormatTask(out, i+1, task)
		if c.details {
			output.FormatTaskDetail(out, task)
		}
	}

	done, total := env.Tasks.Summary()
	output.FormatSummary(out, done, total)
	return exitcode.Success
}
