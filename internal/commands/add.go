package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"easytask/internal/exitcode"
	"easytask/internal/output"
	"easytask/internal/service"
	"easytask/internal/tasklist"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	priority    string
	label       string
	remind      string
}

// SetDraftFlags sets the draft flags (for testing).
func (c *AddCmd) SetDraftFlags(description, priority, label, remind string) {
	c.description = description
	c.priority = priority
	c.label = label
	c.remind = remind
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "easytask add [--desc <text>] [--priority <p>] [--label <l>] [--remind <time>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.label, "label", "", "")
	fs.StringVar(&c.remind, "remind", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	draft := service.TaskDraft{
		Title:       title,
		Description: c.description,
		Priority:    service.Priority(c.priority),
		Label:       service.Label(c.label),
	}
	if c.remind != "" {
		ts, err := output.ParseReminder(c.remind)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		draft.ReminderTime = &ts
	}

	if err := env.Tasks.Create(ctx, draft); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		if errors.Is(err, tasklist.ErrTitleRequired) || strings.HasPrefix(err.Error(), "invalid ") {
			return exitcode.UserError
		}
		return exitcode.BackendError
	}

	if !env.Cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
