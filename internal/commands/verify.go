package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"easytask/internal/exitcode"
	"easytask/internal/session"
)

func init() {
	Register(&VerifyCmd{})
	Register(&ResendCmd{})
}

// VerifyCmd implements the verify command. The email is re-entered on
// every invocation; there is no persisted pending-verification state
// between processes.
type VerifyCmd struct{}

func (c *VerifyCmd) Name() string      { return "verify" }
func (c *VerifyCmd) Aliases() []string { return nil }
func (c *VerifyCmd) Synopsis() string  { return "Verify an email address with a one-time code" }
func (c *VerifyCmd) Usage() string     { return "easytask verify <email> <code>" }
func (c *VerifyCmd) NeedsAuth() bool   { return false }

func (c *VerifyCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VerifyCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: email and code required")
		return exitcode.UserError
	}
	email := strings.TrimSpace(args[0])
	otp := args[1]

	env.Session.BeginVerification(email)
	msg, err := env.Session.Verify(ctx, otp)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		if errors.Is(err, session.ErrBadOTP) {
			return exitcode.UserError
		}
		return exitcode.BackendError
	}

	if !env.Cfg.Quiet {
		fmt.Fprintln(out, msg)
		fmt.Fprintf(out, "log in with: easytask login %s\n", email)
	}
	return exitcode.Success
}

// ResendCmd implements the resend command.
type ResendCmd struct{}

func (c *ResendCmd) Name() string      { return "resend" }
func (c *ResendCmd) Aliases() []string { return nil }
func (c *ResendCmd) Synopsis() string  { return "Request a fresh verification code" }
func (c *ResendCmd) Usage() string     { return "easytask resend <email>" }
func (c *ResendCmd) NeedsAuth() bool   { return false }

func (c *ResendCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ResendCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	email := strings.TrimSpace(args[0])

	env.Session.BeginVerification(email)
	if err := env.Session.Resend(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if !env.Cfg.Quiet {
		fmt.Fprintln(out, "new code sent, check your email")
	}
	return exitcode.Success
}
