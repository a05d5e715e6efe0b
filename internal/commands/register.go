package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"easytask/internal/exitcode"
	"easytask/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	fullName string
	phone    string
	password string
}

// SetPassword sets the password up front (for testing).
func (c *RegisterCmd) SetPassword(pw string) {
	c.password = pw
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "easytask register [--name <full-name>] [--phone <number>] <email>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.fullName, "name", "", "")
	fs.StringVar(&c.phone, "phone", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	email := strings.TrimSpace(args[0])

	password := c.password
	if password == "" {
		var err error
		password, err = promptLine(env.Stdin, out, "Password: ")
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to read password: %v\n", err)
			return exitcode.UserError
		}
	}

	res, err := env.Session.Register(ctx, service.Registration{
		Email:       email,
		Password:    password,
		FullName:    c.fullName,
		PhoneNumber: c.phone,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if !env.Cfg.Quiet {
		fmt.Fprintln(out, res.Message)
		if res.OTP != "" {
			// Backend could not deliver the code by email and echoed it
			// in the response instead.
			fmt.Fprintf(out, "verification code: %s\n", res.OTP)
		}
		fmt.Fprintf(out, "verify with: easytask verify %s <code>\n", email)
	}
	return exitcode.Success
}
