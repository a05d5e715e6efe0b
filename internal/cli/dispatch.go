// Package cli handles command-line parsing and dispatch.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"easytask/internal/api"
	"easytask/internal/commands"
	"easytask/internal/config"
	"easytask/internal/credstore"
	"easytask/internal/exitcode"
	"easytask/internal/service"
	"easytask/internal/session"
	"easytask/internal/tasklist"
)

// Backend bundles the remote-service implementations a dispatch runs against.
type Backend struct {
	Auth  service.Auth
	Tasks service.Tasks
}

// BackendFactory creates a Backend from config. tokens supplies the bearer
// token for protected calls; implementations that enforce auth themselves
// (fakes) may ignore it.
type BackendFactory func(cfg *config.Config, log *zap.Logger, tokens api.TokenProvider) (Backend, error)

// DefaultBackend builds the HTTP backend for the configured API endpoint.
func DefaultBackend(cfg *config.Config, log *zap.Logger, tokens api.TokenProvider) (Backend, error) {
	client := api.New(cfg.APIURL,
		api.WithLogger(log),
		api.WithTokenProvider(tokens),
	)
	return Backend{Auth: client, Tasks: client}, nil
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  BackendFactory
}

// NewDispatcher creates a new dispatcher with the given registry and
// backend factory.
func NewDispatcher(registry *commands.Registry, factory BackendFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, stdin io.Reader, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], stdin, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, stdin io.Reader, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var apiURL string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&apiURL, "api", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Check for missing flag value
		if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
			parts := strings.Split(errStr, ":")
			if len(parts) > 0 {
				flagPart := strings.TrimSpace(parts[0])
				flagPart = strings.TrimPrefix(flagPart, "flag ")
				fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
				return exitcode.UserError
			}
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir, apiURL)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := zap.NewNop()
	if cfg.Debug {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
			defer logger.Sync()
		}
	}

	// The session manager is the token provider for protected requests,
	// but the backend has to exist before the manager does. The closure
	// defers the binding until the first request reads a token.
	var sess *session.Manager
	tokens := api.TokenProviderFunc(func() (string, bool) {
		if sess == nil {
			return "", false
		}
		return sess.Token()
	})

	backend, err := d.factory(cfg, logger, tokens)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	sess = session.NewManager(backend.Auth, credstore.New(cfg), logger)
	if err := sess.Hydrate(); err != nil {
		// A broken credential file degrades to an unauthenticated
		// session rather than blocking unauthenticated commands.
		fmt.Fprintf(errOut, "warning: could not restore session: %v\n", err)
	}

	if cmd.NeedsAuth() && sess.State() != session.Authenticated {
		fmt.Fprintln(errOut, "error: not logged in (run: easytask login)")
		return exitcode.AuthError
	}

	env := &commands.Env{
		Cfg:     cfg,
		Session: sess,
		Tasks:   tasklist.New(backend.Tasks, logger),
		Stdin:   stdin,
	}

	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}
