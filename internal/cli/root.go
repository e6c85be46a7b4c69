// Package cli implements rpactl, a command-line front end to the RPA
// backend API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/rpaconsole/internal/adapters/http/client"
	"github.com/okian/rpaconsole/internal/config"
	"github.com/okian/rpaconsole/pkg/logger"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitHTTPStatus = 2
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// app is the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	origin string
	base   string
	output string

	cfg    *config.Config
	client *client.Client
	log    logger.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "rpactl",
		Short:         "Command-line client for the RPA AI backend",
		Long:          `rpactl parses, saves and runs browser automation tasks and reads execution logs through the console API.`,
		Version:       "0.1.0",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.origin, "origin", "", "console origin (default from config, http://localhost:5173)")
	root.PersistentFlags().StringVar(&a.base, "base", "", "API base path (default from config, /api)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", OutputText, "output format: text or json")

	root.AddCommand(
		a.parseCmd(),
		a.saveCmd(),
		a.getCmd(),
		a.healthCmd(),
		a.askCmd(),
		a.pingCmd(),
		a.execCmd(),
		a.stepsCmd(),
		a.closeCmd(),
		a.logsCmd(),
		a.statsCmd(),
		a.kgCmd(),
		a.probeCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the client.
func (a *app) setup(ctx context.Context) error {
	if a.output != OutputText && a.output != OutputJSON {
		return fmt.Errorf("%w: %q", ErrOutputFormat, a.output)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if a.origin != "" {
		cfg.Origin = a.origin
	}
	if a.base != "" {
		cfg.APIBase = a.base
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.InitWith(a.stderr, cfg.LogFormat); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	a.log = logger.Named("rpactl")

	a.client, err = client.New(
		client.WithBaseURL(cfg.APIURL()),
		client.WithDefaultLimit(cfg.DefaultLimit),
		client.WithLogger(a.log),
	)
	return err
}

// Execute runs rpactl with the process arguments and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
		return exitCode(err)
	}
	return ExitOK
}

func exitCode(err error) int {
	if errors.Is(err, client.ErrHTTPStatus) {
		return ExitHTTPStatus
	}
	return ExitError
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
