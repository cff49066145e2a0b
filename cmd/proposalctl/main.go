// Command proposalctl lists, creates and votes on proposals from the terminal.
// It talks to the backend directly with the same client, wire transcoding and
// form validation the gateway uses.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/proposal-desk/casing"
	"github.com/danielhkuo/proposal-desk/client"
	"github.com/danielhkuo/proposal-desk/cliparse"
)

const (
	Version = "0.1.0"
	appName = "proposalctl"
)

func main() {
	if err := rootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the resolved settings and client shared by every subcommand.
type app struct {
	apiURL   string
	wireCase string
	timeout  time.Duration
	logLevel string
	envFile  string

	now func() time.Time
	api *client.Client
}

func newApp() *app {
	return &app{now: time.Now}
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Browse and vote on proposals",
		Long: `proposalctl talks to the proposals backend.

Settings fall back to the environment (and a .env file) when a flag is not
given: API_BASE_URL, WIRE_CASE, REQUEST_TIMEOUT and LOG_LEVEL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.apiURL, "api", "", "Backend API base URL")
	flags.StringVar(&a.wireCase, "wire-case", string(casing.Snake), "Backend key convention (snake, kebab, pascal)")
	flags.DurationVar(&a.timeout, "timeout", cliparse.DefaultTimeout, "Backend request timeout")
	flags.StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.envFile, "env-file", cliparse.DefaultEnvFile, "Environment file to load")

	cmd.AddCommand(
		listCmd(a),
		showCmd(a),
		createCmd(a),
		voteCmd(a),
		votesCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

// setup resolves flags against the environment, flags winning, and builds
// the API client.
func (a *app) setup(cmd *cobra.Command) error {
	if err := cliparse.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("api") {
		if v := os.Getenv("API_BASE_URL"); v != "" {
			a.apiURL = v
		}
	}
	if a.apiURL == "" {
		return errors.New("API base URL required (use --api or API_BASE_URL env)")
	}
	if !flags.Changed("wire-case") {
		if v := os.Getenv("WIRE_CASE"); v != "" {
			a.wireCase = v
		}
	}
	if !flags.Changed("timeout") {
		if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return fmt.Errorf("invalid REQUEST_TIMEOUT %q", v)
			}
			a.timeout = d
		}
	}
	if !flags.Changed("log-level") {
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			a.logLevel = v
		}
	}

	level, err := cliparse.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	codec, err := casing.Lookup(a.wireCase)
	if err != nil {
		return err
	}

	a.api = client.New(a.apiURL,
		client.WithTimeout(a.timeout),
		client.WithConvention(codec),
		client.WithLogger(logger),
	)
	return nil
}
