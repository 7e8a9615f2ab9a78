// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package cli implements the unifictl command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ErrAlreadyHandled marks an error that was already reported to the user
var ErrAlreadyHandled = errors.New("already handled")

// options holds the persistent flags shared by all commands
type options struct {
	configFile string
}

// NewRootCmd builds the unifictl command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "unifictl [command] [flags]",
		Short: "unifictl - a command line client for UniFi Network controllers",
		Long: `unifictl talks to a UniFi Network controller, either a self-hosted
Network application or a UniFi OS console. It logs in once and keeps the
session in a local database so consecutive invocations reuse it.

Examples:
  # Log in and verify the session
  unifictl login --url https://192.168.1.1 --username admin

  # List sites
  unifictl sites

  # Run any API call
  unifictl exec GET /api/s/default/stat/device
  unifictl exec POST /api/s/default/cmd/devmgr -d '{"cmd":"restart","mac":"aa:bb:cc:dd:ee:ff"}'`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to configuration file to override default")
	flags.String("url", "", "Controller base URL")
	flags.StringP("username", "u", "", "Controller username")
	flags.String("password", "", "Controller password (prefer "+PasswordEnv+")")
	flags.StringP("site", "s", "", "Site name")
	flags.BoolP("insecure", "k", false, "Skip TLS certificate verification")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newExecCmd(opts),
		newStatusCmd(opts),
		newSitesCmd(opts),
		newVersionCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command and exits on failure.
// This is called by main.main().
func Execute() {
	err := NewRootCmd().ExecuteContext(context.Background())
	if err != nil {
		if !errors.Is(err, ErrAlreadyHandled) {
			_, _ = errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// resolveConfig loads the config file and applies flag overrides
func (o *options) resolveConfig(cmd *cobra.Command) (*Config, string, error) {
	file := o.configFile
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
	}

	cfg, err := LoadConfig(file)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", file, err)
	}
	cfg.applyOverrides(cmd.Flags())
	return cfg, file, nil
}
