// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/netascode/go-unifi"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.1.0"
}

// withSession resolves the config, opens a session and runs fn with it
func (o *options) withSession(cmd *cobra.Command, requireCredentials bool, fn func(*session) error) error {
	cfg, file, err := o.resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, file, cmd.ErrOrStderr(), requireCredentials)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}

// newLoginCmd creates the login command
func newLoginCmd(opts *options) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Log in to the controller and store the session for later commands.
A stored session is reused and verified; if the controller rejects it, a
fresh login is made.

With --save the connection settings (without the password) are written to
the config file.

Example:
  UNIFICTL_PASSWORD=secret unifictl login --url https://192.168.1.1 -u admin --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, true, func(s *session) error {
				ctx := cmd.Context()
				if err := s.client.Login(ctx); err != nil {
					return err
				}
				// Verifies an adopted session; a 401 triggers a fresh login.
				if _, err := s.client.Self(ctx); err != nil {
					return err
				}
				if save {
					if err := saveConnection(s.configFile, s.cfg); err != nil {
						return err
					}
				}
				printOK(cmd.OutOrStdout(), "Logged in to %s (site: %s, gateway-OS: %t)",
					s.client.BaseURL, s.client.Site(), s.client.IsGatewayOS())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the connection settings to the config file")
	return cmd
}

// newLogoutCmd creates the logout command
func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, false, func(s *session) error {
				ctx := cmd.Context()
				stored, err := s.store.Load(ctx)
				if err != nil {
					return err
				}
				if stored == nil {
					printOK(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				if err := s.client.Login(ctx); err != nil {
					return err
				}
				if err := s.client.Logout(ctx); err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Logged out of %s", s.client.BaseURL)
				return nil
			})
		},
	}
}

// newExecCmd creates the exec command
func newExecCmd(opts *options) *cobra.Command {
	var data string
	var raw bool

	cmd := &cobra.Command{
		Use:   "exec METHOD PATH",
		Short: "Run an API call",
		Long: `Run an API call against the controller and print the result.

PATH is relative to the Network application; on UniFi OS consoles it is
sent under /proxy/network automatically. A payload on GET or DELETE is sent
as POST. Use -d @file to read the payload from a file.

Examples:
  unifictl exec GET /api/s/default/stat/health
  unifictl exec GET /v2/api/site/default/trafficrules
  unifictl exec PUT /api/s/default/rest/wlanconf/ID -d @wlan.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(data)
			if err != nil {
				return err
			}
			return opts.withSession(cmd, true, func(s *session) error {
				ctx := cmd.Context()
				if err := s.client.Login(ctx); err != nil {
					return err
				}
				res, err := s.client.Exec(ctx, args[0], args[1], payload)
				if err != nil {
					return err
				}
				if raw {
					printRaw(cmd.OutOrStdout(), res.Raw)
				} else {
					printRaw(cmd.OutOrStdout(), res.JSON())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload, or @file to read it from a file")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the whole response body instead of the payload")
	return cmd
}

// readPayload returns the payload given by -d
func readPayload(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}
	var payload []byte
	if file, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("unable to read payload file: %w", err)
		}
		payload = b
	} else {
		payload = []byte(data)
	}
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return payload, nil
}

// newStatusCmd creates the status command
func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show controller status (no login needed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, false, func(s *session) error {
				res, err := s.client.Status(cmd.Context())
				if err != nil {
					return err
				}
				meta := gjson.Get(res.Raw, "meta")
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"url":            s.client.BaseURL,
					"up":             meta.Get("up").Bool(),
					"server_version": meta.Get("server_version").String(),
					"uuid":           meta.Get("uuid").String(),
				})
			})
		},
	}
}

// siteSummary is the output row of the sites command
type siteSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Role        string `json:"role,omitempty"`
}

// newSitesCmd creates the sites command
func newSitesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the sites visible to the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, true, func(s *session) error {
				ctx := cmd.Context()
				if err := s.client.Login(ctx); err != nil {
					return err
				}
				res, err := s.client.Sites(ctx)
				if err != nil {
					return err
				}
				sites := make([]siteSummary, 0, len(res.Items()))
				for _, item := range res.Items() {
					sites = append(sites, siteSummary{
						Name:        item.Get("name").String(),
						Description: item.Get("desc").String(),
						Role:        item.Get("role").String(),
					})
				}
				return printJSON(cmd.OutOrStdout(), sites)
			})
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of unifictl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := opts.configFile
			if configPath == "" {
				var err error
				if configPath, err = GetDefaultConfigPath(); err != nil {
					configPath = "unknown"
				}
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"version":            getCLIVersion(),
				"controller_version": unifi.DefaultControllerVersion,
				"config_file":        configPath,
			})
		},
	}
}
