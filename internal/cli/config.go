// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// DefaultSessionFile is the session database created next to the config file
const DefaultSessionFile = "sessions.db"

// PasswordEnv overrides the configured password
const PasswordEnv = "UNIFICTL_PASSWORD"

// Config holds the controller connection settings of the CLI
type Config struct {
	// URL is the controller base URL, e.g. https://192.168.1.1
	URL string `yaml:"url"`
	// Username and Password are the controller admin credentials
	Username string `yaml:"username"`
	Password string `yaml:"password,omitempty"`
	// Site is the site used by site-scoped commands
	Site string `yaml:"site,omitempty"`
	// ControllerVersion is the Network application version
	ControllerVersion string `yaml:"controller_version,omitempty"`
	// VerifyCertificate defaults to true when unset
	VerifyCertificate *bool `yaml:"verify_certificate,omitempty"`
	// GatewayOS pins the controller variant; unset means probe
	GatewayOS *bool `yaml:"gateway_os,omitempty"`
	// Timeout bounds a single HTTP exchange, e.g. "30s"
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// LogLevel is one of debug, info, warn, error (default: warn)
	LogLevel string `yaml:"log_level,omitempty"`
	// SessionFile is the bbolt session database; relative paths are
	// resolved against the config directory
	SessionFile string `yaml:"session_file,omitempty"`
}

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/unifictl on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "unifictl", DefaultConfigFile), nil
}

// LoadConfig reads the configuration from file. A missing file yields an
// empty configuration so that everything can come from flags.
func LoadConfig(file string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}
	return cfg, nil
}

// WriteConfig writes the configuration to file, creating its directory
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}
	if err := os.WriteFile(file, data, 0o600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// saveConnection writes the connection settings of cfg into file, keeping
// everything else the file holds. A password given on the command line or
// through the environment is never written.
func saveConnection(file string, cfg *Config) error {
	saved, err := LoadConfig(file)
	if err != nil {
		return err
	}
	saved.URL = cfg.URL
	saved.Username = cfg.Username
	saved.Site = cfg.Site
	saved.VerifyCertificate = cfg.VerifyCertificate
	return saved.WriteConfig(file)
}

// applyOverrides layers the environment and explicitly set flags over cfg
func (cfg *Config) applyOverrides(flags *pflag.FlagSet) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		cfg.Password = pw
	}

	if flags.Changed("url") {
		cfg.URL, _ = flags.GetString("url")
	}
	if flags.Changed("username") {
		cfg.Username, _ = flags.GetString("username")
	}
	if flags.Changed("password") {
		cfg.Password, _ = flags.GetString("password")
	}
	if flags.Changed("site") {
		cfg.Site, _ = flags.GetString("site")
	}
	if flags.Changed("insecure") {
		insecure, _ := flags.GetBool("insecure")
		verify := !insecure
		cfg.VerifyCertificate = &verify
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
}

// Validate checks the fields a controller command needs. Credentials are
// optional for commands that only use public endpoints. A stored session
// stands in for the password; if the controller rejects it, the fresh login
// fails instead.
func (cfg *Config) Validate(requireCredentials, haveSession bool) error {
	if strings.TrimSpace(cfg.URL) == "" {
		return errors.New("controller URL is required (set url in the config file or use --url)")
	}
	if !requireCredentials {
		return nil
	}
	if cfg.Username == "" {
		return errors.New("username is required (set username in the config file or use --username)")
	}
	if cfg.Password == "" && !haveSession {
		return fmt.Errorf("password is required when no session is stored (set it with --password or %s)", PasswordEnv)
	}
	return nil
}

// sessionPath resolves the session database location for configFile
func (cfg *Config) sessionPath(configFile string) string {
	if cfg.SessionFile == "" {
		return filepath.Join(filepath.Dir(configFile), DefaultSessionFile)
	}
	if filepath.IsAbs(cfg.SessionFile) {
		return cfg.SessionFile
	}
	return filepath.Join(filepath.Dir(configFile), cfg.SessionFile)
}

// sessionKey identifies the session of this user on this controller
func (cfg *Config) sessionKey() string {
	return cfg.Username + "@" + strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
}
