// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/netascode/go-unifi"
)

// session bundles a client with the store backing it
type session struct {
	client     *unifi.Client
	store      *unifi.BoltSessionStore
	cfg        *Config
	configFile string
}

// openSession builds a client from cfg with a bbolt session store next to
// the config file. Call close when done.
func openSession(ctx context.Context, cfg *Config, configFile string, logOut io.Writer, requireCredentials bool) (*session, error) {
	if err := cfg.Validate(false, false); err != nil {
		return nil, err
	}

	logger, err := newLogger(logOut, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	path := cfg.sessionPath(configFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("unable to create session directory: %w", err)
	}
	store, err := unifi.OpenBoltSessionStore(path, cfg.sessionKey())
	if err != nil {
		return nil, err
	}

	if requireCredentials {
		stored, err := store.Load(ctx)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		if err := cfg.Validate(true, stored != nil); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	opts := []func(*unifi.Client){
		unifi.Username(cfg.Username),
		unifi.Password(cfg.Password),
		unifi.WithSessionStore(store),
		unifi.WithLogger(logger),
	}
	if cfg.Site != "" {
		opts = append(opts, unifi.Site(cfg.Site))
	}
	if cfg.ControllerVersion != "" {
		opts = append(opts, unifi.ControllerVersion(cfg.ControllerVersion))
	}
	if cfg.VerifyCertificate != nil {
		opts = append(opts, unifi.VerifyCertificate(*cfg.VerifyCertificate))
	}
	if cfg.GatewayOS != nil {
		opts = append(opts, unifi.GatewayOS(*cfg.GatewayOS))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, unifi.RequestTimeout(cfg.Timeout))
	}

	client, err := unifi.NewClient(cfg.URL, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &session{client: client, store: store, cfg: cfg, configFile: configFile}, nil
}

func (s *session) close() {
	_ = s.store.Close()
}
