// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/netascode/go-unifi"
	"github.com/rs/zerolog"
)

// zerologAdapter implements unifi.Logger on top of zerolog
type zerologAdapter struct {
	logger zerolog.Logger
}

var _ unifi.Logger = (*zerologAdapter)(nil)

// newLogger returns a console logger writing to w at the given level.
// An empty level means warn.
func newLogger(w io.Writer, level string) (*zerologAdapter, error) {
	if level == "" {
		level = zerolog.LevelWarnValue
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: noColor(w)}
	return &zerologAdapter{
		logger: zerolog.New(out).Level(lvl).With().Timestamp().Logger(),
	}, nil
}

func (z *zerologAdapter) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	z.logger.Debug().Ctx(ctx).Fields(keysAndValues).Msg(msg)
}

func (z *zerologAdapter) Info(ctx context.Context, msg string, keysAndValues ...any) {
	z.logger.Info().Ctx(ctx).Fields(keysAndValues).Msg(msg)
}

func (z *zerologAdapter) Warn(ctx context.Context, msg string, keysAndValues ...any) {
	z.logger.Warn().Ctx(ctx).Fields(keysAndValues).Msg(msg)
}

func (z *zerologAdapter) Error(ctx context.Context, msg string, keysAndValues ...any) {
	z.logger.Error().Ctx(ctx).Fields(keysAndValues).Msg(msg)
}
