// Package logging builds the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/gelf"
)

const serviceName = "rail-portal"

// New returns the root logger and a closer for any network sinks. A broken
// GELF address downgrades to stderr-only logging with a warning.
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer) {
	return build(cfg, os.Stderr)
}

func build(cfg config.LogConfig, out io.Writer) (zerolog.Logger, io.Closer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var base io.Writer = out
	if strings.EqualFold(cfg.Format, "console") {
		base = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	var closer io.Closer = nopCloser{}
	var gelfErr error
	writer := base
	if cfg.GelfAddr != "" {
		gw, err := gelf.New(cfg.GelfAddr, serviceName)
		if err != nil {
			gelfErr = err
		} else {
			writer = zerolog.MultiLevelWriter(base, gw)
			closer = gw
		}
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Str("service", serviceName).Logger()
	if gelfErr != nil {
		logger.Warn().Err(gelfErr).Str("addr", cfg.GelfAddr).Msg("gelf init failed, logging to stderr only")
	} else if cfg.GelfAddr != "" {
		logger.Info().Str("addr", cfg.GelfAddr).Msg("gelf logging enabled")
	}
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
