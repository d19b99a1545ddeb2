// Package logs builds the process-wide structured logger from configuration.
package logs

import (
	"log/slog"
	"os"
	"strings"

	"tokenpath/config"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the parameters required for the logger
type Params struct {
	fx.In

	Config *config.Config
}

// New creates the slog.Logger every component receives through fx.
// JSON output in deployment, text when pretty logging is enabled locally.
func New(params Params) (*slog.Logger, error) {
	level, err := parseLogLevel(params.Config.Env.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if params.Config.Env.Log.Pretty {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	if name := params.Config.Env.ServiceName; name != "" {
		logger = logger.With(slog.String("service", name))
	}

	return logger, nil
}

// parseLogLevel converts string log level to slog.Level. An empty level
// means info; anything unrecognized is a configuration error.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}
