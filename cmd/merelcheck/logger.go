package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"pkt.systems/pslog"
)

// logSettings is the parsed form of the persistent logging flags.
type logSettings struct {
	structured bool
	caller     bool
	level      string
	// levelSet is true when --log-level was given explicitly; it then wins
	// over LOG_LEVEL.
	levelSet bool
}

func addLoggingFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "info", "Log level (trace|debug|info|warn|error)")
	flags.Bool("structured", false, "Emit structured JSON logs")
	flags.Bool("log-caller", false, "Include caller function name on each log line")
}

func logSettingsFromFlags(flags *pflag.FlagSet) logSettings {
	var s logSettings
	s.structured, _ = flags.GetBool("structured")
	s.caller, _ = flags.GetBool("log-caller")
	s.level, _ = flags.GetString("log-level")
	s.levelSet = flags.Changed("log-level")
	return s
}

// build returns a logger writing to w. Precedence: --log-level, LOG_LEVEL,
// then the flag default.
func (s logSettings) build(w io.Writer) (pslog.Logger, error) {
	if w == nil {
		w = os.Stdout
	}
	opts := pslog.Options{CallerKeyval: s.caller}
	if s.structured {
		opts.Mode = pslog.ModeStructured
	}
	logger := pslog.NewWithOptions(w, opts).LogLevel(pslog.InfoLevel)

	if s.levelSet {
		lvl, ok := pslog.ParseLevel(s.level)
		if !ok {
			return nil, fmt.Errorf("unknown level %q", s.level)
		}
		return logger.LogLevel(lvl), nil
	}
	if lvl, ok := pslog.LevelFromEnv("LOG_LEVEL"); ok {
		return logger.LogLevel(lvl), nil
	}
	if lvl, ok := pslog.ParseLevel(s.level); ok {
		return logger.LogLevel(lvl), nil
	}
	return logger, nil
}

// loggerFromCmd returns the logger stored by the root pre-run hook, or an
// info-level console logger when the command never went through it.
func loggerFromCmd(cmd *cobra.Command) pslog.Logger {
	if ctx := cmd.Context(); ctx != nil {
		if logger := pslog.LoggerFromContext(ctx); logger != nil {
			return logger
		}
	}
	return pslog.NewWithOptions(cmd.OutOrStdout(), pslog.Options{MinLevel: pslog.InfoLevel})
}
