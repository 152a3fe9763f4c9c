// Package logging configures the process-wide zerolog logger.
//
// The terminal belongs to the animation renderer, so log records go to a
// file under the XDG state directory. A console writer on stderr is added
// only at debug verbosity and above.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const appName = "crabcrust"

func init() {
	// Silent until Setup runs, so library code and tests never write to
	// the terminal by accident.
	log.Logger = zerolog.Nop()
}

// Setup configures the global logger based on verbosity level and returns
// the log file path it settled on ("" when the file could not be opened).
func Setup(verbosity int) string {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	var writers []io.Writer
	if verbosity >= 2 {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}

	logFile := FilePath()
	fh, err := openLogFile(logFile)
	if err == nil {
		writers = append(writers, fh)
	} else {
		logFile = ""
	}

	if len(writers) == 0 {
		log.Logger = zerolog.Nop()
		return logFile
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if verbosity >= 3 {
		log.Logger = log.Logger.With().Caller().Logger()
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to open log file, logging to console only")
	}

	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("logger initialized")
	return logFile
}

// SetOutput routes all records to w at the given level. Tests use it to
// capture log output.
func SetOutput(w io.Writer, level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// For returns a logger tagged with the component name.
func For(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// FilePath respects XDG_STATE_HOME and falls back to ~/.local/state.
func FilePath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
