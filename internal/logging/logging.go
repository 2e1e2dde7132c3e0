// Package logging configures the process-wide zerolog logger for the
// dockhand CLI.
//
// Output goes to two sinks: a human-readable console writer on stderr
// (colorized only when stderr is a terminal) and an append-mode log file
// under the XDG state directory, so a failed installation leaves a full
// trace behind even when the console was run at low verbosity.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger based on the verbosity level.
// logPath overrides the default log file location; pass "" to use the
// XDG state directory. A log file that cannot be opened downgrades to
// console-only logging with a warning rather than failing the command.
func Setup(verbosity int, logPath string) {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(os.Stderr),
	}

	writers := []io.Writer{consoleWriter}

	if logPath == "" {
		logPath = defaultLogPath()
	}
	logFile, err := openLogFile(logPath)
	if err == nil {
		writers = append(writers, logFile)
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()

	// The warning has to wait until the new logger exists.
	if err != nil {
		log.Warn().Err(err).Str("path", logPath).Msg("Failed to open log file, logging to console only")
	}

	// Caller information is only worth the noise when debugging.
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Str("logFile", logPath).Msg("Logger initialized")
}

// GetLogger returns a contextualized logger with the given component name.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogCommand logs an external command invocation with its arguments.
func LogCommand(cmd string, args []string) {
	log.Debug().
		Str("command", cmd).
		Strs("args", args).
		Msg("Executing command")
}

// levelFor maps the CLI -v count onto a zerolog level.
func levelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// isTerminal reports whether the file is attached to an interactive
// terminal, including the Cygwin/MSYS pty case on Windows.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// defaultLogPath resolves the log file location under the XDG state
// directory (~/.local/state/dockhand/dockhand.log on Linux). Falls back
// to the working directory if the state home cannot be prepared.
func defaultLogPath() string {
	path, err := xdg.StateFile(filepath.Join("dockhand", "dockhand.log"))
	if err != nil {
		return "dockhand.log"
	}
	return path
}

// openLogFile creates the log file's parent directories and opens it in
// append mode.
func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
