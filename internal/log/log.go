// Package log provides the leveled, styled output used by rhinorun.
//
// All rhinorun output goes through this package. User-facing messages are
// written at info level and above; everything the helper binary prints,
// every command line and every skipped candidate is written at debug level,
// which doubles as the diagnostic log and stays hidden unless --verbose.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// LogLevel controls the verbosity of log output.
type LogLevel int

const (
	// LevelDebug shows diagnostics (helper command lines, stderr, skipped paths).
	LevelDebug LogLevel = iota
	// LevelInfo is the default level.
	LevelInfo
	// LevelWarn shows only warnings and errors.
	LevelWarn
	// LevelError shows only errors.
	LevelError
	// LevelSilent suppresses all output.
	LevelSilent
)

type config struct {
	mu     sync.RWMutex
	level  LogLevel
	quiet  bool
	stdout io.Writer
	stderr io.Writer
}

var cfg = &config{
	level:  LevelInfo,
	stdout: os.Stdout,
	stderr: os.Stderr,
}

var (
	dimStyle    = lipgloss.NewStyle().Faint(true)
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// SetLevel sets the minimum log level. Messages below this level are suppressed.
func SetLevel(level LogLevel) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.level = level
}

// SetOutput redirects regular output to stdout and warnings/errors to stderr.
// A nil writer restores the corresponding process stream.
func SetOutput(stdout, stderr io.Writer) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	cfg.stdout = stdout
	cfg.stderr = stderr
}

// EnableQuietMode suppresses ALL output including errors.
// Only exit codes communicate success/failure.
func EnableQuietMode() {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.quiet = true
	cfg.level = LevelSilent
}

// DisableQuietMode restores normal output.
func DisableQuietMode() {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.quiet = false
	cfg.level = LevelInfo
}

func canOutput(level LogLevel) bool {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return !cfg.quiet && cfg.level <= level
}

func out() io.Writer {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.stdout
}

func errOut() io.Writer {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.stderr
}

// Debug writes a diagnostic message (dim styling, to stderr).
// Only shown when level <= LevelDebug.
func Debug(message string) {
	if canOutput(LevelDebug) {
		fmt.Fprintln(errOut(), dimStyle.Render(message))
	}
}

// Debugf writes a formatted diagnostic message.
func Debugf(format string, args ...any) {
	if canOutput(LevelDebug) {
		Debug(fmt.Sprintf(format, args...))
	}
}

// Info outputs an info-level message (no styling).
func Info(message string) {
	if canOutput(LevelInfo) {
		fmt.Fprintln(out(), message)
	}
}

// Infof outputs a formatted info-level message.
func Infof(format string, args ...any) {
	if canOutput(LevelInfo) {
		Info(fmt.Sprintf(format, args...))
	}
}

// Warn outputs a warning message (yellow, to stderr).
func Warn(message string) {
	if canOutput(LevelWarn) {
		fmt.Fprintln(errOut(), yellowStyle.Render(message))
	}
}

// Error outputs an error message (red, to stderr).
func Error(message string) {
	if canOutput(LevelError) {
		fmt.Fprintln(errOut(), redStyle.Render(message))
	}
}

// Success outputs a success message (green, info level).
func Success(message string) {
	if canOutput(LevelInfo) {
		fmt.Fprintln(out(), greenStyle.Render(message))
	}
}

// Dim outputs a subtle message (info level).
func Dim(message string) {
	if canOutput(LevelInfo) {
		fmt.Fprintln(out(), dimStyle.Render(message))
	}
}
