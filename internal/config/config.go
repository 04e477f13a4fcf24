// Package config provides configuration types, constants, and utilities for rhinorun.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// --- RhinorunConfig ---

// RhinorunConfig represents the rhinorun configuration model.
// All fields are optional (zero value = not set). CLI flags take precedence.
type RhinorunConfig struct {
	// InstallPaths is a ';'-delimited list of Rhino installation directories
	// searched before the platform default.
	InstallPaths string `yaml:"installPaths,omitempty"`

	// Timeout bounds every rhinocode invocation (Go duration, e.g. "30s").
	Timeout string `yaml:"timeout,omitempty"`

	// Display controls how running instances are labeled in the picker.
	Display DisplayConfig `yaml:"display,omitempty"`
}

// DisplayConfig holds the instance label toggles. Pointers distinguish
// "unset" from false so project files can override global ones.
type DisplayConfig struct {
	ShowDocumentTitle  *bool `yaml:"showDocumentTitle,omitempty"`
	ShowDocumentPath   *bool `yaml:"showDocumentPath,omitempty"`
	ShowActiveViewport *bool `yaml:"showActiveViewport,omitempty"`
	ShowProcessID      *bool `yaml:"showProcessId,omitempty"`
	ShowProcessAge     *bool `yaml:"showProcessAge,omitempty"`
	ShowFullVersion    *bool `yaml:"showFullVersion,omitempty"`
}

// --- Helper binary ---

const (
	// HelperName is the rhinocode helper executable name without extension.
	HelperName = "rhinocode"
	// MinimumHelperVersion is the oldest rhinocode release that supports
	// "list --json" and "--rhino <pipe> script".
	MinimumHelperVersion = "0.2.0"
	// HelperCommandTimeout is the default timeout for one rhinocode invocation.
	HelperCommandTimeout = 30 * time.Second
)

// --- Display defaults ---

const (
	DefaultShowDocumentTitle  = true
	DefaultShowDocumentPath   = false
	DefaultShowActiveViewport = false
	DefaultShowProcessID      = false
	DefaultShowProcessAge     = true
	DefaultShowFullVersion    = false
)

// --- Environment variables ---

// Env holds all rhinorun environment variable names as constants.
var Env = struct {
	Paths   string
	Timeout string
}{
	Paths:   "RHINORUN_PATHS",
	Timeout: "RHINORUN_TIMEOUT",
}

// PathListSeparator separates entries of InstallPaths on every platform.
const PathListSeparator = ";"

// SplitPaths splits a ';'-delimited directory list. Entries are trimmed of
// surrounding whitespace but otherwise kept as written, including blanks and
// duplicates; the resolver decides what is usable.
func SplitPaths(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, PathListSeparator)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		result = append(result, strings.TrimSpace(p))
	}
	return result
}

// ParseTimeout parses a duration setting. Empty means HelperCommandTimeout.
func ParseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return HelperCommandTimeout, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", value)
	}
	return d, nil
}

// ApplyEnv overlays environment variable overrides onto cfg.
func ApplyEnv(cfg RhinorunConfig) RhinorunConfig {
	if v := os.Getenv(Env.Paths); v != "" {
		cfg.InstallPaths = v
	}
	if v := os.Getenv(Env.Timeout); v != "" {
		cfg.Timeout = v
	}
	return cfg
}

// BoolOr dereferences a *bool, returning def if nil.
func BoolOr(ptr *bool, def bool) bool {
	if ptr == nil {
		return def
	}
	return *ptr
}
