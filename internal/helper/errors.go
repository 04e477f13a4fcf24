package helper

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoInstances reports that rhinocode answered but no Rhino instance is
// running. It is an outcome, not a failure of the helper.
var ErrNoInstances = errors.New("no running Rhino instances")

// ErrTimeout marks an invocation that was killed because it exceeded the
// runner's timeout.
var ErrTimeout = errors.New("timed out")

// Skip records a candidate directory that did not yield a helper binary.
type Skip struct {
	Dir    string
	Reason string
}

// ConfigurationError reports that no candidate directory contains rhinocode.
type ConfigurationError struct {
	Candidates []string
	Skipped    []Skip
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rhinocode not found in %d candidate director%s",
		len(e.Candidates), plural(len(e.Candidates), "y", "ies"))
}

// CompatibilityError reports a helper older than the required version.
type CompatibilityError struct {
	Path     string
	Found    string
	Required string
}

func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("rhinocode %s at %s is older than the required %s", e.Found, e.Path, e.Required)
}

// QueryStage names the helper invocation a QueryError came from.
type QueryStage string

const (
	StageVersion QueryStage = "version"
	StageList    QueryStage = "list"
)

// QueryReason classifies a QueryError.
type QueryReason string

const (
	// ReasonFailed: the process could not be spawned or exited non-zero.
	ReasonFailed QueryReason = "failed"
	// ReasonTimeout: the process was killed after the runner timeout.
	ReasonTimeout QueryReason = "timeout"
	// ReasonMalformed: the process succeeded but its output was unusable.
	ReasonMalformed QueryReason = "malformed"
)

// QueryError reports a failed or unusable "--version" or "list" query.
type QueryError struct {
	Stage       QueryStage
	Reason      QueryReason
	CommandLine string
	ExitCode    int
	Stderr      string
	Err         error
}

func (e *QueryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rhinocode %s query %s", e.Stage, e.Reason)
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *QueryError) Unwrap() error { return e.Err }

// DispatchError reports a failed script execution request. CommandLine is
// kept for diagnostics only.
type DispatchError struct {
	CommandLine string
	ExitCode    int
	Stderr      string
	Err         error
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return "script dispatch failed: " + e.Err.Error()
	}
	return fmt.Sprintf("script dispatch failed (exit %d)", e.ExitCode)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// classify maps a runner error to a QueryReason.
func classify(err error) QueryReason {
	if errors.Is(err, ErrTimeout) {
		return ReasonTimeout
	}
	return ReasonFailed
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
