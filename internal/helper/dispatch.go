package helper

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sungur/rhinorun/internal/log"
)

// ScriptArgs returns the helper arguments that run script in the instance
// addressed by pipeID. The script path is a single argument; no shell is
// involved, so spaces need no escaping.
func ScriptArgs(pipeID, script string) []string {
	return []string{"--rhino", pipeID, "script", script}
}

// Dispatch asks the instance to run the script at the absolute path script.
// Output is ignored; any failure to run, a non-zero exit or a timeout is
// returned as a *DispatchError. An instance that exited since it was listed
// fails the same way.
func Dispatch(ctx context.Context, runner Runner, binary string, inst Instance, script string) error {
	args := ScriptArgs(inst.PipeID, script)
	cmdLine := CommandLine(binary, args...)

	if !filepath.IsAbs(script) {
		log.Debugf("Refusing to dispatch relative script path: %s", cmdLine)
		return &DispatchError{CommandLine: cmdLine, Err: fmt.Errorf("script path %q is not absolute", script)}
	}

	log.Debugf("Dispatching to pid %d (pipe %s)", inst.ProcessID, inst.PipeID)
	out, err := runner.Run(ctx, binary, args...)
	if err != nil {
		log.Debugf("Dispatch failed: %s: %v", cmdLine, err)
		return &DispatchError{CommandLine: cmdLine, Err: err}
	}
	if out.ExitCode != 0 {
		log.Debugf("Dispatch exited %d: %s: %s", out.ExitCode, cmdLine, stderrSnippet(out.Stderr))
		return &DispatchError{CommandLine: cmdLine, ExitCode: out.ExitCode, Stderr: out.Stderr}
	}
	return nil
}
