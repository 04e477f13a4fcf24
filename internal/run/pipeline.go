// Package run drives the pipeline that sends one script to one running Rhino:
// resolve the helper, list instances, choose one, dispatch.
package run

import (
	"context"
	"errors"
	"fmt"

	"github.com/sungur/rhinorun/internal/helper"
	"github.com/sungur/rhinorun/internal/log"
	"github.com/sungur/rhinorun/internal/platform"
)

// SelectionPrompt is shown above the instance list.
const SelectionPrompt = "Select a Rhino instance"

// Picker asks the user to choose one of several labeled options and returns
// the chosen index. It returns ErrPickCancelled when the user dismisses the
// prompt.
type Picker interface {
	Pick(ctx context.Context, prompt string, labels []string) (int, error)
}

var (
	// ErrPickCancelled is returned by a Picker when nothing was chosen.
	ErrPickCancelled = errors.New("selection cancelled")
	// ErrNoPicker reports several instances with no way to ask the user.
	ErrNoPicker = errors.New("several Rhino instances are running and no interactive terminal is available")
)

// UnknownPIDError reports a requested process id that is not running.
type UnknownPIDError struct {
	PID int
}

func (e *UnknownPIDError) Error() string {
	return fmt.Sprintf("no running Rhino instance has process id %d", e.PID)
}

// Options configures one pipeline run.
type Options struct {
	// Paths are user-configured Rhino installation directories.
	Paths []string
	// Defaults are the platform defaults, computed by the caller.
	Defaults platform.Defaults
	// MinVersion is the oldest acceptable rhinocode version.
	MinVersion string
	// Display controls instance labels.
	Display helper.DisplayOptions
	// Script is the absolute path of the script to send.
	Script string
	// Runner executes rhinocode.
	Runner helper.Runner
	// Picker chooses among several instances. Nil means non-interactive.
	Picker Picker
	// PreselectPID, when non-zero, picks the instance with that process id
	// without prompting.
	PreselectPID int
}

// Result is the outcome of a pipeline run.
type Result struct {
	// State is the state the pipeline stopped in.
	State State
	// Trace lists every state visited, in order.
	Trace []State
	// Binary is the resolved helper, when one was found.
	Binary *helper.Binary
	// Instances is the listing the choice was made from.
	Instances []helper.Instance
	// Instance is the chosen instance, when one was chosen.
	Instance *helper.Instance
	// Script is the script path the run was asked to send.
	Script string
	// Err carries the failure for error states. It is never shown verbatim.
	Err error
}

// OK reports whether the run ended without a failure. A cancelled selection
// is not a failure.
func (r *Result) OK() bool {
	return r.State == Dispatched || r.State == Cancelled
}

func (r *Result) enter(s State) {
	log.Debugf("state: %s", s)
	r.State = s
	r.Trace = append(r.Trace, s)
}

func (r *Result) finish(s State, err error) Result {
	if err != nil && errors.Is(err, context.Canceled) {
		s = Cancelled
	}
	if err != nil {
		log.Debugf("%s: %v", s, err)
	}
	r.enter(s)
	r.Err = err
	return *r
}

// Execute runs the whole pipeline once. Every outcome, including failures,
// is reported through the returned Result.
func Execute(ctx context.Context, opts Options) Result {
	res := Result{Script: opts.Script}
	res.enter(Idle)

	if !resolve(ctx, opts, &res) || !enumerate(ctx, opts, &res) {
		return res
	}

	inst, ok := choose(ctx, opts, &res)
	if !ok {
		return res
	}
	res.Instance = &inst

	res.enter(Dispatching)
	if err := helper.Dispatch(ctx, opts.Runner, res.Binary.Path, inst, opts.Script); err != nil {
		return res.finish(DispatchError, err)
	}
	return res.finish(Dispatched, nil)
}

// List resolves the helper and lists running instances, stopping before any
// selection. On success the Result ends in OneInstance or ManyInstances and
// the returned entries label every instance.
func List(ctx context.Context, opts Options) (helper.Entries, Result) {
	var res Result
	res.enter(Idle)

	if !resolve(ctx, opts, &res) || !enumerate(ctx, opts, &res) {
		return nil, res
	}
	if len(res.Instances) == 1 {
		res.enter(OneInstance)
	} else {
		res.enter(ManyInstances)
	}
	return helper.Labeler{Options: opts.Display}.Entries(res.Instances), res
}

// Resolve locates and version-checks the helper only. On success the Result
// stays in ResolvingBinary with Binary set; an incompatible helper ends in
// Incompatible with Binary still set.
func Resolve(ctx context.Context, opts Options) Result {
	var res Result
	res.enter(Idle)
	resolve(ctx, opts, &res)
	return res
}

func resolve(ctx context.Context, opts Options, res *Result) bool {
	res.enter(ResolvingBinary)
	resolver := &helper.Resolver{
		Paths:      opts.Paths,
		Defaults:   opts.Defaults,
		MinVersion: opts.MinVersion,
		Runner:     opts.Runner,
	}
	resolution, err := resolver.Resolve(ctx)
	if err != nil {
		var ce *helper.ConfigurationError
		if errors.As(err, &ce) {
			res.finish(NotFound, err)
		} else {
			res.finish(QueryError, err)
		}
		return false
	}

	res.Binary = resolution.Binary
	if err := res.Binary.CheckCompatible(); err != nil {
		res.finish(Incompatible, err)
		return false
	}
	return true
}

func enumerate(ctx context.Context, opts Options, res *Result) bool {
	res.enter(EnumeratingInstances)
	instances, err := helper.Enumerate(ctx, opts.Runner, res.Binary.Path)
	switch {
	case errors.Is(err, helper.ErrNoInstances):
		res.finish(EmptyResult, err)
		return false
	case err != nil:
		res.finish(QueryError, err)
		return false
	}
	res.Instances = instances
	return true
}

func choose(ctx context.Context, opts Options, res *Result) (helper.Instance, bool) {
	instances := res.Instances

	if len(instances) == 1 {
		res.enter(OneInstance)
		inst := instances[0]
		if opts.PreselectPID != 0 && opts.PreselectPID != inst.ProcessID {
			res.finish(SelectionFailed, &UnknownPIDError{PID: opts.PreselectPID})
			return helper.Instance{}, false
		}
		return inst, true
	}

	res.enter(ManyInstances)
	if opts.PreselectPID != 0 {
		for _, inst := range instances {
			if inst.ProcessID == opts.PreselectPID {
				return inst, true
			}
		}
		res.finish(SelectionFailed, &UnknownPIDError{PID: opts.PreselectPID})
		return helper.Instance{}, false
	}
	if opts.Picker == nil {
		res.finish(SelectionFailed, ErrNoPicker)
		return helper.Instance{}, false
	}

	entries := helper.Labeler{Options: opts.Display}.Entries(instances)
	res.enter(AwaitingSelection)
	idx, err := opts.Picker.Pick(ctx, SelectionPrompt, entries.Labels())
	switch {
	case errors.Is(err, ErrPickCancelled):
		res.finish(Cancelled, nil)
		return helper.Instance{}, false
	case err != nil:
		res.finish(SelectionFailed, err)
		return helper.Instance{}, false
	case idx < 0 || idx >= len(entries):
		res.finish(SelectionFailed, fmt.Errorf("picker returned index %d for %d options", idx, len(entries)))
		return helper.Instance{}, false
	}
	log.Debugf("Selected %q", entries[idx].Label)
	return entries[idx].Instance, true
}
