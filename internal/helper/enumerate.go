package helper

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/sungur/rhinorun/internal/log"
)

// instanceRecord is the wire shape of one "rhinocode list --json" entry.
// Pointers mark fields whose absence must be detected.
type instanceRecord struct {
	ProcessID      *int   `json:"processId"`
	PipeID         string `json:"pipeId"`
	ProcessName    string `json:"processName"`
	ProcessVersion string `json:"processVersion"`
	ProcessAge     *int   `json:"processAge"`
	ActiveDoc      *struct {
		Title    string `json:"title"`
		Location string `json:"location"`
	} `json:"activeDoc"`
	ActiveViewport string `json:"activeViewport"`
}

// ParseInstances decodes "rhinocode list --json" output. The result is
// sorted by process id, ascending. An empty array yields ErrNoInstances;
// anything that is not an array of well-formed records is an error.
func ParseInstances(data []byte) ([]Instance, error) {
	data = bytes.TrimSpace(data)

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("expected a JSON array of instances: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("expected a JSON array of instances, got %q", data)
	}
	if len(raw) == 0 {
		return nil, ErrNoInstances
	}

	instances := make([]Instance, 0, len(raw))
	seen := make(map[int]bool, len(raw))
	for i, msg := range raw {
		var rec instanceRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		inst, err := rec.toInstance()
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		if seen[inst.ProcessID] {
			return nil, fmt.Errorf("instance %d: duplicate processId %d", i, inst.ProcessID)
		}
		seen[inst.ProcessID] = true
		instances = append(instances, inst)
	}

	slices.SortStableFunc(instances, func(a, b Instance) int {
		return cmp.Compare(a.ProcessID, b.ProcessID)
	})
	return instances, nil
}

func (rec instanceRecord) toInstance() (Instance, error) {
	if rec.ProcessID == nil {
		return Instance{}, fmt.Errorf("missing processId")
	}
	if *rec.ProcessID <= 0 {
		return Instance{}, fmt.Errorf("invalid processId %d", *rec.ProcessID)
	}
	if rec.PipeID == "" {
		return Instance{}, fmt.Errorf("missing pipeId")
	}
	age := 0
	if rec.ProcessAge != nil {
		if *rec.ProcessAge < 0 {
			return Instance{}, fmt.Errorf("negative processAge %d", *rec.ProcessAge)
		}
		age = *rec.ProcessAge
	}

	inst := Instance{
		ProcessID:      *rec.ProcessID,
		PipeID:         rec.PipeID,
		ProcessName:    rec.ProcessName,
		ProcessVersion: rec.ProcessVersion,
		ProcessAge:     age,
		AgeUnknown:     rec.ProcessAge == nil,
		ActiveViewport: rec.ActiveViewport,
	}
	if rec.ActiveDoc != nil {
		inst.Document = Document{Title: rec.ActiveDoc.Title, Location: rec.ActiveDoc.Location}
	}
	return inst, nil
}

// Enumerate lists the running Rhino instances through the helper at binary.
//
// It returns ErrNoInstances when the helper answers with an empty list, and
// a *QueryError when the helper fails or answers with malformed data. The
// returned slice is never empty.
func Enumerate(ctx context.Context, runner Runner, binary string) ([]Instance, error) {
	args := []string{"list", "--json"}
	cmdLine := CommandLine(binary, args...)

	out, err := runner.Run(ctx, binary, args...)
	if err != nil {
		log.Debugf("Instance query failed: %s: %v", cmdLine, err)
		return nil, &QueryError{Stage: StageList, Reason: classify(err), CommandLine: cmdLine, Err: err}
	}
	if out.ExitCode != 0 {
		log.Debugf("Instance query exited %d: %s: %s", out.ExitCode, cmdLine, stderrSnippet(out.Stderr))
		return nil, &QueryError{
			Stage: StageList, Reason: ReasonFailed, CommandLine: cmdLine,
			ExitCode: out.ExitCode, Stderr: out.Stderr,
		}
	}

	instances, err := ParseInstances([]byte(out.Stdout))
	if errors.Is(err, ErrNoInstances) {
		log.Debug("rhinocode reports no running instances")
		return nil, err
	}
	if err != nil {
		log.Debugf("Instance query returned malformed data: %v", err)
		return nil, &QueryError{Stage: StageList, Reason: ReasonMalformed, CommandLine: cmdLine, Err: err}
	}

	log.Debugf("rhinocode reports %d running instance(s)", len(instances))
	return instances, nil
}
