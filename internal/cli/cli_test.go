package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sungur/rhinorun/internal/helper"
	"github.com/sungur/rhinorun/internal/log"
	"github.com/sungur/rhinorun/internal/paths"
	"github.com/sungur/rhinorun/internal/platform"
	"github.com/sungur/rhinorun/internal/run"
)

const twoRhinos = `[
  {"processId": 102, "pipeId": "pipe-b", "processName": "Rhino 8", "processVersion": "8.5.1", "processAge": 60},
  {"processId": 101, "pipeId": "pipe-a", "processName": "Rhino 8", "processVersion": "8.5.1", "processAge": 0,
   "activeDoc": {"title": "bracket.3dm", "location": null}}
]`

const oneRhino = `[{"processId": 101, "pipeId": "pipe-a", "processName": "Rhino 8", "processVersion": "8.5.1"}]`

// fakeHelper answers rhinocode invocations and records dispatches.
type fakeHelper struct {
	version    string
	list       string
	dispatched []string
}

func (f *fakeHelper) Run(_ context.Context, _ string, args ...string) (*helper.Result, error) {
	switch {
	case len(args) == 1 && args[0] == "--version":
		return &helper.Result{Stdout: f.version}, nil
	case len(args) == 2 && args[0] == "list":
		return &helper.Result{Stdout: f.list}, nil
	case len(args) == 4 && args[0] == "--rhino":
		f.dispatched = append(f.dispatched, args[1]+" "+args[3])
		return &helper.Result{}, nil
	}
	return nil, errors.New("unexpected invocation")
}

type fixedPicker int

func (p fixedPicker) Pick(context.Context, string, []string) (int, error) {
	return int(p), nil
}

// cliEnv is an isolated environment for one CLI invocation.
type cliEnv struct {
	t       *testing.T
	home    string
	install string
	helper  *fakeHelper
	picker  run.Picker
	timeout time.Duration
}

func newCLIEnv(t *testing.T, list string) *cliEnv {
	t.Helper()
	e := &cliEnv{
		t:       t,
		home:    t.TempDir(),
		install: t.TempDir(),
		helper:  &fakeHelper{version: "0.2.0", list: list},
	}
	if err := os.WriteFile(filepath.Join(e.install, "rhinocode"), nil, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", e.home)
	t.Setenv("USERPROFILE", e.home)
	t.Setenv("RHINORUN_PATHS", "")
	t.Setenv("RHINORUN_TIMEOUT", "")

	prevRunner, prevPicker := newRunner, newPicker
	newRunner = func(timeout time.Duration) helper.Runner {
		e.timeout = timeout
		return e.helper
	}
	newPicker = func() run.Picker { return e.picker }
	t.Cleanup(func() {
		newRunner, newPicker = prevRunner, prevPicker
		log.SetOutput(nil, nil)
		log.DisableQuietMode()
	})
	return e
}

// script creates a script file and returns its path.
func (e *cliEnv) script(name string) string {
	e.t.Helper()
	path := filepath.Join(e.t.TempDir(), name)
	if err := os.WriteFile(path, []byte("print('hi')\n"), 0o644); err != nil {
		e.t.Fatal(err)
	}
	return path
}

// execute runs rhinorun with args and returns stdout, the log and the error.
func (e *cliEnv) execute(stdin string, args ...string) (string, string, error) {
	e.t.Helper()
	resetFlags(rootCmd)

	var stdout, logs bytes.Buffer
	log.SetOutput(&logs, &logs)
	log.DisableQuietMode()

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&logs)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return stdout.String(), logs.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func exitCodeOf(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestRunSingleInstance(t *testing.T) {
	e := newCLIEnv(t, oneRhino)
	script := e.script("my script.py")

	_, logs, err := e.execute("", "--paths", e.install, script)
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, logs)
	}
	if !strings.Contains(logs, "Sent my script.py to Rhino 8 (pid 101)") {
		t.Errorf("log = %q, want the success message", logs)
	}
	if diff := cmp.Diff([]string{"pipe-a " + script}, e.helper.dispatched); diff != "" {
		t.Errorf("dispatched mismatch (-want +got):\n%s", diff)
	}
	if e.timeout != 30*time.Second {
		t.Errorf("timeout = %s, want the 30s default", e.timeout)
	}
}

func TestRunManyInstances(t *testing.T) {
	t.Run("picker", func(t *testing.T) {
		e := newCLIEnv(t, twoRhinos)
		e.picker = fixedPicker(1)
		script := e.script("a.py")

		if _, logs, err := e.execute("", "--paths", e.install, script); err != nil {
			t.Fatalf("run error = %v\n%s", err, logs)
		}
		if diff := cmp.Diff([]string{"pipe-b " + script}, e.helper.dispatched); diff != "" {
			t.Errorf("dispatched mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pid flag", func(t *testing.T) {
		e := newCLIEnv(t, twoRhinos)
		script := e.script("a.py")

		if _, logs, err := e.execute("", "--paths", e.install, "--pid", "101", script); err != nil {
			t.Fatalf("run error = %v\n%s", err, logs)
		}
		if diff := cmp.Diff([]string{"pipe-a " + script}, e.helper.dispatched); diff != "" {
			t.Errorf("dispatched mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no terminal", func(t *testing.T) {
		e := newCLIEnv(t, twoRhinos)

		_, logs, err := e.execute("", "--paths", e.install, e.script("a.py"))
		if exitCodeOf(err) != 1 {
			t.Fatalf("exit code = %d (err %v), want 1", exitCodeOf(err), err)
		}
		if !strings.Contains(logs, "--pid") {
			t.Errorf("log = %q, should suggest --pid", logs)
		}
		if len(e.helper.dispatched) != 0 {
			t.Errorf("nothing should be dispatched, got %v", e.helper.dispatched)
		}
	})
}

func TestRunOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		list     string
		paths    func(e *cliEnv) string
		wantCode int
		wantLog  string
	}{
		{"no instances", "0.2.0", "[]", nil, 2, "No running Rhino instances found"},
		{"old helper", "0.1.0", oneRhino, nil, 1, "rhinocode 0.1.0 is too old; version 0.2.0"},
		{"not installed", "0.2.0", oneRhino, func(*cliEnv) string { return "/nonexistent/rhino" }, 1, "Could not find rhinocode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newCLIEnv(t, tt.list)
			e.helper.version = tt.version
			dir := e.install
			if tt.paths != nil {
				dir = tt.paths(e)
			}

			_, logs, err := e.execute("", "--paths", dir, e.script("a.py"))
			if code := exitCodeOf(err); code != tt.wantCode {
				t.Fatalf("exit code = %d (err %v), want %d", code, err, tt.wantCode)
			}
			if !strings.Contains(logs, tt.wantLog) {
				t.Errorf("log = %q, want %q", logs, tt.wantLog)
			}
		})
	}
}

func TestNoDefaultHint(t *testing.T) {
	for _, host := range []platform.Platform{platform.MacOS, platform.Windows} {
		if hint := noDefaultHint(host); hint != "" {
			t.Errorf("noDefaultHint(%s) = %q, want none", host, hint)
		}
	}

	hint := noDefaultHint(platform.Unknown)
	if !strings.Contains(hint, platform.HostOSName(platform.Unknown)) {
		t.Errorf("noDefaultHint(Unknown) = %q, want the host name", hint)
	}
}

func TestRunNotFoundNamesHost(t *testing.T) {
	if platform.DetectHost() != platform.Unknown {
		t.Skip("host has a default Rhino location")
	}
	e := newCLIEnv(t, oneRhino)

	_, logs, err := e.execute("", "--paths", "/nonexistent/rhino", e.script("a.py"))
	if exitCodeOf(err) != 1 {
		t.Fatalf("exit code = %d, want 1", exitCodeOf(err))
	}
	if !strings.Contains(logs, "There is no default Rhino location on Unknown (") {
		t.Errorf("log = %q, want the host hint", logs)
	}
}

func TestRunQuiet(t *testing.T) {
	e := newCLIEnv(t, "[]")

	_, logs, err := e.execute("", "-q", "--paths", e.install, e.script("a.py"))
	if exitCodeOf(err) != 2 {
		t.Fatalf("exit code = %d, want 2", exitCodeOf(err))
	}
	if logs != "" {
		t.Errorf("quiet mode printed %q", logs)
	}
}

func TestRunVerboseShowsDiagnostics(t *testing.T) {
	e := newCLIEnv(t, oneRhino)

	_, logs, err := e.execute("", "-v", "--paths", "/nonexistent;"+e.install, e.script("a.py"))
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(logs, `Skipping "/nonexistent"`) {
		t.Errorf("verbose log should list skipped directories:\n%s", logs)
	}
	if !strings.Contains(logs, "state: Dispatching") {
		t.Errorf("verbose log should trace states:\n%s", logs)
	}
}

func TestRunRejectsBadScript(t *testing.T) {
	e := newCLIEnv(t, oneRhino)

	_, _, err := e.execute("", "--paths", e.install, filepath.Join(e.home, "missing.py"))
	var pe *paths.PathError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *paths.PathError", err)
	}
	if len(e.helper.dispatched) != 0 {
		t.Error("nothing should be dispatched")
	}
}

func TestRunTimeoutFlag(t *testing.T) {
	e := newCLIEnv(t, oneRhino)

	if _, _, err := e.execute("", "--paths", e.install, "--timeout", "5s", e.script("a.py")); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if e.timeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", e.timeout)
	}

	_, _, err := e.execute("", "--paths", e.install, "--timeout", "soon", e.script("a.py"))
	if err == nil || exitCodeOf(err) != -1 {
		t.Errorf("invalid --timeout should be a plain error, got %v", err)
	}
}

func TestConfigFiles(t *testing.T) {
	e := newCLIEnv(t, twoRhinos)

	global := filepath.Join(e.home, ".rhinorun")
	if err := os.MkdirAll(global, 0o755); err != nil {
		t.Fatal(err)
	}
	globalYAML := "installPaths: " + e.install + "\ntimeout: 12s\n"
	if err := os.WriteFile(filepath.Join(global, "config.yaml"), []byte(globalYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	project := t.TempDir()
	projectYAML := "display:\n  showDocumentTitle: false\n  showFullVersion: true\n"
	if err := os.WriteFile(filepath.Join(project, ".rhinorun.yaml"), []byte(projectYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(project)

	stdout, logs, err := e.execute("", "list", "--show-age=false")
	if err != nil {
		t.Fatalf("list error = %v\n%s", err, logs)
	}
	want := "Rhino 8 8.5.1 <101>\nRhino 8 8.5.1 <102>\n"
	if stdout != want {
		t.Errorf("list output =\n%s\nwant\n%s", stdout, want)
	}
	if e.timeout != 12*time.Second {
		t.Errorf("timeout = %s, want 12s from the global config", e.timeout)
	}

	t.Setenv("RHINORUN_TIMEOUT", "3s")
	if _, _, err := e.execute("", "list"); err != nil {
		t.Fatalf("list error = %v", err)
	}
	if e.timeout != 3*time.Second {
		t.Errorf("timeout = %s, want 3s from the environment", e.timeout)
	}
}

func TestListDefaultLabels(t *testing.T) {
	e := newCLIEnv(t, twoRhinos)

	stdout, _, err := e.execute("", "list", "--paths", e.install)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	want := "Rhino 8 8.5 <101> \"bracket.3dm\" started just now\n" +
		"Rhino 8 8.5 <102> Untitled started about an hour ago\n"
	if stdout != want {
		t.Errorf("list output =\n%s\nwant\n%s", stdout, want)
	}
}

func TestListJSON(t *testing.T) {
	e := newCLIEnv(t, twoRhinos)

	stdout, _, err := e.execute("", "list", "--json", "--paths", e.install)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	var got []instanceJSON
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("list --json output is not JSON: %v\n%s", err, stdout)
	}
	if len(got) != 2 || got[0].ProcessID != 101 || got[0].PipeID != "pipe-a" || got[0].ActiveDoc.Title != "bracket.3dm" {
		t.Errorf("list --json = %+v", got)
	}
	if len(e.helper.dispatched) != 0 {
		t.Error("list must not dispatch")
	}
}

func TestListUnknownAge(t *testing.T) {
	e := newCLIEnv(t, `[
  {"processId": 101, "pipeId": "pipe-a", "processName": "Rhino 8", "processVersion": "8.5.1"},
  {"processId": 102, "pipeId": "pipe-b", "processName": "Rhino 7", "processVersion": "7.3.0", "processAge": 5}
]`)

	stdout, _, err := e.execute("", "list", "--paths", e.install)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	want := "Rhino 8 8.5 Untitled\nRhino 7 7.3 Untitled started 5 minutes ago\n"
	if stdout != want {
		t.Errorf("list output =\n%s\nwant\n%s", stdout, want)
	}

	stdout, _, err = e.execute("", "list", "--json", "--paths", e.install)
	if err != nil {
		t.Fatalf("list --json error = %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("list --json output is not JSON: %v", err)
	}
	if _, ok := got[0]["processAge"]; ok {
		t.Errorf("unknown age should be omitted, got %v", got[0]["processAge"])
	}
	if age, _ := got[1]["processAge"].(float64); age != 5 {
		t.Errorf("processAge = %v, want 5", got[1]["processAge"])
	}
}

func TestListEmpty(t *testing.T) {
	e := newCLIEnv(t, "[]")

	stdout, logs, err := e.execute("", "list", "--paths", e.install)
	if exitCodeOf(err) != 2 {
		t.Fatalf("exit code = %d, want 2", exitCodeOf(err))
	}
	if stdout != "" || !strings.Contains(logs, "No running Rhino instances") {
		t.Errorf("stdout = %q, log = %q", stdout, logs)
	}
}

func TestWhich(t *testing.T) {
	e := newCLIEnv(t, "[]")

	stdout, logs, err := e.execute("", "which", "--paths", e.install)
	if err != nil {
		t.Fatalf("which error = %v", err)
	}
	if want := filepath.Join(e.install, "rhinocode") + "\n"; stdout != want {
		t.Errorf("which output = %q, want %q", stdout, want)
	}
	if !strings.Contains(logs, "rhinocode 0.2.0") {
		t.Errorf("log = %q, want the version", logs)
	}

	e.helper.version = "0.1.5"
	stdout, _, err = e.execute("", "which", "--paths", e.install)
	if exitCodeOf(err) != 1 || stdout == "" {
		t.Errorf("incompatible helper: exit %d, stdout %q; want exit 1 with the path printed", exitCodeOf(err), stdout)
	}
}

func TestUninstall(t *testing.T) {
	e := newCLIEnv(t, "[]")
	dir := filepath.Join(e.home, ".rhinorun")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, _, err := e.execute("n\n", "uninstall"); err != nil {
		t.Fatalf("uninstall error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("declined uninstall removed %s", dir)
	}

	if _, _, err := e.execute("", "uninstall", "--yes"); err != nil {
		t.Fatalf("uninstall error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("%s should be gone, stat err = %v", dir, err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		state run.State
		want  int
	}{
		{run.Dispatched, 0},
		{run.Cancelled, 0},
		{run.EmptyResult, 2},
		{run.NotFound, 1},
		{run.Incompatible, 1},
		{run.QueryError, 1},
		{run.DispatchError, 1},
		{run.SelectionFailed, 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.state); got != tt.want {
			t.Errorf("exitCode(%s) = %d, want %d", tt.state, got, tt.want)
		}
	}
}

func TestResolveBoolFlag(t *testing.T) {
	on, off := true, false

	tests := []struct {
		name   string
		args   []string
		config *bool
		def    bool
		want   bool
	}{
		{"default", nil, nil, true, true},
		{"config overrides default", nil, &off, true, false},
		{"flag overrides config", []string{"--show-pid"}, &off, false, true},
		{"explicit false overrides config", []string{"--show-pid=false"}, &on, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := pflag.NewFlagSet("test", pflag.ContinueOnError)
			f.Bool("show-pid", false, "")
			if err := f.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if got := resolveBoolFlag(f, "show-pid", tt.config, tt.def); got != tt.want {
				t.Errorf("resolveBoolFlag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveStringFlag(t *testing.T) {
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.String("paths", "", "")
	if got := resolveStringFlag(f, "paths", "/from/config"); got != "/from/config" {
		t.Errorf("unset flag: got %q, want the config value", got)
	}
	if err := f.Parse([]string{"--paths", "/from/flag"}); err != nil {
		t.Fatal(err)
	}
	if got := resolveStringFlag(f, "paths", "/from/config"); got != "/from/flag" {
		t.Errorf("set flag: got %q, want the flag value", got)
	}
}
