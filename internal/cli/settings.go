package cli

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/sungur/rhinorun/internal/config"
	"github.com/sungur/rhinorun/internal/helper"
	"github.com/sungur/rhinorun/internal/platform"
	"github.com/sungur/rhinorun/internal/run"
)

// settings is the effective configuration for one command: CLI flags over
// environment over project file over global file over defaults.
type settings struct {
	paths   []string
	timeout time.Duration
	display helper.DisplayOptions
}

// loadSettings merges flags with the config files found for projectDir.
func loadSettings(f *pflag.FlagSet, projectDir string) (settings, error) {
	fileConfig := config.LoadConfig(projectDir)

	timeout, err := config.ParseTimeout(resolveStringFlag(f, "timeout", fileConfig.Timeout))
	if err != nil {
		return settings{}, err
	}

	d := fileConfig.Display
	return settings{
		paths:   config.SplitPaths(resolveStringFlag(f, "paths", fileConfig.InstallPaths)),
		timeout: timeout,
		display: helper.DisplayOptions{
			ShowDocumentTitle:  resolveBoolFlag(f, "show-title", d.ShowDocumentTitle, config.DefaultShowDocumentTitle),
			ShowDocumentPath:   resolveBoolFlag(f, "show-path", d.ShowDocumentPath, config.DefaultShowDocumentPath),
			ShowActiveViewport: resolveBoolFlag(f, "show-viewport", d.ShowActiveViewport, config.DefaultShowActiveViewport),
			ShowProcessID:      resolveBoolFlag(f, "show-pid", d.ShowProcessID, config.DefaultShowProcessID),
			ShowProcessAge:     resolveBoolFlag(f, "show-age", d.ShowProcessAge, config.DefaultShowProcessAge),
			ShowFullVersion:    resolveBoolFlag(f, "full-version", d.ShowFullVersion, config.DefaultShowFullVersion),
		},
	}, nil
}

// newRunner builds the command runner. Replaced in tests.
var newRunner = func(timeout time.Duration) helper.Runner {
	return helper.ExecRunner{Timeout: timeout}
}

// pipelineOptions assembles run.Options from settings. Platform defaults are
// computed here, once per command, and passed down.
func (s settings) pipelineOptions() run.Options {
	return run.Options{
		Paths:      s.paths,
		Defaults:   platform.DefaultsFor(platform.DetectHost()),
		MinVersion: config.MinimumHelperVersion,
		Display:    s.display,
		Runner:     newRunner(s.timeout),
	}
}

// resolveStringFlag returns the CLI flag value if explicitly set by the user,
// otherwise the config value if non-empty, otherwise the flag default.
func resolveStringFlag(f *pflag.FlagSet, name string, configValue string) string {
	if f.Changed(name) {
		val, _ := f.GetString(name)
		return val
	}
	if configValue != "" {
		return configValue
	}
	val, _ := f.GetString(name)
	return val
}

// resolveBoolFlag returns the CLI flag value if explicitly set, otherwise
// the config value if set, otherwise def. "--show-pid=false" therefore
// overrides a config file that turns it on.
func resolveBoolFlag(f *pflag.FlagSet, name string, configValue *bool, def bool) bool {
	if f.Changed(name) {
		val, _ := f.GetBool(name)
		return val
	}
	return config.BoolOr(configValue, def)
}
