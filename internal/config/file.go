package config

import (
	"os"
	"path/filepath"

	"github.com/sungur/rhinorun/internal/log"
	"gopkg.in/yaml.v3"
)

// Project config file names, searched in order next to the script.
var projectConfigFiles = []string{".rhinorun.yaml", "rhinorun.yaml", "rhinorun.yml"}

// GlobalDir returns the global config directory (~/.rhinorun), or "" when
// the home directory is unknown.
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rhinorun")
}

// globalConfigPath returns the global config file path (~/.rhinorun/config.yaml).
func globalConfigPath() string {
	dir := GlobalDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// LoadConfig loads and merges rhinorun configuration.
//
// Precedence (later overrides earlier):
//  1. Global config (~/.rhinorun/config.yaml)
//  2. Project config (.rhinorun.yaml, rhinorun.yaml, rhinorun.yml in projectDir)
//  3. RHINORUN_* environment variables
//
// CLI flags should be applied on top of the returned config by the caller.
func LoadConfig(projectDir string) RhinorunConfig {
	globalCfg := loadConfigFileLogged(globalConfigPath(), "global")
	var projectCfg *RhinorunConfig
	if projectDir != "" {
		projectCfg = loadProjectConfig(projectDir)
	}
	return ApplyEnv(mergeConfigs(globalCfg, projectCfg))
}

func loadProjectConfig(projectDir string) *RhinorunConfig {
	for _, filename := range projectConfigFiles {
		if cfg := loadConfigFileLogged(filepath.Join(projectDir, filename), "project"); cfg != nil {
			return cfg
		}
	}
	return nil
}

func loadConfigFileLogged(path, scope string) *RhinorunConfig {
	if path == "" {
		return nil
	}
	cfg := loadConfigFile(path)
	if cfg != nil {
		log.Debugf("Loaded %s config: %s", scope, path)
	}
	return cfg
}

// loadConfigFile reads and parses a single config file.
// Returns nil if the file does not exist or cannot be parsed.
func loadConfigFile(path string) *RhinorunConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var cfg RhinorunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Debugf("Failed to parse config %s: %v", path, err)
		return nil
	}
	return &cfg
}

// mergeConfigs merges configs with later values taking precedence.
// nil configs are skipped.
func mergeConfigs(configs ...*RhinorunConfig) RhinorunConfig {
	result := RhinorunConfig{}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.InstallPaths != "" {
			result.InstallPaths = cfg.InstallPaths
		}
		if cfg.Timeout != "" {
			result.Timeout = cfg.Timeout
		}

		d := cfg.Display
		if d.ShowDocumentTitle != nil {
			result.Display.ShowDocumentTitle = d.ShowDocumentTitle
		}
		if d.ShowDocumentPath != nil {
			result.Display.ShowDocumentPath = d.ShowDocumentPath
		}
		if d.ShowActiveViewport != nil {
			result.Display.ShowActiveViewport = d.ShowActiveViewport
		}
		if d.ShowProcessID != nil {
			result.Display.ShowProcessID = d.ShowProcessID
		}
		if d.ShowProcessAge != nil {
			result.Display.ShowProcessAge = d.ShowProcessAge
		}
		if d.ShowFullVersion != nil {
			result.Display.ShowFullVersion = d.ShowFullVersion
		}
	}

	return result
}
