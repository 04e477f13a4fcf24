package helper

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sungur/rhinorun/internal/config"
	"github.com/sungur/rhinorun/internal/log"
	"github.com/sungur/rhinorun/internal/platform"
)

// Resolver locates the rhinocode helper and checks its version.
type Resolver struct {
	// Paths are user-configured installation directories, searched in order.
	Paths []string
	// Defaults supplies the platform default directory (searched last) and
	// the binary locations relative to each directory.
	Defaults platform.Defaults
	// MinVersion is the oldest acceptable helper version.
	MinVersion string
	// Runner executes the version query.
	Runner Runner
}

// Resolution is the outcome of locating the helper.
type Resolution struct {
	// Binary is nil when no helper was found.
	Binary *Binary
	// Candidates lists every searched directory in search order.
	Candidates []string
	// Found lists the binary path found in each usable directory, in order.
	Found []string
	// Skipped lists directories that yielded nothing and why.
	Skipped []Skip
}

// Candidates returns the user directories followed by the platform default.
// Duplicates are kept.
func (r *Resolver) Candidates() []string {
	dirs := make([]string, 0, len(r.Paths)+1)
	dirs = append(dirs, r.Paths...)
	if r.Defaults.Dir != "" {
		dirs = append(dirs, r.Defaults.Dir)
	}
	return dirs
}

// binaryPaths returns the relative helper locations to probe in every
// directory. Platforms without an installer layout probe for a bare
// rhinocode executable at the directory root.
func (r *Resolver) binaryPaths() []string {
	if len(r.Defaults.BinaryPaths) > 0 {
		return r.Defaults.BinaryPaths
	}
	return []string{config.HelperName}
}

// Locate searches the candidate directories for an existing helper without
// running it. It returns a *ConfigurationError when nothing is found. When
// several directories qualify, the first in search order wins.
func (r *Resolver) Locate() (*Resolution, error) {
	res := &Resolution{Candidates: r.Candidates()}

	for _, dir := range res.Candidates {
		path, reason := r.probe(dir)
		if path == "" {
			log.Debugf("Skipping %q: %s", dir, reason)
			res.Skipped = append(res.Skipped, Skip{Dir: dir, Reason: reason})
			continue
		}
		log.Debugf("Found rhinocode at %s", path)
		res.Found = append(res.Found, path)
	}

	if len(res.Found) == 0 {
		return res, &ConfigurationError{Candidates: res.Candidates, Skipped: res.Skipped}
	}
	if len(res.Found) > 1 {
		log.Debugf("Multiple rhinocode binaries found (%s); using %s",
			strings.Join(res.Found, ", "), res.Found[0])
	}
	res.Binary = &Binary{Path: res.Found[0], Required: r.MinVersion}
	return res, nil
}

func (r *Resolver) probe(dir string) (string, string) {
	if strings.TrimSpace(dir) == "" {
		return "", "blank directory"
	}
	if !filepath.IsAbs(dir) {
		return "", "not an absolute path"
	}
	for _, rel := range r.binaryPaths() {
		path := filepath.Join(dir, rel)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, ""
		}
	}
	return "", "no rhinocode binary at " + strings.Join(r.binaryPaths(), " or ")
}

// Resolve locates the helper and queries its version. An incompatible
// helper is still returned, with Binary.Compatible false; the version query
// failing yields a *QueryError.
func (r *Resolver) Resolve(ctx context.Context) (*Resolution, error) {
	res, err := r.Locate()
	if err != nil {
		return res, err
	}

	bin := res.Binary
	args := []string{"--version"}
	cmdLine := CommandLine(bin.Path, args...)

	out, err := r.Runner.Run(ctx, bin.Path, args...)
	if err != nil {
		log.Debugf("Version query failed: %s: %v", cmdLine, err)
		res.Binary = nil
		return res, &QueryError{Stage: StageVersion, Reason: classify(err), CommandLine: cmdLine, Err: err}
	}
	if out.ExitCode != 0 {
		log.Debugf("Version query exited %d: %s: %s", out.ExitCode, cmdLine, stderrSnippet(out.Stderr))
		res.Binary = nil
		return res, &QueryError{
			Stage: StageVersion, Reason: ReasonFailed, CommandLine: cmdLine,
			ExitCode: out.ExitCode, Stderr: out.Stderr,
		}
	}

	version := strings.TrimSpace(out.Stdout)
	compatible, err := IsCompatible(version, r.MinVersion)
	if err != nil {
		log.Debugf("Version query returned unusable output %q: %v", version, err)
		res.Binary = nil
		return res, &QueryError{Stage: StageVersion, Reason: ReasonMalformed, CommandLine: cmdLine, Err: err}
	}

	bin.Version = version
	bin.Compatible = compatible
	log.Debugf("rhinocode %s (required %s, compatible=%t)", version, r.MinVersion, compatible)
	return res, nil
}
