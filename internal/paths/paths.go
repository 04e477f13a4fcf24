// Package paths validates the script paths handed to rhinocode.
//
// rhinocode receives the path as a single argument and resolves it inside
// Rhino, so it must be absolute, must name an existing regular file and must
// be spelled the way the host filesystem spells it.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PathError represents a path validation or access error.
type PathError struct {
	Message string
}

func (e *PathError) Error() string {
	return e.Message
}

// --- Path detection ---

// windowsPathRe matches Windows-style paths like D:\Scripts or C:/Users.
var windowsPathRe = regexp.MustCompile(`^[A-Za-z]:[/\\]`)

// uncPathRe matches UNC paths like \\server\share or //server/share.
var uncPathRe = regexp.MustCompile(`^(?:\\\\|//)[^/\\]+[/\\][^/\\]+`)

// IsWindowsPath checks if path is a Windows-style path (has drive letter).
func IsWindowsPath(path string) bool {
	return windowsPathRe.MatchString(path)
}

// IsUncPath checks if path is a Windows UNC path (\\server\share or //server/share).
func IsUncPath(path string) bool {
	return uncPathRe.MatchString(path)
}

// --- Script path validation ---

// Spellings returns the names to try for path, in order: as given, then
// its NFC and NFD forms when they differ. Editors and filesystems disagree
// on composed versus decomposed file names, so the form the user typed may
// not be the one stored on disk.
func Spellings(path string) []string {
	out := []string{path}
	for _, alt := range []string{norm.NFC.String(path), norm.NFD.String(path)} {
		if !slices.Contains(out, alt) {
			out = append(out, alt)
		}
	}
	return out
}

// ValidateScriptPath validates and resolves the script to send to Rhino.
// Relative paths are resolved against the working directory. Returns the
// absolute, cleaned path, spelled the way the file exists on disk.
func ValidateScriptPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", &PathError{Message: "No script path given"}
	}
	if strings.ContainsRune(path, 0) || containsControlChars(path) {
		return "", &PathError{Message: fmt.Sprintf("Script path contains control characters: %q", path)}
	}
	if runtime.GOOS != "windows" && (IsWindowsPath(path) || IsUncPath(path)) {
		return "", &PathError{Message: fmt.Sprintf("Windows path on a %s host: %s", runtime.GOOS, path)}
	}

	scriptPath, err := filepath.Abs(path)
	if err != nil {
		return "", &PathError{Message: fmt.Sprintf("Cannot resolve path: %s", path)}
	}

	scriptPath, info, err := statAnySpelling(scriptPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &PathError{Message: fmt.Sprintf("Script does not exist: %s", scriptPath)}
		}
		return "", &PathError{Message: fmt.Sprintf("Cannot access path: %s: %v", scriptPath, err)}
	}

	if info.IsDir() {
		return "", &PathError{Message: fmt.Sprintf("Script path is a directory: %s", scriptPath)}
	}
	if !info.Mode().IsRegular() {
		return "", &PathError{Message: fmt.Sprintf("Script is not a regular file: %s", scriptPath)}
	}

	return scriptPath, nil
}

// statAnySpelling stats the first spelling of path that exists. When none
// does, it returns path unchanged with the error for it.
func statAnySpelling(path string) (string, os.FileInfo, error) {
	var firstErr error
	for _, p := range Spellings(path) {
		info, err := os.Stat(p)
		if err == nil {
			return p, info, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if !errors.Is(err, os.ErrNotExist) {
			break
		}
	}
	return path, nil, firstErr
}

// --- Helpers ---

func containsControlChars(s string) bool {
	for _, r := range s {
		if r <= 0x1F || (r >= 0x7F && r <= 0x9F) {
			return true
		}
	}
	return false
}
