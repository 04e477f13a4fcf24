// Package upgrade provides self-update functionality for rhinorun using GitHub releases.
package upgrade

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/creativeprojects/go-selfupdate"
)

// Slug is the GitHub repository releases are published to.
const Slug = "sungur/rhinorun"

// DevVersion marks an unreleased build.
const DevVersion = "dev"

// UpdateInfo holds information about an available update.
type UpdateInfo struct {
	Version string
	Notes   string
	release *selfupdate.Release
}

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}
	return updater, nil
}

// CheckUpdate checks GitHub releases for a version newer than currentVersion.
// Returns nil (no error) if already up to date.
func CheckUpdate(ctx context.Context, currentVersion string) (*UpdateInfo, error) {
	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(Slug))
	if err != nil {
		return nil, fmt.Errorf("failed to detect latest version: %w", err)
	}
	if !found || !Outdated(currentVersion, latest.Version(), latest.GreaterThan) {
		return nil, nil
	}

	return &UpdateInfo{
		Version: latest.Version(),
		Notes:   latest.ReleaseNotes,
		release: latest,
	}, nil
}

// Outdated reports whether current should be replaced by latest. Development
// builds are always outdated; greaterThan compares latest against current.
func Outdated(current, latest string, greaterThan func(string) bool) bool {
	if current == DevVersion || current == "" {
		return latest != ""
	}
	return greaterThan(current)
}

// PerformUpdate downloads and applies the update described by info.
func PerformUpdate(ctx context.Context, info *UpdateInfo) error {
	if info == nil || info.release == nil {
		return errors.New("no update information available")
	}

	updater, err := newUpdater()
	if err != nil {
		return err
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		exe, err = os.Executable()
		if err != nil {
			return fmt.Errorf("failed to determine executable path: %w", err)
		}
	}

	if err := updater.UpdateTo(ctx, info.release, exe); err != nil {
		return fmt.Errorf("failed to apply update: %w", err)
	}
	return nil
}

// VersionString returns a formatted version string with optional build metadata.
func VersionString(version, commit, date string) string {
	s := "rhinorun " + version
	if commit != "" {
		short := commit
		if len(short) > 7 {
			short = short[:7]
		}
		s += " (" + short + ")"
	}
	if date != "" {
		s += " built " + date
	}
	s += " " + runtime.GOOS + "/" + runtime.GOARCH
	return s
}
