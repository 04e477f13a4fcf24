package helper

import (
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"golang.org/x/text/unicode/norm"
)

// DisplayOptions toggles the fields included in instance labels.
type DisplayOptions struct {
	ShowDocumentTitle  bool
	ShowDocumentPath   bool
	ShowActiveViewport bool
	ShowProcessID      bool
	ShowProcessAge     bool
	ShowFullVersion    bool
}

// Entry pairs a display label with the instance it was built from.
type Entry struct {
	Label    string
	Instance Instance
}

// Entries is the label set for one selection prompt, in instance order.
type Entries []Entry

// Labels returns the labels in order.
func (e Entries) Labels() []string {
	labels := make([]string, len(e))
	for i, entry := range e {
		labels[i] = entry.Label
	}
	return labels
}

// Lookup maps a label back to its instance.
func (e Entries) Lookup(label string) (Instance, bool) {
	for _, entry := range e {
		if entry.Label == label {
			return entry.Instance, true
		}
	}
	return Instance{}, false
}

// Labeler formats instances for display.
type Labeler struct {
	Options DisplayOptions
}

// Entries labels every instance. The process id is forced into every label
// when two instances share a process name, and again whenever the enabled
// fields alone would still produce two identical labels.
func (l Labeler) Entries(instances []Instance) Entries {
	forcePID := sharesName(instances)
	entries := l.build(instances, forcePID)
	if !forcePID && hasDuplicateLabels(entries) {
		entries = l.build(instances, true)
	}
	return entries
}

func (l Labeler) build(instances []Instance, forcePID bool) Entries {
	entries := make(Entries, len(instances))
	for i, inst := range instances {
		entries[i] = Entry{Label: l.Label(inst, forcePID), Instance: inst}
	}
	return entries
}

// Label formats one instance. Fields appear in a fixed order: name, version,
// <pid>, "title", (location), [viewport], age. An unknown age is omitted.
func (l Labeler) Label(inst Instance, forcePID bool) string {
	o := l.Options
	parts := make([]string, 0, 7)

	name := strings.TrimSpace(inst.ProcessName)
	if name == "" {
		name = "Rhino"
	}
	parts = append(parts, name)

	if v := displayVersion(inst.ProcessVersion, o.ShowFullVersion); v != "" {
		parts = append(parts, v)
	}
	if o.ShowProcessID || forcePID {
		parts = append(parts, "<"+strconv.Itoa(inst.ProcessID)+">")
	}
	if o.ShowDocumentTitle {
		if title := norm.NFC.String(inst.Document.Title); title != "" {
			parts = append(parts, `"`+title+`"`)
		} else {
			parts = append(parts, "Untitled")
		}
	}
	if o.ShowDocumentPath {
		if loc := norm.NFC.String(inst.Document.Location); loc != "" {
			parts = append(parts, "("+loc+")")
		} else {
			parts = append(parts, "(Not Saved)")
		}
	}
	if o.ShowActiveViewport && inst.ActiveViewport != "" {
		parts = append(parts, "["+norm.NFC.String(inst.ActiveViewport)+"]")
	}
	if o.ShowProcessAge && !inst.AgeUnknown {
		parts = append(parts, FormatAge(inst.ProcessAge))
	}
	return strings.Join(parts, " ")
}

// FormatAge phrases an instance age given in minutes.
func FormatAge(minutes int) string {
	if minutes < 1 {
		return "started just now"
	}
	d := time.Duration(minutes) * time.Minute
	return "started " + strings.ToLower(units.HumanDuration(d)) + " ago"
}

// displayVersion returns the full version, or its first two components.
func displayVersion(version string, full bool) string {
	version = strings.TrimSpace(version)
	if full || version == "" {
		return version
	}
	parts := strings.Split(version, ".")
	if len(parts) <= 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}

func sharesName(instances []Instance) bool {
	seen := make(map[string]bool, len(instances))
	for _, inst := range instances {
		name := strings.TrimSpace(inst.ProcessName)
		if seen[name] {
			return true
		}
		seen[name] = true
	}
	return false
}

func hasDuplicateLabels(entries Entries) bool {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Label] {
			return true
		}
		seen[e.Label] = true
	}
	return false
}
