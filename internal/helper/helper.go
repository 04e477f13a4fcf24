// Package helper drives the rhinocode command-line helper that ships with
// Rhino: it locates and version-checks the binary, lists running Rhino
// instances, labels them for selection and sends scripts to one of them.
//
// Every call is a one-shot external invocation through a Runner; nothing is
// cached between calls.
package helper

// Binary describes a located rhinocode executable.
type Binary struct {
	// Path is absolute.
	Path string
	// Version is the raw string printed by "rhinocode --version".
	Version string
	// Required is the minimum version it was checked against.
	Required string
	// Compatible reports Version >= Required.
	Compatible bool
}

// CheckCompatible returns a *CompatibilityError when b is too old.
func (b *Binary) CheckCompatible() error {
	if b.Compatible {
		return nil
	}
	return &CompatibilityError{Path: b.Path, Found: b.Version, Required: b.Required}
}

// Document is the active document of a Rhino instance.
type Document struct {
	// Title is empty for an untitled document.
	Title string
	// Location is empty when the document was never saved to disk.
	Location string
}

// Instance is one running Rhino process as reported by "rhinocode list".
// Instances are snapshots; two listings never share identity.
//
// ProcessAge is the elapsed time since start, in whole minutes. AgeUnknown
// is set when rhinocode did not report an age; labels then leave the age
// out.
type Instance struct {
	ProcessID      int
	PipeID         string
	ProcessName    string
	ProcessVersion string
	ProcessAge     int
	AgeUnknown     bool
	Document       Document
	ActiveViewport string
}
