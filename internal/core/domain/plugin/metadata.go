package plugin

import (
	"encoding/json"
	"fmt"
)

// Metadata carries the authoritative name and version read from the project
// metadata file. When present it is the source of truth for the plugin's
// identity: reconciliation is strictly one way, metadata over descriptor.
type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// MetadataError reports malformed or schema-invalid project metadata, kept
// distinct from descriptor validation failures.
type MetadataError struct {
	Reason string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("project metadata %s", e.Reason)
}

// ParseMetadata decodes and validates a project metadata file. Every failure
// is a *MetadataError.
func ParseMetadata(raw []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, &MetadataError{Reason: fmt.Sprintf("is not valid JSON: %v", err)}
	}
	if m.Name == "" {
		return nil, &MetadataError{Reason: "is missing required field \"name\""}
	}
	if err := validateVersion("version", m.Version); err != nil {
		return nil, &MetadataError{Reason: fmt.Sprintf("has an invalid version: %v", err)}
	}
	return &m, nil
}

// Reconcile overlays the metadata's name and version onto the descriptor's
// id and version, then re-validates the result in full. Only those two
// fields are ever overwritten, and reconciling an already-synced descriptor
// is a no-op. A nil metadata returns the descriptor unchanged.
//
// A re-validation failure is a descriptor problem, not a metadata problem,
// and is returned as a *ValidationError.
func Reconcile(d *Descriptor, m *Metadata) (*Descriptor, error) {
	if m == nil {
		return d, nil
	}
	merged := *d
	merged.ID = m.Name
	merged.Version = m.Version
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
