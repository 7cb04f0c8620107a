package plugin

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
)

const (
	// MaxFieldLength bounds every string field of the manifest.
	MaxFieldLength = 100

	// MaxFallbackLength bounds string setting fallbacks.
	MaxFallbackLength = 1024
)

// Descriptor is the parsed plugin manifest. A Descriptor is only trusted by
// later pipeline stages after Validate has passed in full; a single invalid
// field invalidates the whole descriptor.
type Descriptor struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Version    string             `json:"version"`
	Author     string             `json:"author"`
	Main       string             `json:"main"`
	Dev        string             `json:"dev,omitempty"`
	Remote     string             `json:"remote,omitempty"`
	Icon       string             `json:"icon,omitempty"`
	RemoteIcon string             `json:"remoteIcon,omitempty"`
	Settings   map[string]Setting `json:"settings,omitempty"`
}

// ValidationError reports the first manifest constraint violated, in field
// declaration order.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest field %q %s", e.Field, e.Constraint)
}

// ParseDescriptor decodes a raw manifest into a Descriptor. Invalid JSON is
// returned as the decoder's error; structural problems (non-object input,
// wrongly typed fields) are returned as *ValidationError.
func ParseDescriptor(raw []byte) (*Descriptor, error) {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, &ValidationError{Field: "manifest", Constraint: "must be a JSON object"}
	}

	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			field := typeErr.Field
			if field == "" {
				field = "manifest"
			}
			return nil, &ValidationError{Field: field, Constraint: "has the wrong type"}
		}
		return nil, err
	}
	return &d, nil
}

// Validate checks every schema constraint and returns a *ValidationError for
// the first violation, or nil when the descriptor is fully valid.
func (d *Descriptor) Validate() error {
	if err := requiredString("id", d.ID); err != nil {
		return err
	}
	if err := requiredString("name", d.Name); err != nil {
		return err
	}
	if err := validateVersion("version", d.Version); err != nil {
		return err
	}
	if err := requiredString("author", d.Author); err != nil {
		return err
	}
	if err := requiredString("main", d.Main); err != nil {
		return err
	}
	for _, opt := range []struct {
		field string
		value string
	}{
		{"dev", d.Dev},
		{"remote", d.Remote},
		{"icon", d.Icon},
		{"remoteIcon", d.RemoteIcon},
	} {
		if err := optionalString(opt.field, opt.value); err != nil {
			return err
		}
	}

	// Map iteration order is random; sort keys so the surfaced violation is
	// deterministic.
	keys := make([]string, 0, len(d.Settings))
	for key := range d.Settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		setting := d.Settings[key]
		def, err := setting.compile("settings." + key)
		if err != nil {
			return err
		}
		setting.def = def
		d.Settings[key] = setting
	}
	return nil
}

// Setting returns the compiled definition for a settings key. It is only
// populated after Validate has succeeded.
func (d *Descriptor) Setting(key string) (SettingDef, bool) {
	s, ok := d.Settings[key]
	if !ok || s.def == nil {
		return nil, false
	}
	return s.def, true
}

// Marshal renders the descriptor back to manifest JSON, preserving settings
// entries byte for byte.
func (d *Descriptor) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

func requiredString(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Constraint: "is required"}
	}
	return optionalString(field, value)
}

func optionalString(field, value string) error {
	if utf8.RuneCountInString(value) > MaxFieldLength {
		return &ValidationError{
			Field:      field,
			Constraint: fmt.Sprintf("must be at most %d characters", MaxFieldLength),
		}
	}
	return nil
}

func validateVersion(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Constraint: "is required"}
	}
	if err := optionalString(field, value); err != nil {
		return err
	}
	// StrictNewVersion enforces the full MAJOR.MINOR.PATCH grammar and
	// rejects shorthand ("1.0") and prefixed ("v1.0.0") forms.
	if _, err := semver.StrictNewVersion(value); err != nil {
		return &ValidationError{
			Field:      field,
			Constraint: fmt.Sprintf("must be a semantic version: %s", strings.TrimSpace(err.Error())),
		}
	}
	return nil
}
