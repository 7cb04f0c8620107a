package plugin

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// SettingType discriminates the settings tagged union.
type SettingType string

const (
	SettingText     SettingType = "text"
	SettingPassword SettingType = "password"
	SettingStatus   SettingType = "status"
	SettingButton   SettingType = "button"
	SettingToggle   SettingType = "toggle"
	SettingInteger  SettingType = "integer"
	SettingSlider   SettingType = "slider"
)

// SettingDef is implemented by exactly one variant per "type" discriminator
// value. Unknown discriminators are rejected during validation rather than
// falling through to a permissive shape.
type SettingDef interface {
	// SettingType returns the discriminator this definition was compiled from.
	SettingType() SettingType

	// SettingLabel returns the display label shared by all variants.
	SettingLabel() string
}

// StringSetting covers the text, password, status and button variants, which
// share an optional string fallback.
type StringSetting struct {
	Kind     SettingType
	Label    string
	Required bool
	Fallback *string
}

func (s StringSetting) SettingType() SettingType { return s.Kind }
func (s StringSetting) SettingLabel() string     { return s.Label }

// ToggleSetting is the toggle variant with an optional boolean fallback.
type ToggleSetting struct {
	Label    string
	Required bool
	Fallback *bool
}

func (s ToggleSetting) SettingType() SettingType { return SettingToggle }
func (s ToggleSetting) SettingLabel() string     { return s.Label }

// RangeSetting covers the integer and slider variants, which require numeric
// bounds and allow an optional numeric fallback.
type RangeSetting struct {
	Kind     SettingType
	Label    string
	Required bool
	Min      float64
	Max      float64
	Fallback *float64
}

func (s RangeSetting) SettingType() SettingType { return s.Kind }
func (s RangeSetting) SettingLabel() string     { return s.Label }

// Setting is one entry of the manifest's settings map. Decoding keeps the
// raw JSON so a reconciled manifest persists settings byte for byte;
// compile selects and checks the concrete variant during validation.
type Setting struct {
	raw []byte
	def SettingDef
}

// NewSetting wraps raw settings JSON, primarily for tests and callers that
// assemble descriptors programmatically.
func NewSetting(raw []byte) Setting {
	return Setting{raw: append([]byte(nil), raw...)}
}

// Def returns the compiled variant, available after descriptor validation.
func (s Setting) Def() SettingDef { return s.def }

// UnmarshalJSON captures the raw entry; constraint checking happens in
// compile so schema violations surface as validation errors, not decode
// errors.
func (s *Setting) UnmarshalJSON(data []byte) error {
	s.raw = append([]byte(nil), data...)
	s.def = nil
	return nil
}

// MarshalJSON writes the entry back exactly as it was read.
func (s Setting) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// settingEnvelope is the superset of fields across all variants.
type settingEnvelope struct {
	Type     *string         `json:"type"`
	Label    *string         `json:"label"`
	Required *bool           `json:"required"`
	Fallback json.RawMessage `json:"fallback"`
	Min      *float64        `json:"min"`
	Max      *float64        `json:"max"`
}

func (s Setting) compile(field string) (SettingDef, error) {
	var env settingEnvelope
	if err := json.Unmarshal(s.raw, &env); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok && typeErr.Field != "" {
			return nil, &ValidationError{Field: field + "." + typeErr.Field, Constraint: "has the wrong type"}
		}
		return nil, &ValidationError{Field: field, Constraint: "must be a JSON object"}
	}

	if env.Type == nil {
		return nil, &ValidationError{Field: field + ".type", Constraint: "is required"}
	}
	kind := SettingType(*env.Type)

	if env.Label == nil || *env.Label == "" {
		return nil, &ValidationError{Field: field + ".label", Constraint: "is required"}
	}
	if utf8.RuneCountInString(*env.Label) > MaxFieldLength {
		return nil, &ValidationError{
			Field:      field + ".label",
			Constraint: fmt.Sprintf("must be at most %d characters", MaxFieldLength),
		}
	}

	required := env.Required != nil && *env.Required

	switch kind {
	case SettingText, SettingPassword, SettingStatus, SettingButton:
		var fallback *string
		if len(env.Fallback) > 0 {
			var v string
			if err := json.Unmarshal(env.Fallback, &v); err != nil {
				return nil, &ValidationError{Field: field + ".fallback", Constraint: "must be a string"}
			}
			if utf8.RuneCountInString(v) > MaxFallbackLength {
				return nil, &ValidationError{
					Field:      field + ".fallback",
					Constraint: fmt.Sprintf("must be at most %d characters", MaxFallbackLength),
				}
			}
			fallback = &v
		}
		return StringSetting{Kind: kind, Label: *env.Label, Required: required, Fallback: fallback}, nil

	case SettingToggle:
		var fallback *bool
		if len(env.Fallback) > 0 {
			var v bool
			if err := json.Unmarshal(env.Fallback, &v); err != nil {
				return nil, &ValidationError{Field: field + ".fallback", Constraint: "must be a boolean"}
			}
			fallback = &v
		}
		return ToggleSetting{Label: *env.Label, Required: required, Fallback: fallback}, nil

	case SettingInteger, SettingSlider:
		if env.Min == nil {
			return nil, &ValidationError{Field: field + ".min", Constraint: "is required"}
		}
		if env.Max == nil {
			return nil, &ValidationError{Field: field + ".max", Constraint: "is required"}
		}
		var fallback *float64
		if len(env.Fallback) > 0 {
			var v float64
			if err := json.Unmarshal(env.Fallback, &v); err != nil {
				return nil, &ValidationError{Field: field + ".fallback", Constraint: "must be a number"}
			}
			fallback = &v
		}
		return RangeSetting{
			Kind:     kind,
			Label:    *env.Label,
			Required: required,
			Min:      *env.Min,
			Max:      *env.Max,
			Fallback: fallback,
		}, nil

	default:
		return nil, &ValidationError{
			Field:      field + ".type",
			Constraint: fmt.Sprintf("must be one of text, password, status, button, toggle, integer, slider; got %q", kind),
		}
	}
}
