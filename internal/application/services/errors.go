package services

import (
	"errors"
	"fmt"
)

// Pipeline failure kinds. Every stage failure is wrapped in exactly one of
// these sentinels; callers discriminate with errors.Is and reach the typed
// payloads (plugin.ValidationError, plugin.MetadataError, MissingTargetError)
// with errors.As.
var (
	ErrManifestUnreadable = errors.New("manifest unreadable")
	ErrManifestMalformed  = errors.New("manifest malformed")
	ErrManifestInvalid    = errors.New("manifest invalid")
	ErrManifestRewrite    = errors.New("manifest rewrite failed")
	ErrMetadataInvalid    = errors.New("project metadata invalid")
	ErrMissingTarget      = errors.New("missing packaging target")
	ErrPackagingTool      = errors.New("packaging tool failed")
	ErrFinalization       = errors.New("artifact finalization failed")
)

// MissingTargetError reports a manifest-referenced file that does not exist
// on disk.
type MissingTargetError struct {
	Field string
	Path  string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("%s target does not exist: %s", e.Field, e.Path)
}

// PipelineError is a stage failure: the stage that failed, its kind
// sentinel, and the originating error, propagated to the caller unmodified.
type PipelineError struct {
	Stage string
	Kind  error
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func stageError(stage string, kind, err error) error {
	return &PipelineError{Stage: stage, Kind: kind, Err: err}
}
