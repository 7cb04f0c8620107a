package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"plugpack.dev/cli/internal/core/domain/plugin"
	"plugpack.dev/cli/internal/core/ports/packaging"
)

// Pipeline stage names, in execution order.
const (
	StageLoad          = "load manifest"
	StageValidate      = "validate manifest"
	StageReconcile     = "reconcile project metadata"
	StageVerifyTargets = "verify targets"
	StagePack          = "produce archive"
	StageFinalize      = "finalize artifact"
)

// DefaultExtension is the distribution extension of the final artifact.
const DefaultExtension = ".plugin"

// PackagingService runs the manifest packaging pipeline: an ordered,
// fail-fast sequence of stages threading a context value forward. The first
// stage failure aborts the run; completed stages are not rolled back, so a
// manifest rewritten during reconciliation stays rewritten.
type PackagingService struct {
	repo     packaging.ManifestRepository
	archiver packaging.Archiver
	reporter packaging.StageReporter
	ext      string
}

// NewPackagingService creates a packaging service with the default
// distribution extension.
func NewPackagingService(repo packaging.ManifestRepository, archiver packaging.Archiver, reporter packaging.StageReporter) *PackagingService {
	return NewPackagingServiceWithExtension(repo, archiver, reporter, DefaultExtension)
}

// NewPackagingServiceWithExtension creates a packaging service producing
// artifacts named "<id>-<version><ext>".
func NewPackagingServiceWithExtension(repo packaging.ManifestRepository, archiver packaging.Archiver, reporter packaging.StageReporter, ext string) *PackagingService {
	if reporter == nil {
		reporter = packaging.NopReporter{}
	}
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &PackagingService{
		repo:     repo,
		archiver: archiver,
		reporter: reporter,
		ext:      ext,
	}
}

// pipelineContext is the transient state threaded through the stages of a
// single run. It is passed by value and discarded when the run ends.
type pipelineContext struct {
	manifestPath string
	workDir      string
	raw          []byte
	descriptor   *plugin.Descriptor
	metadata     *plugin.Metadata
	archivePath  string
	artifactPath string
}

// stage is one fail-fast pipeline step.
type stage struct {
	name string
	run  func(context.Context, pipelineContext) (pipelineContext, error)
}

// Run executes the full pipeline for the manifest at manifestPath and
// returns the path of the finalized artifact.
func (s *PackagingService) Run(ctx context.Context, manifestPath string) (string, error) {
	pc, err := s.runStages(ctx, manifestPath, []stage{
		{StageLoad, s.load},
		{StageValidate, s.validate},
		{StageReconcile, s.reconcile},
		{StageVerifyTargets, s.verifyTargets},
		{StagePack, s.pack},
		{StageFinalize, s.finalize},
	})
	if err != nil {
		return "", err
	}
	return pc.artifactPath, nil
}

// Verify runs the read-only pipeline prefix (load, validate, verify targets)
// without reconciling, packing or touching any file.
func (s *PackagingService) Verify(ctx context.Context, manifestPath string) error {
	_, err := s.runStages(ctx, manifestPath, []stage{
		{StageLoad, s.load},
		{StageValidate, s.validate},
		{StageVerifyTargets, s.verifyTargets},
	})
	return err
}

func (s *PackagingService) runStages(ctx context.Context, manifestPath string, stages []stage) (pipelineContext, error) {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return pipelineContext{}, stageError(StageLoad, ErrManifestUnreadable, err)
	}
	pc := pipelineContext{
		manifestPath: abs,
		workDir:      filepath.Dir(abs),
	}

	for _, st := range stages {
		s.reporter.StageStarted(st.name)
		next, err := st.run(ctx, pc)
		if err != nil {
			s.reporter.StageFailed(st.name, err)
			return pc, err
		}
		pc = next
	}
	return pc, nil
}

func (s *PackagingService) load(_ context.Context, pc pipelineContext) (pipelineContext, error) {
	raw, err := s.repo.ReadManifest(pc.manifestPath)
	if err != nil {
		return pc, stageError(StageLoad, ErrManifestUnreadable, err)
	}
	pc.raw = raw
	s.reporter.StageCompleted(StageLoad)
	return pc, nil
}

func (s *PackagingService) validate(_ context.Context, pc pipelineContext) (pipelineContext, error) {
	descriptor, err := plugin.ParseDescriptor(pc.raw)
	if err != nil {
		return pc, stageError(StageValidate, classifyParseError(err), err)
	}
	if err := descriptor.Validate(); err != nil {
		return pc, stageError(StageValidate, ErrManifestInvalid, err)
	}
	pc.descriptor = descriptor
	s.reporter.StageCompleted(StageValidate)
	return pc, nil
}

// reconcile overlays project metadata onto the descriptor and persists the
// result over the manifest file. The rewrite is deliberate: tooling that
// reads the manifest after this run must see the synced identity and
// version, and it is not reverted if a later stage fails.
func (s *PackagingService) reconcile(_ context.Context, pc pipelineContext) (pipelineContext, error) {
	raw, ok, err := s.repo.ReadProjectMetadata(pc.workDir)
	if err != nil {
		return pc, stageError(StageReconcile, ErrMetadataInvalid, err)
	}
	if !ok {
		s.reporter.StageSkipped(StageReconcile, "no project metadata")
		return pc, nil
	}

	metadata, err := plugin.ParseMetadata(raw)
	if err != nil {
		return pc, stageError(StageReconcile, ErrMetadataInvalid, err)
	}

	reconciled, err := plugin.Reconcile(pc.descriptor, metadata)
	if err != nil {
		// The overlay produced an invalid descriptor; this is a descriptor
		// failure, not a metadata failure.
		return pc, stageError(StageReconcile, ErrManifestInvalid, err)
	}

	data, err := reconciled.Marshal()
	if err != nil {
		return pc, stageError(StageReconcile, ErrManifestRewrite, err)
	}
	if err := s.repo.WriteManifest(pc.manifestPath, data); err != nil {
		return pc, stageError(StageReconcile, ErrManifestRewrite, err)
	}

	pc.descriptor = reconciled
	pc.metadata = metadata
	s.reporter.StageCompleted(StageReconcile)
	return pc, nil
}

// verifyTargets confirms the files the manifest points at exist relative to
// the manifest's directory. Only main and icon are guaranteed-local; dev,
// remote and remoteIcon may be URLs or dev-time references and are never
// checked.
func (s *PackagingService) verifyTargets(_ context.Context, pc pipelineContext) (pipelineContext, error) {
	targets := []struct {
		field string
		value string
	}{
		{"main", pc.descriptor.Main},
		{"icon", pc.descriptor.Icon},
	}
	for _, target := range targets {
		if target.value == "" {
			continue
		}
		resolved := filepath.Join(pc.workDir, target.value)
		if _, err := os.Stat(resolved); err != nil {
			return pc, stageError(StageVerifyTargets, ErrMissingTarget, &MissingTargetError{
				Field: target.field,
				Path:  resolved,
			})
		}
	}
	s.reporter.StageCompleted(StageVerifyTargets)
	return pc, nil
}

func (s *PackagingService) pack(ctx context.Context, pc pipelineContext) (pipelineContext, error) {
	archivePath, err := s.archiver.ProduceArchive(ctx, pc.workDir)
	if err != nil {
		return pc, stageError(StagePack, ErrPackagingTool, err)
	}
	pc.archivePath = archivePath
	s.reporter.StageCompleted(StagePack)
	return pc, nil
}

// finalize renames the archiver's raw output to the canonical distribution
// name, replacing any stale artifact. It is idempotent across repeated runs
// of the same descriptor version. When it fails the raw archive is left on
// disk for inspection.
func (s *PackagingService) finalize(_ context.Context, pc pipelineContext) (pipelineContext, error) {
	if _, err := os.Stat(pc.archivePath); err != nil {
		return pc, stageError(StageFinalize, ErrFinalization,
			fmt.Errorf("packaging tool output not found at %s: %w", pc.archivePath, err))
	}

	canonical := filepath.Join(pc.workDir, pc.descriptor.ID+"-"+pc.descriptor.Version+s.ext)
	if canonical != pc.archivePath {
		if err := os.Remove(canonical); err != nil && !os.IsNotExist(err) {
			return pc, stageError(StageFinalize, ErrFinalization,
				fmt.Errorf("failed to delete stale artifact %s: %w", canonical, err))
		}
		if err := os.Rename(pc.archivePath, canonical); err != nil {
			return pc, stageError(StageFinalize, ErrFinalization, err)
		}
	}

	pc.artifactPath = canonical
	s.reporter.StageCompleted(StageFinalize)
	return pc, nil
}

func classifyParseError(err error) error {
	var validationErr *plugin.ValidationError
	if errors.As(err, &validationErr) {
		return ErrManifestInvalid
	}
	return ErrManifestMalformed
}
