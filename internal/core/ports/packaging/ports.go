package packaging

import "context"

// Archiver is the external packaging collaborator. It is invoked exactly
// once per pipeline run, with no retries.
type Archiver interface {
	// ProduceArchive runs the packaging tool in workDir and returns the path
	// of the single archive it produced. Tool failures are returned verbatim.
	ProduceArchive(ctx context.Context, workDir string) (string, error)
}

// ManifestRepository abstracts manifest and project metadata file access.
type ManifestRepository interface {
	// ReadManifest returns the raw manifest bytes.
	ReadManifest(path string) ([]byte, error)

	// WriteManifest overwrites the manifest file with the given content.
	WriteManifest(path string, data []byte) error

	// ReadProjectMetadata returns the raw project metadata found in dir.
	// A missing metadata file is not an error: ok is false and err is nil.
	ReadProjectMetadata(dir string) (data []byte, ok bool, err error)
}

// StageReporter receives pipeline progress, one notification per stage.
type StageReporter interface {
	StageStarted(name string)
	StageCompleted(name string)
	StageSkipped(name, reason string)
	StageFailed(name string, err error)
}

// NopReporter discards all progress notifications.
type NopReporter struct{}

func (NopReporter) StageStarted(string) {}

func (NopReporter) StageCompleted(string) {}

func (NopReporter) StageSkipped(string, string) {}

func (NopReporter) StageFailed(string, error) {}
