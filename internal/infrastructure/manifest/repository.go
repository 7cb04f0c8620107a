package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Conventional file names resolved relative to the project directory.
const (
	DefaultManifestFile = "plugin.json"
	MetadataFile        = "package.json"
)

// FileRepository reads and writes manifest and project metadata files on the
// local filesystem.
type FileRepository struct {
	metadataFile string
}

// NewFileRepository creates a repository using the conventional metadata
// file name.
func NewFileRepository() *FileRepository {
	return &FileRepository{metadataFile: MetadataFile}
}

// ReadManifest returns the raw manifest bytes.
func (r *FileRepository) ReadManifest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return data, nil
}

// WriteManifest overwrites the manifest file in place.
func (r *FileRepository) WriteManifest(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// ReadProjectMetadata returns the project metadata file found in dir. A
// missing file is reported as absent, not as an error.
func (r *FileRepository) ReadProjectMetadata(dir string) ([]byte, bool, error) {
	path := filepath.Join(dir, r.metadataFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read project metadata %s: %w", path, err)
	}
	return data, true, nil
}
