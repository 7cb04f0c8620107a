package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository_ReadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultManifestFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"id": "foo"}`), 0o644))

	repo := NewFileRepository()
	data, err := repo.ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, `{"id": "foo"}`, string(data))
}

func TestFileRepository_ReadManifest_Missing(t *testing.T) {
	repo := NewFileRepository()
	_, err := repo.ReadManifest(filepath.Join(t.TempDir(), DefaultManifestFile))
	assert.Error(t, err)
}

func TestFileRepository_WriteManifest_OverwritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultManifestFile)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	repo := NewFileRepository()
	require.NoError(t, repo.WriteManifest(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileRepository_ReadProjectMetadata(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository()

	_, ok, err := repo.ReadProjectMetadata(dir)
	require.NoError(t, err, "a missing metadata file is not an error")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(`{"name": "foo"}`), 0o644))

	data, ok, err := repo.ReadProjectMetadata(dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"name": "foo"}`, string(data))
}
