package tagreader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/logger"
)

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("/music/song.mp3"))
	assert.True(t, IsSupported("/music/SONG.FLAC"))
	assert.True(t, IsSupported("song.ogg"))
	assert.True(t, IsSupported("song.m4a"))
	assert.False(t, IsSupported("notes.txt"))
	assert.False(t, IsSupported("archive.zip"))
	assert.False(t, IsSupported("noextension"))
}

func TestGetMetadataMissingFile(t *testing.T) {
	provider := NewProvider(logger.NewTestLogger())

	_, err := provider.GetMetadata(filepath.Join(t.TempDir(), "ghost.mp3"))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestGetMetadataUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	provider := NewProvider(logger.NewTestLogger())

	_, err := provider.GetMetadata(path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestGetMetadataFallsBackToFileName(t *testing.T) {
	// A file with a supported extension but no readable tags still
	// yields usable metadata.
	dir := t.TempDir()
	path := filepath.Join(dir, "untagged.mp3")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	provider := NewProvider(logger.NewTestLogger())

	metadata, err := provider.GetMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "untagged.mp3", metadata[domain.MetaTitle])
	assert.NotContains(t, metadata, domain.MetaArtist)
	assert.NotContains(t, metadata, domain.MetaDuration)
}
