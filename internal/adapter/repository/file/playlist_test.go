package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/logger"
)

func newRepo(t *testing.T) *PlaylistRepository {
	t.Helper()
	repo, err := NewPlaylistRepository(t.TempDir(), logger.NewTestLogger())
	require.NoError(t, err)
	return repo
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := newRepo(t)

	playlist := domain.NewPlaylist("Morning")
	playlist.AddTrack(domain.NewTrack("/music/a.mp3", map[string]any{
		domain.MetaTitle: "Alpha",
	}))
	require.NoError(t, repo.Save(playlist))

	loaded, err := repo.Load(playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, playlist.ID, loaded.ID)
	assert.Equal(t, "Morning", loaded.Name)
	require.Equal(t, 1, loaded.Len())
	assert.Equal(t, "/music/a.mp3", loaded.Tracks[0].FilePath)
}

func TestLoadMissing(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Load("nope")
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestLoadAllPreservesSaveOrder(t *testing.T) {
	repo := newRepo(t)

	first := domain.NewPlaylist("First")
	second := domain.NewPlaylist("Second")
	third := domain.NewPlaylist("Third")
	for _, p := range []*domain.Playlist{first, second, third} {
		require.NoError(t, repo.Save(p))
	}

	playlists, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, playlists, 3)
	assert.Equal(t, "First", playlists[0].Name)
	assert.Equal(t, "Second", playlists[1].Name)
	assert.Equal(t, "Third", playlists[2].Name)
}

func TestLoadAllSkipsCorruptEntries(t *testing.T) {
	repo := newRepo(t)

	good := domain.NewPlaylist("Good")
	require.NoError(t, repo.Save(good))

	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), "broken.json"), []byte("{not json"), 0o644))

	playlists, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Good", playlists[0].Name)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)

	playlist := domain.NewPlaylist("Doomed")
	require.NoError(t, repo.Save(playlist))
	assert.True(t, repo.Exists(playlist.ID))

	require.NoError(t, repo.Delete(playlist.ID))
	assert.False(t, repo.Exists(playlist.ID))

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(playlist.ID))

	playlists, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, playlists)
}

func TestSaveIsIdempotentInOrderIndex(t *testing.T) {
	repo := newRepo(t)

	playlist := domain.NewPlaylist("Repeat")
	require.NoError(t, repo.Save(playlist))
	playlist.Name = "Repeat Renamed"
	require.NoError(t, repo.Save(playlist))

	playlists, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Repeat Renamed", playlists[0].Name)
}
