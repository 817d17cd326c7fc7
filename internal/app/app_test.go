package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarwhisper/radarwhisper/internal/config"
	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Audio.Mock = true
	cfg.Library.PlaylistDir = t.TempDir()
	return cfg
}

func TestNew(t *testing.T) {
	t.Cleanup(func() { testutil.VerifyNoLeaks(t) })

	application, err := New(testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, application)

	assert.NotNil(t, application.Logger())
	assert.NotNil(t, application.Bus())
	assert.NotNil(t, application.Playlists())
	assert.NotNil(t, application.Player())

	assert.NoError(t, application.Shutdown())
}

func TestConfiguredPlaybackState(t *testing.T) {
	t.Cleanup(func() { testutil.VerifyNoLeaks(t) })

	cfg := testConfig(t)
	cfg.Playback.Shuffle = true
	cfg.Playback.RepeatMode = "playlist"
	cfg.Playback.Volume = 0.5

	application, err := New(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, application.Shutdown()) }()

	assert.True(t, application.Playlists().ShuffleEnabled())
	assert.Equal(t, domain.RepeatPlaylist, application.Playlists().RepeatMode())
	assert.InDelta(t, 0.5, application.Player().Volume(), 1e-9)
}

func TestLibrarySurvivesRestart(t *testing.T) {
	t.Cleanup(func() { testutil.VerifyNoLeaks(t) })

	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	playlist := first.Playlists().CreatePlaylist("Morning")
	require.NoError(t, first.Shutdown())

	second, err := New(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, second.Shutdown()) }()

	restored, err := second.Playlists().GetPlaylist(playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning", restored.Name)
}

func TestDeletedPlaylistStaysDeletedAfterRestart(t *testing.T) {
	t.Cleanup(func() { testutil.VerifyNoLeaks(t) })

	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	keep := first.Playlists().CreatePlaylist("Keep")
	drop := first.Playlists().CreatePlaylist("Drop")
	require.NoError(t, first.Playlists().SaveLibrary())
	require.NoError(t, first.Playlists().DeletePlaylist(drop.ID))
	require.NoError(t, first.Shutdown())

	second, err := New(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, second.Shutdown()) }()

	_, err = second.Playlists().GetPlaylist(drop.ID)
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
	_, err = second.Playlists().GetPlaylist(keep.ID)
	assert.NoError(t, err)
}
