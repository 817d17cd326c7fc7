package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarwhisper/radarwhisper/internal/adapter/eventbus"
	metamock "github.com/radarwhisper/radarwhisper/internal/adapter/metadata/mock"
	repofile "github.com/radarwhisper/radarwhisper/internal/adapter/repository/file"
	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/logger"
	"github.com/radarwhisper/radarwhisper/internal/playlistfile"
	"github.com/radarwhisper/radarwhisper/internal/ports"
)

type serviceFixture struct {
	service  *PlaylistService
	metadata *metamock.Provider
	bus      ports.EventBus
	repo     *repofile.PlaylistRepository
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	log := logger.NewTestLogger()
	bus := eventbus.NewSyncBus(log)
	t.Cleanup(func() { bus.Close() })

	repo, err := repofile.NewPlaylistRepository(t.TempDir(), log)
	require.NoError(t, err)

	metadata := metamock.NewProvider()
	return &serviceFixture{
		service:  NewPlaylistService(repo, metadata, bus, log),
		metadata: metadata,
		bus:      bus,
		repo:     repo,
	}
}

// fillPlaylist creates a current playlist with n tracks named t0..t(n-1).
func fillPlaylist(t *testing.T, f *serviceFixture, n int) *domain.Playlist {
	t.Helper()

	playlist := f.service.CreatePlaylist("fixture")
	paths := make([]string, n)
	for i := range n {
		paths[i] = filepath.Join("/music", "t"+string(rune('0'+i))+".mp3")
	}
	require.Equal(t, n, f.service.AddTracks(playlist.ID, paths))
	return playlist
}

func TestCreatePlaylistFirstBecomesCurrent(t *testing.T) {
	f := newFixture(t)

	first := f.service.CreatePlaylist("First")
	second := f.service.CreatePlaylist("Second")

	current, err := f.service.CurrentPlaylist()
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	require.NoError(t, f.service.SetCurrentPlaylist(second.ID))
	current, err = f.service.CurrentPlaylist()
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
}

func TestCurrentPlaylistEmptyLibrary(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CurrentPlaylist()
	assert.ErrorIs(t, err, domain.ErrNoCurrentPlaylist)
}

func TestPlaylistsInCreationOrder(t *testing.T) {
	f := newFixture(t)

	f.service.CreatePlaylist("A")
	f.service.CreatePlaylist("B")
	f.service.CreatePlaylist("C")

	names := []string{}
	for _, p := range f.service.Playlists() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestSetCurrentPlaylistResetsSelection(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 3)
	other := f.service.CreatePlaylist("other")

	require.NoError(t, f.service.SetCurrentTrack(1))

	require.NoError(t, f.service.SetCurrentPlaylist(other.ID))
	_, _, err := f.service.CurrentTrack()
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)

	require.NoError(t, f.service.SetCurrentPlaylist(playlist.ID))
	_, _, err = f.service.CurrentTrack()
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)
}

func TestSetCurrentPlaylistUnknown(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.service.SetCurrentPlaylist("ghost"), domain.ErrPlaylistNotFound)
}

func TestDeleteCurrentPlaylistSelectsOldestRemaining(t *testing.T) {
	f := newFixture(t)

	first := f.service.CreatePlaylist("First")
	second := f.service.CreatePlaylist("Second")
	third := f.service.CreatePlaylist("Third")

	require.NoError(t, f.service.DeletePlaylist(first.ID))
	current, err := f.service.CurrentPlaylist()
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	require.NoError(t, f.service.DeletePlaylist(second.ID))
	require.NoError(t, f.service.DeletePlaylist(third.ID))

	_, err = f.service.CurrentPlaylist()
	assert.ErrorIs(t, err, domain.ErrNoCurrentPlaylist)
}

func TestDeleteNonCurrentPlaylistKeepsSelection(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 2)
	other := f.service.CreatePlaylist("other")

	require.NoError(t, f.service.SetCurrentTrack(1))
	require.NoError(t, f.service.DeletePlaylist(other.ID))

	current, err := f.service.CurrentPlaylist()
	require.NoError(t, err)
	assert.Equal(t, playlist.ID, current.ID)

	_, index, err := f.service.CurrentTrack()
	require.NoError(t, err)
	assert.Equal(t, 1, index)
}

func TestDeletePlaylistRemovesStoredCopy(t *testing.T) {
	f := newFixture(t)

	playlist := f.service.CreatePlaylist("ephemeral")
	require.NoError(t, f.service.SaveLibrary())
	require.True(t, f.repo.Exists(playlist.ID))

	require.NoError(t, f.service.DeletePlaylist(playlist.ID))
	assert.False(t, f.repo.Exists(playlist.ID))

	// A reload must not bring it back.
	require.NoError(t, f.service.LoadLibrary())
	_, err := f.service.GetPlaylist(playlist.ID)
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestAddTracksReadsMetadata(t *testing.T) {
	f := newFixture(t)
	playlist := f.service.CreatePlaylist("tagged")

	f.metadata.Seed("/music/song.mp3", map[string]any{
		domain.MetaTitle:    "Song",
		domain.MetaArtist:   "Band",
		domain.MetaDuration: int64(120000),
	})

	require.NoError(t, f.service.AddTrack(playlist.ID, "/music/song.mp3"))
	require.Equal(t, 1, playlist.Len())

	title, _ := playlist.Tracks[0].StringMeta(domain.MetaTitle)
	assert.Equal(t, "Song", title)
	assert.Equal(t, []string{"/music/song.mp3"}, f.metadata.Calls())
}

func TestAddTracksSkipsFailedFiles(t *testing.T) {
	f := newFixture(t)
	playlist := f.service.CreatePlaylist("partial")

	f.metadata.Fail("/music/bad.mp3", domain.ErrFileNotFound)

	var errorEvents []string
	f.bus.Subscribe(domain.EventError, func(e domain.Event) {
		errorEvents = append(errorEvents, e.(domain.ErrorEvent).Message)
	})

	added := f.service.AddTracks(playlist.ID, []string{
		"/music/good.mp3",
		"/music/bad.mp3",
		"/music/also-good.mp3",
	})

	assert.Equal(t, 2, added)
	assert.Equal(t, 2, playlist.Len())
	require.Len(t, errorEvents, 1)
	assert.Contains(t, errorEvents[0], "/music/bad.mp3")
}

func TestAddTracksAllowsDuplicatePaths(t *testing.T) {
	f := newFixture(t)
	playlist := f.service.CreatePlaylist("dupes")

	added := f.service.AddTracks(playlist.ID, []string{"/music/a.mp3", "/music/a.mp3"})
	assert.Equal(t, 2, added)
	require.Equal(t, 2, playlist.Len())
	assert.NotEqual(t, playlist.Tracks[0].ID, playlist.Tracks[1].ID)
}

func TestRemoveTrackCurrentClearsSelection(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 3)
	require.NoError(t, f.service.SetCurrentTrack(1))

	require.NoError(t, f.service.RemoveTrack(playlist.ID, 1))

	_, _, err := f.service.CurrentTrack()
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)
	assert.Equal(t, 2, playlist.Len())
}

func TestRemoveTrackBeforeCurrentShiftsSelection(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 3)
	require.NoError(t, f.service.SetCurrentTrack(2))
	selected, _, err := f.service.CurrentTrack()
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveTrack(playlist.ID, 0))

	track, index, err := f.service.CurrentTrack()
	require.NoError(t, err)
	assert.Equal(t, 1, index)
	assert.Equal(t, selected.ID, track.ID)
}

func TestRemoveTrackAfterCurrentKeepsSelection(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 3)
	require.NoError(t, f.service.SetCurrentTrack(0))

	require.NoError(t, f.service.RemoveTrack(playlist.ID, 2))

	_, index, err := f.service.CurrentTrack()
	require.NoError(t, err)
	assert.Equal(t, 0, index)
}

func TestRemoveTrackInvalidIndex(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 2)

	assert.ErrorIs(t, f.service.RemoveTrack(playlist.ID, 5), domain.ErrInvalidIndex)
	assert.ErrorIs(t, f.service.RemoveTrack(playlist.ID, -1), domain.ErrInvalidIndex)
}

func TestMoveTrackSelectionFollows(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 4)
	require.NoError(t, f.service.SetCurrentTrack(1))
	selected, _, err := f.service.CurrentTrack()
	require.NoError(t, err)

	require.NoError(t, f.service.MoveTrack(playlist.ID, 1, 3))

	track, index, err := f.service.CurrentTrack()
	require.NoError(t, err)
	assert.Equal(t, 3, index)
	assert.Equal(t, selected.ID, track.ID)
}

func TestMoveTrackAroundSelection(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 4)
	require.NoError(t, f.service.SetCurrentTrack(2))
	selected, _, err := f.service.CurrentTrack()
	require.NoError(t, err)

	// Moving an earlier track past the selection shifts it down.
	require.NoError(t, f.service.MoveTrack(playlist.ID, 0, 3))
	track, index, err := f.service.CurrentTrack()
	require.NoError(t, err)
	assert.Equal(t, 1, index)
	assert.Equal(t, selected.ID, track.ID)

	// Moving a later track before the selection shifts it up.
	require.NoError(t, f.service.MoveTrack(playlist.ID, 3, 0))
	track, index, err = f.service.CurrentTrack()
	require.NoError(t, err)
	assert.Equal(t, 2, index)
	assert.Equal(t, selected.ID, track.ID)
}

func trackIDs(playlist *domain.Playlist) []string {
	ids := make([]string, 0, len(playlist.Tracks))
	for _, track := range playlist.Tracks {
		ids = append(ids, track.ID)
	}
	return ids
}

func TestMoveTrackInverseRestoresOrder(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 5)
	original := trackIDs(playlist)

	for _, pair := range [][2]int{{0, 4}, {3, 1}, {2, 2}} {
		from, to := pair[0], pair[1]
		require.NoError(t, f.service.MoveTrack(playlist.ID, from, to))
		require.NoError(t, f.service.MoveTrack(playlist.ID, to, from))
		assert.Equal(t, original, trackIDs(playlist))
	}
}

func TestClearPlaylistResetsSelection(t *testing.T) {
	f := newFixture(t)
	playlist := fillPlaylist(t, f, 3)
	require.NoError(t, f.service.SetCurrentTrack(1))

	require.NoError(t, f.service.ClearPlaylist(playlist.ID))

	assert.Equal(t, 0, playlist.Len())
	_, _, err := f.service.CurrentTrack()
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)
}

func TestRenameAndDescribe(t *testing.T) {
	f := newFixture(t)
	playlist := f.service.CreatePlaylist("Old Name")

	require.NoError(t, f.service.RenamePlaylist(playlist.ID, "New Name"))
	require.NoError(t, f.service.SetDescription(playlist.ID, "for long drives"))

	got, err := f.service.GetPlaylist(playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "for long drives", got.Description)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	playlist := f.service.CreatePlaylist("numbers")
	f.metadata.Seed("/music/a.mp3", map[string]any{
		domain.MetaTitle:    "A",
		domain.MetaDuration: int64(61000),
	})
	require.NoError(t, f.service.AddTrack(playlist.ID, "/music/a.mp3"))

	stats, err := f.service.Stats(playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TrackCount)
	assert.Equal(t, "1:01", stats.DurationText)
}

func TestSetCurrentTrackBounds(t *testing.T) {
	f := newFixture(t)
	fillPlaylist(t, f, 2)

	assert.ErrorIs(t, f.service.SetCurrentTrack(-1), domain.ErrInvalidIndex)
	assert.ErrorIs(t, f.service.SetCurrentTrack(2), domain.ErrInvalidIndex)
	require.NoError(t, f.service.SetCurrentTrack(1))
}

func TestCurrentTrackChangeEvents(t *testing.T) {
	f := newFixture(t)
	fillPlaylist(t, f, 3)

	var indices []int
	f.bus.Subscribe(domain.EventCurrentTrackChanged, func(e domain.Event) {
		indices = append(indices, e.(domain.CurrentTrackChangedEvent).Index)
	})

	require.NoError(t, f.service.SetCurrentTrack(2))
	assert.Equal(t, []int{2}, indices)
}

func TestSaveAndLoadPlaylistFile(t *testing.T) {
	f := newFixture(t)
	playlist := f.service.CreatePlaylist("export me")
	f.metadata.Seed("/music/a.mp3", map[string]any{
		domain.MetaTitle:    "A",
		domain.MetaArtist:   "Artist",
		domain.MetaDuration: int64(90000),
	})
	require.NoError(t, f.service.AddTrack(playlist.ID, "/music/a.mp3"))

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, f.service.SavePlaylist(playlist.ID, path, playlistfile.FormatNative))

	loaded, err := f.service.LoadPlaylist(path)
	require.NoError(t, err)
	assert.Equal(t, playlist.ID, loaded.ID)
	assert.Equal(t, 1, loaded.Len())
	assert.Len(t, f.service.Playlists(), 2)
}

func TestLoadPlaylistUnknownExtension(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.LoadPlaylist("listing.txt")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestSavePlaylistUnknownID(t *testing.T) {
	f := newFixture(t)

	err := f.service.SavePlaylist("ghost", "out.json", playlistfile.FormatNative)
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestLibraryRoundTrip(t *testing.T) {
	f := newFixture(t)

	first := f.service.CreatePlaylist("First")
	f.service.CreatePlaylist("Second")
	f.metadata.Seed("/music/a.mp3", map[string]any{domain.MetaTitle: "A"})
	require.NoError(t, f.service.AddTrack(first.ID, "/music/a.mp3"))

	require.NoError(t, f.service.SaveLibrary())

	// A fresh service sharing the repository sees the same library.
	restored := NewPlaylistService(f.repo, f.metadata, f.bus, logger.NewTestLogger())
	require.NoError(t, restored.LoadLibrary())

	playlists := restored.Playlists()
	require.Len(t, playlists, 2)
	assert.Equal(t, "First", playlists[0].Name)
	assert.Equal(t, 1, playlists[0].Len())

	current, err := restored.CurrentPlaylist()
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
}

func TestAddTrackMetadataFailure(t *testing.T) {
	f := newFixture(t)
	playlist := f.service.CreatePlaylist("strict")
	f.metadata.Fail("/music/bad.mp3", domain.ErrFileNotFound)

	err := f.service.AddTrack(playlist.ID, "/music/bad.mp3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))
	assert.Equal(t, 0, playlist.Len())
}
