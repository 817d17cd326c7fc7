// Package service provides the business logic of the playlist engine.
package service

import (
	"log/slog"
	"sync"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/playlistfile"
	"github.com/radarwhisper/radarwhisper/internal/ports"
)

// PlaylistService owns the playlist library, the current playlist and track
// selection, and the shuffle and repeat sequencing state. Navigation
// (NextTrack, PreviousTrack) lives in sequencer.go.
//
// All operations are thread-safe via sync.RWMutex.
type PlaylistService struct {
	// Dependencies (injected)
	repository ports.PlaylistRepository
	metadata   ports.MetadataProvider
	bus        ports.EventBus
	logger     *slog.Logger

	// Library state
	playlists map[string]*domain.Playlist
	order     []string // playlist IDs in insertion order
	currentID string

	// Sequencing state
	currentIndex  int
	shuffleMode   bool
	repeatMode    domain.RepeatMode
	shuffleOrder  []int
	shuffleCursor int

	mu sync.RWMutex
}

// NewPlaylistService creates a playlist service with an empty library.
func NewPlaylistService(
	repository ports.PlaylistRepository,
	metadata ports.MetadataProvider,
	bus ports.EventBus,
	logger *slog.Logger,
) *PlaylistService {
	return &PlaylistService{
		repository:    repository,
		metadata:      metadata,
		bus:           bus,
		logger:        logger,
		playlists:     make(map[string]*domain.Playlist),
		currentIndex:  -1,
		shuffleCursor: -1,
	}
}

// CreatePlaylist creates a new empty playlist. The first playlist created
// becomes the current one.
func (s *PlaylistService) CreatePlaylist(name string) *domain.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist := domain.NewPlaylist(name)
	s.registerLocked(playlist)

	s.bus.Publish(domain.NewPlaylistChangedEvent(playlist.ID))
	return playlist
}

// registerLocked adds a playlist to the library, making it current when the
// library was empty. Must be called with the lock held.
func (s *PlaylistService) registerLocked(playlist *domain.Playlist) {
	s.playlists[playlist.ID] = playlist
	s.order = append(s.order, playlist.ID)
	if len(s.playlists) == 1 {
		s.currentID = playlist.ID
	}
}

// GetPlaylist returns the playlist with the given ID.
func (s *PlaylistService) GetPlaylist(id string) (*domain.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return nil, domain.ErrPlaylistNotFound
	}
	return playlist, nil
}

// Playlists returns all playlists in creation order.
func (s *PlaylistService) Playlists() []*domain.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlists := make([]*domain.Playlist, 0, len(s.order))
	for _, id := range s.order {
		playlists = append(playlists, s.playlists[id])
	}
	return playlists
}

// CurrentPlaylist returns the current playlist.
func (s *PlaylistService) CurrentPlaylist() (*domain.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.currentPlaylistLocked()
}

func (s *PlaylistService) currentPlaylistLocked() (*domain.Playlist, error) {
	if s.currentID == "" {
		return nil, domain.ErrNoCurrentPlaylist
	}
	playlist, ok := s.playlists[s.currentID]
	if !ok {
		return nil, domain.ErrNoCurrentPlaylist
	}
	return playlist, nil
}

// SetCurrentPlaylist makes the playlist with the given ID current. The track
// selection and shuffle order are reset.
func (s *PlaylistService) SetCurrentPlaylist(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[id]; !ok {
		return domain.ErrPlaylistNotFound
	}

	s.currentID = id
	s.currentIndex = -1
	s.resetShuffleLocked()

	s.bus.Publish(domain.NewPlaylistChangedEvent(id))
	return nil
}

// DeletePlaylist removes a playlist from the library. When the current
// playlist is deleted, the oldest remaining playlist becomes current.
func (s *PlaylistService) DeletePlaylist(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[id]; !ok {
		return domain.ErrPlaylistNotFound
	}

	delete(s.playlists, id)
	kept := s.order[:0]
	for _, existing := range s.order {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	s.order = kept

	if id == s.currentID {
		if len(s.order) > 0 {
			s.currentID = s.order[0]
		} else {
			s.currentID = ""
		}
		s.currentIndex = -1
		s.resetShuffleLocked()
	}

	// Drop the stored copy too, or LoadLibrary would resurrect it.
	if err := s.repository.Delete(id); err != nil {
		s.logger.Warn("failed to delete stored playlist", slog.String("id", id), slog.Any("error", err))
		s.bus.Publish(domain.NewErrorEvent("error deleting playlist: " + err.Error()))
	}

	s.bus.Publish(domain.NewPlaylistChangedEvent(id))
	return nil
}

// AddTrack reads the file's metadata and appends it to the playlist.
func (s *PlaylistService) AddTrack(playlistID, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[playlistID]
	if !ok {
		return domain.ErrPlaylistNotFound
	}

	metadata, err := s.metadata.GetMetadata(path)
	if err != nil {
		s.bus.Publish(domain.NewErrorEvent("error adding track " + path + ": " + err.Error()))
		return domain.NewServiceError("PlaylistService", "AddTrack", "failed to read metadata", err)
	}

	playlist.AddTrack(domain.NewTrack(path, metadata))
	s.trackListChangedLocked(playlistID)

	s.bus.Publish(domain.NewPlaylistChangedEvent(playlistID))
	return nil
}

// AddTracks appends multiple files to the playlist, reading metadata for
// each. Files whose metadata cannot be read are reported as error events and
// skipped; the rest of the batch still goes in. Returns the number of tracks
// added.
func (s *PlaylistService) AddTracks(playlistID string, paths []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[playlistID]
	if !ok {
		return 0
	}

	added := 0
	for _, path := range paths {
		metadata, err := s.metadata.GetMetadata(path)
		if err != nil {
			s.logger.Warn("skipping track", slog.String("path", path), slog.Any("error", err))
			s.bus.Publish(domain.NewErrorEvent("error adding track " + path + ": " + err.Error()))
			continue
		}
		playlist.AddTrack(domain.NewTrack(path, metadata))
		added++
	}

	if added > 0 {
		s.trackListChangedLocked(playlistID)
		s.bus.Publish(domain.NewPlaylistChangedEvent(playlistID))
	}
	return added
}

// RemoveTrack removes the track at index from the playlist. Removing the
// current track clears the selection; removing an earlier track shifts the
// selection down by one.
func (s *PlaylistService) RemoveTrack(playlistID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[playlistID]
	if !ok {
		return domain.ErrPlaylistNotFound
	}

	if _, ok := playlist.RemoveTrack(index); !ok {
		return domain.ErrInvalidIndex
	}

	if playlistID == s.currentID {
		switch {
		case index == s.currentIndex:
			s.currentIndex = -1
			s.bus.Publish(domain.NewCurrentTrackChangedEvent(-1))
		case index < s.currentIndex:
			s.currentIndex--
			s.bus.Publish(domain.NewCurrentTrackChangedEvent(s.currentIndex))
		}
	}
	s.trackListChangedLocked(playlistID)

	s.bus.Publish(domain.NewPlaylistChangedEvent(playlistID))
	return nil
}

// MoveTrack moves a track within the playlist. The current selection follows
// the track it pointed at.
func (s *PlaylistService) MoveTrack(playlistID string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[playlistID]
	if !ok {
		return domain.ErrPlaylistNotFound
	}

	if !playlist.MoveTrack(from, to) {
		return domain.ErrInvalidIndex
	}

	if playlistID == s.currentID && s.currentIndex >= 0 {
		switch {
		case s.currentIndex == from:
			s.currentIndex = to
		case from < s.currentIndex && to >= s.currentIndex:
			s.currentIndex--
		case from > s.currentIndex && to <= s.currentIndex:
			s.currentIndex++
		}
		s.bus.Publish(domain.NewCurrentTrackChangedEvent(s.currentIndex))
	}
	s.trackListChangedLocked(playlistID)

	s.bus.Publish(domain.NewPlaylistChangedEvent(playlistID))
	return nil
}

// ClearPlaylist removes every track from the playlist.
func (s *PlaylistService) ClearPlaylist(playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[playlistID]
	if !ok {
		return domain.ErrPlaylistNotFound
	}

	playlist.Clear()
	if playlistID == s.currentID {
		s.currentIndex = -1
		s.bus.Publish(domain.NewCurrentTrackChangedEvent(-1))
	}
	s.trackListChangedLocked(playlistID)

	s.bus.Publish(domain.NewPlaylistChangedEvent(playlistID))
	return nil
}

// RenamePlaylist changes the playlist's display name.
func (s *PlaylistService) RenamePlaylist(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return domain.ErrPlaylistNotFound
	}

	playlist.Rename(name)
	s.bus.Publish(domain.NewPlaylistChangedEvent(id))
	return nil
}

// SetDescription changes the playlist's description.
func (s *PlaylistService) SetDescription(id, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return domain.ErrPlaylistNotFound
	}

	playlist.SetDescription(description)
	s.bus.Publish(domain.NewPlaylistChangedEvent(id))
	return nil
}

// Stats returns the playlist's summary statistics.
func (s *PlaylistService) Stats(id string) (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return domain.Stats{}, domain.ErrPlaylistNotFound
	}
	return playlist.Stats(), nil
}

// CurrentTrack returns the selected track of the current playlist and its
// index.
func (s *PlaylistService) CurrentTrack() (domain.Track, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlist, err := s.currentPlaylistLocked()
	if err != nil {
		return domain.Track{}, -1, err
	}
	if s.currentIndex < 0 || s.currentIndex >= playlist.Len() {
		return domain.Track{}, -1, domain.ErrTrackNotFound
	}
	return playlist.Tracks[s.currentIndex], s.currentIndex, nil
}

// SetCurrentTrack selects the track at index in the current playlist. When a
// shuffle order is active the cursor is repositioned to the track's slot in
// it, so navigation continues from there.
func (s *PlaylistService) SetCurrentTrack(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, err := s.currentPlaylistLocked()
	if err != nil {
		return err
	}
	if index < 0 || index >= playlist.Len() {
		return domain.ErrInvalidIndex
	}

	s.currentIndex = index
	s.shuffleCursor = -1
	for i, candidate := range s.shuffleOrder {
		if candidate == index {
			s.shuffleCursor = i
			break
		}
	}

	s.bus.Publish(domain.NewCurrentTrackChangedEvent(index))
	return nil
}

// SavePlaylist writes the playlist to a file in the given format.
func (s *PlaylistService) SavePlaylist(id, path string, format playlistfile.Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return domain.ErrPlaylistNotFound
	}

	if err := playlistfile.Save(playlist, path, format); err != nil {
		s.bus.Publish(domain.NewErrorEvent("error saving playlist: " + err.Error()))
		return err
	}

	s.bus.Publish(domain.NewPlaylistSavedEvent(id, path))
	return nil
}

// LoadPlaylist parses a playlist file, detecting the format from its
// extension, and adds it to the library. When the library had no current
// playlist the loaded one becomes current.
func (s *PlaylistService) LoadPlaylist(path string) (*domain.Playlist, error) {
	format, err := playlistfile.DetectFormat(path)
	if err != nil {
		s.bus.Publish(domain.NewErrorEvent("error loading playlist: " + err.Error()))
		return nil, err
	}
	return s.LoadPlaylistAs(path, format)
}

// LoadPlaylistAs parses a playlist file in an explicit format and adds it to
// the library.
func (s *PlaylistService) LoadPlaylistAs(path string, format playlistfile.Format) (*domain.Playlist, error) {
	playlist, err := playlistfile.Load(path, format, func(message string) {
		s.bus.Publish(domain.NewErrorEvent(message))
	})
	if err != nil {
		s.bus.Publish(domain.NewErrorEvent("error loading playlist: " + err.Error()))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.playlists[playlist.ID]; exists {
		// Reloading a file that carries a known ID replaces the entry
		// in place.
		s.playlists[playlist.ID] = playlist
	} else {
		s.registerLocked(playlist)
	}

	s.bus.Publish(domain.NewPlaylistLoadedEvent(playlist.ID, path))
	return playlist, nil
}

// ExportPlaylist writes a playlist to an interchange format file.
func (s *PlaylistService) ExportPlaylist(id, path string, format playlistfile.Format) error {
	return s.SavePlaylist(id, path, format)
}

// ImportPlaylist loads a playlist file into the library, detecting the
// format from its extension.
func (s *PlaylistService) ImportPlaylist(path string) (*domain.Playlist, error) {
	return s.LoadPlaylist(path)
}

// SaveLibrary persists every playlist to the repository.
func (s *PlaylistService) SaveLibrary() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if err := s.repository.Save(s.playlists[id]); err != nil {
			return domain.NewServiceError("PlaylistService", "SaveLibrary", "failed to save playlist "+id, err)
		}
	}
	return nil
}

// LoadLibrary restores the playlist library from the repository, replacing
// the in-memory library. The oldest stored playlist becomes current.
func (s *PlaylistService) LoadLibrary() error {
	playlists, err := s.repository.LoadAll()
	if err != nil {
		return domain.NewServiceError("PlaylistService", "LoadLibrary", "failed to load playlists", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.playlists = make(map[string]*domain.Playlist, len(playlists))
	s.order = s.order[:0]
	s.currentID = ""
	s.currentIndex = -1
	s.resetShuffleLocked()

	for _, playlist := range playlists {
		s.registerLocked(playlist)
	}

	s.logger.Info("playlist library loaded", slog.Int("count", len(playlists)))
	return nil
}
