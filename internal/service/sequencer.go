package service

import (
	"math/rand"

	"github.com/radarwhisper/radarwhisper/internal/domain"
)

// Sequencing rules, applied by NextTrack and PreviousTrack:
//
//   - Sequential playback walks the playlist in order. At either end the
//     repeat mode decides: RepeatPlaylist wraps around, RepeatTrack stays on
//     the current track, NoRepeat stops.
//   - Shuffle mode walks a random permutation of the track indices instead.
//     The permutation is regenerated lazily whenever it is missing, and
//     RepeatPlaylist reshuffles at the end rather than replaying the same
//     order.
//   - Any change to the current playlist's track list invalidates the
//     permutation, since its entries would no longer be a bijection over
//     the indices.

// NextTrack advances the selection and returns the new current track.
// Returns domain.ErrEndOfPlaylist when playback has nowhere to go.
func (s *PlaylistService) NextTrack() (domain.Track, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, err := s.currentPlaylistLocked()
	if err != nil {
		return domain.Track{}, -1, err
	}
	if playlist.Len() == 0 {
		return domain.Track{}, -1, domain.ErrPlaylistEmpty
	}

	var next int
	if s.shuffleMode {
		next = s.nextShuffleIndexLocked()
	} else {
		next = s.currentIndex + 1
		if next >= playlist.Len() {
			switch s.repeatMode {
			case domain.RepeatPlaylist:
				next = 0
			case domain.RepeatTrack:
				next = s.currentIndex
			default:
				return domain.Track{}, -1, domain.ErrEndOfPlaylist
			}
		}
	}

	if next < 0 || next >= playlist.Len() {
		return domain.Track{}, -1, domain.ErrEndOfPlaylist
	}

	s.currentIndex = next
	s.bus.Publish(domain.NewCurrentTrackChangedEvent(next))
	return playlist.Tracks[next], next, nil
}

// PreviousTrack moves the selection back and returns the new current track.
// Returns domain.ErrStartOfPlaylist when there is nothing before the current
// track.
func (s *PlaylistService) PreviousTrack() (domain.Track, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, err := s.currentPlaylistLocked()
	if err != nil {
		return domain.Track{}, -1, err
	}
	if playlist.Len() == 0 {
		return domain.Track{}, -1, domain.ErrPlaylistEmpty
	}

	var prev int
	if s.shuffleMode {
		// Walk the shuffle order backwards. At its start, RepeatPlaylist
		// wraps to the end; the other modes stay on the current track.
		switch {
		case s.shuffleCursor > 0:
			s.shuffleCursor--
			prev = s.shuffleOrder[s.shuffleCursor]
		case s.repeatMode == domain.RepeatPlaylist && len(s.shuffleOrder) > 0:
			s.shuffleCursor = len(s.shuffleOrder) - 1
			prev = s.shuffleOrder[s.shuffleCursor]
		default:
			prev = s.currentIndex
		}
	} else {
		prev = s.currentIndex - 1
		if prev < 0 {
			switch s.repeatMode {
			case domain.RepeatPlaylist:
				prev = playlist.Len() - 1
			case domain.RepeatTrack:
				prev = s.currentIndex
			default:
				return domain.Track{}, -1, domain.ErrStartOfPlaylist
			}
		}
	}

	if prev < 0 || prev >= playlist.Len() {
		return domain.Track{}, -1, domain.ErrStartOfPlaylist
	}

	s.currentIndex = prev
	s.bus.Publish(domain.NewCurrentTrackChangedEvent(prev))
	return playlist.Tracks[prev], prev, nil
}

// SetShuffle enables or disables shuffle mode. Enabling generates a fresh
// permutation; disabling drops it but keeps the current track.
func (s *PlaylistService) SetShuffle(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shuffleMode == enabled {
		return
	}
	s.shuffleMode = enabled

	if enabled {
		s.generateShuffleOrderLocked()
	} else {
		s.resetShuffleLocked()
	}

	s.bus.Publish(domain.NewShuffleToggledEvent(enabled))
}

// ShuffleEnabled reports whether shuffle mode is on.
func (s *PlaylistService) ShuffleEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuffleMode
}

// SetRepeatMode sets the repeat behavior.
func (s *PlaylistService) SetRepeatMode(mode domain.RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repeatMode == mode {
		return
	}
	s.repeatMode = mode
	s.bus.Publish(domain.NewRepeatModeChangedEvent(mode))
}

// RepeatMode returns the current repeat behavior.
func (s *PlaylistService) RepeatMode() domain.RepeatMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repeatMode
}

// generateShuffleOrderLocked builds a new random permutation of the current
// playlist's indices. A selected track is pinned to the front with the
// cursor on it; otherwise the cursor starts before the first entry. Must be
// called with the lock held.
func (s *PlaylistService) generateShuffleOrderLocked() {
	playlist, err := s.currentPlaylistLocked()
	if err != nil || playlist.Len() == 0 {
		s.resetShuffleLocked()
		return
	}

	n := playlist.Len()
	if s.currentIndex >= 0 && s.currentIndex < n {
		rest := make([]int, 0, n-1)
		for i := range n {
			if i != s.currentIndex {
				rest = append(rest, i)
			}
		}
		rand.Shuffle(len(rest), func(i, j int) {
			rest[i], rest[j] = rest[j], rest[i]
		})
		s.shuffleOrder = append([]int{s.currentIndex}, rest...)
		s.shuffleCursor = 0
		return
	}

	s.shuffleOrder = rand.Perm(n)
	s.shuffleCursor = -1
}

// nextShuffleIndexLocked advances the shuffle cursor and returns the track
// index it lands on, or -1 when playback should stop. Must be called with
// the lock held.
func (s *PlaylistService) nextShuffleIndexLocked() int {
	if len(s.shuffleOrder) == 0 {
		s.generateShuffleOrderLocked()
		if len(s.shuffleOrder) == 0 {
			return -1
		}
	}

	if s.shuffleCursor < 0 {
		s.shuffleCursor = 0
		return s.shuffleOrder[0]
	}

	s.shuffleCursor++
	if s.shuffleCursor >= len(s.shuffleOrder) {
		switch s.repeatMode {
		case domain.RepeatPlaylist:
			// Reshuffle so the next pass is in a fresh order.
			s.generateShuffleOrderLocked()
			s.shuffleCursor = 0
			return s.shuffleOrder[0]
		case domain.RepeatTrack:
			s.shuffleCursor--
			return s.shuffleOrder[s.shuffleCursor]
		default:
			s.shuffleCursor = len(s.shuffleOrder) - 1
			return -1
		}
	}

	return s.shuffleOrder[s.shuffleCursor]
}

// resetShuffleLocked drops the permutation. It is regenerated on the next
// shuffle-mode advance. Must be called with the lock held.
func (s *PlaylistService) resetShuffleLocked() {
	s.shuffleOrder = nil
	s.shuffleCursor = -1
}

// trackListChangedLocked reacts to a mutation of a playlist's track list.
// When the mutated playlist is current, the shuffle permutation no longer
// covers the right indices and is dropped. Must be called with the lock
// held.
func (s *PlaylistService) trackListChangedLocked(playlistID string) {
	if playlistID == s.currentID {
		s.resetShuffleLocked()
	}
}
