package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/ports"
)

// PlayerService drives the audio engine from the playlist selection. It owns
// volume and mute state, publishes periodic progress events, and advances to
// the next track when the engine reports the current one finished.
//
// All operations are thread-safe via sync.RWMutex.
type PlayerService struct {
	// Dependencies (injected)
	logger    *slog.Logger
	engine    ports.AudioEngine
	playlists *PlaylistService
	bus       ports.EventBus

	// State
	current        *domain.Track
	volume         float64
	muted          bool
	updateInterval time.Duration

	// Concurrency control
	mu           sync.RWMutex
	stopUpdate   chan struct{}
	updateWg     sync.WaitGroup
	finishSub    domain.SubscriptionID
	shutdownOnce sync.Once
}

// NewPlayerService creates a player service and starts its progress routine.
func NewPlayerService(
	logger *slog.Logger,
	engine ports.AudioEngine,
	playlists *PlaylistService,
	bus ports.EventBus,
) *PlayerService {
	service := &PlayerService{
		logger:         logger,
		engine:         engine,
		playlists:      playlists,
		bus:            bus,
		volume:         0.8,
		updateInterval: 333 * time.Millisecond,
		stopUpdate:     make(chan struct{}),
	}

	service.finishSub = bus.Subscribe(domain.EventTrackFinished, service.handleTrackFinished)
	service.startUpdateRoutine()

	return service
}

// PlayTrackAt selects the track at index in the current playlist and plays
// it.
func (s *PlayerService) PlayTrackAt(index int) error {
	if err := s.playlists.SetCurrentTrack(index); err != nil {
		return err
	}
	return s.PlayCurrent()
}

// PlayCurrent loads the current playlist selection into the engine and
// starts playback.
func (s *PlayerService) PlayCurrent() error {
	track, _, err := s.playlists.CurrentTrack()
	if err != nil {
		return err
	}
	return s.playTrack(track)
}

func (s *PlayerService) playTrack(track domain.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Load(track.FilePath); err != nil {
		s.bus.Publish(domain.NewErrorEvent("failed to load " + track.FilePath + ": " + err.Error()))
		return err
	}
	if err := s.applyVolumeLocked(); err != nil {
		return err
	}
	if err := s.engine.Play(); err != nil {
		return err
	}

	s.current = &track
	s.bus.Publish(domain.NewTrackStartedEvent(track))
	return nil
}

// Play resumes the loaded track, or starts the playlist selection when
// nothing is loaded yet.
func (s *PlayerService) Play() error {
	s.mu.Lock()
	if s.current != nil {
		defer s.mu.Unlock()
		if err := s.engine.Play(); err != nil {
			return err
		}
		s.bus.Publish(domain.NewTrackStartedEvent(*s.current))
		return nil
	}
	s.mu.Unlock()

	return s.PlayCurrent()
}

// Pause pauses playback.
func (s *PlayerService) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.ErrNoTrackLoaded
	}

	position := s.engine.Position()
	if err := s.engine.Pause(); err != nil {
		return err
	}

	s.bus.Publish(domain.NewTrackPausedEvent(*s.current, position))
	return nil
}

// TogglePause switches between playing and paused. It does nothing when the
// engine is stopped.
func (s *PlayerService) TogglePause() error {
	switch s.engine.Status() {
	case domain.StatusPlaying:
		return s.Pause()
	case domain.StatusPaused:
		return s.Play()
	default:
		return nil
	}
}

// Stop halts playback and clears the loaded track.
func (s *PlayerService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

func (s *PlayerService) stopLocked() error {
	if s.current == nil {
		return nil
	}

	track := *s.current
	s.current = nil
	if err := s.engine.Stop(); err != nil {
		return err
	}

	s.bus.Publish(domain.NewTrackStoppedEvent(track))
	return nil
}

// Next advances the playlist selection and plays the new track. At the end
// of the playlist playback stops.
func (s *PlayerService) Next() error {
	track, _, err := s.playlists.NextTrack()
	if err != nil {
		if errors.Is(err, domain.ErrEndOfPlaylist) {
			return s.Stop()
		}
		return err
	}
	return s.playTrack(track)
}

// Previous moves the playlist selection back and plays the new track.
func (s *PlayerService) Previous() error {
	track, _, err := s.playlists.PreviousTrack()
	if err != nil {
		if errors.Is(err, domain.ErrStartOfPlaylist) {
			return nil
		}
		return err
	}
	return s.playTrack(track)
}

// Seek moves the playback position of the loaded track.
func (s *PlayerService) Seek(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.ErrNoTrackLoaded
	}
	if err := s.engine.Seek(position); err != nil {
		return err
	}

	s.bus.Publish(domain.NewTrackProgressEvent(position, s.engine.Duration()))
	return nil
}

// SetVolume sets the playback volume (0.0 to 1.0). While muted the level is
// stored but not applied.
func (s *PlayerService) SetVolume(volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if volume < 0.0 || volume > 1.0 {
		return domain.ErrInvalidVolume
	}

	s.volume = volume
	if err := s.applyVolumeLocked(); err != nil {
		return err
	}

	s.bus.Publish(domain.NewVolumeChangedEvent(volume))
	return nil
}

// Volume returns the configured volume level, regardless of mute state.
func (s *PlayerService) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// Mute silences or restores output without losing the volume level.
func (s *PlayerService) Mute(mute bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.muted == mute {
		return nil
	}

	s.muted = mute
	if err := s.applyVolumeLocked(); err != nil {
		return err
	}

	s.bus.Publish(domain.NewMuteToggledEvent(mute))
	return nil
}

// IsMuted reports whether output is muted.
func (s *PlayerService) IsMuted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted
}

// applyVolumeLocked pushes the effective volume to the engine. Must be
// called with the lock held.
func (s *PlayerService) applyVolumeLocked() error {
	effective := s.volume
	if s.muted {
		effective = 0
	}
	return s.engine.SetVolume(effective)
}

// Status reports the engine's playback state.
func (s *PlayerService) Status() domain.PlaybackStatus {
	return s.engine.Status()
}

// Position returns the playback position of the loaded track.
func (s *PlayerService) Position() time.Duration {
	return s.engine.Position()
}

// Duration returns the loaded track's duration.
func (s *PlayerService) Duration() time.Duration {
	return s.engine.Duration()
}

// CurrentTrack returns the track loaded in the engine, if any.
func (s *PlayerService) CurrentTrack() (domain.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return domain.Track{}, false
	}
	return *s.current, true
}

// handleTrackFinished advances playback when the engine reports the natural
// end of a track.
func (s *PlayerService) handleTrackFinished(domain.Event) {
	if err := s.Next(); err != nil {
		s.logger.Warn("auto-advance failed", slog.Any("error", err))
	}
}

// startUpdateRoutine publishes progress events while a track plays.
func (s *PlayerService) startUpdateRoutine() {
	s.updateWg.Add(1)
	go func() {
		defer s.updateWg.Done()
		ticker := time.NewTicker(s.updateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopUpdate:
				return
			case <-ticker.C:
				if s.engine.Status() == domain.StatusPlaying {
					s.bus.Publish(domain.NewTrackProgressEvent(s.engine.Position(), s.engine.Duration()))
				}
			}
		}
	}()
}

// Shutdown stops the progress routine, detaches from the bus and stops
// playback. Calling it again is a no-op.
func (s *PlayerService) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopUpdate)
		s.updateWg.Wait()
		s.bus.Unsubscribe(s.finishSub)

		s.mu.Lock()
		defer s.mu.Unlock()
		err = s.stopLocked()
	})
	return err
}
