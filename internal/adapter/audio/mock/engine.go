// Package mock provides an in-memory implementation of the AudioEngine
// interface. It simulates playback state without touching an audio device,
// which keeps service tests hermetic.
package mock

import (
	"log/slog"
	"sync"
	"time"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/ports"
)

// Engine simulates a single-track audio engine in memory.
//
// Thread-safety: all methods are safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	logger *slog.Logger
	bus    ports.EventBus

	loadedPath string
	status     domain.PlaybackStatus
	position   time.Duration
	duration   time.Duration
	volume     float64
	closed     bool

	// Behavior configuration for error scenarios.
	failLoad bool
	failPlay bool
}

// NewEngine creates a mock engine with a default three minute track length.
// Finished tracks are announced on bus, which may be nil for tests that do
// not exercise auto-advance.
func NewEngine(logger *slog.Logger, bus ports.EventBus) *Engine {
	return &Engine{
		logger:   logger,
		bus:      bus,
		status:   domain.StatusStopped,
		duration: 3 * time.Minute,
		volume:   1.0,
	}
}

var _ ports.AudioEngine = (*Engine)(nil)

// SetFailLoad configures the mock to fail the next Load calls.
func (m *Engine) SetFailLoad(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = fail
}

// SetFailPlay configures the mock to fail Play calls.
func (m *Engine) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// SetDuration overrides the simulated track duration.
func (m *Engine) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// LoadedPath returns the path of the currently loaded track, if any.
func (m *Engine) LoadedPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadedPath
}

// Load replaces the current track with the file at path.
func (m *Engine) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failLoad {
		return domain.ErrFileNotFound
	}
	if path == "" {
		return domain.ErrFileNotFound
	}

	m.loadedPath = path
	m.position = 0
	m.status = domain.StatusStopped
	return nil
}

// Play starts or resumes playback of the loaded track.
func (m *Engine) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadedPath == "" {
		return domain.ErrNoTrackLoaded
	}
	if m.failPlay {
		return domain.ErrNoTrackLoaded
	}

	m.status = domain.StatusPlaying
	return nil
}

// Pause pauses playback.
func (m *Engine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadedPath == "" {
		return domain.ErrNoTrackLoaded
	}
	if m.status == domain.StatusPlaying {
		m.status = domain.StatusPaused
	}
	return nil
}

// Stop stops playback and resets the position.
func (m *Engine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = domain.StatusStopped
	m.position = 0
	return nil
}

// Seek moves the playback position.
func (m *Engine) Seek(position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadedPath == "" {
		return domain.ErrNoTrackLoaded
	}
	if position < 0 || position > m.duration {
		return domain.ErrInvalidPosition
	}

	m.position = position
	return nil
}

// SetVolume sets the playback volume in the range [0, 1].
func (m *Engine) SetVolume(volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if volume < 0 || volume > 1 {
		return domain.ErrInvalidVolume
	}
	m.volume = volume
	return nil
}

// Volume returns the current volume.
func (m *Engine) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// Status returns the current playback status.
func (m *Engine) Status() domain.PlaybackStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Position returns the current playback position.
func (m *Engine) Position() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position
}

// Duration returns the loaded track's duration.
func (m *Engine) Duration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadedPath == "" {
		return 0
	}
	return m.duration
}

// FinishTrack simulates the loaded track reaching its end. Playback stops
// and a TrackFinishedEvent is published on the bus.
func (m *Engine) FinishTrack() {
	m.mu.Lock()
	path := m.loadedPath
	if path == "" || m.status != domain.StatusPlaying {
		m.mu.Unlock()
		return
	}
	m.status = domain.StatusStopped
	m.position = 0
	bus := m.bus
	m.mu.Unlock()

	if bus != nil {
		bus.Publish(domain.NewTrackFinishedEvent(path))
	}
}

// Close releases the engine.
func (m *Engine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.loadedPath = ""
	m.status = domain.StatusStopped
	return nil
}
