package ports

import (
	"time"

	"github.com/radarwhisper/radarwhisper/internal/domain"
)

// AudioEngine abstracts the playback backend. The engine holds at most one
// loaded track at a time; Load replaces any previous one. End-of-media is
// reported asynchronously as a domain.TrackFinishedEvent on the event bus,
// never through a return value.
//
// Implementations must be thread-safe.
type AudioEngine interface {
	// Load prepares the file at path for playback, replacing any
	// currently loaded track. The track starts out stopped.
	Load(path string) error

	// Play starts or resumes playback of the loaded track.
	// Returns domain.ErrNoTrackLoaded when nothing is loaded.
	Play() error

	// Pause pauses playback, preserving the position.
	Pause() error

	// Stop halts playback and resets the position to the start. The track
	// stays loaded. Stopping an idle engine is a no-op.
	Stop() error

	// Seek moves the playback position. The position must lie within
	// [0, Duration]; otherwise domain.ErrInvalidPosition is returned.
	Seek(position time.Duration) error

	// SetVolume sets the output volume in [0.0, 1.0].
	SetVolume(volume float64) error

	// Volume returns the current output volume.
	Volume() float64

	// Status reports the engine state for the loaded track.
	Status() domain.PlaybackStatus

	// Position returns the current playback position, 0 when idle.
	Position() time.Duration

	// Duration returns the loaded track's total duration, 0 when idle.
	Duration() time.Duration

	// Close releases backend resources. The engine is unusable afterwards.
	Close() error
}
