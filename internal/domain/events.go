// Package domain defines the events the engine publishes on the event bus.
// Events replace the UI toolkit signal wiring of a conventional player and
// keep the store, sequencer and playback layers decoupled from presentation.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier.
	Type() EventType

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// EventType is a string identifier for an event kind.
type EventType string

// Event type constants.
const (
	// Store events
	EventPlaylistChanged     EventType = "playlist.changed"
	EventCurrentTrackChanged EventType = "playlist.current_track_changed"
	EventPlaylistLoaded      EventType = "playlist.loaded"
	EventPlaylistSaved       EventType = "playlist.saved"
	EventShuffleToggled      EventType = "playlist.shuffle_toggled"
	EventRepeatModeChanged   EventType = "playlist.repeat_mode_changed"

	// Playback events
	EventTrackStarted  EventType = "track.started"
	EventTrackPaused   EventType = "track.paused"
	EventTrackStopped  EventType = "track.stopped"
	EventTrackFinished EventType = "track.finished"
	EventTrackProgress EventType = "track.progress"
	EventVolumeChanged EventType = "volume.changed"
	EventMuteToggled   EventType = "mute.toggled"

	// Error reporting
	EventError EventType = "error.occurred"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides the timestamp common to all events.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// PlaylistChangedEvent is published after any successful playlist mutation,
// including creation and deletion. PlaylistID identifies the affected
// playlist, which may no longer exist in the deletion case.
type PlaylistChangedEvent struct {
	baseEvent
	PlaylistID string
}

// Type returns the event type.
func (e PlaylistChangedEvent) Type() EventType { return EventPlaylistChanged }

// NewPlaylistChangedEvent creates a new PlaylistChangedEvent.
func NewPlaylistChangedEvent(playlistID string) PlaylistChangedEvent {
	return PlaylistChangedEvent{baseEvent: newBaseEvent(), PlaylistID: playlistID}
}

// CurrentTrackChangedEvent is published when the current track index moves.
// Index is -1 when the selection is cleared.
type CurrentTrackChangedEvent struct {
	baseEvent
	Index int
}

// Type returns the event type.
func (e CurrentTrackChangedEvent) Type() EventType { return EventCurrentTrackChanged }

// NewCurrentTrackChangedEvent creates a new CurrentTrackChangedEvent.
func NewCurrentTrackChangedEvent(index int) CurrentTrackChangedEvent {
	return CurrentTrackChangedEvent{baseEvent: newBaseEvent(), Index: index}
}

// PlaylistLoadedEvent is published after a playlist file is parsed and
// registered with the store.
type PlaylistLoadedEvent struct {
	baseEvent
	PlaylistID string
	Path       string
}

// Type returns the event type.
func (e PlaylistLoadedEvent) Type() EventType { return EventPlaylistLoaded }

// NewPlaylistLoadedEvent creates a new PlaylistLoadedEvent.
func NewPlaylistLoadedEvent(playlistID, path string) PlaylistLoadedEvent {
	return PlaylistLoadedEvent{baseEvent: newBaseEvent(), PlaylistID: playlistID, Path: path}
}

// PlaylistSavedEvent is published after a playlist is written to disk.
type PlaylistSavedEvent struct {
	baseEvent
	PlaylistID string
	Path       string
}

// Type returns the event type.
func (e PlaylistSavedEvent) Type() EventType { return EventPlaylistSaved }

// NewPlaylistSavedEvent creates a new PlaylistSavedEvent.
func NewPlaylistSavedEvent(playlistID, path string) PlaylistSavedEvent {
	return PlaylistSavedEvent{baseEvent: newBaseEvent(), PlaylistID: playlistID, Path: path}
}

// ShuffleToggledEvent is published when shuffle is enabled or disabled.
type ShuffleToggledEvent struct {
	baseEvent
	Enabled bool
}

// Type returns the event type.
func (e ShuffleToggledEvent) Type() EventType { return EventShuffleToggled }

// NewShuffleToggledEvent creates a new ShuffleToggledEvent.
func NewShuffleToggledEvent(enabled bool) ShuffleToggledEvent {
	return ShuffleToggledEvent{baseEvent: newBaseEvent(), Enabled: enabled}
}

// RepeatModeChangedEvent is published when the repeat mode changes.
type RepeatModeChangedEvent struct {
	baseEvent
	Mode RepeatMode
}

// Type returns the event type.
func (e RepeatModeChangedEvent) Type() EventType { return EventRepeatModeChanged }

// NewRepeatModeChangedEvent creates a new RepeatModeChangedEvent.
func NewRepeatModeChangedEvent(mode RepeatMode) RepeatModeChangedEvent {
	return RepeatModeChangedEvent{baseEvent: newBaseEvent(), Mode: mode}
}

// TrackStartedEvent is published when playback starts or resumes.
type TrackStartedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackStartedEvent) Type() EventType { return EventTrackStarted }

// NewTrackStartedEvent creates a new TrackStartedEvent.
func NewTrackStartedEvent(track Track) TrackStartedEvent {
	return TrackStartedEvent{baseEvent: newBaseEvent(), Track: track}
}

// TrackPausedEvent is published when playback is paused.
type TrackPausedEvent struct {
	baseEvent
	Track    Track
	Position time.Duration
}

// Type returns the event type.
func (e TrackPausedEvent) Type() EventType { return EventTrackPaused }

// NewTrackPausedEvent creates a new TrackPausedEvent.
func NewTrackPausedEvent(track Track, position time.Duration) TrackPausedEvent {
	return TrackPausedEvent{baseEvent: newBaseEvent(), Track: track, Position: position}
}

// TrackStoppedEvent is published when playback stops before the track ends.
type TrackStoppedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackStoppedEvent) Type() EventType { return EventTrackStopped }

// NewTrackStoppedEvent creates a new TrackStoppedEvent.
func NewTrackStoppedEvent(track Track) TrackStoppedEvent {
	return TrackStoppedEvent{baseEvent: newBaseEvent(), Track: track}
}

// TrackFinishedEvent is published by the audio engine when a track plays to
// its natural end. The player service reacts by advancing the sequencer.
type TrackFinishedEvent struct {
	baseEvent
	FilePath string
}

// Type returns the event type.
func (e TrackFinishedEvent) Type() EventType { return EventTrackFinished }

// NewTrackFinishedEvent creates a new TrackFinishedEvent.
func NewTrackFinishedEvent(filePath string) TrackFinishedEvent {
	return TrackFinishedEvent{baseEvent: newBaseEvent(), FilePath: filePath}
}

// TrackProgressEvent is published periodically while a track plays.
type TrackProgressEvent struct {
	baseEvent
	Position time.Duration
	Duration time.Duration
}

// Type returns the event type.
func (e TrackProgressEvent) Type() EventType { return EventTrackProgress }

// NewTrackProgressEvent creates a new TrackProgressEvent.
func NewTrackProgressEvent(position, duration time.Duration) TrackProgressEvent {
	return TrackProgressEvent{baseEvent: newBaseEvent(), Position: position, Duration: duration}
}

// VolumeChangedEvent is published when the playback volume changes.
type VolumeChangedEvent struct {
	baseEvent
	Volume float64 // 0.0 to 1.0
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType { return EventVolumeChanged }

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(volume float64) VolumeChangedEvent {
	return VolumeChangedEvent{baseEvent: newBaseEvent(), Volume: volume}
}

// MuteToggledEvent is published when mute is toggled.
type MuteToggledEvent struct {
	baseEvent
	Muted bool
}

// Type returns the event type.
func (e MuteToggledEvent) Type() EventType { return EventMuteToggled }

// NewMuteToggledEvent creates a new MuteToggledEvent.
func NewMuteToggledEvent(muted bool) MuteToggledEvent {
	return MuteToggledEvent{baseEvent: newBaseEvent(), Muted: muted}
}

// ErrorEvent carries a non-fatal, user-visible error message. Batch
// operations report per-item failures this way instead of aborting.
type ErrorEvent struct {
	baseEvent
	Message string
}

// Type returns the event type.
func (e ErrorEvent) Type() EventType { return EventError }

// NewErrorEvent creates a new ErrorEvent.
func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{baseEvent: newBaseEvent(), Message: message}
}
