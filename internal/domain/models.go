// Package domain contains the core playlist engine models with no external
// framework dependencies. It defines tracks, playlists, repeat modes and the
// events the engine publishes.
package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known metadata keys. Track metadata is a free-form string-keyed map;
// these are the keys the sequencer and the playlist codecs understand.
const (
	MetaTitle       = "title"
	MetaArtist      = "artist"
	MetaAlbum       = "album"
	MetaDuration    = "duration" // int64, milliseconds
	MetaGenre       = "genre"
	MetaYear        = "year"
	MetaTrackNumber = "track_number"
)

// RepeatMode controls how the sequencer behaves at playlist boundaries.
type RepeatMode int

const (
	// NoRepeat plays the playlist through once and stops.
	NoRepeat RepeatMode = iota

	// RepeatPlaylist wraps around to the other end of the playlist.
	RepeatPlaylist

	// RepeatTrack stays on the current track.
	RepeatTrack
)

// String returns a human-readable representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case NoRepeat:
		return "none"
	case RepeatPlaylist:
		return "playlist"
	case RepeatTrack:
		return "track"
	default:
		return "unknown"
	}
}

// ParseRepeatMode parses a repeat mode name as used in configuration files.
// Accepts "none", "playlist" and "track" (case-insensitive).
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return NoRepeat, nil
	case "playlist", "all":
		return RepeatPlaylist, nil
	case "track", "one":
		return RepeatTrack, nil
	default:
		return NoRepeat, fmt.Errorf("unknown repeat mode %q", s)
	}
}

// PlaybackStatus represents the state of the audio engine.
type PlaybackStatus int

const (
	// StatusStopped indicates no track is loaded or playback has stopped.
	StatusStopped PlaybackStatus = iota

	// StatusPlaying indicates playback is active.
	StatusPlaying

	// StatusPaused indicates playback is paused at a position.
	StatusPaused
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Track is a single entry in a playlist. The file path and ID are immutable
// after construction; the metadata map may be partial or empty and is filled
// in by the metadata provider. Identity is the ID, not the path: the same
// file added twice yields two distinct tracks.
type Track struct {
	// ID is a process-unique identifier assigned at construction.
	ID string

	// FilePath is the path to the audio file, absolute or relative.
	FilePath string

	// Metadata maps well-known keys (MetaTitle, MetaArtist, ...) to values.
	Metadata map[string]any
}

// NewTrack creates a track for the given file path with a fresh ID.
// A nil metadata map is replaced with an empty one.
func NewTrack(filePath string, metadata map[string]any) Track {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return Track{
		ID:       uuid.NewString(),
		FilePath: filePath,
		Metadata: metadata,
	}
}

// StringMeta returns the string value for a metadata key.
// The second return is false when the key is absent, nil or empty.
func (t Track) StringMeta(key string) (string, bool) {
	v, ok := t.Metadata[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// DurationMillis returns the track duration in milliseconds.
// The second return is false when no usable duration is stored.
func (t Track) DurationMillis() (int64, bool) {
	v, ok := t.Metadata[MetaDuration]
	if !ok || v == nil {
		return 0, false
	}
	switch d := v.(type) {
	case int64:
		return d, true
	case int:
		return int64(d), true
	case float64:
		return int64(d), true
	default:
		return 0, false
	}
}

// DisplayTitle returns the title metadata, falling back to the base filename.
func (t Track) DisplayTitle() string {
	if title, ok := t.StringMeta(MetaTitle); ok {
		return title
	}
	return filepath.Base(t.FilePath)
}

// String implements fmt.Stringer as "Title - Artist".
func (t Track) String() string {
	artist, ok := t.StringMeta(MetaArtist)
	if !ok {
		artist = "Unknown Artist"
	}
	return t.DisplayTitle() + " - " + artist
}

// Playlist is an ordered, named collection of tracks. Mutations go through
// the methods below so UpdatedAt stays accurate; indices are always compact,
// removal never leaves holes.
type Playlist struct {
	// ID is a process-unique identifier, stable for the playlist's lifetime.
	ID string

	// Name is user-assigned and mutable; it is not required to be unique.
	Name string

	// Tracks is the playback order unless shuffle is active.
	Tracks []Track

	// CreatedAt is when the playlist was created.
	CreatedAt time.Time

	// UpdatedAt is bumped on every track-list mutation.
	UpdatedAt time.Time

	// Description is free-form text, unused by the sequencer.
	Description string

	// CustomMetadata is free-form, persisted by the native codec.
	CustomMetadata map[string]any
}

// NewPlaylist creates an empty playlist with a fresh ID and timestamps.
func NewPlaylist(name string) *Playlist {
	now := time.Now()
	return &Playlist{
		ID:             uuid.NewString(),
		Name:           name,
		Tracks:         make([]Track, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
		CustomMetadata: make(map[string]any),
	}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.Tracks)
}

// Track returns the track at index. The second return is false when the
// index is out of range.
func (p *Playlist) Track(index int) (Track, bool) {
	if index < 0 || index >= len(p.Tracks) {
		return Track{}, false
	}
	return p.Tracks[index], true
}

// AddTrack appends a track and bumps UpdatedAt.
func (p *Playlist) AddTrack(t Track) {
	p.Tracks = append(p.Tracks, t)
	p.touch()
}

// RemoveTrack removes and returns the track at index.
// The second return is false when the index is out of range.
func (p *Playlist) RemoveTrack(index int) (Track, bool) {
	if index < 0 || index >= len(p.Tracks) {
		return Track{}, false
	}
	removed := p.Tracks[index]
	p.Tracks = append(p.Tracks[:index], p.Tracks[index+1:]...)
	p.touch()
	return removed, true
}

// MoveTrack relocates the track at fromIndex to toIndex with splice
// semantics (remove then insert), preserving all other relative order.
// Returns false when either index is out of range.
func (p *Playlist) MoveTrack(fromIndex, toIndex int) bool {
	if fromIndex < 0 || fromIndex >= len(p.Tracks) {
		return false
	}
	if toIndex < 0 || toIndex >= len(p.Tracks) {
		return false
	}
	if fromIndex == toIndex {
		p.touch()
		return true
	}
	track := p.Tracks[fromIndex]
	p.Tracks = append(p.Tracks[:fromIndex], p.Tracks[fromIndex+1:]...)
	p.Tracks = append(p.Tracks[:toIndex], append([]Track{track}, p.Tracks[toIndex:]...)...)
	p.touch()
	return true
}

// Rename changes the playlist's display name.
func (p *Playlist) Rename(name string) {
	p.Name = name
	p.touch()
}

// SetDescription changes the playlist's description.
func (p *Playlist) SetDescription(description string) {
	p.Description = description
	p.touch()
}

// Clear removes all tracks.
func (p *Playlist) Clear() {
	p.Tracks = p.Tracks[:0]
	p.touch()
}

// TotalDuration sums the known durations of all tracks. Tracks without
// duration metadata contribute nothing.
func (p *Playlist) TotalDuration() time.Duration {
	var total int64
	for _, t := range p.Tracks {
		if ms, ok := t.DurationMillis(); ok && ms > 0 {
			total += ms
		}
	}
	return time.Duration(total) * time.Millisecond
}

// Stats summarizes a playlist for display purposes.
type Stats struct {
	Name          string
	TrackCount    int
	TotalDuration time.Duration
	DurationText  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Stats returns the playlist statistics snapshot.
func (p *Playlist) Stats() Stats {
	total := p.TotalDuration()
	return Stats{
		Name:          p.Name,
		TrackCount:    len(p.Tracks),
		TotalDuration: total,
		DurationText:  FormatDuration(total),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (p *Playlist) touch() {
	p.UpdatedAt = time.Now()
}

// FormatDuration renders a duration as H:MM:SS, or M:SS when under an hour.
func FormatDuration(d time.Duration) string {
	seconds := int(d / time.Second)
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds %= 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
