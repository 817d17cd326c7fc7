package playlistfile

import (
	"encoding/json"
	"os"
	"time"

	"github.com/radarwhisper/radarwhisper/internal/domain"
)

// nativePlaylist is the on-disk shape of the native JSON format. Timestamps
// are ISO-8601 strings; track metadata is reduced to the four fields that
// cannot be cheaply re-derived from the audio file alone.
type nativePlaylist struct {
	Name           string         `json:"name"`
	UUID           string         `json:"uuid"`
	CreationDate   string         `json:"creation_date"`
	LastModified   string         `json:"last_modified"`
	Description    string         `json:"description"`
	CustomMetadata map[string]any `json:"custom_metadata"`
	Tracks         []nativeTrack  `json:"tracks"`
}

type nativeTrack struct {
	FilePath string  `json:"file_path"`
	UUID     string  `json:"uuid"`
	Title    *string `json:"title"`
	Artist   *string `json:"artist"`
	Album    *string `json:"album"`
	Duration *int64  `json:"duration"` // milliseconds
}

func saveNative(playlist *domain.Playlist, path string) error {
	record := nativePlaylist{
		Name:           playlist.Name,
		UUID:           playlist.ID,
		CreationDate:   playlist.CreatedAt.Format(time.RFC3339),
		LastModified:   playlist.UpdatedAt.Format(time.RFC3339),
		Description:    playlist.Description,
		CustomMetadata: playlist.CustomMetadata,
		Tracks:         make([]nativeTrack, 0, len(playlist.Tracks)),
	}
	if record.CustomMetadata == nil {
		record.CustomMetadata = map[string]any{}
	}

	for _, t := range playlist.Tracks {
		entry := nativeTrack{FilePath: t.FilePath, UUID: t.ID}
		if title, ok := t.StringMeta(domain.MetaTitle); ok {
			entry.Title = &title
		}
		if artist, ok := t.StringMeta(domain.MetaArtist); ok {
			entry.Artist = &artist
		}
		if album, ok := t.StringMeta(domain.MetaAlbum); ok {
			entry.Album = &album
		}
		if ms, ok := t.DurationMillis(); ok {
			entry.Duration = &ms
		}
		record.Tracks = append(record.Tracks, entry)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return domain.NewCodecError("save", path, "json", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.NewCodecError("save", path, "json", err)
	}
	return nil
}

func loadNative(path string) (*domain.Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewCodecError("load", path, "json", err)
	}

	var record nativePlaylist
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, domain.NewCodecError("load", path, "json", err)
	}

	playlist := domain.NewPlaylist(record.Name)

	// A previously exported file keeps its identity; fresh values are
	// assigned only when the record carries none.
	if record.UUID != "" {
		playlist.ID = record.UUID
	}
	if created, err := time.Parse(time.RFC3339, record.CreationDate); err == nil {
		playlist.CreatedAt = created
	}
	if modified, err := time.Parse(time.RFC3339, record.LastModified); err == nil {
		playlist.UpdatedAt = modified
	} else {
		playlist.UpdatedAt = playlist.CreatedAt
	}
	playlist.Description = record.Description
	if record.CustomMetadata != nil {
		playlist.CustomMetadata = record.CustomMetadata
	}

	for _, entry := range record.Tracks {
		metadata := make(map[string]any)
		if entry.Title != nil {
			metadata[domain.MetaTitle] = *entry.Title
		}
		if entry.Artist != nil {
			metadata[domain.MetaArtist] = *entry.Artist
		}
		if entry.Album != nil {
			metadata[domain.MetaAlbum] = *entry.Album
		}
		if entry.Duration != nil {
			metadata[domain.MetaDuration] = *entry.Duration
		}

		track := domain.NewTrack(entry.FilePath, metadata)
		if entry.UUID != "" {
			track.ID = entry.UUID
		}
		playlist.Tracks = append(playlist.Tracks, track)
	}

	// Tracks are assigned directly so the restored UpdatedAt survives.
	return playlist, nil
}
