// Package tagreader extracts track metadata from audio files on disk.
package tagreader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/ports"
)

var supportedExtensions = []string{
	".mp3", ".m4a", ".mp4", ".flac", ".ogg", ".wav",
}

// IsSupported reports whether the file extension is one the provider can read.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Provider reads tags with dhowden/tag and determines durations by decoding
// the audio stream. Tag failures degrade to file-name metadata rather than
// failing the whole read.
type Provider struct {
	logger *slog.Logger
}

// NewProvider creates a metadata provider.
func NewProvider(logger *slog.Logger) *Provider {
	return &Provider{logger: logger}
}

var _ ports.MetadataProvider = (*Provider)(nil)

// GetMetadata returns the track metadata for the audio file at path.
func (p *Provider) GetMetadata(path string) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}
	if !IsSupported(path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}

	metadata := map[string]any{
		domain.MetaTitle: filepath.Base(path),
	}

	p.readTags(path, metadata)

	if duration, err := decodeDuration(path); err == nil {
		metadata[domain.MetaDuration] = duration.Milliseconds()
	} else {
		p.logger.Debug("duration decode failed", "path", path, "error", err)
	}

	return metadata, nil
}

func (p *Provider) readTags(path string, metadata map[string]any) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil || m == nil {
		p.logger.Debug("tag read failed", "path", path, "error", err)
		return
	}

	if title := strings.TrimSpace(m.Title()); title != "" {
		metadata[domain.MetaTitle] = title
	}
	if artist := strings.TrimSpace(m.Artist()); artist != "" {
		metadata[domain.MetaArtist] = artist
	}
	if album := strings.TrimSpace(m.Album()); album != "" {
		metadata[domain.MetaAlbum] = album
	}
	if genre := strings.TrimSpace(m.Genre()); genre != "" {
		metadata[domain.MetaGenre] = genre
	}
	if year := m.Year(); year > 0 {
		metadata[domain.MetaYear] = year
	}
	if num, _ := m.Track(); num > 0 {
		metadata[domain.MetaTrackNumber] = num
	}
}

// decodeDuration opens and decodes the stream header to compute the track
// length. M4A/MP4 containers have no decoder here, so their duration stays
// unknown.
func decodeDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
