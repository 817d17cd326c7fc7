// Package playlistfile reads and writes playlists in three textual formats:
// the native JSON format, extended M3U and PLS. Format selection is explicit
// or inferred from the file extension.
package playlistfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/radarwhisper/radarwhisper/internal/domain"
)

// Format identifies a playlist file format.
type Format int

const (
	// FormatNative is the JSON format that round-trips all playlist fields.
	FormatNative Format = iota

	// FormatM3U is the extended M3U interchange format.
	FormatM3U

	// FormatPLS is the INI-style PLS interchange format.
	FormatPLS
)

// String returns the short format name used in error messages.
func (f Format) String() string {
	switch f {
	case FormatNative:
		return "json"
	case FormatM3U:
		return "m3u"
	case FormatPLS:
		return "pls"
	default:
		return "unknown"
	}
}

// DetectFormat infers the playlist format from the file extension.
// Returns domain.ErrUnsupportedFormat for anything it does not recognize.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatNative, nil
	case ".m3u", ".m3u8":
		return FormatM3U, nil
	case ".pls":
		return FormatPLS, nil
	default:
		return 0, fmt.Errorf("%w: playlist extension %q", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Report receives non-fatal per-entry problems during a load, such as
// referenced files missing from disk. A nil Report discards them.
type Report func(message string)

// Save writes the playlist to path in the given format.
func Save(playlist *domain.Playlist, path string, format Format) error {
	switch format {
	case FormatNative:
		return saveNative(playlist, path)
	case FormatM3U:
		return saveM3U(playlist, path)
	case FormatPLS:
		return savePLS(playlist, path)
	default:
		return fmt.Errorf("%w: playlist format %d", domain.ErrUnsupportedFormat, format)
	}
}

// Load parses the file at path in the given format. M3U and PLS loads that
// recover zero tracks fail with domain.ErrNoTracksParsed; entries whose
// audio files are missing are skipped and reported through report.
func Load(path string, format Format, report Report) (*domain.Playlist, error) {
	if report == nil {
		report = func(string) {}
	}
	switch format {
	case FormatNative:
		return loadNative(path)
	case FormatM3U:
		return loadM3U(path, report)
	case FormatPLS:
		return loadPLS(path, report)
	default:
		return nil, fmt.Errorf("%w: playlist format %d", domain.ErrUnsupportedFormat, format)
	}
}

// baseName returns the file name without directory or extension, used as
// the default playlist name for interchange formats.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// resolvePath makes a track path absolute relative to the playlist file's
// directory.
func resolvePath(playlistPath, trackPath string) string {
	if filepath.IsAbs(trackPath) {
		return trackPath
	}
	dir := filepath.Dir(playlistPath)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Join(dir, trackPath)
}
