package playlistfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/radarwhisper/radarwhisper/internal/domain"
)

// saveM3U writes an extended M3U file. Tracks with a known duration and
// title get an #EXTINF line; the artist segment is written only when artist
// metadata is present.
func saveM3U(playlist *domain.Playlist, path string) error {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")

	for _, t := range playlist.Tracks {
		ms, durOK := t.DurationMillis()
		title, titleOK := t.StringMeta(domain.MetaTitle)
		if durOK && titleOK {
			seconds := ms / 1000
			if artist, ok := t.StringMeta(domain.MetaArtist); ok {
				fmt.Fprintf(&sb, "#EXTINF:%d,%s - %s\n", seconds, artist, title)
			} else {
				fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", seconds, title)
			}
		}
		sb.WriteString(t.FilePath + "\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return domain.NewCodecError("save", path, "m3u", err)
	}
	return nil
}

// loadM3U parses an extended M3U file line by line. An #EXTINF line sets the
// pending metadata for the next path line; paths are resolved against the
// playlist file's directory and entries whose files are missing are skipped.
func loadM3U(path string, report Report) (*domain.Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewCodecError("load", path, "m3u", err)
	}
	defer f.Close()

	playlist := domain.NewPlaylist(baseName(path))

	var (
		title      string
		artist     string
		durationMS int64
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || strings.HasPrefix(line, "#EXTM3U"):
			continue

		case strings.HasPrefix(line, "#EXTINF:"):
			// #EXTINF:<seconds>,<Artist - Title> or #EXTINF:<seconds>,<Title>
			info := strings.TrimPrefix(line, "#EXTINF:")
			durationStr, titlePart, ok := strings.Cut(info, ",")
			if !ok {
				continue
			}
			if seconds, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
				durationMS = int64(seconds) * 1000
			} else {
				durationMS = 0
			}
			if a, t, ok := strings.Cut(titlePart, " - "); ok {
				artist, title = a, t
			} else {
				title = titlePart
				artist = ""
			}

		case strings.HasPrefix(line, "#"):
			// Other comments and directives are ignored.
			continue

		default:
			trackPath := resolvePath(path, line)
			if _, err := os.Stat(trackPath); err != nil {
				report(fmt.Sprintf("file not found: %s", trackPath))
				continue
			}

			metadata := map[string]any{
				domain.MetaDuration: durationMS,
			}
			if title != "" {
				metadata[domain.MetaTitle] = title
			} else {
				metadata[domain.MetaTitle] = filepath.Base(trackPath)
			}
			if artist != "" {
				metadata[domain.MetaArtist] = artist
			}

			playlist.AddTrack(domain.NewTrack(trackPath, metadata))

			title = ""
			artist = ""
			durationMS = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewCodecError("load", path, "m3u", err)
	}

	if playlist.Len() == 0 {
		return nil, domain.NewCodecError("load", path, "m3u", domain.ErrNoTracksParsed)
	}
	return playlist, nil
}
