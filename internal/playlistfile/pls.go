package playlistfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/radarwhisper/radarwhisper/internal/domain"
)

// savePLS writes a version 2 PLS file. Length is in whole seconds, or -1
// when the track duration is unknown.
func savePLS(playlist *domain.Playlist, path string) error {
	var sb strings.Builder
	sb.WriteString("[playlist]\n")
	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", playlist.Len())

	for i, t := range playlist.Tracks {
		n := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", n, t.FilePath)

		title, ok := t.StringMeta(domain.MetaTitle)
		if !ok {
			title = filepath.Base(t.FilePath)
		}
		fmt.Fprintf(&sb, "Title%d=%s\n", n, title)

		length := int64(-1)
		if ms, ok := t.DurationMillis(); ok && ms > 0 {
			length = ms / 1000
		}
		fmt.Fprintf(&sb, "Length%d=%d\n", n, length)
	}
	sb.WriteString("Version=2\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return domain.NewCodecError("save", path, "pls", err)
	}
	return nil
}

// loadPLS parses a PLS file. Entries are collected by their numeric key
// suffix and assembled in ascending order, so files with gaps or shuffled
// keys still load. NumberOfEntries is ignored in favour of the entries
// actually present.
func loadPLS(path string, report Report) (*domain.Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewCodecError("load", path, "pls", err)
	}
	defer f.Close()

	paths := make(map[int]string)
	titles := make(map[int]string)
	lengths := make(map[int]int)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "[playlist]") ||
			strings.HasPrefix(line, "Version=") || strings.HasPrefix(line, "NumberOfEntries=") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		switch {
		case strings.HasPrefix(key, "File"):
			if n, err := strconv.Atoi(key[4:]); err == nil {
				paths[n] = value
			}
		case strings.HasPrefix(key, "Title"):
			if n, err := strconv.Atoi(key[5:]); err == nil {
				titles[n] = value
			}
		case strings.HasPrefix(key, "Length"):
			if n, err := strconv.Atoi(key[6:]); err == nil {
				length, err := strconv.Atoi(value)
				if err != nil {
					length = -1
				}
				lengths[n] = length
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewCodecError("load", path, "pls", err)
	}

	nums := make([]int, 0, len(paths))
	for n := range paths {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	playlist := domain.NewPlaylist(baseName(path))
	for _, n := range nums {
		trackPath := resolvePath(path, paths[n])
		if _, err := os.Stat(trackPath); err != nil {
			report(fmt.Sprintf("file not found: %s", trackPath))
			continue
		}

		metadata := map[string]any{}
		if title, ok := titles[n]; ok {
			metadata[domain.MetaTitle] = title
		} else {
			metadata[domain.MetaTitle] = filepath.Base(trackPath)
		}
		if length, ok := lengths[n]; ok && length > 0 {
			metadata[domain.MetaDuration] = int64(length) * 1000
		}

		playlist.AddTrack(domain.NewTrack(trackPath, metadata))
	}

	if playlist.Len() == 0 {
		return nil, domain.NewCodecError("load", path, "pls", domain.ErrNoTracksParsed)
	}
	return playlist, nil
}
