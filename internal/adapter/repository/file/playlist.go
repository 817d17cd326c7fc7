// Package file implements ports.PlaylistRepository on the local filesystem.
// Each playlist is stored as one native-format JSON file named <id>.json
// under the library directory, with a small index file preserving the
// library's insertion order across sessions.
package file

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/playlistfile"
	"github.com/radarwhisper/radarwhisper/internal/ports"
)

const orderFile = "order.json"

// PlaylistRepository stores playlists as files in a single directory.
//
// Thread-safe: all operations are protected by a sync.RWMutex.
type PlaylistRepository struct {
	dir    string
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewPlaylistRepository creates a repository rooted at dir, creating the
// directory if needed. An empty dir defaults to the user's XDG data
// directory.
func NewPlaylistRepository(dir string, logger *slog.Logger) (*PlaylistRepository, error) {
	if dir == "" {
		dir = filepath.Join(xdg.DataHome, "radarwhisper", "playlists")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.NewRepositoryError("New", "failed to create playlist directory", err)
	}
	return &PlaylistRepository{dir: dir, logger: logger}, nil
}

var _ ports.PlaylistRepository = (*PlaylistRepository)(nil)

// Dir returns the library directory.
func (r *PlaylistRepository) Dir() string {
	return r.dir
}

func (r *PlaylistRepository) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

// Save writes a playlist, replacing any existing file with the same ID.
func (r *PlaylistRepository) Save(playlist *domain.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := playlistfile.Save(playlist, r.path(playlist.ID), playlistfile.FormatNative); err != nil {
		return domain.NewRepositoryError("Save", "failed to write playlist file", err)
	}

	ids := r.loadOrder()
	for _, id := range ids {
		if id == playlist.ID {
			return nil
		}
	}
	return r.saveOrder(append(ids, playlist.ID))
}

// Load reads the playlist with the given ID.
func (r *PlaylistRepository) Load(id string) (*domain.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path := r.path(id)
	if _, err := os.Stat(path); err != nil {
		return nil, domain.ErrPlaylistNotFound
	}

	playlist, err := playlistfile.Load(path, playlistfile.FormatNative, nil)
	if err != nil {
		return nil, domain.NewRepositoryError("Load", "failed to read playlist file", err)
	}
	return playlist, nil
}

// LoadAll reads every stored playlist in saved order. Corrupt or missing
// entries are logged and skipped.
func (r *PlaylistRepository) LoadAll() ([]*domain.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.loadOrder()
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	// Pick up files saved without an index entry, such as playlists copied
	// into the directory by hand.
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, domain.NewRepositoryError("LoadAll", "failed to read playlist directory", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || name == orderFile {
			continue
		}
		id := name[:len(name)-len(".json")]
		if !known[id] {
			ids = append(ids, id)
		}
	}

	playlists := make([]*domain.Playlist, 0, len(ids))
	for _, id := range ids {
		playlist, err := playlistfile.Load(r.path(id), playlistfile.FormatNative, nil)
		if err != nil {
			r.logger.Warn("skipping unreadable playlist", slog.String("id", id), slog.Any("error", err))
			continue
		}
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// Delete removes the playlist file. Deleting a missing playlist is a no-op.
func (r *PlaylistRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path(id)); err != nil && !os.IsNotExist(err) {
		return domain.NewRepositoryError("Delete", "failed to remove playlist file", err)
	}

	ids := r.loadOrder()
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return r.saveOrder(kept)
}

// Exists reports whether a playlist file with the given ID is present.
func (r *PlaylistRepository) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, err := os.Stat(r.path(id))
	return err == nil
}

// loadOrder reads the index file. Must be called with the lock held.
func (r *PlaylistRepository) loadOrder() []string {
	data, err := os.ReadFile(filepath.Join(r.dir, orderFile))
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		r.logger.Warn("playlist order index corrupted", slog.Any("error", err))
		return nil
	}
	return ids
}

// saveOrder writes the index file. Must be called with the lock held.
func (r *PlaylistRepository) saveOrder(ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return domain.NewRepositoryError("saveOrder", "failed to marshal playlist order", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, orderFile), data, 0o644); err != nil {
		return domain.NewRepositoryError("saveOrder", "failed to write playlist order", err)
	}
	return nil
}
