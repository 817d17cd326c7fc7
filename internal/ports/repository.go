package ports

import (
	"github.com/radarwhisper/radarwhisper/internal/domain"
)

// PlaylistRepository persists the playlist library between sessions.
// The reference implementation stores one native-format JSON file per
// playlist under the user's data directory.
//
// Implementations must be thread-safe.
type PlaylistRepository interface {
	// Save writes a playlist, replacing any existing one with the same ID.
	Save(playlist *domain.Playlist) error

	// Load reads the playlist with the given ID.
	// Returns domain.ErrPlaylistNotFound when it does not exist.
	Load(id string) (*domain.Playlist, error)

	// LoadAll reads every stored playlist. Corrupt entries are skipped.
	LoadAll() ([]*domain.Playlist, error)

	// Delete removes the playlist with the given ID.
	// Deleting a missing playlist is a no-op.
	Delete(id string) error

	// Exists reports whether a playlist with the given ID is stored.
	Exists(id string) bool
}
