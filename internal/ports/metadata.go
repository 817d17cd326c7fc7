package ports

// MetadataProvider supplies tag metadata for audio files. The store calls
// it once per file during AddTracks; a per-file failure is reported as a
// non-fatal error event and does not abort the batch.
type MetadataProvider interface {
	// GetMetadata reads the tags of the file at path and returns them as a
	// flat map keyed by the domain.Meta* constants. Returns
	// domain.ErrFileNotFound when the file is missing and
	// domain.ErrUnsupportedFormat for containers it cannot read.
	GetMetadata(path string) (map[string]any, error)
}
