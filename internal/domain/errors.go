// Package domain defines the errors the playlist engine can return.
// Every fallible operation returns one of these rather than panicking;
// callers are expected to check.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors covering the engine's failure taxonomy: not-found,
// unsupported format, parse failure and playback-boundary conditions.
var (
	// ErrPlaylistNotFound is returned when a playlist ID is unknown.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrNoCurrentPlaylist is returned when an operation needs a current
	// playlist and none is selected.
	ErrNoCurrentPlaylist = errors.New("no current playlist")

	// ErrPlaylistEmpty is returned when an operation requires at least one track.
	ErrPlaylistEmpty = errors.New("playlist is empty")

	// ErrInvalidIndex is returned when a track index is out of range.
	ErrInvalidIndex = errors.New("invalid track index")

	// ErrTrackNotFound is returned when a track cannot be located.
	ErrTrackNotFound = errors.New("track not found")

	// ErrEndOfPlaylist signals that sequential playback reached the end
	// under NoRepeat. It is the normal end-of-playback condition.
	ErrEndOfPlaylist = errors.New("end of playlist reached")

	// ErrStartOfPlaylist signals that backward navigation reached the start
	// under NoRepeat.
	ErrStartOfPlaylist = errors.New("start of playlist reached")

	// ErrFileNotFound is returned when a referenced file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat is returned for unrecognized playlist file
	// extensions and unsupported audio containers.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNoTracksParsed is returned when an M3U or PLS file yields zero
	// usable tracks; an empty playlist is not a valid load result.
	ErrNoTracksParsed = errors.New("no tracks parsed from playlist file")

	// ErrNoTrackLoaded is returned when playback is attempted with no track loaded.
	ErrNoTrackLoaded = errors.New("no track loaded")

	// ErrInvalidVolume is returned when a volume is outside [0.0, 1.0].
	ErrInvalidVolume = errors.New("invalid volume: must be between 0.0 and 1.0")

	// ErrInvalidPosition is returned when seeking outside the track bounds.
	ErrInvalidPosition = errors.New("invalid playback position")
)

// CodecError wraps a playlist file read/write failure with context.
type CodecError struct {
	Op     string // "save" or "load"
	Path   string // playlist file path
	Format string // "json", "m3u" or "pls"
	Err    error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	return fmt.Sprintf("playlist %s %s failed for %q: %v", e.Format, e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *CodecError) Unwrap() error {
	return e.Err
}

// NewCodecError creates a new CodecError.
func NewCodecError(op, path, format string, err error) *CodecError {
	return &CodecError{Op: op, Path: path, Format: format, Err: err}
}

// RepositoryError wraps a playlist library persistence failure.
type RepositoryError struct {
	Op      string // operation that failed ("save", "load", "delete", ...)
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("playlist repository %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, message string, err error) *RepositoryError {
	return &RepositoryError{Op: op, Message: message, Err: err}
}

// ServiceError wraps a service layer failure with the service and operation
// names for log correlation.
type ServiceError struct {
	Service string
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Message: message, Err: err}
}
