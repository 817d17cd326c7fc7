// Package beep implements the AudioEngine interface on top of the gopxl/beep
// speaker. It decodes MP3, FLAC, OGG and WAV streams and reports natural
// track ends on the event bus.
package beep

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/ports"
)

// The speaker is a process-wide singleton, initialized at the first track's
// sample rate. Later tracks with a different rate are resampled to it.
var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

func initSpeaker(rate beep.SampleRate, buffer time.Duration) error {
	speakerOnce.Do(func() {
		speakerRate = rate
		speakerErr = speaker.Init(rate, rate.N(buffer))
	})
	return speakerErr
}

// Engine plays audio files through the system speaker.
//
// Thread-safety: all methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	logger *slog.Logger
	bus    ports.EventBus
	buffer time.Duration

	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	status   domain.PlaybackStatus
	level    float64
	queued   bool
}

// NewEngine creates a speaker-backed engine. buffer controls the speaker
// buffer length; 100ms is a sensible default.
func NewEngine(logger *slog.Logger, bus ports.EventBus, buffer time.Duration) *Engine {
	if buffer <= 0 {
		buffer = 100 * time.Millisecond
	}
	return &Engine{
		logger: logger,
		bus:    bus,
		buffer: buffer,
		status: domain.StatusStopped,
		level:  1.0,
	}
}

var _ ports.AudioEngine = (*Engine)(nil)

func decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}

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
		f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, nil, beep.Format{}, err
	}
	return f, streamer, format, nil
}

// Load decodes the file at path and makes it the current track.
func (e *Engine) Load(path string) error {
	file, streamer, format, err := decode(path)
	if err != nil {
		return err
	}

	if err := initSpeaker(format.SampleRate, e.buffer); err != nil {
		streamer.Close()
		file.Close()
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.unloadLocked()

	e.path = path
	e.file = file
	e.streamer = streamer
	e.format = format
	e.ctrl = &beep.Ctrl{Streamer: streamer}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   levelToVolume(e.level),
		Silent:   e.level <= 0,
	}
	e.status = domain.StatusStopped
	e.queued = false

	e.logger.Debug("track loaded", "path", path, "sample_rate", int(format.SampleRate))
	return nil
}

// Play starts or resumes playback of the loaded track.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return domain.ErrNoTrackLoaded
	}

	switch e.status {
	case domain.StatusPlaying:
		return nil
	case domain.StatusPaused:
		speaker.Lock()
		e.ctrl.Paused = false
		speaker.Unlock()
	case domain.StatusStopped:
		e.queueLocked()
	}
	e.status = domain.StatusPlaying
	return nil
}

// queueLocked hands the current stream to the speaker, resampling when its
// rate differs from the speaker's. The trailing callback announces the
// natural end of the track.
func (e *Engine) queueLocked() {
	path := e.path
	var stream beep.Streamer = e.volume
	if e.format.SampleRate != speakerRate {
		stream = beep.Resample(4, e.format.SampleRate, speakerRate, e.volume)
	}
	// The callback fires inside the speaker's mixer goroutine with the
	// speaker lock held, so the bookkeeping runs on its own goroutine to
	// keep the lock order consistent with Position and Seek.
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		go e.finished(path)
	})))
	e.queued = true
}

func (e *Engine) finished(path string) {
	e.mu.Lock()
	stale := e.path != path
	if !stale {
		e.status = domain.StatusStopped
		e.queued = false
	}
	bus := e.bus
	e.mu.Unlock()

	if stale {
		return
	}
	e.logger.Debug("track finished", "path", path)
	if bus != nil {
		bus.Publish(domain.NewTrackFinishedEvent(path))
	}
}

// Pause pauses playback, keeping the position.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return domain.ErrNoTrackLoaded
	}
	if e.status != domain.StatusPlaying {
		return nil
	}

	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.status = domain.StatusPaused
	return nil
}

// Stop halts playback and rewinds to the start, keeping the track loaded.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil || e.status == domain.StatusStopped {
		return nil
	}

	speaker.Clear()
	if err := e.streamer.Seek(0); err != nil {
		e.logger.Warn("rewind failed", "path", e.path, "error", err)
	}
	e.ctrl.Paused = false
	e.status = domain.StatusStopped
	e.queued = false
	return nil
}

// Seek moves the playback position.
func (e *Engine) Seek(position time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return domain.ErrNoTrackLoaded
	}

	sample := e.format.SampleRate.N(position)
	if position < 0 || sample > e.streamer.Len() {
		return domain.ErrInvalidPosition
	}

	speaker.Lock()
	err := e.streamer.Seek(sample)
	speaker.Unlock()
	return err
}

// SetVolume sets the output volume in [0, 1] on a logarithmic scale.
func (e *Engine) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return domain.ErrInvalidVolume
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.level = volume
	if e.volume != nil {
		speaker.Lock()
		e.volume.Volume = levelToVolume(volume)
		e.volume.Silent = volume <= 0
		speaker.Unlock()
	}
	return nil
}

// Volume returns the current volume level.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// Status returns the playback state.
func (e *Engine) Status() domain.PlaybackStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Position returns the playback position of the loaded track.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(pos)
}

// Duration returns the total length of the loaded track.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len())
}

// Close stops playback and releases the decoded stream.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.unloadLocked()
	return nil
}

func (e *Engine) unloadLocked() {
	if e.queued {
		speaker.Clear()
		e.queued = false
	}
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.path = ""
	e.ctrl = nil
	e.volume = nil
	e.status = domain.StatusStopped
}

// levelToVolume maps a linear [0, 1] level onto beep's base-2 logarithmic
// volume, where 0 is unity gain and each -1 halves the amplitude.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
