// Package recorder implements the capture-and-encode pipeline: one
// process-wide recording session that ties a device capture stream, a chunk
// channel and a WAV writer goroutine together under a fixed start/stop
// protocol.
package recorder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/voxtray/voxtray/internal/audio"
)

// chunkBacklog is the capacity of the channel between the device callback
// and the writer. At typical 10-50 ms device periods this buys several
// seconds of slack; the callback drops chunks rather than block when it is
// exhausted.
const chunkBacklog = 256

// Result describes one finalized recording, handed to the transcription
// layer. The file at Path is complete, non-empty, mono 16-bit PCM and must
// be treated as immutable.
type Result struct {
	Path       string
	SampleRate uint32
	DurationMS uint64
}

// Settings supplies the user's device preference at start time. An empty
// name selects the platform default.
type Settings interface {
	InputDeviceName() string
}

// Recorder owns at most one recording session for the whole process. Start
// while a session is active is rejected, not queued: the device is an
// exclusive resource.
type Recorder struct {
	backend  audio.Backend
	settings Settings
	log      zerolog.Logger
	cacheDir string

	mu   sync.Mutex
	sess *session
}

// session is one start-to-stop lifecycle: the open stream, the chunk
// channel's send side and the writer handle. Immutable after start except
// for the advisory elapsed counter.
type session struct {
	outputPath string
	config     audio.StreamConfig
	stream     audio.Stream
	chunks     chan []int16
	writerDone chan writerResult
	startedAt  time.Time
	elapsedMS  atomic.Uint64
}

func New(backend audio.Backend, settings Settings, log zerolog.Logger) *Recorder {
	return &Recorder{
		backend:  backend,
		settings: settings,
		log:      log,
	}
}

// Start opens the preferred capture device, spawns the writer and begins
// capture. It returns the path the recording is being written to.
func (r *Recorder) Start() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sess != nil {
		return "", ErrAlreadyRecording
	}

	deviceName, err := r.resolveDevice()
	if err != nil {
		return "", err
	}

	stream, err := r.backend.OpenInputStream(deviceName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDeviceConfig, err)
	}

	cfg := stream.Config()
	if cfg.Format == audio.FormatUnknown {
		stream.Close()
		return "", fmt.Errorf("%w: unsupported sample format", ErrStreamBuild)
	}
	r.log.Info().
		Uint32("sample_rate", cfg.SampleRate).
		Uint32("channels", cfg.Channels).
		Stringer("format", cfg.Format).
		Msg("Opened capture stream")

	outputPath, err := r.outputPath()
	if err != nil {
		stream.Close()
		return "", err
	}

	sess := &session{
		outputPath: outputPath,
		config:     cfg,
		stream:     stream,
		chunks:     make(chan []int16, chunkBacklog),
		writerDone: make(chan writerResult, 1),
		startedAt:  time.Now(),
	}
	go runWriter(outputPath, cfg.SampleRate, sess.chunks, sess.writerDone)

	if err := stream.Start(sess.onData); err != nil {
		// Unwind completely: no session may survive a failed start.
		stream.Close()
		close(sess.chunks)
		<-sess.writerDone
		os.Remove(outputPath)
		return "", fmt.Errorf("%w: %w", ErrStreamPlay, err)
	}

	r.sess = sess
	r.log.Info().Str("path", outputPath).Msg("Recording started")
	return outputPath, nil
}

// Stop tears the active session down and returns the finalized recording.
// The teardown order is a protocol: hardware first (no further chunks),
// then the channel (writer drains and exits), then the writer join, then
// the file checks. Whatever fails, the controller is back in the "no
// session" state before the error is returned.
func (r *Recorder) Stop() (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.sess
	if sess == nil {
		return Result{}, ErrNotRecording
	}
	r.sess = nil

	samples, err := sess.teardown()
	if err != nil {
		return Result{}, err
	}

	fi, statErr := os.Stat(sess.outputPath)
	if statErr != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrFileMissing, sess.outputPath)
	}
	if samples == 0 || fi.Size() == 0 {
		// A header-only container is useless downstream; drop it.
		os.Remove(sess.outputPath)
		return Result{}, ErrEmptyRecording
	}

	result := Result{
		Path:       sess.outputPath,
		SampleRate: sess.config.SampleRate,
		DurationMS: sess.elapsedMS.Load(),
	}
	r.log.Info().
		Str("path", result.Path).
		Int64("bytes", fi.Size()).
		Uint64("duration_ms", result.DurationMS).
		Msg("Recording stopped")
	return result, nil
}

// InputDevices enumerates capture devices, fresh on every call, with the
// platform default flagged.
func (r *Recorder) InputDevices() ([]audio.Device, error) {
	return r.backend.InputDevices()
}

// IsRecording reports whether a session is active.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sess != nil
}

// onData runs on the device-driven thread. Only format conversion and a
// non-blocking enqueue are allowed here; a full backlog drops the chunk
// silently because there is no way to report from a real-time callback
// without blocking it.
func (s *session) onData(frames []byte, frameCount uint32) {
	s.elapsedMS.Store(uint64(time.Since(s.startedAt) / time.Millisecond))

	chunk := audio.ConvertFrames(s.config, frames, frameCount)
	if len(chunk) == 0 {
		return
	}
	select {
	case s.chunks <- chunk:
	default:
	}
}

// teardown walks the session through StreamClosed → ChannelClosed →
// WriterJoined. Closing the chunk channel is safe only because Stop has
// already quiesced the device thread.
func (s *session) teardown() (int, error) {
	stopErr := s.stream.Stop()
	s.stream.Close()

	close(s.chunks)
	res := <-s.writerDone

	switch {
	case stopErr != nil:
		return res.samples, fmt.Errorf("stop capture: %w", stopErr)
	case res.err != nil && errors.Is(res.err, ErrWriterPanicked):
		return res.samples, res.err
	case res.err != nil:
		return res.samples, fmt.Errorf("%w: %w", ErrWriterIO, res.err)
	}
	return res.samples, nil
}

// resolveDevice maps the configured preference onto a capture device name.
// An unknown name degrades to the platform default with a warning; it never
// fails the start.
func (r *Recorder) resolveDevice() (string, error) {
	devices, err := r.backend.InputDevices()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoInputDevice, err)
	}
	if len(devices) == 0 {
		return "", ErrNoInputDevice
	}

	var preferred string
	if r.settings != nil {
		preferred = r.settings.InputDeviceName()
	}
	if preferred == "" {
		return "", nil
	}
	for _, d := range devices {
		if d.Name == preferred {
			return d.Name, nil
		}
	}
	r.log.Warn().Str("device", preferred).
		Msg("Configured input device not found, falling back to default")
	return "", nil
}

// outputPath builds a collision-free path in the per-application cache
// directory.
func (r *Recorder) outputPath() (string, error) {
	dir := r.cacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("locate cache dir: %w", err)
		}
		dir = filepath.Join(base, "voxtray")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("dictation-%s.wav", uuid.NewString())), nil
}
