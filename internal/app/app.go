// Package app wires the hotkey, recorder, transcription provider and text
// injector into the dictation flow.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxtray/voxtray/internal/audio"
	"github.com/voxtray/voxtray/internal/config"
	"github.com/voxtray/voxtray/internal/inject"
	"github.com/voxtray/voxtray/internal/recorder"
	"github.com/voxtray/voxtray/internal/transcribe"
)

// deliverTimeout bounds one transcribe-and-paste round trip.
const deliverTimeout = 60 * time.Second

// Recorder is the control surface of the capture pipeline.
type Recorder interface {
	Start() (string, error)
	Stop() (recorder.Result, error)
	InputDevices() ([]audio.Device, error)
	IsRecording() bool
}

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetIdle()
	SetRecording()
	SetProcessing()
	SetError()
}

type Config struct {
	Recorder      Recorder
	Transcriber   transcribe.Transcriber
	Injector      inject.Injector
	Config        *config.Config
	Logger        zerolog.Logger
	StatusUpdater StatusUpdater // Optional - can be nil
}

type App struct {
	rec    Recorder
	inj    inject.Injector
	cfg    *config.Config
	log    zerolog.Logger
	status StatusUpdater

	mu        sync.Mutex
	stt       transcribe.Transcriber
	dictating bool
	deliverWG sync.WaitGroup
}

func New(cfg Config) *App {
	return &App{
		rec:    cfg.Recorder,
		stt:    cfg.Transcriber,
		inj:    cfg.Injector,
		cfg:    cfg.Config,
		log:    cfg.Logger,
		status: cfg.StatusUpdater,
	}
}

// OnHotkey drives the dictation state machine. In push-to-talk mode the key
// edge maps directly to start/stop; in toggle mode only presses count.
func (a *App) OnHotkey(pressed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.cfg.Mode {
	case config.ModePushToTalk:
		if pressed {
			a.startLocked()
		} else {
			a.stopAndDeliverLocked()
		}
	default: // toggle
		if !pressed {
			return
		}
		if !a.dictating {
			a.startLocked()
		} else {
			a.stopAndDeliverLocked()
		}
	}
}

func (a *App) startLocked() {
	if a.dictating {
		return
	}

	path, err := a.rec.Start()
	if err != nil {
		a.log.Error().Err(err).Msg("Failed to start recording")
		a.setStatus(func(s StatusUpdater) { s.SetError() })
		return
	}

	a.dictating = true
	a.log.Info().Str("path", path).Msg("Dictation started")
	a.setStatus(func(s StatusUpdater) { s.SetRecording() })
}

func (a *App) stopAndDeliverLocked() {
	if !a.dictating {
		return
	}
	a.dictating = false

	result, err := a.rec.Stop()
	if err != nil {
		if errors.Is(err, recorder.ErrEmptyRecording) {
			a.log.Info().Msg("Nothing recorded")
			a.setStatus(func(s StatusUpdater) { s.SetIdle() })
			return
		}
		a.log.Error().Err(err).Msg("Failed to stop recording")
		a.setStatus(func(s StatusUpdater) { s.SetError() })
		return
	}

	a.setStatus(func(s StatusUpdater) { s.SetProcessing() })
	a.deliverWG.Add(1)
	stt := a.stt
	go func() {
		defer a.deliverWG.Done()
		a.deliver(result, stt)
	}()
}

// deliver runs off the hotkey path: transcribe the recording, filter the
// text and hand it to the injector. The recording is removed afterwards;
// it was consumed.
func (a *App) deliver(result recorder.Result, stt transcribe.Transcriber) {
	defer os.Remove(result.Path)

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	text, err := stt.Transcribe(ctx, result)
	if err != nil {
		a.log.Error().Err(err).Msg("Transcription failed")
		a.setStatus(func(s StatusUpdater) { s.SetError() })
		return
	}

	text = a.applyFilters(text)
	if text == "" {
		a.log.Info().Msg("Empty transcript")
		a.setStatus(func(s StatusUpdater) { s.SetIdle() })
		return
	}

	if err := a.inj.Inject(ctx, text); err != nil {
		a.log.Error().Err(err).Msg("Inject failed")
		a.setStatus(func(s StatusUpdater) { s.SetError() })
		return
	}

	a.log.Info().Str("text", text).Uint64("duration_ms", result.DurationMS).Msg("Dictation delivered")
	a.setStatus(func(s StatusUpdater) { s.SetIdle() })
}

func (a *App) applyFilters(text string) string {
	if len(text) == 0 {
		return text
	}

	// Auto-capitalize first letter
	if text[0] >= 'a' && text[0] <= 'z' {
		text = string(text[0]-32) + text[1:]
	}

	if a.cfg.AppendSpace {
		text += " "
	}

	return text
}

func (a *App) setStatus(f func(StatusUpdater)) {
	if a.status != nil {
		f(a.status)
	}
}

// Shutdown finishes an in-flight dictation before exit: it stops the
// recorder and then waits for the delivery goroutine, so a transcript is
// not dropped by an immediate process exit. The context bounds the wait.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if a.dictating {
		a.stopAndDeliverLocked()
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.deliverWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tray actions

func (a *App) SetMode(mode string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.Mode = mode
	return a.cfg.Save()
}

func (a *App) SetDevice(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dictating {
		return fmt.Errorf("cannot change while dictating")
	}

	a.cfg.Audio.InputDeviceName = name
	return a.cfg.Save()
}

func (a *App) SetProvider(provider string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dictating {
		return fmt.Errorf("cannot change while dictating")
	}

	a.cfg.Transcribe.Provider = provider
	stt, err := transcribe.New(a.cfg.Transcribe, a.log)
	if err != nil {
		return err
	}
	a.stt = stt
	return a.cfg.Save()
}

func (a *App) IsDictating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dictating
}

func (a *App) ListDevices() ([]audio.Device, error) {
	return a.rec.InputDevices()
}
