package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxtray/voxtray/internal/audio"
	"github.com/voxtray/voxtray/internal/config"
	"github.com/voxtray/voxtray/internal/recorder"
)

type mockRecorder struct {
	mu        sync.Mutex
	recording bool
	startErr  error
	stopErr   error
	result    recorder.Result
	starts    int
	stops     int
}

func (m *mockRecorder) Start() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return "", m.startErr
	}
	m.recording = true
	m.starts++
	return m.result.Path, nil
}

func (m *mockRecorder) Stop() (recorder.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recording = false
	m.stops++
	if m.stopErr != nil {
		return recorder.Result{}, m.stopErr
	}
	return m.result, nil
}

func (m *mockRecorder) InputDevices() ([]audio.Device, error) {
	return []audio.Device{{Name: "Built-in Microphone", Default: true}}, nil
}

func (m *mockRecorder) IsRecording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording
}

type mockTranscriber struct {
	text string
	err  error
	got  chan recorder.Result
}

func (m *mockTranscriber) Transcribe(ctx context.Context, rec recorder.Result) (string, error) {
	if m.got != nil {
		m.got <- rec
	}
	return m.text, m.err
}

type mockInjector struct {
	injected chan string
	err      error
}

func (m *mockInjector) Inject(ctx context.Context, text string) error {
	if m.err != nil {
		return m.err
	}
	m.injected <- text
	return nil
}

type mockStatus struct {
	mu     sync.Mutex
	states []string
}

func (m *mockStatus) record(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = append(m.states, s)
}

func (m *mockStatus) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.states) == 0 {
		return ""
	}
	return m.states[len(m.states)-1]
}

func (m *mockStatus) SetIdle()       { m.record("idle") }
func (m *mockStatus) SetRecording()  { m.record("recording") }
func (m *mockStatus) SetProcessing() { m.record("processing") }
func (m *mockStatus) SetError()      { m.record("error") }

func tempRecording(t *testing.T) recorder.Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dictation.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return recorder.Result{Path: path, SampleRate: 48000, DurationMS: 1200}
}

func newTestApp(t *testing.T, rec *mockRecorder, stt *mockTranscriber, inj *mockInjector, status *mockStatus) (*App, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Mode = config.ModeToggle
	appCfg := Config{
		Recorder:    rec,
		Transcriber: stt,
		Injector:    inj,
		Config:      cfg,
		Logger:      zerolog.Nop(),
	}
	if status != nil {
		appCfg.StatusUpdater = status
	}
	return New(appCfg), cfg
}

func waitFor(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for injection")
		return ""
	}
}

func TestToggleModeFullCycle(t *testing.T) {
	rec := &mockRecorder{result: tempRecording(t)}
	stt := &mockTranscriber{text: "hello world"}
	inj := &mockInjector{injected: make(chan string, 1)}
	status := &mockStatus{}
	a, _ := newTestApp(t, rec, stt, inj, status)

	a.OnHotkey(true)
	if !a.IsDictating() {
		t.Fatal("expected dictating after first press")
	}
	if status.last() != "recording" {
		t.Fatalf("status = %q, want recording", status.last())
	}

	a.OnHotkey(true)
	if a.IsDictating() {
		t.Fatal("expected idle after second press")
	}

	got := waitFor(t, inj.injected)
	if got != "Hello world " {
		t.Fatalf("injected %q, want capitalized with trailing space", got)
	}

	if rec.starts != 1 || rec.stops != 1 {
		t.Fatalf("starts=%d stops=%d, want 1/1", rec.starts, rec.stops)
	}
}

func TestToggleModeIgnoresReleases(t *testing.T) {
	rec := &mockRecorder{result: tempRecording(t)}
	a, _ := newTestApp(t, rec, &mockTranscriber{}, &mockInjector{}, nil)

	a.OnHotkey(false)
	if rec.starts != 0 {
		t.Fatal("release should not start dictation in toggle mode")
	}

	a.OnHotkey(true)
	a.OnHotkey(false)
	if !a.IsDictating() {
		t.Fatal("release should not stop dictation in toggle mode")
	}
}

func TestPushToTalkMode(t *testing.T) {
	rec := &mockRecorder{result: tempRecording(t)}
	stt := &mockTranscriber{text: "testing"}
	inj := &mockInjector{injected: make(chan string, 1)}
	a, cfg := newTestApp(t, rec, stt, inj, nil)
	cfg.Mode = config.ModePushToTalk

	a.OnHotkey(true)
	if !a.IsDictating() {
		t.Fatal("expected dictating while key held")
	}
	a.OnHotkey(false)
	if a.IsDictating() {
		t.Fatal("expected idle after key released")
	}
	waitFor(t, inj.injected)
}

func TestEmptyRecordingReturnsToIdle(t *testing.T) {
	rec := &mockRecorder{stopErr: recorder.ErrEmptyRecording}
	status := &mockStatus{}
	a, _ := newTestApp(t, rec, &mockTranscriber{}, &mockInjector{}, status)

	a.OnHotkey(true)
	a.OnHotkey(true)

	if status.last() != "idle" {
		t.Fatalf("status = %q, want idle after empty recording", status.last())
	}
}

func TestStopErrorSetsErrorStatus(t *testing.T) {
	rec := &mockRecorder{stopErr: recorder.ErrWriterIO}
	status := &mockStatus{}
	a, _ := newTestApp(t, rec, &mockTranscriber{}, &mockInjector{}, status)

	a.OnHotkey(true)
	a.OnHotkey(true)

	if status.last() != "error" {
		t.Fatalf("status = %q, want error", status.last())
	}
}

func TestStartErrorDoesNotDictate(t *testing.T) {
	rec := &mockRecorder{startErr: recorder.ErrNoInputDevice}
	status := &mockStatus{}
	a, _ := newTestApp(t, rec, &mockTranscriber{}, &mockInjector{}, status)

	a.OnHotkey(true)
	if a.IsDictating() {
		t.Fatal("start failure should leave app idle")
	}
	if status.last() != "error" {
		t.Fatalf("status = %q, want error", status.last())
	}
}

func TestRecordingRemovedAfterDelivery(t *testing.T) {
	result := tempRecording(t)
	rec := &mockRecorder{result: result}
	stt := &mockTranscriber{text: "done"}
	inj := &mockInjector{injected: make(chan string, 1)}
	a, _ := newTestApp(t, rec, stt, inj, nil)

	a.OnHotkey(true)
	a.OnHotkey(true)
	waitFor(t, inj.injected)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(result.Path); errors.Is(err, os.ErrNotExist) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("recording file not cleaned up")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTranscriptionFailureSetsErrorStatus(t *testing.T) {
	rec := &mockRecorder{result: tempRecording(t)}
	stt := &mockTranscriber{err: errors.New("upstream 500"), got: make(chan recorder.Result, 1)}
	status := &mockStatus{}
	a, _ := newTestApp(t, rec, stt, &mockInjector{}, status)

	a.OnHotkey(true)
	a.OnHotkey(true)
	<-stt.got

	deadline := time.Now().Add(2 * time.Second)
	for status.last() != "error" {
		if time.Now().After(deadline) {
			t.Fatalf("status = %q, want error after transcription failure", status.last())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSetDeviceRejectedWhileDictating(t *testing.T) {
	rec := &mockRecorder{result: tempRecording(t)}
	a, _ := newTestApp(t, rec, &mockTranscriber{}, &mockInjector{}, nil)

	a.OnHotkey(true)
	if err := a.SetDevice("USB Microphone"); err == nil {
		t.Fatal("expected device change to be rejected mid-dictation")
	}
}

func TestShutdownWaitsForDelivery(t *testing.T) {
	rec := &mockRecorder{result: tempRecording(t)}
	stt := &mockTranscriber{text: "last words"}
	inj := &mockInjector{injected: make(chan string, 1)}
	a, _ := newTestApp(t, rec, stt, inj, nil)

	a.OnHotkey(true)
	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	// The transcript must already be injected once Shutdown returns.
	select {
	case got := <-inj.injected:
		if got != "Last words " {
			t.Fatalf("injected %q", got)
		}
	default:
		t.Fatal("shutdown returned before delivery finished")
	}
}

func TestShutdownHonorsContext(t *testing.T) {
	rec := &mockRecorder{result: tempRecording(t)}
	block := make(chan string)
	stt := &mockTranscriber{text: "slow", got: make(chan recorder.Result, 1)}
	inj := &mockInjector{injected: block}
	a, _ := newTestApp(t, rec, stt, inj, nil)

	a.OnHotkey(true)
	a.OnHotkey(true)
	<-stt.got

	// The injector blocks, so only the deadline can release Shutdown.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := a.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want deadline exceeded", err)
	}
	<-block
}

func TestSetModePersists(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)

	a, cfg := newTestApp(t, &mockRecorder{}, &mockTranscriber{}, &mockInjector{}, nil)
	if err := a.SetMode(config.ModePushToTalk); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if cfg.Mode != config.ModePushToTalk {
		t.Fatalf("mode %q, want %q", cfg.Mode, config.ModePushToTalk)
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Mode != config.ModePushToTalk {
		t.Fatalf("persisted mode %q, want %q", loaded.Mode, config.ModePushToTalk)
	}
}

func TestApplyFilters(t *testing.T) {
	a, cfg := newTestApp(t, &mockRecorder{}, &mockTranscriber{}, &mockInjector{}, nil)

	if got := a.applyFilters("hello"); got != "Hello " {
		t.Fatalf("got %q", got)
	}

	cfg.AppendSpace = false
	if got := a.applyFilters("Already caps"); got != "Already caps" {
		t.Fatalf("got %q", got)
	}
	if got := a.applyFilters(""); got != "" {
		t.Fatalf("got %q", got)
	}
}
