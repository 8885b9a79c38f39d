package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/voxtray/voxtray/internal/config"
	"github.com/voxtray/voxtray/internal/recorder"
)

func fixtureRecording(t *testing.T) recorder.Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rec.wav")
	if err := os.WriteFile(path, []byte("RIFF fake wav payload"), 0644); err != nil {
		t.Fatal(err)
	}
	return recorder.Result{Path: path, SampleRate: 16000, DurationMS: 1200}
}

func TestNewSelectsProvider(t *testing.T) {
	log := zerolog.Nop()

	if _, err := New(config.TranscribeConfig{Provider: config.ProviderOpenAI}, log); err != nil {
		t.Errorf("openai: %v", err)
	}
	if _, err := New(config.TranscribeConfig{Provider: config.ProviderGoogle}, log); err != nil {
		t.Errorf("google: %v", err)
	}
	if _, err := New(config.TranscribeConfig{}, log); err != nil {
		t.Errorf("default: %v", err)
	}
	if _, err := New(config.TranscribeConfig{Provider: "yodel"}, log); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestOpenAITranscribe(t *testing.T) {
	rec := fixtureRecording(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model %q", got)
		}
		if got := r.FormValue("language"); got != "sv" {
			t.Errorf("language %q, want sv", got)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file part: %v", err)
		}
		f.Close()
		json.NewEncoder(w).Encode(map[string]string{"text": "hello world"})
	}))
	defer srv.Close()

	o := NewOpenAI(config.TranscribeConfig{OpenAIAPIKey: "sk-test", OpenAILanguage: "sv"}, zerolog.Nop())
	o.endpoint = srv.URL

	text, err := o.Transcribe(context.Background(), rec)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("text %q, want %q", text, "hello world")
	}
}

func TestOpenAIErrorStatus(t *testing.T) {
	rec := fixtureRecording(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	o := NewOpenAI(config.TranscribeConfig{}, zerolog.Nop())
	o.endpoint = srv.URL

	_, err := o.Transcribe(context.Background(), rec)
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("expected provider error body, got %v", err)
	}
}

func TestGoogleTranscribe(t *testing.T) {
	rec := fixtureRecording(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "g-test" {
			t.Errorf("key %q", got)
		}
		var req googleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Config.Encoding != "LINEAR16" {
			t.Errorf("encoding %q", req.Config.Encoding)
		}
		if req.Config.SampleRateHertz != 16000 {
			t.Errorf("sample rate %d", req.Config.SampleRateHertz)
		}
		if req.Config.LanguageCode != "en-US" {
			t.Errorf("language %q", req.Config.LanguageCode)
		}
		if req.Audio.Content == "" {
			t.Error("missing audio content")
		}
		w.Write([]byte(`{"results":[{"alternatives":[{"transcript":"god morgon"}]}]}`))
	}))
	defer srv.Close()

	g := NewGoogle(config.TranscribeConfig{GoogleAPIKey: "g-test"}, zerolog.Nop())
	g.endpoint = srv.URL

	text, err := g.Transcribe(context.Background(), rec)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "god morgon" {
		t.Fatalf("text %q, want %q", text, "god morgon")
	}
}

func TestGoogleNoSpeech(t *testing.T) {
	rec := fixtureRecording(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := NewGoogle(config.TranscribeConfig{}, zerolog.Nop())
	g.endpoint = srv.URL

	if _, err := g.Transcribe(context.Background(), rec); !errors.Is(err, ErrNoSpeech) {
		t.Fatalf("got %v, want ErrNoSpeech", err)
	}
}

func TestMissingRecordingFile(t *testing.T) {
	o := NewOpenAI(config.TranscribeConfig{}, zerolog.Nop())
	rec := recorder.Result{Path: filepath.Join(t.TempDir(), "gone.wav"), SampleRate: 16000}
	if _, err := o.Transcribe(context.Background(), rec); err == nil {
		t.Fatal("expected error for missing recording")
	}
}
