// Package transcribe sends finalized recordings to a remote speech-to-text
// provider and returns the transcript.
package transcribe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxtray/voxtray/internal/config"
	"github.com/voxtray/voxtray/internal/recorder"
)

// Transcriber turns a finalized recording into text. The recording file is
// treated as immutable input.
type Transcriber interface {
	Transcribe(ctx context.Context, rec recorder.Result) (string, error)
}

// New selects a provider from configuration.
func New(cfg config.TranscribeConfig, log zerolog.Logger) (Transcriber, error) {
	switch cfg.Provider {
	case "", config.ProviderOpenAI:
		return NewOpenAI(cfg, log), nil
	case config.ProviderGoogle:
		return NewGoogle(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", cfg.Provider)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
