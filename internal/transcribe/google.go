package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/voxtray/voxtray/internal/config"
	"github.com/voxtray/voxtray/internal/recorder"
)

const defaultGoogleEndpoint = "https://speech.googleapis.com/v1p1beta1/speech:recognize"

// ErrNoSpeech is returned when the provider found nothing to transcribe in
// the recording.
var ErrNoSpeech = errors.New("no speech detected in recording")

// Google transcribes via the Google Speech-to-Text recognize endpoint
// (base64 LINEAR16 content in a JSON body).
type Google struct {
	cfg      config.TranscribeConfig
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

func NewGoogle(cfg config.TranscribeConfig, log zerolog.Logger) *Google {
	return &Google{
		cfg:      cfg,
		endpoint: defaultGoogleEndpoint,
		client:   newHTTPClient(),
		log:      log,
	}
}

type googleRequest struct {
	Audio  googleAudio     `json:"audio"`
	Config googleRecognize `json:"config"`
}

type googleAudio struct {
	Content string `json:"content"`
}

type googleRecognize struct {
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	Encoding                   string `json:"encoding"`
	LanguageCode               string `json:"languageCode"`
	SampleRateHertz            uint32 `json:"sampleRateHertz"`
}

type googleResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

func (g *Google) Transcribe(ctx context.Context, rec recorder.Result) (string, error) {
	data, err := os.ReadFile(rec.Path)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("recording %s is empty", rec.Path)
	}

	language := g.cfg.GoogleLanguage
	if language == "" {
		language = "en-US"
	}

	reqBody, err := json.Marshal(googleRequest{
		Audio: googleAudio{Content: base64.StdEncoding.EncodeToString(data)},
		Config: googleRecognize{
			EnableAutomaticPunctuation: true,
			Encoding:                   "LINEAR16",
			LanguageCode:               language,
			SampleRateHertz:            rec.SampleRate,
		},
	})
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	endpoint := g.endpoint + "?key=" + url.QueryEscape(g.cfg.GoogleAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	g.log.Debug().Str("language", language).Int("bytes", len(data)).Msg("Sending recording to Google")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("google response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var out googleResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("google response: %w", err)
	}
	if len(out.Results) == 0 || len(out.Results[0].Alternatives) == 0 {
		return "", ErrNoSpeech
	}
	return out.Results[0].Alternatives[0].Transcript, nil
}
