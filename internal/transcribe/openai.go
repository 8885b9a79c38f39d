package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/voxtray/voxtray/internal/config"
	"github.com/voxtray/voxtray/internal/recorder"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/audio/transcriptions"

// OpenAI transcribes via the OpenAI speech-to-text endpoint (multipart file
// upload, JSON {text} response).
type OpenAI struct {
	cfg      config.TranscribeConfig
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

func NewOpenAI(cfg config.TranscribeConfig, log zerolog.Logger) *OpenAI {
	return &OpenAI{
		cfg:      cfg,
		endpoint: defaultOpenAIEndpoint,
		client:   newHTTPClient(),
		log:      log,
	}
}

func (o *OpenAI) Transcribe(ctx context.Context, rec recorder.Result) (string, error) {
	data, err := os.ReadFile(rec.Path)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("recording %s is empty", rec.Path)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	model := o.cfg.OpenAIModel
	if model == "" {
		model = "whisper-1"
	}
	mw.WriteField("model", model)
	if o.cfg.OpenAILanguage != "" {
		mw.WriteField("language", o.cfg.OpenAILanguage)
	}
	if o.cfg.Prompt != "" {
		mw.WriteField("prompt", o.cfg.Prompt)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+o.cfg.OpenAIAPIKey)

	o.log.Debug().Str("model", model).Int("bytes", len(data)).Msg("Sending recording to OpenAI")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("openai response: %w", err)
	}
	return out.Text, nil
}
