package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// Dictation trigger modes.
const (
	ModePushToTalk = "PushToTalk"
	ModeToggle     = "Toggle"
)

// Transcription providers.
const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
)

type Config struct {
	Hotkey       string           `json:"hotkey"`
	HotkeyDarwin string           `json:"hotkey_darwin"`
	Mode         string           `json:"mode"` // ModePushToTalk or ModeToggle
	LogLevel     string           `json:"log_level"`
	Audio        AudioConfig      `json:"audio"`
	Transcribe   TranscribeConfig `json:"transcribe"`
	Inject       InjectConfig     `json:"inject"`
	AppendSpace  bool             `json:"append_space"`
	RunAtLogin   bool             `json:"run_at_login"`
}

type AudioConfig struct {
	// InputDeviceName selects the capture device by name; empty means the
	// system default.
	InputDeviceName string `json:"input_device_name"`
}

type TranscribeConfig struct {
	Provider       string `json:"provider"` // ProviderOpenAI or ProviderGoogle
	OpenAIAPIKey   string `json:"openai_api_key"`
	OpenAIModel    string `json:"openai_model"`
	OpenAILanguage string `json:"openai_language"` // ISO-639-1, empty lets the model detect
	GoogleAPIKey   string `json:"google_api_key"`
	GoogleLanguage string `json:"google_language"`
	Prompt         string `json:"prompt"`
}

type InjectConfig struct {
	PreferPaste bool `json:"prefer_paste"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Hotkey:       "Ctrl+Shift+T",
		HotkeyDarwin: "Ctrl+Shift+T",
		Mode:         ModeToggle,
		LogLevel:     "info",
		Audio: AudioConfig{
			InputDeviceName: "",
		},
		Transcribe: TranscribeConfig{
			Provider:       ProviderOpenAI,
			OpenAIModel:    "whisper-1",
			GoogleLanguage: "en-US",
		},
		Inject: InjectConfig{
			PreferPaste: true,
		},
		AppendSpace: true,
	}
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// PlatformHotkey returns the appropriate hotkey for the current platform
func (c *Config) PlatformHotkey() string {
	if runtime.GOOS == "darwin" && c.HotkeyDarwin != "" {
		return c.HotkeyDarwin
	}
	return c.Hotkey
}

// InputDeviceName satisfies the recorder's settings source.
func (c *Config) InputDeviceName() string {
	return c.Audio.InputDeviceName
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "voxtray", "config.json")
}
