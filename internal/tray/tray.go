package tray

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/voxtray/voxtray/internal/app"
	"github.com/voxtray/voxtray/internal/config"
	"github.com/voxtray/voxtray/internal/logging"
)

type UI struct {
	app     *app.App
	cfg     *config.Config
	version string
	commit  string
	log     zerolog.Logger

	// Menu items
	mStartStop   *systray.MenuItem
	mMode        *systray.MenuItem
	mDevices     *systray.MenuItem
	mProviders   *systray.MenuItem
	mPastePrefer *systray.MenuItem
	mRunAtLogin  *systray.MenuItem
}

// Status update methods for the app to call
func (u *UI) SetIdle() {
	u.updateStatus("idle")
}

func (u *UI) SetRecording() {
	u.updateStatus("recording")
}

func (u *UI) SetProcessing() {
	u.updateStatus("processing")
}

func (u *UI) SetError() {
	u.updateStatus("error")
}

func New(application *app.App, cfg *config.Config, version, commit string, log zerolog.Logger) *UI {
	return &UI{
		app:     application,
		cfg:     cfg,
		version: version,
		commit:  commit,
		log:     log,
	}
}

// SetApp sets the app reference (for circular dependency resolution)
func (u *UI) SetApp(application *app.App) {
	u.app = application
}

func (u *UI) Run(ctx context.Context) error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	// Use emoji instead of icon - microphone with initial status
	u.updateStatus("idle")
	systray.SetTooltip("Voice dictation")

	// Build menu
	u.mStartStop = systray.AddMenuItem("Start Dictation", "Press hotkey to dictate")
	systray.AddSeparator()

	u.mMode = systray.AddMenuItem(modeTitle(u.cfg.Mode), "Toggle between modes")
	systray.AddSeparator()

	u.mDevices = systray.AddMenuItem("Microphone", "Select audio device")
	u.buildDeviceMenu()

	u.mProviders = systray.AddMenuItem("Provider", "Select transcription provider")
	u.buildProviderMenu()

	systray.AddSeparator()
	u.mPastePrefer = systray.AddMenuItemCheckbox("Prefer Paste", "Use clipboard paste", u.cfg.Inject.PreferPaste)
	u.mRunAtLogin = systray.AddMenuItemCheckbox("Run at Login", "Start on system boot", u.cfg.RunAtLogin)

	systray.AddSeparator()
	mLogs := systray.AddMenuItem("Open Logs", "View application logs")
	mAbout := systray.AddMenuItem("About", "About Voxtray")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	// Event loop
	go u.handleEvents(mLogs, mAbout, mQuit)
}

func (u *UI) handleEvents(mLogs, mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mStartStop.ClickedCh:
			u.app.OnHotkey(true)
		case <-u.mMode.ClickedCh:
			u.toggleMode()
		case <-u.mPastePrefer.ClickedCh:
			u.togglePastePrefer()
		case <-u.mRunAtLogin.ClickedCh:
			u.toggleRunAtLogin()
		case <-mLogs.ClickedCh:
			u.openLogs()
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) buildDeviceMenu() {
	// Get devices from app
	devices, err := u.app.ListDevices()
	if err != nil {
		u.log.Error().Err(err).Msg("Failed to list audio devices")
		return
	}

	deviceItems := make(map[string]*systray.MenuItem)

	for _, dev := range devices {
		item := u.mDevices.AddSubMenuItem(dev.Name, "")
		if u.cfg.Audio.InputDeviceName == dev.Name || (u.cfg.Audio.InputDeviceName == "" && dev.Default) {
			item.Check()
		}
		deviceItems[dev.Name] = item

		go func(deviceName string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				if err := u.app.SetDevice(deviceName); err != nil {
					u.log.Warn().Err(err).Msg("Device change rejected")
					continue
				}
				// Uncheck all other items
				for name, itm := range deviceItems {
					if name != deviceName {
						itm.Uncheck()
					}
				}
				menuItem.Check()
				u.log.Info().Str("device", deviceName).Msg("Changed audio device")
			}
		}(dev.Name, item)
	}
}

func (u *UI) buildProviderMenu() {
	providers := []string{config.ProviderOpenAI, config.ProviderGoogle}
	providerItems := make(map[string]*systray.MenuItem)

	for _, provider := range providers {
		item := u.mProviders.AddSubMenuItem(provider, "")
		if provider == u.cfg.Transcribe.Provider {
			item.Check()
		}
		providerItems[provider] = item

		go func(p string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				if err := u.app.SetProvider(p); err != nil {
					u.log.Warn().Err(err).Msg("Provider change rejected")
					continue
				}
				// Uncheck all other items
				for name, itm := range providerItems {
					if name != p {
						itm.Uncheck()
					}
				}
				menuItem.Check()
				u.log.Info().Str("provider", p).Msg("Changed transcription provider")
			}
		}(provider, item)
	}
}

func (u *UI) toggleMode() {
	oldMode := u.cfg.Mode
	next := config.ModePushToTalk
	if u.cfg.Mode == config.ModePushToTalk {
		next = config.ModeToggle
	}
	if err := u.app.SetMode(next); err != nil {
		u.log.Warn().Err(err).Msg("Failed to persist mode change")
	}
	u.mMode.SetTitle(modeTitle(u.cfg.Mode))
	u.log.Info().Str("from", oldMode).Str("to", u.cfg.Mode).Msg("Changed mode")
}

func (u *UI) togglePastePrefer() {
	u.cfg.Inject.PreferPaste = !u.cfg.Inject.PreferPaste
	if u.cfg.Inject.PreferPaste {
		u.mPastePrefer.Check()
		u.log.Info().Msg("Enabled prefer paste")
	} else {
		u.mPastePrefer.Uncheck()
		u.log.Info().Msg("Disabled prefer paste (using keyboard typing)")
	}
	u.cfg.Save()
}

func (u *UI) toggleRunAtLogin() {
	u.cfg.RunAtLogin = !u.cfg.RunAtLogin
	if u.cfg.RunAtLogin {
		u.mRunAtLogin.Check()
		u.log.Info().Msg("Enabled run at login")
	} else {
		u.mRunAtLogin.Uncheck()
		u.log.Info().Msg("Disabled run at login")
	}
	u.cfg.Save()
	// TODO: Platform-specific login item registration
}

func (u *UI) openLogs() {
	path := logging.Path()

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		u.log.Error().Err(err).Str("path", path).Msg("Failed to open log file")
	}
}

func (u *UI) showAbout() {
	// TODO: Show about dialog with native UI
	fmt.Printf("Voxtray %s (%s)\nVoice dictation\n", u.version, u.commit)
}

func (u *UI) onExit() {
	// Cleanup
}

// updateStatus sets the tray title with microphone emoji and status indicator
func (u *UI) updateStatus(status string) {
	emoji := emojiForStatus(status)
	systray.SetTitle(fmt.Sprintf("🎤 %s", emoji))
}

func modeTitle(mode string) string {
	if mode == config.ModePushToTalk {
		return "Mode: Push-to-Talk"
	}
	return "Mode: Toggle"
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "recording":
		return "🔴" // Red - recording
	case "processing":
		return "🟡" // Yellow - processing transcription
	case "idle":
		return "🟢" // Green - ready/idle
	case "error":
		return "⚪️" // White - error
	default:
		return "🟢" // Green - default to ready
	}
}
