package inject

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/voxtray/voxtray/internal/config"
)

type pasteInjector struct {
	cfg config.InjectConfig
	log zerolog.Logger
}

// New creates a new text injector
func New(cfg config.InjectConfig, log zerolog.Logger) Injector {
	return &pasteInjector{cfg: cfg, log: log}
}

func (p *pasteInjector) Inject(ctx context.Context, text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	if !p.cfg.PreferPaste {
		p.log.Info().Msg("Text copied to clipboard (paste disabled)")
		return nil
	}

	// The paste keystroke is best-effort: the text is already on the
	// clipboard, so a failure only means the user pastes manually.
	if err := platformPaste(ctx); err != nil {
		p.log.Warn().Err(err).Msg("Paste keystroke failed, text left on clipboard")
	}
	return nil
}
