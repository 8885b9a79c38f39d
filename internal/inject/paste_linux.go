//go:build linux

package inject

import (
	"context"
	"fmt"
	"os/exec"
)

// platformPaste simulates Ctrl+V through xdotool. Wayland compositors that
// block synthetic input leave the text on the clipboard.
func platformPaste(ctx context.Context) error {
	xdotool, err := exec.LookPath("xdotool")
	if err != nil {
		return fmt.Errorf("xdotool not installed: %w", err)
	}
	cmd := exec.CommandContext(ctx, xdotool, "key", "--clearmodifiers", "ctrl+v")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("xdotool: %w: %s", err, out)
	}
	return nil
}
