//go:build windows

package inject

import (
	"context"
	"fmt"
	"os/exec"
)

// platformPaste simulates Ctrl+V via SendKeys.
func platformPaste(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command",
		`Add-Type -AssemblyName System.Windows.Forms; [System.Windows.Forms.SendKeys]::SendWait('^v')`)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("sendkeys: %w: %s", err, out)
	}
	return nil
}
