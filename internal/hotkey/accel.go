package hotkey

import (
	"fmt"
	"strings"
)

// accel is a parsed accelerator: one key plus modifiers.
type accel struct {
	Key   string // upper-case key name, e.g. "T" or "SPACE"
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// parseAccel parses strings like "Ctrl+Shift+T" or "Alt+Space". Modifier
// aliases follow platform conventions (Option=Alt, Cmd/Super/Win=Meta).
func parseAccel(s string) (accel, error) {
	var a accel
	for _, part := range strings.Split(s, "+") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
			return accel{}, fmt.Errorf("malformed accelerator %q", s)
		case "ctrl", "control":
			a.Ctrl = true
		case "shift":
			a.Shift = true
		case "alt", "option", "opt":
			a.Alt = true
		case "meta", "cmd", "command", "super", "win":
			a.Meta = true
		default:
			if a.Key != "" {
				return accel{}, fmt.Errorf("accelerator %q has more than one key", s)
			}
			a.Key = strings.ToUpper(strings.TrimSpace(part))
		}
	}
	if a.Key == "" {
		return accel{}, fmt.Errorf("accelerator %q has no key", s)
	}
	return a, nil
}
