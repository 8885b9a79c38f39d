// Package inject delivers transcribed text to the focused application.
package inject

import "context"

// Injector defines the interface for text delivery
type Injector interface {
	// Inject places text on the clipboard and, when configured, simulates
	// the platform paste shortcut. The clipboard write always happens
	// first so the text is recoverable even if the keystroke fails.
	Inject(ctx context.Context, text string) error
}
