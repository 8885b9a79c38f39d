package hotkey

// Manager defines the interface for global hotkey management
type Manager interface {
	// Register binds an accelerator like "Ctrl+Shift+T" to a callback.
	// The callback receives true on press and false on release.
	Register(accel string, callback func(pressed bool)) error
	Close() error
}
