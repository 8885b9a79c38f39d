//go:build !linux && !darwin

package hotkey

import "fmt"

type stubManager struct{}

// New returns a manager that rejects registration on platforms without a
// hotkey implementation; the tray menu still works.
func New() (Manager, error) {
	return &stubManager{}, nil
}

func (m *stubManager) Register(accel string, callback func(pressed bool)) error {
	return fmt.Errorf("global hotkeys not supported on this platform")
}

func (m *stubManager) Close() error { return nil }
