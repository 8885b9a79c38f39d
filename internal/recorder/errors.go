package recorder

import "errors"

// Failure kinds surfaced by the controller. They are returned wrapped with
// context; match with errors.Is.
var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrNoInputDevice    = errors.New("no input device")
	ErrDeviceConfig     = errors.New("device configuration failed")
	ErrStreamBuild      = errors.New("capture stream build failed")
	ErrStreamPlay       = errors.New("capture stream start failed")
	ErrWriterPanicked   = errors.New("writer panicked")
	ErrWriterIO         = errors.New("writer i/o failed")
	ErrFileMissing      = errors.New("recording file missing")
	ErrEmptyRecording   = errors.New("recording is empty")
)
