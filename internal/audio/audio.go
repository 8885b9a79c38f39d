package audio

// Format is the native sample format a capture device delivers.
type Format int

const (
	FormatUnknown Format = iota
	FormatF32
	FormatI16
	FormatU16
)

func (f Format) String() string {
	switch f {
	case FormatF32:
		return "f32"
	case FormatI16:
		return "i16"
	case FormatU16:
		return "u16"
	default:
		return "unknown"
	}
}

// SampleSize returns the width of one sample in bytes, or 0 for unknown
// formats.
func (f Format) SampleSize() int {
	switch f {
	case FormatF32:
		return 4
	case FormatI16, FormatU16:
		return 2
	default:
		return 0
	}
}

// Device describes an audio input device. Enumerated fresh on every query;
// name equality is the only identity.
type Device struct {
	Name    string
	Default bool
}

// StreamConfig is the input configuration negotiated with a device. It is
// immutable for the life of a stream.
type StreamConfig struct {
	SampleRate uint32
	Channels   uint32
	Format     Format
}

// DataFunc receives one hardware buffer of interleaved little-endian frames.
// It runs on the device-driven thread and must never block.
type DataFunc func(frames []byte, frameCount uint32)

// Backend abstracts the platform audio subsystem.
type Backend interface {
	// InputDevices enumerates capture devices. Devices whose info cannot
	// be read are skipped rather than aborting the list.
	InputDevices() ([]Device, error)
	// OpenInputStream opens the named capture device (empty selects the
	// platform default) with its native input configuration. The stream
	// is not started.
	OpenInputStream(deviceName string) (Stream, error)
	Close() error
}

// Stream is one open capture stream.
type Stream interface {
	Config() StreamConfig
	Start(fn DataFunc) error
	// Stop halts capture and returns only once the device thread has
	// quiesced; no callback runs after Stop returns.
	Stop() error
	Close()
}
