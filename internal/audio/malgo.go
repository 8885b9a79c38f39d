package audio

import (
	"fmt"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"
)

type malgoBackend struct {
	ctx *malgo.AllocatedContext
	log zerolog.Logger
}

// NewBackend initializes the platform audio subsystem (miniaudio).
func NewBackend(log zerolog.Logger) (Backend, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	return &malgoBackend{ctx: ctx, log: log}, nil
}

func (b *malgoBackend) InputDevices() ([]Device, error) {
	infos, err := b.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		full, err := b.ctx.DeviceInfo(malgo.Capture, info.ID, malgo.Shared)
		if err != nil {
			// One unreadable device must not abort the whole list.
			b.log.Warn().Err(err).Msg("Skipping unreadable capture device")
			continue
		}
		devices = append(devices, Device{
			Name:    full.Name(),
			Default: full.IsDefault == 1,
		})
	}
	return devices, nil
}

func (b *malgoBackend) OpenInputStream(deviceName string) (Stream, error) {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Alsa.NoMMap = 1
	// Capture format, channels and sample rate stay zeroed so miniaudio
	// keeps the device's native input configuration; the negotiated values
	// are read back from the device below.

	if deviceName != "" {
		id, err := b.findDeviceID(deviceName)
		if err != nil {
			return nil, err
		}
		deviceConfig.Capture.DeviceID = id.Pointer()
	}

	s := &malgoStream{}
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			if fn := s.fn.Load(); fn != nil {
				(*fn)(input, frameCount)
			}
		},
	}

	device, err := malgo.InitDevice(b.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("init capture device: %w", err)
	}

	s.device = device
	s.config = StreamConfig{
		SampleRate: device.SampleRate(),
		Channels:   device.CaptureChannels(),
		Format:     fromMalgoFormat(device.CaptureFormat()),
	}
	return s, nil
}

func (b *malgoBackend) findDeviceID(name string) (malgo.DeviceID, error) {
	var id malgo.DeviceID
	infos, err := b.ctx.Devices(malgo.Capture)
	if err != nil {
		return id, fmt.Errorf("enumerate capture devices: %w", err)
	}
	for _, info := range infos {
		full, err := b.ctx.DeviceInfo(malgo.Capture, info.ID, malgo.Shared)
		if err != nil {
			continue
		}
		if full.Name() == name {
			return full.ID, nil
		}
	}
	return id, fmt.Errorf("capture device %q not found", name)
}

func (b *malgoBackend) Close() error {
	if err := b.ctx.Uninit(); err != nil {
		return err
	}
	b.ctx.Free()
	return nil
}

// fromMalgoFormat maps miniaudio formats onto the converter's formats.
// miniaudio has no unsigned 16-bit device format, so FormatU16 never comes
// out of this backend; anything outside the supported set maps to
// FormatUnknown and fails the session build.
func fromMalgoFormat(f malgo.FormatType) Format {
	switch f {
	case malgo.FormatS16:
		return FormatI16
	case malgo.FormatF32:
		return FormatF32
	default:
		return FormatUnknown
	}
}

type malgoStream struct {
	device *malgo.Device
	config StreamConfig
	fn     atomic.Pointer[DataFunc]
}

func (s *malgoStream) Config() StreamConfig { return s.config }

func (s *malgoStream) Start(fn DataFunc) error {
	s.fn.Store(&fn)
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("start capture device: %w", err)
	}
	return nil
}

func (s *malgoStream) Stop() error {
	if err := s.device.Stop(); err != nil {
		return fmt.Errorf("stop capture device: %w", err)
	}
	return nil
}

func (s *malgoStream) Close() {
	s.device.Uninit()
}
