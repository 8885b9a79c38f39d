package audio

import (
	"encoding/binary"
	"math"
)

// F32ToI16 converts a float sample to 16-bit signed: clamp to [-1, 1],
// scale by 32767, truncate toward zero.
func F32ToI16(v float32) int16 {
	if v > 1.0 {
		v = 1.0
	}
	if v < -1.0 {
		v = -1.0
	}
	return int16(v * 32767)
}

// U16ToI16 re-centers the unsigned range to signed: 32768 maps to 0.
func U16ToI16(v uint16) int16 {
	return int16(int32(v) - 32768)
}

// ConvertFrames converts one interleaved hardware buffer to mono 16-bit
// signed samples. Mono is produced by keeping the first channel of each
// frame; the remaining channels are discarded, not averaged. Unknown
// formats yield nil (they are rejected before a stream ever starts).
func ConvertFrames(cfg StreamConfig, frames []byte, frameCount uint32) []int16 {
	width := cfg.Format.SampleSize()
	if width == 0 || cfg.Channels == 0 {
		return nil
	}
	stride := int(cfg.Channels) * width

	out := make([]int16, 0, frameCount)
	for i := 0; i < int(frameCount); i++ {
		off := i * stride
		if off+width > len(frames) {
			break
		}
		switch cfg.Format {
		case FormatF32:
			bits := binary.LittleEndian.Uint32(frames[off:])
			out = append(out, F32ToI16(math.Float32frombits(bits)))
		case FormatI16:
			out = append(out, int16(binary.LittleEndian.Uint16(frames[off:])))
		case FormatU16:
			out = append(out, U16ToI16(binary.LittleEndian.Uint16(frames[off:])))
		}
	}
	return out
}
