package recorder

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writerResult is what the writer goroutine reports when it exits.
type writerResult struct {
	samples int
	err     error
}

// runWriter owns the output file. It consumes chunks in arrival order and
// appends them as mono 16-bit PCM until the channel is closed and drained,
// then finalizes the container exactly once. The first I/O error aborts the
// append loop, but finalization is still attempted so whatever made it to
// disk stays a readable file.
func runWriter(path string, sampleRate uint32, chunks <-chan []int16, done chan<- writerResult) {
	var res writerResult
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("%w: %v", ErrWriterPanicked, r)
		}
		done <- res
	}()
	res.samples, res.err = writeAll(path, sampleRate, chunks)
}

func writeAll(path string, sampleRate uint32, chunks <-chan []int16) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create container: %w", err)
	}
	enc := wav.NewEncoder(f, int(sampleRate), 16, 1, 1)

	written := 0
	var writeErr error
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: int(sampleRate)},
		SourceBitDepth: 16,
	}
	for chunk := range chunks {
		buf.Data = buf.Data[:0]
		for _, s := range chunk {
			buf.Data = append(buf.Data, int(s))
		}
		if err := enc.Write(buf); err != nil {
			writeErr = fmt.Errorf("append samples: %w", err)
			break
		}
		written += len(chunk)
	}

	// Close patches the RIFF header sizes; skipping it would leave the
	// container unreadable even on the happy path.
	if err := enc.Close(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("finalize container: %w", err)
	}
	if err := f.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	return written, writeErr
}
