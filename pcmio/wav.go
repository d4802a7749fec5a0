// Package pcmio decodes on-disk audio files into pcm.Buffer at the
// boundary of the core. Nothing under pcm/, fingerprint/, compare/,
// lshindex/, batch/, or engine/ imports this package; it exists only so
// a CLI or ingestion job has somewhere to turn bytes into samples.
package pcmio

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"soundhash/pcm"
)

// DecodeWAV reads a RIFF/WAV stream into a pcm.Buffer of float32 samples
// normalised to [-1, 1], preserving the file's channel count and sample
// rate; callers run pcm.NewSegmenter (which downmixes and resamples) on
// the result.
func DecodeWAV(r io.ReadSeeker) (pcm.Buffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return pcm.Buffer{}, fmt.Errorf("pcmio: not a valid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("pcmio: failed to read WAV PCM buffer: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return pcm.Buffer{}, fmt.Errorf("pcmio: empty WAV PCM buffer")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	fullScale := float32(int(1) << (bitDepth - 1))

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / fullScale
	}

	return pcm.Buffer{
		Samples:    samples,
		Channels:   buf.Format.NumChannels,
		SampleRate: buf.Format.SampleRate,
	}, nil
}
