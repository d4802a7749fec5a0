// Package pcm holds the PCM buffer type and the Segmenter that slices a
// waveform into fixed-length, mono, fixed-rate windows.
package pcm

import (
	"fmt"
	"math"
)

// Buffer is a decoded, interleaved PCM waveform. Samples are expected in
// [-1.0, 1.0]. The core never takes ownership of the backing array; it
// only reads.
type Buffer struct {
	Samples    []float32
	Channels   int
	SampleRate int
}

// Duration returns the buffer's length in seconds.
func (b Buffer) Duration() float64 {
	if b.Channels == 0 || b.SampleRate == 0 {
		return 0
	}
	frames := len(b.Samples) / b.Channels
	return float64(frames) / float64(b.SampleRate)
}

func (b Buffer) validate() error {
	if b.Channels <= 0 {
		return fmt.Errorf("pcm: channels must be positive, got %d", b.Channels)
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("pcm: sample rate must be positive, got %d", b.SampleRate)
	}
	if len(b.Samples)%b.Channels != 0 {
		return fmt.Errorf("pcm: sample count %d not divisible by channel count %d", len(b.Samples), b.Channels)
	}
	return nil
}

// downmix averages interleaved multichannel samples to mono, replacing
// non-finite samples with 0 and counting how many were replaced.
func downmix(b Buffer) (mono []float32, nonFinite int) {
	frames := len(b.Samples) / b.Channels
	mono = make([]float32, frames)
	for f := 0; f < frames; f++ {
		var sum float32
		for c := 0; c < b.Channels; c++ {
			s := b.Samples[f*b.Channels+c]
			if isNonFinite(s) {
				nonFinite++
				s = 0
			}
			sum += s
		}
		mono[f] = sum / float32(b.Channels)
	}
	return mono, nonFinite
}

func isNonFinite(f float32) bool {
	v := float64(f)
	return math.IsNaN(v) || math.IsInf(v, 0)
}
