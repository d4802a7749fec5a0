package pcmio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"soundhash/pcm"
)

// lameEncoderDelayOffset is the byte offset of the encoder-delay field
// relative to the start of the "LAME" marker inside a Xing/Info header.
const lameEncoderDelayOffset = 21

// defaultEncoderDelay is used when no LAME header is present.
const defaultEncoderDelay = 576

// DecodeMP3 decodes an MP3 stream into a pcm.Buffer of stereo-interleaved
// float32 samples in [-1, 1]. The whole stream is read into memory first;
// those raw bytes are also sniffed for a LAME encoder-delay header so the
// leading silent frames an encoder pads in don't show up as fingerprint
// content.
func DecodeMP3(r io.Reader) (pcm.Buffer, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("pcmio: failed to read MP3 stream: %w", err)
	}

	delay := readLAMEEncoderDelay(raw)

	decoder, err := mp3.NewDecoder(bytes.NewReader(raw))
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("pcmio: failed to create MP3 decoder: %w", err)
	}

	pcmBytes, err := io.ReadAll(decoder)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("pcmio: failed to decode MP3: %w", err)
	}

	// go-mp3 always emits 16-bit signed stereo.
	numSamples := len(pcmBytes) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		v := int16(binary.LittleEndian.Uint16(pcmBytes[i*2:]))
		samples[i] = float32(v) / 32768.0
	}

	skip := delay * 2 // two channels interleaved
	if skip < len(samples) {
		samples = samples[skip:]
	}

	return pcm.Buffer{
		Samples:    samples,
		Channels:   2,
		SampleRate: decoder.SampleRate(),
	}, nil
}

// readLAMEEncoderDelay scans the first 4KB for a Xing/LAME header and
// extracts the encoder delay it records, falling back to a typical
// default when no such header exists.
func readLAMEEncoderDelay(raw []byte) int {
	n := len(raw)
	if n > 4096 {
		n = 4096
	}
	head := raw[:n]

	idx := bytes.Index(head, []byte("LAME"))
	if idx == -1 {
		return defaultEncoderDelay
	}

	off := idx + lameEncoderDelayOffset
	if off+3 > len(head) {
		return defaultEncoderDelay
	}

	b := head[off : off+3]
	delay := (int(b[0]) << 4) | (int(b[1]) >> 4)
	if delay < 0 || delay > 4096 {
		return defaultEncoderDelay
	}
	return delay
}
