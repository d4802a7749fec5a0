package fingerprint

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Peak is one spectral-peak triple: (frame_index, freq_bin, magnitude).
type Peak struct {
	FrameIndex int
	FreqBin    int
	Magnitude  float32
}

// Tag is the 128-bit deterministic integrity tag of spec §3: equality
// implies vector equality; collisions fall through to a vector compare.
type Tag [16]byte

// Signature is the core's fingerprint of one segment.
type Signature struct {
	Peaks      []Peak
	Vector     []float32 // dense, length Params.Dimension()
	Tag        Tag
	Confidence float64
	Params     Config
}

// Null reports whether this is the sentinel signature produced for
// silent or degenerate input (spec §4.2): confidence 0, sentinel tag.
func (s Signature) Null() bool {
	return s.Confidence == 0 && s.Tag == sentinelTag
}

var sentinelTag = Tag{}

// nullSignature builds the sentinel signature for a given config. It
// always scores 0 against any other signature (compare package).
func nullSignature(cfg Config) Signature {
	d := cfg.Dimension()
	return Signature{
		Peaks:      nil,
		Vector:     make([]float32, d),
		Tag:        sentinelTag,
		Confidence: 0,
		Params:     cfg,
	}
}

// quantise maps the top peaks into the flattened, quantised vector of
// spec §4.2 step 5: frame mod 2^16, freq direct, magnitude linearly
// mapped to [0, 65535] by the segment's own max(|X|).
func quantise(peaks []Peak, maxMag float32, targetCount int) (vector []float32, quantInts []int16) {
	d := targetCount * 3
	vector = make([]float32, d)
	quantInts = make([]int16, d)

	for i := 0; i < targetCount; i++ {
		var p Peak
		if i < len(peaks) {
			p = peaks[i]
		}

		frameQ := int32(p.FrameIndex) & 0xFFFF
		freqQ := int32(p.FreqBin)

		var magQ int32
		if maxMag > 0 {
			ratio := float64(p.Magnitude) / float64(maxMag)
			magQ = int32(math.Round(ratio * 65535))
			if magQ < 0 {
				magQ = 0
			}
			if magQ > 65535 {
				magQ = 65535
			}
		}

		base := i * 3
		vector[base+0] = float32(frameQ)
		vector[base+1] = float32(freqQ)
		vector[base+2] = float32(magQ)

		quantInts[base+0] = int16(frameQ)
		quantInts[base+1] = int16(freqQ)
		quantInts[base+2] = int16(magQ)
	}

	return vector, quantInts
}

// computeTag hashes the rounded, quantised integer form of the vector
// with a 128-bit BLAKE2b digest, per spec §4.2 step 6.
func computeTag(quantInts []int16) Tag {
	buf := make([]byte, len(quantInts)*2)
	for i, v := range quantInts {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}

	h, err := blake2b.New(16, nil)
	if err != nil {
		// blake2b.New(16, nil) only fails for an invalid size/key, both
		// of which are fixed constants here; this is unreachable.
		panic(err)
	}
	h.Write(buf)
	sum := h.Sum(nil)

	var tag Tag
	copy(tag[:], sum)
	return tag
}
