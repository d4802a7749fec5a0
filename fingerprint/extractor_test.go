package fingerprint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
	"soundhash/pcm"
)

func sineSegment(seconds float64, freq float64, rate int) pcm.Segment {
	n := int(seconds * float64(rate))
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(rate)))
	}
	return pcm.Segment{StartSample: 0, Samples: samples, SampleRate: rate}
}

func silentSegment(seconds float64, rate int) pcm.Segment {
	n := int(seconds * float64(rate))
	return pcm.Segment{StartSample: 0, Samples: make([]float32, n), SampleRate: rate}
}

func TestExtractDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	seg := sineSegment(4, 440, cfg.SampleRate)

	sig1, err := e.Extract(seg)
	require.NoError(t, err)
	sig2, err := e.Extract(seg)
	require.NoError(t, err)

	assert.Equal(t, sig1.Vector, sig2.Vector)
	assert.Equal(t, sig1.Tag, sig2.Tag)
}

func TestExtractSilenceProducesNullSignature(t *testing.T) {
	cfg := DefaultConfig()
	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	seg := silentSegment(4, cfg.SampleRate)
	sig, err := e.Extract(seg)
	require.NoError(t, err)
	assert.True(t, sig.Null())
	assert.Equal(t, 0.0, sig.Confidence)
}

func TestExtractSegmentTooShortProducesNullSignature(t *testing.T) {
	cfg := DefaultConfig()
	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	seg := sineSegment(0.01, 440, cfg.SampleRate) // far fewer samples than NFFT
	sig, err := e.Extract(seg)
	require.NoError(t, err)
	assert.True(t, sig.Null())
}

func TestExtractNonNegativeFiniteMagnitudes(t *testing.T) {
	cfg := DefaultConfig()
	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	seg := sineSegment(4, 880, cfg.SampleRate)
	sig, err := e.Extract(seg)
	require.NoError(t, err)

	for i := 2; i < len(sig.Vector); i += 3 {
		v := sig.Vector[i]
		assert.False(t, math.IsNaN(float64(v)))
		assert.False(t, math.IsInf(float64(v), 0))
		assert.GreaterOrEqual(t, v, float32(0))
	}
}

// TestExtractDeterminismProperty is a property-based check of spec §8's
// determinism property across a range of frequencies and durations.
func TestExtractDeterminismProperty(t *testing.T) {
	cfg := DefaultConfig()
	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		freq := rapid.Float64Range(100, 8000).Draw(t, "freq")
		seconds := rapid.Float64Range(1, 6).Draw(t, "seconds")

		seg := sineSegment(seconds, freq, cfg.SampleRate)

		sig1, err1 := e.Extract(seg)
		sig2, err2 := e.Extract(seg)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, sig1.Vector, sig2.Vector)
		assert.Equal(t, sig1.Tag, sig2.Tag)
	})
}
