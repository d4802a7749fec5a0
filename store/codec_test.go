package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
	"soundhash/fingerprint"
	"soundhash/pcm"
)

func sineSegment(seconds, freq float64, rate int) pcm.Segment {
	n := int(seconds * float64(rate))
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(rate)))
	}
	return pcm.Segment{StartSample: 0, Samples: samples, SampleRate: rate}
}

// TestEncodeDecodeRoundTripsLiveSignature checks that a signature freshly
// produced by the Extractor survives Encode/Decode with its Vector and
// Tag intact. Peaks.Magnitude is not asserted: the on-disk layout only
// carries the post-quantisation magnitude, so a live signature's
// pre-quantisation linear magnitudes are lossy across the wire and that
// is by design, not a bug.
func TestEncodeDecodeRoundTripsLiveSignature(t *testing.T) {
	cfg := fingerprint.DefaultConfig()
	e, err := fingerprint.NewExtractor(cfg)
	require.NoError(t, err)

	seg := sineSegment(4, 440, cfg.SampleRate)
	sig, err := e.Extract(seg)
	require.NoError(t, err)

	blob, err := Encode(sig)
	require.NoError(t, err)

	got, err := Decode(blob)
	require.NoError(t, err)

	assert.Equal(t, sig.Vector, got.Vector)
	assert.Equal(t, sig.Tag, got.Tag)
	assert.InDelta(t, sig.Confidence, got.Confidence, 1.0/65535.0)
	assert.True(t, fingerprint.SameParams(sig.Params, got.Params))
}

// TestDecodeEncodeIdempotentOnStoreOriginatedBlob checks that a blob which
// already came from Decode re-encodes byte-for-byte identically: once a
// signature has passed through the wire format once, further round-trips
// are lossless.
func TestDecodeEncodeIdempotentOnStoreOriginatedBlob(t *testing.T) {
	cfg := fingerprint.DefaultConfig()
	e, err := fingerprint.NewExtractor(cfg)
	require.NoError(t, err)

	seg := sineSegment(4, 880, cfg.SampleRate)
	sig, err := e.Extract(seg)
	require.NoError(t, err)

	blob, err := Encode(sig)
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)

	reencoded, err := Encode(decoded)
	require.NoError(t, err)

	assert.Equal(t, blob, reencoded)
}

func TestStorageEstimateMatchesActualEncodedSize(t *testing.T) {
	cfg := fingerprint.DefaultConfig()
	e, err := fingerprint.NewExtractor(cfg)
	require.NoError(t, err)

	sig, err := e.Extract(sineSegment(4, 440, cfg.SampleRate))
	require.NoError(t, err)

	blob, err := Encode(sig)
	require.NoError(t, err)

	assert.Equal(t, len(blob), StorageEstimate(cfg))
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	blob := []byte("XXXX\x01\x00")
	_, err := Decode(blob)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	cfg := fingerprint.DefaultConfig()
	e, err := fingerprint.NewExtractor(cfg)
	require.NoError(t, err)

	sig, err := e.Extract(sineSegment(4, 440, cfg.SampleRate))
	require.NoError(t, err)

	blob, err := Encode(sig)
	require.NoError(t, err)

	blob[4] = 0xFF // corrupt the version field (bytes 4-5, little-endian)
	blob[5] = 0xFF

	_, err = Decode(blob)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

// TestEncodeDecodeRoundTripProperty exercises the round trip across a
// spread of frequencies and durations, the same property spec §8 asks
// of the Extractor itself.
func TestEncodeDecodeRoundTripProperty(t *testing.T) {
	cfg := fingerprint.DefaultConfig()
	e, err := fingerprint.NewExtractor(cfg)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		freq := rapid.Float64Range(100, 8000).Draw(t, "freq")
		seconds := rapid.Float64Range(1, 6).Draw(t, "seconds")

		seg := sineSegment(seconds, freq, cfg.SampleRate)
		sig, err := e.Extract(seg)
		require.NoError(t, err)

		blob, err := Encode(sig)
		require.NoError(t, err)

		got, err := Decode(blob)
		require.NoError(t, err)

		assert.Equal(t, sig.Vector, got.Vector)
		assert.Equal(t, sig.Tag, got.Tag)
	})
}
