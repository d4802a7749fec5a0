// Package fingerprint turns a pcm.Segment into a quantised spectral-peak
// Signature: STFT, peak picking, and vector quantisation.
package fingerprint

import "fmt"

// Config controls the STFT, peak-picking, and quantisation parameters of
// the Extractor. It is frozen once validated: downstream components
// (Comparator, LSHIndex) only ever see the slice of it they need.
type Config struct {
	SampleRate       int     // must match the Segmenter's target rate
	NFFT             int     // STFT window length, power of two
	HopLength        int     // samples between successive frames
	SegmentSeconds   float64 // informational: length of the segment this config fingerprints
	TargetPeakCount  int     // number of top peaks kept; sets vector dimension D = 3*TargetPeakCount
	PeakSigmaK       float64 // peaks must exceed mean + k*std in dB space
}

// DefaultConfig returns the spec's default extractor parameters.
func DefaultConfig() Config {
	return Config{
		SampleRate:      22050,
		NFFT:            2048,
		HopLength:       512,
		SegmentSeconds:  10.0,
		TargetPeakCount: 100,
		PeakSigmaK:      1.0,
	}
}

// Dimension returns D, the fixed vector length this config produces.
func (c Config) Dimension() int { return c.TargetPeakCount * 3 }

// Validate rejects inconsistent configuration combinations up front, the
// way the FingerprinterFactory of spec §4.7 is required to.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("fingerprint: sample rate must be positive, got %d", c.SampleRate)
	}
	if c.NFFT <= 1 || c.NFFT&(c.NFFT-1) != 0 {
		return fmt.Errorf("fingerprint: n_fft must be a power of two > 1, got %d", c.NFFT)
	}
	if c.HopLength <= 0 {
		return fmt.Errorf("fingerprint: hop_length must be positive, got %d", c.HopLength)
	}
	if c.TargetPeakCount <= 0 {
		return fmt.Errorf("fingerprint: target_peak_count must be positive, got %d", c.TargetPeakCount)
	}
	if c.PeakSigmaK < 0 {
		return fmt.Errorf("fingerprint: peak_sigma_k must be non-negative, got %f", c.PeakSigmaK)
	}
	return nil
}

// SameParams reports whether two configs describe comparable signatures
// (spec §3: "comparing signatures across different params is an error").
func SameParams(a, b Config) bool {
	return a.SampleRate == b.SampleRate &&
		a.NFFT == b.NFFT &&
		a.HopLength == b.HopLength &&
		a.TargetPeakCount == b.TargetPeakCount
}

// coarseConfig, mediumConfig and fineConfig are the three resolutions the
// MultiResExtractor of spec §4.3 runs over the same segment.
func coarseConfig(base Config) Config {
	c := base
	c.NFFT, c.HopLength = 1024, 256
	return c
}

func mediumConfig(base Config) Config {
	c := base
	c.NFFT, c.HopLength = 2048, 512
	return c
}

func fineConfig(base Config) Config {
	c := base
	c.NFFT, c.HopLength = 4096, 1024
	return c
}
