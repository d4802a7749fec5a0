package fingerprint

import (
	"fmt"

	"soundhash/pcm"
)

// Extractor turns one segment into a Signature (spec §4.2). It is
// stateless and single-threaded: re-entrant FFT state is never shared
// across goroutines, so a single Extractor value is safe to use from one
// goroutine at a time but is not itself internally synchronised.
type Extractor struct {
	cfg Config
}

// NewExtractor validates cfg and returns an Extractor bound to it.
func NewExtractor(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg}, nil
}

// Extract produces a Signature from one segment. SegmentTooShort and
// DegenerateSpectrum are not returned as errors: per spec §4.2 they
// surface as a null signature so a single bad segment never poisons a
// batch. Extract only returns a non-nil error for usage mistakes (a
// segment whose sample rate disagrees with the extractor's config).
func (e *Extractor) Extract(seg pcm.Segment) (Signature, error) {
	cfg := e.cfg
	if seg.SampleRate != 0 && seg.SampleRate != cfg.SampleRate {
		return Signature{}, fmt.Errorf("fingerprint: segment sample rate %d does not match extractor sample rate %d", seg.SampleRate, cfg.SampleRate)
	}

	if len(seg.Samples) < cfg.NFFT {
		return nullSignature(cfg), nil
	}

	mags := spectrogramMagnitude(seg.Samples, cfg)
	if len(mags) == 0 {
		return nullSignature(cfg), nil
	}

	maxMag := maxMagnitude(mags)
	if maxMag < epsilon {
		return nullSignature(cfg), nil
	}

	db := toDecibels(mags)
	peaks := pickPeaks(db, mags, cfg.PeakSigmaK, cfg.TargetPeakCount)

	surviving := 0
	for _, p := range peaks {
		if p.Magnitude > 0 || p.FrameIndex != 0 || p.FreqBin != 0 {
			surviving++
		}
	}
	if surviving == 0 {
		return nullSignature(cfg), nil
	}

	vector, quantInts := quantise(peaks, maxMag, cfg.TargetPeakCount)
	tag := computeTag(quantInts)

	confidence := float64(surviving) / float64(cfg.TargetPeakCount)
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}

	return Signature{
		Peaks:      peaks,
		Vector:     vector,
		Tag:        tag,
		Confidence: confidence,
		Params:     cfg,
	}, nil
}
