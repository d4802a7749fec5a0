package main

import (
	"context"

	"soundhash/engine"
	"soundhash/fingerprint"
	"soundhash/pcm"
)

// segmentBuffer windows a decoded buffer with the engine's default
// segmentation parameters, the same ones DefaultConfig binds the rest of
// the CLI's Engine to.
func segmentBuffer(buf pcm.Buffer) ([]pcm.Segment, error) {
	segmenter, err := pcm.NewSegmenter(buf, pcm.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return pcm.All(segmenter), nil
}

// findFirstUsableSignature returns the first non-null signature among
// segs, or nil if every segment was silent or too degenerate to
// fingerprint.
func findFirstUsableSignature(eng *engine.Engine, segs []pcm.Segment) *fingerprint.Signature {
	for _, seg := range segs {
		sig, err := eng.Extractor.Extract(seg)
		if err != nil || sig.Null() {
			continue
		}
		return &sig
	}
	return nil
}

// streamUsableSignatures drives eng.Driver.ExtractStreaming over buf's
// segments and collects every non-null signature, in segment order. It
// exercises the batch package's single-waveform streaming path (spec
// §3's segment-within-video identifier intent) rather than discarding
// every segment after the first usable one.
func streamUsableSignatures(eng *engine.Engine, buf pcm.Buffer) ([]fingerprint.Signature, error) {
	segmenter, err := pcm.NewSegmenter(buf, pcm.DefaultConfig())
	if err != nil {
		return nil, err
	}

	results, err := eng.Driver.ExtractStreaming(context.Background(), segmenter)
	if err != nil {
		return nil, err
	}

	var sigs []fingerprint.Signature
	for r := range results {
		if r.Cancelled {
			break
		}
		if r.Err != nil {
			return nil, r.Err
		}
		for _, sig := range r.Signatures {
			if !sig.Null() {
				sigs = append(sigs, sig)
			}
		}
	}
	return sigs, nil
}
