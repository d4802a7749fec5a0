package pcm

import "errors"

// ErrCorruptInput is returned when more than 1% of input samples are
// non-finite (NaN or ±Inf).
var ErrCorruptInput = errors.New("pcm: input is dominated by non-finite samples")

// ErrTooShort is returned when the input is shorter than one segment and
// Config.PadTail is false.
var ErrTooShort = errors.New("pcm: input shorter than one segment")

// Config controls how a waveform is resampled and windowed.
type Config struct {
	TargetSampleRate int     // default 22050
	SegmentSeconds   float64 // length of each window, in seconds
	PadTail          bool    // zero-pad the trailing partial window instead of dropping it
}

// DefaultConfig returns the spec's default segmentation parameters.
func DefaultConfig() Config {
	return Config{
		TargetSampleRate: 22050,
		SegmentSeconds:   10.0,
		PadTail:          false,
	}
}

// Segment is an immutable view into a resampled, mono waveform.
type Segment struct {
	StartSample int
	Samples     []float32
	SampleRate  int
}

// Len returns the number of samples in the segment.
func (s Segment) Len() int { return len(s.Samples) }

// Duration returns the segment's length in seconds.
func (s Segment) Duration() float64 {
	if s.SampleRate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Segmenter lazily slices a resampled, mono waveform into fixed-length
// windows, front to back, without materialising all segments at once.
type Segmenter struct {
	mono       []float32
	sampleRate int
	windowLen  int
	padTail    bool

	pos  int
	done bool
}

// NewSegmenter validates the buffer and config and prepares a lazy
// segment iterator. Resampling and mono downmix happen once, eagerly,
// here; windowing happens lazily in Next.
func NewSegmenter(buf Buffer, cfg Config) (*Segmenter, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}
	if cfg.TargetSampleRate <= 0 {
		cfg.TargetSampleRate = 22050
	}
	if cfg.SegmentSeconds <= 0 {
		cfg.SegmentSeconds = 10.0
	}

	mono, nonFinite := downmix(buf)
	if len(mono) > 0 && float64(nonFinite)/float64(len(mono)) > 0.01 {
		return nil, ErrCorruptInput
	}

	resampled := resample(mono, buf.SampleRate, cfg.TargetSampleRate)

	windowLen := int(cfg.SegmentSeconds * float64(cfg.TargetSampleRate))
	if windowLen <= 0 {
		windowLen = 1
	}

	if len(resampled) < windowLen && !cfg.PadTail {
		return nil, ErrTooShort
	}

	return &Segmenter{
		mono:       resampled,
		sampleRate: cfg.TargetSampleRate,
		windowLen:  windowLen,
		padTail:    cfg.PadTail,
	}, nil
}

// Next returns the next segment, or ok=false once the waveform is
// exhausted. Two Segmenters constructed from the same buffer and config
// always yield byte-identical segments in the same order.
func (s *Segmenter) Next() (Segment, bool) {
	if s.done || s.pos >= len(s.mono) {
		return Segment{}, false
	}

	end := s.pos + s.windowLen
	var samples []float32

	if end <= len(s.mono) {
		samples = make([]float32, s.windowLen)
		copy(samples, s.mono[s.pos:end])
	} else {
		// trailing partial window
		remaining := s.mono[s.pos:]
		if !s.padTail {
			s.done = true
			return Segment{}, false
		}
		samples = make([]float32, s.windowLen)
		copy(samples, remaining)
	}

	seg := Segment{
		StartSample: s.pos,
		Samples:     samples,
		SampleRate:  s.sampleRate,
	}
	s.pos = end
	return seg, true
}

// Count returns how many segments this waveform/config combination would
// yield, without materialising them. Matches spec §8's coverage property:
// L // S when PadTail is false, ceil(L / S) when true.
func (s *Segmenter) Count() int {
	l := len(s.mono)
	if l == 0 {
		return 0
	}
	if s.padTail {
		return (l + s.windowLen - 1) / s.windowLen
	}
	return l / s.windowLen
}

// All drains the segmenter into a slice. Convenience wrapper for callers
// that don't need the lazy interface (e.g. tests, the CLI's segmentBuffer).
func All(s *Segmenter) []Segment {
	var out []Segment
	for {
		seg, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, seg)
	}
	return out
}
