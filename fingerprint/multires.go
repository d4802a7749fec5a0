package fingerprint

import "soundhash/pcm"

// Resolution names the three parallel extractors of spec §4.3.
type Resolution int

const (
	Coarse Resolution = iota
	Medium
	Fine
)

// fusionWeights are the compare-time weights of spec §4.3.
var fusionWeights = map[Resolution]float64{
	Coarse: 0.3,
	Medium: 0.5,
	Fine:   0.2,
}

// FusionWeight returns the compare-time weight for a resolution.
func FusionWeight(r Resolution) float64 { return fusionWeights[r] }

// MultiResTriple holds the three resolution-specific signatures produced
// for one segment. The index stores only Medium; the external signature
// store keeps all three keyed by the same identifier.
type MultiResTriple struct {
	Coarse Signature
	Medium Signature
	Fine   Signature
}

// IndexSignature returns the one signature of the triple the LSHIndex is
// configured to store (default medium, per spec §4.3/§4.7).
func (t MultiResTriple) IndexSignature(r Resolution) Signature {
	switch r {
	case Coarse:
		return t.Coarse
	case Fine:
		return t.Fine
	default:
		return t.Medium
	}
}

// MultiResExtractor runs three independent Extractors at coarse, medium
// and fine (n_fft, hop) pairs over the same segment.
type MultiResExtractor struct {
	coarse *Extractor
	medium *Extractor
	fine   *Extractor
}

// NewMultiResExtractor builds the three resolution extractors from a
// shared base config (sample rate, peak count, sigma-k carry over; only
// n_fft/hop differ per resolution).
func NewMultiResExtractor(base Config) (*MultiResExtractor, error) {
	coarse, err := NewExtractor(coarseConfig(base))
	if err != nil {
		return nil, err
	}
	medium, err := NewExtractor(mediumConfig(base))
	if err != nil {
		return nil, err
	}
	fine, err := NewExtractor(fineConfig(base))
	if err != nil {
		return nil, err
	}
	return &MultiResExtractor{coarse: coarse, medium: medium, fine: fine}, nil
}

// Extract runs all three extractors over the same segment. The
// extractor stays single-threaded per spec §4.2/§4.6 notes on re-entrant
// FFT state; the three resolutions run sequentially within one call.
func (m *MultiResExtractor) Extract(seg pcm.Segment) (MultiResTriple, error) {
	c, err := m.coarse.Extract(seg)
	if err != nil {
		return MultiResTriple{}, err
	}
	med, err := m.medium.Extract(seg)
	if err != nil {
		return MultiResTriple{}, err
	}
	f, err := m.fine.Extract(seg)
	if err != nil {
		return MultiResTriple{}, err
	}
	return MultiResTriple{Coarse: c, Medium: med, Fine: f}, nil
}
