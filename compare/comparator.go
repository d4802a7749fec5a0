package compare

import (
	"soundhash/fingerprint"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Config holds the fusion weights and ranking gates of spec §4.4.
type Config struct {
	CorrelationWeight float64 // w_r, default 0.5
	L2Weight          float64 // w_l, default 0.5

	CorrelationThreshold float64 // default 0.70
	L2Threshold          float64 // default 0.70
	MinScore             float64 // default 0.70
	MinDuration          float64 // seconds, default 5.0
}

// DefaultConfig returns the spec's default weights and gates.
func DefaultConfig() Config {
	return Config{
		CorrelationWeight:    0.5,
		L2Weight:             0.5,
		CorrelationThreshold: 0.70,
		L2Threshold:          0.70,
		MinScore:             0.70,
		MinDuration:          5.0,
	}
}

// Result is the score breakdown spec §6 operation 4 returns.
type Result struct {
	Score           float64
	Correlation     float64
	L2Similarity    float64
}

// Comparator scores pairs of signatures. It holds no mutable state and
// is safe for concurrent use.
type Comparator struct {
	cfg Config
}

// NewComparator validates the fusion weights (must sum to 1) and returns
// a bound Comparator.
func NewComparator(cfg Config) (*Comparator, error) {
	sum := cfg.CorrelationWeight + cfg.L2Weight
	if sum < 0.999 || sum > 1.001 {
		return nil, ErrInvalidWeights
	}
	return &Comparator{cfg: cfg}, nil
}

// Compare scores two signatures from the same params. Null signatures
// (spec §4.2) always score 0 without error.
func (c *Comparator) Compare(a, b fingerprint.Signature) (Result, error) {
	if !fingerprint.SameParams(a.Params, b.Params) {
		return Result{}, ErrParamsMismatch
	}

	if a.Null() || b.Null() {
		return Result{}, nil
	}

	r := pearson(a.Vector, b.Vector)
	l := l2Similarity(a.Vector, b.Vector)

	s := c.cfg.CorrelationWeight*max0(r) + c.cfg.L2Weight*l

	return Result{Score: s, Correlation: r, L2Similarity: l}, nil
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// pearson computes the Pearson correlation in 64-bit float. Zero
// variance in either vector yields r = 0 (spec §4.4).
func pearson(a, b []float32) float64 {
	x := toFloat64(a)
	y := toFloat64(b)

	_, stdX := stat.MeanStdDev(x, nil)
	_, stdY := stat.MeanStdDev(y, nil)
	if stdX == 0 || stdY == 0 {
		return 0
	}

	return stat.Correlation(x, y, nil)
}

// l2Similarity computes 1 / (1 + ||a-b||_2 / D), normalised by dimension
// so it is scale-independent of D (spec §4.4).
func l2Similarity(a, b []float32) float64 {
	x := toFloat64(a)
	y := toFloat64(b)
	d := floats.Distance(x, y, 2)
	return 1.0 / (1.0 + d/float64(len(x)))
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
