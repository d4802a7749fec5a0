package engine

import (
	"soundhash/batch"
	"soundhash/compare"
	"soundhash/fingerprint"
	"soundhash/lshindex"
)

// Engine bundles the components a Config selects: either a sequential
// Extractor or a MultiResExtractor, always a Comparator, and optionally
// an Index and a batch Driver. Neither the extractor nor the index holds
// a reference to the other at steady state — both were built from the
// same immutable Config (spec §9).
type Engine struct {
	cfg Config

	Extractor      *fingerprint.Extractor      // nil if UseMultiResolution
	MultiExtractor *fingerprint.MultiResExtractor // nil unless UseMultiResolution

	Comparator *compare.Comparator
	Index      *lshindex.Index // nil unless UseLSH
	Driver     *batch.Driver   // nil unless UseBatch
}

// New validates cfg and constructs exactly the components it selects.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cmp, err := compare.NewComparator(cfg.Compare)
	if err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, Comparator: cmp}

	if cfg.UseMultiResolution {
		mre, err := fingerprint.NewMultiResExtractor(cfg.Fingerprint)
		if err != nil {
			return nil, err
		}
		e.MultiExtractor = mre
	} else {
		ext, err := fingerprint.NewExtractor(cfg.Fingerprint)
		if err != nil {
			return nil, err
		}
		e.Extractor = ext
	}

	if cfg.UseLSH {
		e.Index = lshindex.New(cfg.LSH)
	}

	if cfg.UseBatch {
		e.Driver = batch.New(cfg.Batch, cfg.Segment, cfg.Fingerprint)
	}

	return e, nil
}

// IndexResolution reports which resolution backs the LSH index when
// multi-resolution extraction is enabled.
func (e *Engine) IndexResolution() fingerprint.Resolution {
	return e.cfg.IndexResolution
}
