// Package engine wires the pcm, fingerprint, compare, lshindex and batch
// packages together from one frozen configuration record (spec §4.7).
package engine

import (
	"errors"

	"soundhash/batch"
	"soundhash/compare"
	"soundhash/fingerprint"
	"soundhash/lshindex"
	"soundhash/pcm"
)

// ErrIndexResolutionRequired is returned when a config enables both
// multi-resolution extraction and an LSH index without declaring which
// resolution the index stores.
var ErrIndexResolutionRequired = errors.New("engine: multi_resolution + lsh_index requires an explicit index resolution")

// Config is the factory's frozen input record. It is validated once, at
// New, and never mutated afterward; each wired component only receives
// the slice of it relevant to its own job.
type Config struct {
	Segment     pcm.Config
	Fingerprint fingerprint.Config
	Compare     compare.Config

	UseMultiResolution bool
	IndexResolution    fingerprint.Resolution // which resolution backs the LSH index; default Medium

	UseLSH bool
	LSH    lshindex.Config

	UseBatch bool
	Batch    batch.Config
}

// DefaultConfig returns spec defaults across every sub-config, LSH and
// batch disabled, single resolution.
func DefaultConfig() Config {
	fp := fingerprint.DefaultConfig()
	return Config{
		Segment:         pcm.DefaultConfig(),
		Fingerprint:     fp,
		Compare:         compare.DefaultConfig(),
		IndexResolution: fingerprint.Medium,
		LSH:             lshindex.DefaultConfig(fp.Dimension(), 0),
		Batch:           batch.DefaultConfig(),
	}
}

// Validate rejects inconsistent combinations up front (spec §4.7).
func (c Config) Validate() error {
	if err := c.Fingerprint.Validate(); err != nil {
		return err
	}
	if c.UseLSH && c.LSH.Dimension != c.Fingerprint.Dimension() {
		return lshindex.ErrDimensionMismatch
	}
	if c.UseMultiResolution && c.UseLSH {
		if c.IndexResolution != fingerprint.Coarse &&
			c.IndexResolution != fingerprint.Medium &&
			c.IndexResolution != fingerprint.Fine {
			return ErrIndexResolutionRequired
		}
	}
	return nil
}
