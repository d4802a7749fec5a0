package compare

import (
	"sort"

	"soundhash/fingerprint"
)

// Candidate is one library entry to rank against a query: its signature
// plus the duration of the underlying segment, which the min_duration
// gate needs but the signature itself does not carry.
type Candidate struct {
	ID              string
	Signature       fingerprint.Signature
	DurationSeconds float64
}

// MatchResult is one ranked match (spec §3).
type MatchResult struct {
	ID              string
	Score           float64
	Correlation     float64
	L2Similarity    float64
	DurationSeconds float64
}

// Rank scores query against every candidate and returns the subset that
// clears all four gates of spec §4.4, ordered by score desc, then
// correlation desc, then L2 desc, then duration desc, then ID asc.
func (c *Comparator) Rank(query fingerprint.Signature, candidates []Candidate) ([]MatchResult, error) {
	var out []MatchResult

	for _, cand := range candidates {
		res, err := c.Compare(query, cand.Signature)
		if err != nil {
			return nil, err
		}

		if res.Correlation < c.cfg.CorrelationThreshold {
			continue
		}
		if res.L2Similarity < c.cfg.L2Threshold {
			continue
		}
		if res.Score < c.cfg.MinScore {
			continue
		}
		if cand.DurationSeconds < c.cfg.MinDuration {
			continue
		}

		out = append(out, MatchResult{
			ID:              cand.ID,
			Score:           res.Score,
			Correlation:     res.Correlation,
			L2Similarity:    res.L2Similarity,
			DurationSeconds: cand.DurationSeconds,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Correlation != b.Correlation {
			return a.Correlation > b.Correlation
		}
		if a.L2Similarity != b.L2Similarity {
			return a.L2Similarity > b.L2Similarity
		}
		if a.DurationSeconds != b.DurationSeconds {
			return a.DurationSeconds > b.DurationSeconds
		}
		return a.ID < b.ID
	})

	return out, nil
}
