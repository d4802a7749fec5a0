package fingerprint

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// pickPeaks implements spec §4.2 steps 3-4. Peak location and ranking
// happen in the decibel domain (db), but the magnitude recorded on each
// returned Peak is the linear |X| value from mags, matching spec §3's
// invariant that a peak's magnitude is always a non-negative real (a dB
// value can be negative for quiet frames, so it cannot be the stored
// field).
func pickPeaks(db, mags [][]float32, sigmaK float64, targetCount int) []Peak {
	flat := flattenDB(db)
	mean, std := stat.MeanStdDev(flat, nil)
	threshold := mean + sigmaK*std

	type candidate struct {
		peak  Peak
		score float32 // dB value, used only for ranking
	}

	var candidates []candidate
	for t, row := range db {
		for f, v := range row {
			val := float64(v)
			if val < threshold {
				continue
			}
			if !isStrictLocalMax(db, t, f) {
				continue
			}
			candidates = append(candidates, candidate{
				peak:  Peak{FrameIndex: t, FreqBin: f, Magnitude: mags[t][f]},
				score: v,
			})
		}
	}

	// Rank by dB score descending; ties break towards lower (t, f), i.e.
	// earlier in frame-major scan order, which is how candidates were
	// appended, so a stable sort preserves that tie-break.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]Peak, targetCount)
	for i := 0; i < targetCount; i++ {
		if i < len(candidates) {
			out[i] = candidates[i].peak
		} else {
			out[i] = Peak{} // sentinel (0, 0, 0.0)
		}
	}
	return out
}

func flattenDB(db [][]float32) []float64 {
	var n int
	for _, row := range db {
		n += len(row)
	}
	flat := make([]float64, 0, n)
	for _, row := range db {
		for _, v := range row {
			flat = append(flat, float64(v))
		}
	}
	return flat
}

// isStrictLocalMax reports whether db[t][f] is the strict maximum over
// its 3x3 frame/bin neighbourhood (out-of-range neighbours are treated
// as absent, not as -inf, so edge points can still be peaks).
func isStrictLocalMax(db [][]float32, t, f int) bool {
	v := db[t][f]
	for dt := -1; dt <= 1; dt++ {
		nt := t + dt
		if nt < 0 || nt >= len(db) {
			continue
		}
		row := db[nt]
		for df := -1; df <= 1; df++ {
			if dt == 0 && df == 0 {
				continue
			}
			nf := f + df
			if nf < 0 || nf >= len(row) {
				continue
			}
			if row[nf] >= v {
				return false
			}
		}
	}
	return true
}
