package compare

import "soundhash/fingerprint"

// CompareMultiRes fuses the three resolution-wise similarities of spec
// §4.3: sim = w_c*sim(coarse) + w_m*sim(medium) + w_f*sim(fine).
func (c *Comparator) CompareMultiRes(q, db fingerprint.MultiResTriple) (Result, error) {
	rc, err := c.Compare(q.Coarse, db.Coarse)
	if err != nil {
		return Result{}, err
	}
	rm, err := c.Compare(q.Medium, db.Medium)
	if err != nil {
		return Result{}, err
	}
	rf, err := c.Compare(q.Fine, db.Fine)
	if err != nil {
		return Result{}, err
	}

	wc := fingerprint.FusionWeight(fingerprint.Coarse)
	wm := fingerprint.FusionWeight(fingerprint.Medium)
	wf := fingerprint.FusionWeight(fingerprint.Fine)

	return Result{
		Score:        wc*rc.Score + wm*rm.Score + wf*rf.Score,
		Correlation:  wc*rc.Correlation + wm*rm.Correlation + wf*rf.Correlation,
		L2Similarity: wc*rc.L2Similarity + wm*rm.L2Similarity + wf*rf.L2Similarity,
	}, nil
}
