// Package compare scores two fingerprint.Signature values with a fused
// correlation + L2 similarity and ranks candidate matches (spec §4.4).
package compare

import "errors"

// ErrParamsMismatch is returned when comparing two signatures produced
// under different fingerprint.Config params.
var ErrParamsMismatch = errors.New("compare: signatures have different params")

// ErrInvalidWeights is returned when constructing a Comparator whose
// correlation and L2 fusion weights do not sum to 1.
var ErrInvalidWeights = errors.New("compare: correlation_weight + l2_weight must equal 1")
