package fingerprint

import "errors"

// ErrSegmentTooShort names the case of a segment with fewer samples than
// one full STFT frame. Extract does not return it: such a segment yields
// a null signature instead (spec §4.2).
var ErrSegmentTooShort = errors.New("fingerprint: segment shorter than one FFT frame")

// ErrDegenerateSpectrum marks silence: max(|X|) below the noise floor
// epsilon. Extract does not return this as an error — it produces a null
// signature instead (spec §4.2). Signature.Null() reports only that a
// signature is null; it does not record whether silence or a too-short
// segment produced it.
var ErrDegenerateSpectrum = errors.New("fingerprint: degenerate (silent) spectrum")
