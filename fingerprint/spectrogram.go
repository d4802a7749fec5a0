package fingerprint

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const epsilon = 1e-10

// hannWindow returns a length-n Hann window. spectrogramMagnitude builds
// it once per call and reuses it across that call's frames.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// spectrogramMagnitude computes the STFT magnitude grid |X[f, t]| for a segment,
// using a Hann window of length cfg.NFFT and hop cfg.HopLength (spec
// §4.2 step 1). Returns frames-major: spectrogram[t][f].
func spectrogramMagnitude(samples []float32, cfg Config) [][]float32 {
	window := hannWindow(cfg.NFFT)
	fft := fourier.NewFFT(cfg.NFFT)
	nBins := cfg.NFFT / 2 // spec: freq_bin in [0, n_fft/2)

	var frames [][]float32
	frame := make([]float64, cfg.NFFT)
	for start := 0; start+cfg.NFFT <= len(samples); start += cfg.HopLength {
		for i := 0; i < cfg.NFFT; i++ {
			frame[i] = float64(samples[start+i]) * window[i]
		}

		coeffs := fft.Coefficients(nil, frame)
		mags := make([]float32, nBins)
		for f := 0; f < nBins; f++ {
			mags[f] = float32(cAbs(coeffs[f]))
		}
		frames = append(frames, mags)
	}

	return frames
}

func cAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// toDecibels converts a magnitude spectrogram to a dB scale:
// S[f,t] = 20*log10(max(|X|, eps)).
func toDecibels(mags [][]float32) [][]float32 {
	db := make([][]float32, len(mags))
	for t, frame := range mags {
		row := make([]float32, len(frame))
		for f, m := range frame {
			v := float64(m)
			if v < epsilon {
				v = epsilon
			}
			row[f] = float32(20 * math.Log10(v))
		}
		db[t] = row
	}
	return db
}

// maxMagnitude returns max(|X|) over the whole spectrogram. Spec §4.2
// uses this value both as the silence gate and as the quantisation
// contrast reference.
func maxMagnitude(mags [][]float32) float32 {
	var m float32
	for _, frame := range mags {
		for _, v := range frame {
			if v > m {
				m = v
			}
		}
	}
	return m
}
