package pcm

import "math"

// resample converts mono samples at fromRate to toRate using a windowed
// linear-phase FIR low-pass (to prevent aliasing on downsampling) followed
// by linear interpolation at the new rate. It is deterministic: the same
// input and rates always produce the same output.
func resample(mono []float32, fromRate, toRate int) []float32 {
	if fromRate == toRate || len(mono) == 0 {
		out := make([]float32, len(mono))
		copy(out, mono)
		return out
	}

	filtered := mono
	if toRate < fromRate {
		// anti-alias before decimating: cutoff at the new Nyquist rate.
		cutoff := float64(toRate) / 2.0
		filtered = lowPassFIR(mono, float64(fromRate), cutoff)
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(math.Floor(float64(len(filtered)) / ratio))
	out := make([]float32, outLen)
	for i := 0; i < outLen; i++ {
		srcPos := float64(i) * ratio
		i0 := int(srcPos)
		frac := srcPos - float64(i0)
		var s0, s1 float32
		if i0 < len(filtered) {
			s0 = filtered[i0]
		}
		if i0+1 < len(filtered) {
			s1 = filtered[i0+1]
		}
		out[i] = s0 + float32(frac)*(s1-s0)
	}
	return out
}

// lowPassFIR applies a windowed-sinc FIR low-pass filter. The kernel is
// fixed-length and symmetric (linear phase), which keeps passband ripple
// low enough to stay under the 0.5 dB in-band error budget.
func lowPassFIR(input []float32, sampleRate, cutoffHz float64) []float32 {
	const taps = 63 // odd length, symmetric around the centre tap
	half := taps / 2
	fc := cutoffHz / sampleRate // normalised cutoff, cycles/sample

	kernel := make([]float64, taps)
	var sum float64
	for i := 0; i < taps; i++ {
		n := float64(i - half)
		var sinc float64
		if n == 0 {
			sinc = 2 * fc
		} else {
			sinc = math.Sin(2*math.Pi*fc*n) / (math.Pi * n)
		}
		// Hamming window keeps the kernel's stopband attenuation adequate
		// without the ringing of a rectangular window.
		w := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(taps-1))
		kernel[i] = sinc * w
		sum += kernel[i]
	}
	if sum != 0 {
		for i := range kernel {
			kernel[i] /= sum
		}
	}

	out := make([]float32, len(input))
	for i := range input {
		var acc float64
		for k := 0; k < taps; k++ {
			srcIdx := i + k - half
			if srcIdx < 0 || srcIdx >= len(input) {
				continue
			}
			acc += float64(input[srcIdx]) * kernel[k]
		}
		out[i] = float32(acc)
	}
	return out
}
