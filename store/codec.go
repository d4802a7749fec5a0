package store

import (
	"bytes"
	"encoding/binary"
	"math"

	"soundhash/fingerprint"
)

const (
	magic          = "SHFP"
	currentVersion = uint16(1)
)

// survivingPeaks returns how many leading peaks are not the (0,0,0.0)
// padding sentinel spec §4.2 step 4 appends past the real peak count.
func survivingPeaks(peaks []fingerprint.Peak) int {
	// Sentinels only ever trail real peaks (peaks are rank-sorted before
	// padding), so the last non-sentinel index from the end gives the
	// true count.
	for i := len(peaks) - 1; i >= 0; i-- {
		if peaks[i].FrameIndex != 0 || peaks[i].FreqBin != 0 || peaks[i].Magnitude != 0 {
			return i + 1
		}
	}
	return 0
}

// StorageEstimate returns the blob size Encode produces for a signature
// built from cfg whose every one of cfg.TargetPeakCount peaks survived,
// without extracting anything. Encode writes only the surviving peaks, so
// for a signature with fewer peaks the real blob is 8 bytes smaller per
// missing peak. It follows the layout Encode writes: a 4-byte magic,
// 2-byte version, 20 bytes of params, a peak table (8 bytes each), a
// vector_dim-sized int16 vector, a 16-byte tag, and a 2-byte confidence.
func StorageEstimate(cfg fingerprint.Config) int {
	const (
		magicSize      = 4
		versionSize    = 2
		paramsSize     = 20
		peakCountField = 4
		peakSize       = 8
		vectorDimField = 4
		tagSize        = 16
		confidenceSize = 2
	)
	return magicSize + versionSize + paramsSize +
		peakCountField + cfg.TargetPeakCount*peakSize +
		vectorDimField + cfg.Dimension()*2 +
		tagSize + confidenceSize
}

// Encode serialises a Signature into the stable on-disk layout of spec
// §6. Peak magnitudes and the vector are written from the already
// 16-bit-quantised form (every third vector slot), never from the
// pre-quantisation linear magnitude on Peak, so Decode can reconstruct
// Vector and Tag losslessly.
func Encode(sig fingerprint.Signature) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(magic)
	binary.Write(&buf, binary.LittleEndian, currentVersion)

	p := sig.Params
	binary.Write(&buf, binary.LittleEndian, uint32(p.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(p.NFFT))
	binary.Write(&buf, binary.LittleEndian, uint32(p.HopLength))
	binary.Write(&buf, binary.LittleEndian, float32(p.SegmentSeconds))
	binary.Write(&buf, binary.LittleEndian, uint32(p.TargetPeakCount))

	n := survivingPeaks(sig.Peaks)
	binary.Write(&buf, binary.LittleEndian, uint32(n))
	for i := 0; i < n; i++ {
		peak := sig.Peaks[i]
		binary.Write(&buf, binary.LittleEndian, uint32(peak.FrameIndex))
		binary.Write(&buf, binary.LittleEndian, uint16(peak.FreqBin))
		magQ16 := uint16(0)
		if i*3+2 < len(sig.Vector) {
			magQ16 = uint16(sig.Vector[i*3+2])
		}
		binary.Write(&buf, binary.LittleEndian, magQ16)
	}

	binary.Write(&buf, binary.LittleEndian, uint32(len(sig.Vector)))
	for _, v := range sig.Vector {
		u := uint32(v)
		binary.Write(&buf, binary.LittleEndian, int16(uint16(u)))
	}

	buf.Write(sig.Tag[:])

	confQ16 := uint16(math.Round(clip01(sig.Confidence) * 65535))
	binary.Write(&buf, binary.LittleEndian, confQ16)

	return buf.Bytes(), nil
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Decode parses a blob written by Encode. A reader must reject any blob
// whose magic, version, or target_peak_count*3 != vector_dim fails.
func Decode(blob []byte) (fingerprint.Signature, error) {
	r := bytes.NewReader(blob)

	magicBuf := make([]byte, 4)
	if _, err := r.Read(magicBuf); err != nil || string(magicBuf) != magic {
		return fingerprint.Signature{}, ErrBadMagic
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fingerprint.Signature{}, err
	}
	if version != currentVersion {
		return fingerprint.Signature{}, ErrUnsupportedVersion
	}

	var sampleRate, nfft, hop, targetPeakCount uint32
	var segSeconds float32
	binary.Read(r, binary.LittleEndian, &sampleRate)
	binary.Read(r, binary.LittleEndian, &nfft)
	binary.Read(r, binary.LittleEndian, &hop)
	binary.Read(r, binary.LittleEndian, &segSeconds)
	binary.Read(r, binary.LittleEndian, &targetPeakCount)

	var peakCount uint32
	if err := binary.Read(r, binary.LittleEndian, &peakCount); err != nil {
		return fingerprint.Signature{}, err
	}

	type rawPeak struct {
		frame  uint32
		bin    uint16
		magQ16 uint16
	}
	rawPeaks := make([]rawPeak, peakCount)
	for i := range rawPeaks {
		binary.Read(r, binary.LittleEndian, &rawPeaks[i].frame)
		binary.Read(r, binary.LittleEndian, &rawPeaks[i].bin)
		binary.Read(r, binary.LittleEndian, &rawPeaks[i].magQ16)
	}

	var vectorDim uint32
	if err := binary.Read(r, binary.LittleEndian, &vectorDim); err != nil {
		return fingerprint.Signature{}, err
	}
	if targetPeakCount*3 != vectorDim {
		return fingerprint.Signature{}, ErrDimensionInconsistent
	}

	vector := make([]float32, vectorDim)
	for i := range vector {
		var raw int16
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return fingerprint.Signature{}, err
		}
		vector[i] = float32(uint16(raw))
	}

	var tag fingerprint.Tag
	if _, err := r.Read(tag[:]); err != nil {
		return fingerprint.Signature{}, err
	}

	var confQ16 uint16
	if err := binary.Read(r, binary.LittleEndian, &confQ16); err != nil {
		return fingerprint.Signature{}, err
	}

	peaks := make([]fingerprint.Peak, targetPeakCount)
	for i := 0; i < int(targetPeakCount); i++ {
		if i < len(rawPeaks) {
			mag := float32(0)
			idx := i*3 + 2
			if idx < len(vector) {
				mag = vector[idx]
			}
			peaks[i] = fingerprint.Peak{
				FrameIndex: int(rawPeaks[i].frame),
				FreqBin:    int(rawPeaks[i].bin),
				Magnitude:  mag,
			}
		} else {
			peaks[i] = fingerprint.Peak{}
		}
	}

	params := fingerprint.Config{
		SampleRate:      int(sampleRate),
		NFFT:            int(nfft),
		HopLength:       int(hop),
		SegmentSeconds:  float64(segSeconds),
		TargetPeakCount: int(targetPeakCount),
	}

	return fingerprint.Signature{
		Peaks:      peaks,
		Vector:     vector,
		Tag:        tag,
		Confidence: float64(confQ16) / 65535.0,
		Params:     params,
	}, nil
}
