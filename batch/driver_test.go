package batch

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"soundhash/fingerprint"
	"soundhash/pcm"
)

func waveform(seconds float64, freq float64, rate int) pcm.Buffer {
	n := int(seconds * float64(rate))
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(rate)))
	}
	return pcm.Buffer{Samples: samples, Channels: 1, SampleRate: rate}
}

func TestExtractBatchPreservesOrder(t *testing.T) {
	segCfg := pcm.Config{TargetSampleRate: 8000, SegmentSeconds: 1, PadTail: true}
	fpCfg := fingerprint.DefaultConfig()
	fpCfg.SampleRate = 8000
	fpCfg.NFFT = 512
	fpCfg.HopLength = 256

	var buffers []pcm.Buffer
	for i := 0; i < 20; i++ {
		buffers = append(buffers, waveform(5, float64(200+i*10), 8000))
	}

	d := New(Config{WorkerCount: 4}, segCfg, fpCfg)
	ctx := context.Background()

	out := d.ExtractBatch(ctx, buffers)

	var results []Result
	for r := range out {
		results = append(results, r)
	}

	require.Len(t, results, len(buffers))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.NoError(t, r.Err)
		assert.False(t, r.Cancelled)
	}
}

func TestExtractBatchCancellation(t *testing.T) {
	segCfg := pcm.Config{TargetSampleRate: 8000, SegmentSeconds: 1, PadTail: true}
	fpCfg := fingerprint.DefaultConfig()
	fpCfg.SampleRate = 8000
	fpCfg.NFFT = 512
	fpCfg.HopLength = 256

	var buffers []pcm.Buffer
	for i := 0; i < 50; i++ {
		buffers = append(buffers, waveform(2, 300, 8000))
	}

	d := New(Config{WorkerCount: 2}, segCfg, fpCfg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	out := d.ExtractBatch(ctx, buffers)

	var results []Result
	for r := range out {
		results = append(results, r)
	}

	require.Len(t, results, len(buffers))
	sawCancelled := false
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		if r.Cancelled {
			sawCancelled = true
		}
	}
	assert.True(t, sawCancelled, "an immediately cancelled batch should leave some waveforms unscheduled")
}

func TestExtractStreamingYieldsOneResultPerSegment(t *testing.T) {
	segCfg := pcm.Config{TargetSampleRate: 8000, SegmentSeconds: 1, PadTail: true}
	fpCfg := fingerprint.DefaultConfig()
	fpCfg.SampleRate = 8000
	fpCfg.NFFT = 512
	fpCfg.HopLength = 256

	buf := waveform(6, 300, 8000)
	segmenter, err := pcm.NewSegmenter(buf, segCfg)
	require.NoError(t, err)

	d := New(Config{}, segCfg, fpCfg)
	out, err := d.ExtractStreaming(context.Background(), segmenter)
	require.NoError(t, err)

	var results []Result
	for r := range out {
		results = append(results, r)
	}

	require.Len(t, results, 6)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.NoError(t, r.Err)
		assert.False(t, r.Cancelled)
		assert.Len(t, r.Signatures, 1)
	}
}

func TestExtractStreamingStopsOnCancellation(t *testing.T) {
	segCfg := pcm.Config{TargetSampleRate: 8000, SegmentSeconds: 1, PadTail: true}
	fpCfg := fingerprint.DefaultConfig()
	fpCfg.SampleRate = 8000
	fpCfg.NFFT = 512
	fpCfg.HopLength = 256

	buf := waveform(10, 300, 8000)
	segmenter, err := pcm.NewSegmenter(buf, segCfg)
	require.NoError(t, err)

	d := New(Config{}, segCfg, fpCfg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := d.ExtractStreaming(ctx, segmenter)
	require.NoError(t, err)

	r, ok := <-out
	require.True(t, ok)
	assert.True(t, r.Cancelled)

	_, ok = <-out
	assert.False(t, ok, "channel closes immediately after reporting cancellation")
}

func TestExtractBatchSpeedupSanity(t *testing.T) {
	segCfg := pcm.Config{TargetSampleRate: 8000, SegmentSeconds: 1, PadTail: true}
	fpCfg := fingerprint.DefaultConfig()
	fpCfg.SampleRate = 8000
	fpCfg.NFFT = 1024
	fpCfg.HopLength = 512

	var buffers []pcm.Buffer
	for i := 0; i < 20; i++ {
		buffers = append(buffers, waveform(5, 300, 8000))
	}

	sequential := New(Config{WorkerCount: 1}, segCfg, fpCfg)
	start := time.Now()
	for r := range sequential.ExtractBatch(context.Background(), buffers) {
		_ = r
	}
	seqDur := time.Since(start)

	parallel := New(Config{WorkerCount: 4}, segCfg, fpCfg)
	start = time.Now()
	for r := range parallel.ExtractBatch(context.Background(), buffers) {
		_ = r
	}
	parDur := time.Since(start)

	// Sanity bound only: parallel must not be drastically slower than
	// sequential. Real hardware speedup varies; this just guards against
	// a pool that serialises everything by accident.
	assert.LessOrEqual(t, parDur, seqDur*2+10*time.Millisecond)
}
