package batch

import (
	"context"
	"runtime"
	"sync"

	"soundhash/fingerprint"
	"soundhash/pcm"

	"github.com/charmbracelet/log"
)

// Config controls the worker pool's parallelism (spec §4.6, §6).
type Config struct {
	WorkerCount int // W, default = CPU core count
	QueueDepth  int // in-flight cap, default 4*W
}

// DefaultConfig returns W = runtime.NumCPU() and a 4*W queue depth.
func DefaultConfig() Config {
	w := runtime.NumCPU()
	if w < 1 {
		w = 1
	}
	return Config{WorkerCount: w, QueueDepth: 4 * w}
}

// Result is one waveform's outcome. Exactly one of Signatures, Err, or
// Cancelled is meaningful, matching spec §6's
// `Signature | ExtractError | Cancelled` sum type. A waveform that
// segments into multiple windows yields one signature per segment, in
// segment order.
type Result struct {
	Index      int
	Signatures []fingerprint.Signature
	Err        error
	Cancelled  bool
}

// Driver runs Extractor over many waveforms in parallel. It never writes
// to an index; it only emits ordered per-waveform results.
type Driver struct {
	cfg    Config
	segCfg pcm.Config
	fpCfg  fingerprint.Config
}

// New builds a Driver bound to the given segmentation and extraction
// configs.
func New(cfg Config, segCfg pcm.Config, fpCfg fingerprint.Config) *Driver {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = runtime.NumCPU()
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 4 * cfg.WorkerCount
	}
	return &Driver{cfg: cfg, segCfg: segCfg, fpCfg: fpCfg}
}

type job struct {
	index int
	buf   pcm.Buffer
}

// ExtractBatch extracts signatures for every waveform in buffers,
// distributing waveforms (not segments) across cfg.WorkerCount workers.
// Within one waveform, segmentation and extraction stay single-threaded
// to avoid re-entrant FFT state. The returned channel delivers results
// in input order: a waveform that finishes early is buffered until every
// earlier index has been emitted. Feeding is bounded to QueueDepth
// (default 4*W) in-flight jobs. ExtractBatch returns immediately; its
// internal feeding goroutine blocks on that bound if the caller's channel
// consumption lags behind, and stops scheduling new work once ctx is
// done, marking the rest Cancelled.
func (d *Driver) ExtractBatch(ctx context.Context, buffers []pcm.Buffer) <-chan Result {
	out := make(chan Result, d.cfg.QueueDepth)
	jobs := make(chan job, d.cfg.QueueDepth)
	raw := make(chan Result, d.cfg.QueueDepth)

	var wg sync.WaitGroup
	for w := 0; w < d.cfg.WorkerCount; w++ {
		wg.Add(1)
		go d.worker(ctx, jobs, raw, &wg)
	}

	go func() {
		defer close(jobs)
		for i, buf := range buffers {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i, buf: buf}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(raw)
	}()

	go d.reorder(ctx, len(buffers), raw, out)

	return out
}

func (d *Driver) worker(ctx context.Context, jobs <-chan job, raw chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		raw <- d.extractOne(j)
	}
	_ = ctx
}

func (d *Driver) extractOne(j job) Result {
	segmenter, err := pcm.NewSegmenter(j.buf, d.segCfg)
	if err != nil {
		return Result{Index: j.index, Err: err}
	}

	extractor, err := fingerprint.NewExtractor(d.fpCfg)
	if err != nil {
		return Result{Index: j.index, Err: err}
	}

	var sigs []fingerprint.Signature
	for {
		seg, ok := segmenter.Next()
		if !ok {
			break
		}
		sig, err := extractor.Extract(seg)
		if err != nil {
			return Result{Index: j.index, Err: err}
		}
		sigs = append(sigs, sig)
	}

	return Result{Index: j.index, Signatures: sigs}
}

// ExtractStreaming fingerprints one waveform's segments as they are
// produced by segmenter, instead of requiring the caller to materialise
// the full segment list first. It generalises the teacher's
// FingerprintAudioChunked loop (bounded-memory processing of multi-hour
// inputs) onto the Segmenter/Extractor contract of spec §4.1/§4.2:
// segmentation is already lazy, so streaming extraction is just pulling
// one segment at a time and extracting it without a worker pool, since a
// single waveform's segments must stay single-threaded (spec §4.6 notes
// on re-entrant FFT state).
//
// The returned channel is closed once the segmenter is exhausted or ctx
// is cancelled; a cancellation mid-stream yields one final Cancelled
// result rather than silently truncating the sequence.
func (d *Driver) ExtractStreaming(ctx context.Context, segmenter *pcm.Segmenter) (<-chan Result, error) {
	extractor, err := fingerprint.NewExtractor(d.fpCfg)
	if err != nil {
		return nil, err
	}

	out := make(chan Result, 1)
	go func() {
		defer close(out)
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				out <- Result{Index: i, Cancelled: true}
				return
			default:
			}

			seg, ok := segmenter.Next()
			if !ok {
				return
			}
			sig, err := extractor.Extract(seg)
			if err != nil {
				out <- Result{Index: i, Err: err}
				return
			}
			out <- Result{Index: i, Signatures: []fingerprint.Signature{sig}}
		}
	}()
	return out, nil
}

// reorder buffers completed results until every lower index has been
// emitted, then marks any indices never scheduled (post-cancellation)
// as Cancelled, in order.
func (d *Driver) reorder(ctx context.Context, n int, raw <-chan Result, out chan<- Result) {
	defer close(out)

	pending := make(map[int]Result, d.cfg.QueueDepth)
	next := 0

	flush := func() {
		for {
			r, ok := pending[next]
			if !ok {
				return
			}
			delete(pending, next)
			out <- r
			next++
		}
	}

	for r := range raw {
		pending[r.Index] = r
		flush()
	}

	// Any index that never got scheduled (cancellation fired before its
	// turn) is reported as Cancelled, preserving output order.
	for next < n {
		select {
		case <-ctx.Done():
			out <- Result{Index: next, Cancelled: true}
			next++
		default:
			// Should not happen: every scheduled job yields exactly one
			// raw result, and raw is fully drained above.
			log.Warn("batch: missing result for index without cancellation", "index", next)
			out <- Result{Index: next, Cancelled: true}
			next++
		}
	}
}
