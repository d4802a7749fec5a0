package lshindex

import (
	"math/rand"
	"sort"
	"sync"
)

// Config holds the LSH hyperparameters of spec §4.5.
type Config struct {
	Tables   int   // T, default 5
	HashBits int   // H, default 12, must be <= 64
	Dimension int  // D, fixed by the extractor
	Seed     int64 // base seed; table t's projection matrix uses Seed+int64(t)
	Cap      int   // default 100*Tables
}

// DefaultConfig returns spec defaults for a given dimension and seed.
func DefaultConfig(dimension int, seed int64) Config {
	return Config{
		Tables:    5,
		HashBits:  12,
		Dimension: dimension,
		Seed:      seed,
		Cap:       500,
	}
}

// table is one of the T independent hash tables. Its projection matrix
// is immutable after construction and safe to read from any goroutine;
// only the buckets are guarded (exclusive lock for writes, shared lock
// for reads).
type table struct {
	projection [][]float32 // H x D, row i is the i-th hyperplane normal

	mu      sync.RWMutex
	buckets map[uint64][]string // bucket key -> multiset of identifiers
}

func newTable(h, d int, seed int64) *table {
	rng := rand.New(rand.NewSource(seed))
	proj := make([][]float32, h)
	for i := range proj {
		row := make([]float32, d)
		for j := range row {
			row[j] = float32(rng.NormFloat64())
		}
		proj[i] = row
	}
	return &table{projection: proj, buckets: make(map[uint64][]string)}
}

func (tb *table) key(v []float32) uint64 {
	var key uint64
	for i, row := range tb.projection {
		var dot float32
		for j, w := range row {
			dot += w * v[j]
		}
		if dot >= 0 {
			key |= 1 << uint(i)
		}
	}
	return key
}

func (tb *table) insert(key uint64, id string) {
	tb.mu.Lock()
	tb.buckets[key] = append(tb.buckets[key], id)
	tb.mu.Unlock()
}

func (tb *table) bucket(key uint64) []string {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	out := make([]string, len(tb.buckets[key]))
	copy(out, tb.buckets[key])
	return out
}

// Index is the LSH index of spec §4.5. Insertion is O(T*H*D); candidate
// lookup is a union over T bucket reads followed by a bounded sort.
type Index struct {
	cfg    Config
	tables []*table

	mu          sync.Mutex // guards insertOrder and nextOrder only
	insertOrder map[string]int
	nextOrder   int
}

// New validates cfg and builds T hash tables with seeded random
// projection matrices.
func New(cfg Config) *Index {
	if cfg.Tables <= 0 {
		cfg.Tables = 5
	}
	if cfg.HashBits <= 0 || cfg.HashBits > 64 {
		cfg.HashBits = 12
	}
	if cfg.Cap <= 0 {
		cfg.Cap = 100 * cfg.Tables
	}

	idx := &Index{
		cfg:         cfg,
		tables:      make([]*table, cfg.Tables),
		insertOrder: make(map[string]int),
	}
	for t := 0; t < cfg.Tables; t++ {
		idx.tables[t] = newTable(cfg.HashBits, cfg.Dimension, cfg.Seed+int64(t))
	}
	return idx
}

// Dimension returns D, the fixed vector length this index was built for.
func (idx *Index) Dimension() int { return idx.cfg.Dimension }

// Insert adds id under v to every table. Insertion is lock-free across
// tables (each table guards only its own buckets) except for tracking
// insertion order, used only as the candidate tie-break.
func (idx *Index) Insert(id string, v []float32) error {
	if len(v) != idx.cfg.Dimension {
		return ErrDimensionMismatch
	}

	idx.mu.Lock()
	if _, seen := idx.insertOrder[id]; !seen {
		idx.insertOrder[id] = idx.nextOrder
		idx.nextOrder++
	}
	idx.mu.Unlock()

	for _, tb := range idx.tables {
		key := tb.key(v)
		tb.insert(key, id)
	}
	return nil
}

// Candidates returns the union of bucket contents across all tables for
// v, capped to at most `cap` entries (spec §4.5 query steps 1-4). When
// the union exceeds cap, entries are kept by descending table-hit count,
// ties broken by insertion order. The returned slice carries no scores;
// scoring is the Comparator's job on the refined set.
func (idx *Index) Candidates(v []float32, cap int) ([]string, error) {
	if len(v) != idx.cfg.Dimension {
		return nil, ErrDimensionMismatch
	}
	if cap <= 0 {
		cap = idx.cfg.Cap
	}

	hits := make(map[string]int)
	for _, tb := range idx.tables {
		key := tb.key(v)
		for _, id := range tb.bucket(key) {
			hits[id]++
		}
	}

	if len(hits) == 0 {
		return nil, nil
	}

	idx.mu.Lock()
	order := make(map[string]int, len(hits))
	for id := range hits {
		order[id] = idx.insertOrder[id]
	}
	idx.mu.Unlock()

	ids := make([]string, 0, len(hits))
	for id := range hits {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if hits[a] != hits[b] {
			return hits[a] > hits[b]
		}
		return order[a] < order[b]
	})

	if len(ids) > cap {
		ids = ids[:cap]
	}
	return ids, nil
}
