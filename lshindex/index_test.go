package lshindex

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomVector(rng *rand.Rand, d int) []float32 {
	v := make([]float32, d)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	return v
}

func TestIndexClosure(t *testing.T) {
	const d = 300
	idx := New(DefaultConfig(d, 42))
	rng := rand.New(rand.NewSource(1))

	vectors := make(map[string][]float32, 10000)
	for i := 0; i < 10000; i++ {
		id := fmt.Sprintf("id-%d", i)
		v := randomVector(rng, d)
		vectors[id] = v
		require.NoError(t, idx.Insert(id, v))
	}

	target := "id-500"
	candidates, err := idx.Candidates(vectors[target], 100000)
	require.NoError(t, err)

	found := false
	for _, c := range candidates {
		if c == target {
			found = true
			break
		}
	}
	assert.True(t, found, "inserted id must always be its own candidate")
}

func TestCandidateSetSizeUnderCap(t *testing.T) {
	const d = 300
	idx := New(Config{Tables: 5, HashBits: 12, Dimension: d, Seed: 7, Cap: 500})
	rng := rand.New(rand.NewSource(2))

	var queryVec []float32
	for i := 0; i < 10000; i++ {
		id := fmt.Sprintf("id-%d", i)
		v := randomVector(rng, d)
		if i == 42 {
			queryVec = v
		}
		require.NoError(t, idx.Insert(id, v))
	}

	candidates, err := idx.Candidates(queryVec, 500)
	require.NoError(t, err)
	assert.Less(t, len(candidates), 500)

	found := false
	for _, c := range candidates {
		if c == "id-42" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDimensionMismatch(t *testing.T) {
	idx := New(DefaultConfig(300, 1))
	err := idx.Insert("x", make([]float32, 10))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = idx.Candidates(make([]float32, 10), 10)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEmptyIndexReturnsEmptyCandidates(t *testing.T) {
	idx := New(DefaultConfig(300, 1))
	candidates, err := idx.Candidates(make([]float32, 300), 10)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestReproducibleAcrossInstances(t *testing.T) {
	const d = 50
	cfg := DefaultConfig(d, 99)
	idx1 := New(cfg)
	idx2 := New(cfg)

	rng := rand.New(rand.NewSource(3))
	v := randomVector(rng, d)

	require.NoError(t, idx1.Insert("a", v))
	require.NoError(t, idx2.Insert("a", v))

	c1, err := idx1.Candidates(v, 10)
	require.NoError(t, err)
	c2, err := idx2.Candidates(v, 10)
	require.NoError(t, err)

	assert.Equal(t, c1, c2)
}
