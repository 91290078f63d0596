package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, family Family, n, m int, freqs []int) Request {
	t.Helper()
	req, err := Resolve(family, n, m, freqs)
	require.NoError(t, err)
	return req
}

func TestCountCombinations(t *testing.T) {
	req := mustResolve(t, CombNoRep, 20, 10, nil)
	assert.Equal(t, float64(184756), Count(req).Float64())

	req = mustResolve(t, CombRep, 20, 10, nil)
	assert.Equal(t, float64(20030010), Count(req).Float64())
}

func TestCountPermutations(t *testing.T) {
	req := mustResolve(t, PermNoRep, 5, 3, nil)
	assert.Equal(t, float64(60), Count(req).Float64())

	req = mustResolve(t, PermNoRep, 5, 5, nil)
	assert.Equal(t, float64(120), Count(req).Float64())

	req = mustResolve(t, PermRep, 4, 3, nil)
	assert.Equal(t, float64(64), Count(req).Float64())
}

func TestCountMultiset(t *testing.T) {
	// kinds with supply (2, 1, 2)
	freqs := []int{0, 0, 1, 2, 2}

	req := mustResolve(t, CombMultiset, 3, 3, freqs)
	assert.Equal(t, float64(5), Count(req).Float64())

	// full-word arrangements: 5! / (2! 1! 2!) = 30
	req = mustResolve(t, PermMultiset, 3, 5, freqs)
	assert.Equal(t, float64(30), Count(req).Float64())

	// partial: length-2 words, all of 3^2 except the unsupplied "bb"
	req = mustResolve(t, PermMultiset, 3, 2, freqs)
	assert.Equal(t, float64(8), Count(req).Float64())
}

func TestCountPromotesToBig(t *testing.T) {
	req := mustResolve(t, CombNoRep, 100, 50, nil)
	total := Count(req)
	assert.True(t, total.IsBig())
	// C(100,50) is about 1.0e29; anything still Small here is a bug.
	assert.Greater(t, total.Float64(), 1e28)
}

func TestCountMatchesEnumeration(t *testing.T) {
	cases := []Request{
		mustResolve(t, CombNoRep, 6, 3, nil),
		mustResolve(t, CombRep, 4, 3, nil),
		mustResolve(t, PermNoRep, 5, 3, nil),
		mustResolve(t, PermRep, 3, 3, nil),
		mustResolve(t, CombMultiset, 3, 3, []int{0, 0, 1, 2, 2}),
		mustResolve(t, PermMultiset, 3, 2, []int{0, 0, 1, 2, 2}),
	}
	for _, req := range cases {
		z := Unrank(req, zero())
		rows := 1
		for Successor(req, z) {
			rows++
		}
		assert.Equal(t, float64(rows), Count(req).Float64(), "family %s", req.Family)
	}
}
