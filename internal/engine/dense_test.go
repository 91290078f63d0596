package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrangements/arrangements/internal/bignum"
)

func TestEnumerateDenseMatchesSuccessorWalk(t *testing.T) {
	for _, req := range roundtripFamilies(t) {
		total := int(Count(req).Float64())
		m := req.M

		dst := make([]int, total*m)
		EnumerateDense(req, Unrank(req, zero()), dst, total)

		z := Unrank(req, zero())
		for row := 0; row < total; row++ {
			assert.Equal(t, z, dst[row*m:row*m+m], "family %s, row %d", req.Family, row)
			Successor(req, z)
		}
	}
}

func TestEnumerateDensePartialFill(t *testing.T) {
	req := mustResolve(t, CombNoRep, 5, 2, nil)
	dst := make([]int, 3*2)
	EnumerateDense(req, Unrank(req, bignum.FromInt64(4)), dst, 3)
	assert.Equal(t, []int{1, 2, 1, 3, 1, 4}, dst)
}

func TestEnumeratePermRepFusedLoop(t *testing.T) {
	req := mustResolve(t, PermRep, 2, 2, nil)
	dst := make([]int, 4*2)
	EnumerateDense(req, []int{0, 0}, dst, 4)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 0, 1, 1}, dst)
}

func TestEnumerateDenseParallelMatchesSerial(t *testing.T) {
	for _, req := range roundtripFamilies(t) {
		total := int(Count(req).Float64())
		m := req.M

		serial := make([]int, total*m)
		EnumerateDense(req, Unrank(req, zero()), serial, total)

		for _, workers := range []int{1, 2, 3, 7} {
			parallel := make([]int, total*m)
			err := EnumerateDenseParallel(context.Background(), req, zero(), parallel, total, m, workers)
			require.NoError(t, err)
			assert.Equal(t, serial, parallel, "family %s, %d workers", req.Family, workers)
		}
	}
}

func TestEnumerateDenseParallelSubRange(t *testing.T) {
	req := mustResolve(t, PermRep, 3, 4, nil) // 81 rows
	m := req.M

	full := make([]int, 81*m)
	EnumerateDense(req, Unrank(req, zero()), full, 81)

	slice := make([]int, 20*m)
	err := EnumerateDenseParallel(context.Background(), req, bignum.FromInt64(30), slice, 20, m, 3)
	require.NoError(t, err)
	assert.Equal(t, full[30*m:50*m], slice)
}
