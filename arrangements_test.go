package arrangements

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrangements/arrangements/internal/partition"
)

func seq(lo, hi int) []float64 {
	out := make([]float64, 0, hi-lo+1)
	for x := lo; x <= hi; x++ {
		out = append(out, float64(x))
	}
	return out
}

func intp(x int64) *int64 { return &x }

func matrixRows(m Matrix) [][]float64 {
	rows := make([][]float64, m.Rows)
	for r := 0; r < m.Rows; r++ {
		rows[r] = append([]float64(nil), m.Row(r)...)
	}
	return rows
}

func TestCombinationsOfFive(t *testing.T) {
	mat, err := Combinatorics(Options{
		V: seq(1, 5), M: 3, MProvided: true, IsComb: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, mat.Rows)
	assert.Equal(t, []float64{1, 2, 3}, mat.Row(0))
	assert.Equal(t, []float64{3, 4, 5}, mat.Row(9))
}

func TestPermutationsWithRepetition(t *testing.T) {
	mat, err := Combinatorics(Options{
		V: seq(0, 3), M: 3, MProvided: true,
		Rep: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 64, mat.Rows)
	assert.Equal(t, []float64{0, 0, 0}, mat.Row(0))
	assert.Equal(t, []float64{2, 2, 2}, mat.Row(42))
	assert.Equal(t, []float64{3, 3, 3}, mat.Row(63))
}

func TestMultisetCombinations(t *testing.T) {
	mat, err := Combinatorics(Options{
		V: []float64{1, 2, 3}, Freqs: []int{2, 1, 2},
		M: 3, MProvided: true, IsComb: true,
	})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{1, 1, 2}, {1, 1, 3}, {1, 2, 3}, {1, 3, 3}, {2, 3, 3},
	}, matrixRows(mat))
}

func TestCountLargeBinomials(t *testing.T) {
	n, err := Count(Options{V: seq(1, 20), M: 10, MProvided: true, IsComb: true})
	require.NoError(t, err)
	assert.Equal(t, float64(184756), n.Float64())

	n, err = Count(Options{V: seq(1, 20), M: 10, MProvided: true, IsComb: true, Rep: true})
	require.NoError(t, err)
	assert.Equal(t, float64(20030010), n.Float64())
}

func TestPartitionRecognition(t *testing.T) {
	opts := Options{
		V: seq(0, 20), M: 4, MProvided: true,
		IsComb: true, Rep: true, Kind: Integer,
		Fun: Sum, HasFun: true,
		Comparison: []CompOp{Eq}, Target: []float64{60},
	}
	pd, ok, err := DescribePartition(opts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, partition.RepCapped, pd.PType)
	assert.Equal(t, partition.PartStandard, pd.CType)

	total, err := Count(opts)
	require.NoError(t, err)
	assert.Equal(t, pd.Count.Float64(), total.Float64())

	mat, err := Combinatorics(opts)
	require.NoError(t, err)
	assert.Equal(t, int(pd.Count.Float64()), mat.Rows)
	for r := 0; r < mat.Rows; r++ {
		sum := 0.0
		for _, x := range mat.Row(r) {
			sum += x
		}
		assert.Equal(t, 60.0, sum)
	}
}

func TestConstrainedSumEquality(t *testing.T) {
	mat, err := Combinatorics(Options{
		V: seq(1, 10), M: 3, MProvided: true,
		IsComb: true, Kind: Integer,
		Fun: Sum, HasFun: true,
		Comparison: []CompOp{Eq}, Target: []float64{15},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{1, 4, 10}, {1, 5, 9}, {1, 6, 8}, {2, 3, 10}, {2, 4, 9},
		{2, 5, 8}, {2, 6, 7}, {3, 4, 8}, {3, 5, 7}, {4, 5, 6},
	}, matrixRows(mat))
}

func TestRankSliceMatchesFullEnumeration(t *testing.T) {
	full, err := Combinatorics(Options{V: seq(1, 6), M: 3, MProvided: true, IsComb: true})
	require.NoError(t, err)

	slice, err := Combinatorics(Options{
		V: seq(1, 6), M: 3, MProvided: true, IsComb: true,
		Lower: intp(3), Upper: intp(7),
	})
	require.NoError(t, err)
	require.Equal(t, 5, slice.Rows)
	for r := 0; r < slice.Rows; r++ {
		assert.Equal(t, full.Row(r+2), slice.Row(r))
	}
}

func TestNthTuple(t *testing.T) {
	row, err := Nth(Options{V: seq(0, 3), M: 3, MProvided: true, Rep: true}, 43)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2}, row)

	_, err = Nth(Options{V: seq(0, 3), M: 3, MProvided: true, Rep: true}, 65)
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, InvalidInput, apiErr.Kind)
}

func TestParallelMatchesSerial(t *testing.T) {
	base := Options{V: seq(0, 11), M: 4, MProvided: true, Rep: true} // 20736 rows
	serial, err := Combinatorics(base)
	require.NoError(t, err)

	par := base
	par.Parallel = true
	par.NThreads = 3
	parallel, err := Combinatorics(par)
	require.NoError(t, err)
	assert.Equal(t, serial.Rows, parallel.Rows)
	assert.Equal(t, serial.Data, parallel.Data)
}

func TestKeepResultAppendsAggregateColumn(t *testing.T) {
	mat, err := Combinatorics(Options{
		V: seq(1, 4), M: 2, MProvided: true, IsComb: true,
		Fun: Sum, HasFun: true, KeepResult: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, mat.Cols)
	for r := 0; r < mat.Rows; r++ {
		row := mat.Row(r)
		assert.Equal(t, row[0]+row[1], row[2])
	}
}

func TestConstrainedRankWindowOnPartitionPath(t *testing.T) {
	base := Options{
		V: seq(1, 10), M: 3, MProvided: true,
		IsComb: true, Kind: Integer,
		Fun: Sum, HasFun: true,
		Comparison: []CompOp{Eq}, Target: []float64{15},
	}
	full, err := Combinatorics(base)
	require.NoError(t, err)
	require.Equal(t, 10, full.Rows)

	windowed := base
	windowed.Lower = intp(2)
	windowed.Upper = intp(4)
	window, err := Combinatorics(windowed)
	require.NoError(t, err)
	require.Equal(t, 3, window.Rows)
	for r := 0; r < 3; r++ {
		assert.Equal(t, full.Row(r+1), window.Row(r))
	}
}

func TestConstrainedRankWindowUsesBruteFallback(t *testing.T) {
	// Non-integral values defeat partition recognition, and the explicit
	// lower bound forces the SpecialCase enumerate-then-filter path.
	base := Options{
		V: []float64{0.5, 1.5, 2.5, 3.5, 4.5}, M: 2, MProvided: true,
		IsComb: true, Kind: Double,
		Fun: Sum, HasFun: true,
		Comparison: []CompOp{Eq}, Target: []float64{5},
	}
	full, err := Combinatorics(base)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0.5, 4.5}, {1.5, 3.5}}, matrixRows(full))

	windowed := base
	windowed.Lower = intp(2)
	windowed.Upper = intp(2)
	window, err := Combinatorics(windowed)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1.5, 3.5}}, matrixRows(window))
}

func TestBoundaryErrors(t *testing.T) {
	_, err := Combinatorics(Options{V: nil, M: 2, MProvided: true})
	assertErrorKind(t, err, InvalidInput)

	_, err = Combinatorics(Options{V: seq(1, 3), M: 0, MProvided: true})
	assertErrorKind(t, err, InvalidInput)

	_, err = Combinatorics(Options{V: seq(1, 3), M: 2, MProvided: true, Freqs: []int{1, -1, 2}})
	assertErrorKind(t, err, InvalidInput)

	_, err = Combinatorics(Options{V: seq(1, 3), M: 2, MProvided: true, Freqs: []int{1, 1}})
	assertErrorKind(t, err, InvalidInput)

	_, err = Combinatorics(Options{
		V: seq(1, 3), M: 2, MProvided: true, Kind: Character,
		Fun: Sum, HasFun: true, Comparison: []CompOp{Lt}, Target: []float64{4},
	})
	assertErrorKind(t, err, Unsupported)

	_, err = Combinatorics(Options{
		V: seq(1, 3), M: 2, MProvided: true, IsComb: true,
		KeepResult: true,
	})
	assertErrorKind(t, err, InvalidInput)

	_, err = Combinatorics(Options{
		V: seq(1, 6), M: 2, MProvided: true, IsComb: true, Kind: Double,
		Fun: Sum, HasFun: true,
		Comparison: []CompOp{Gt, Lt}, Target: []float64{5, 5},
	})
	assertErrorKind(t, err, InvalidInput)

	_, err = Combinatorics(Options{
		V: seq(1, 5), M: 3, MProvided: true, IsComb: true,
		Upper: intp(99),
	})
	assertErrorKind(t, err, InvalidInput)
}

func assertErrorKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, kind, apiErr.Kind)
}

func TestWidthMaximisedPartitions(t *testing.T) {
	mat, err := Combinatorics(Options{
		V: seq(0, 6), IsComb: true, Rep: true, Kind: Integer,
		Fun: Sum, HasFun: true,
		Comparison: []CompOp{Eq}, Target: []float64{6},
	})
	require.NoError(t, err)
	// p(6) = 11 partitions, each zero-padded to the maximal width 6.
	assert.Equal(t, 11, mat.Rows)
	assert.Equal(t, 6, mat.Cols)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 6}, mat.Row(0))
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, mat.Row(10))
	for r := 0; r < mat.Rows; r++ {
		sum := 0.0
		for _, x := range mat.Row(r) {
			sum += x
		}
		assert.Equal(t, 6.0, sum)
	}
}

func TestApplyCollectsPerRowResults(t *testing.T) {
	sums, err := Apply(Options{
		V: seq(1, 4), M: 2, MProvided: true, IsComb: true,
	}, func(row []float64) float64 {
		return row[0] + row[1]
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4, 5, 5, 6, 7}, sums)
}

func TestNthBigRankBeyondInt64(t *testing.T) {
	// 10^25 permutations with repetition: rank arithmetic must run in
	// arbitrary precision end to end.
	index, ok := new(big.Int).SetString("1000000000000000000000001", 10)
	require.True(t, ok)

	row, err := NthBig(Options{V: seq(0, 9), M: 25, MProvided: true, Rep: true}, index)
	require.NoError(t, err)
	// 0-based rank 10^24 in base 10 across 25 digits: a leading 1, then zeros.
	want := make([]float64, 25)
	want[0] = 1
	assert.Equal(t, want, row)
}

func TestOverflowRowCount(t *testing.T) {
	_, err := Combinatorics(Options{V: seq(1, 100), M: 50, MProvided: true, IsComb: true})
	assertErrorKind(t, err, Overflow)
}

func TestLegacyComparisonAliases(t *testing.T) {
	op, err := ParseCompOp("=<")
	require.NoError(t, err)
	assert.Equal(t, Le, op)

	op, err = ParseCompOp("=>")
	require.NoError(t, err)
	assert.Equal(t, Ge, op)

	_, err = ParseCompOp("!=")
	assert.Error(t, err)
}
