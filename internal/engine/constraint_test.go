package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRows(t *testing.T, req Request, v []float64, agg Aggregate, cmp Comparison, brute bool) [][]float64 {
	t.Helper()
	var rows [][]float64
	search := Search
	if brute {
		search = SearchBruteForce
	}
	err := search(req, v, agg, cmp, func(z []int) error {
		row := make([]float64, len(z))
		rowValues(req, v, z, row)
		rows = append(rows, row)
		return nil
	})
	require.NoError(t, err)
	return rows
}

func TestNewComparisonValidation(t *testing.T) {
	cases := []struct {
		name    string
		ops     []CompOp
		targets []float64
	}{
		{"no ops", nil, nil},
		{"three ops", []CompOp{LT, GT, LE}, []float64{1, 2, 3}},
		{"target count mismatch", []CompOp{LT}, []float64{1, 2}},
		{"equal targets", []CompOp{GT, LT}, []float64{5, 5}},
		{"eq in two-limit", []CompOp{EQ, LT}, []float64{1, 5}},
		{"same direction twice", []CompOp{LT, LE}, []float64{1, 5}},
	}
	for _, tc := range cases {
		_, err := NewComparison(tc.ops, tc.targets, 0)
		assert.Error(t, err, tc.name)
	}

	_, err := NewComparison([]CompOp{GT, LT}, []float64{5, 9}, 0)
	assert.NoError(t, err)
}

func TestSearchSumEquality(t *testing.T) {
	v := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	req := mustResolve(t, CombNoRep, 10, 3, nil)
	cmp, err := NewComparison([]CompOp{EQ}, []float64{15}, 0)
	require.NoError(t, err)

	rows := collectRows(t, req, v, AggSum, cmp, false)
	want := [][]float64{
		{1, 4, 10}, {1, 5, 9}, {1, 6, 8}, {2, 3, 10}, {2, 4, 9},
		{2, 5, 8}, {2, 6, 7}, {3, 4, 8}, {3, 5, 7}, {4, 5, 6},
	}
	assert.Equal(t, want, rows)
}

// TestSearchMatchesBruteFilter cross-checks the pruned search against
// enumerate-then-filter over several aggregates and comparison shapes.
func TestSearchMatchesBruteFilter(t *testing.T) {
	cases := []struct {
		name    string
		agg     Aggregate
		ops     []CompOp
		targets []float64
	}{
		{"sum upper", AggSum, []CompOp{LE}, []float64{9}},
		{"sum two-sided", AggSum, []CompOp{GT, LT}, []float64{5, 9}},
		{"mean eq", AggMean, []CompOp{EQ}, []float64{3}},
		{"max upper", AggMax, []CompOp{LT}, []float64{5}},
		{"prod upper", AggProd, []CompOp{LE}, []float64{24}},
	}
	families := []Request{
		mustResolve(t, CombNoRep, 6, 3, nil),
		mustResolve(t, CombRep, 6, 3, nil),
		mustResolve(t, CombMultiset, 6, 3, []int{0, 0, 1, 2, 3, 3, 4, 5}),
	}
	vm := []float64{1, 2, 3, 4, 5, 6}

	for _, fam := range families {
		for _, tc := range cases {
			cmp, err := NewComparison(tc.ops, tc.targets, 0)
			require.NoError(t, err)
			got := collectRows(t, fam, vm, tc.agg, cmp, false)
			want := collectRows(t, fam, vm, tc.agg, cmp, true)
			assert.Equal(t, want, got, "family %s, case %s", fam.Family, tc.name)
		}
	}
}

func TestSearchDescendingForGreater(t *testing.T) {
	// SortAscending is false for > / >=: the caller hands v sorted
	// descending and the prune cuts once the aggregate drops below the
	// lower bound.
	v := []float64{5, 4, 3, 2, 1}
	req := mustResolve(t, CombNoRep, 5, 2, nil)
	cmp, err := NewComparison([]CompOp{GE}, []float64{8}, 0)
	require.NoError(t, err)
	assert.False(t, cmp.SortAscending())

	rows := collectRows(t, req, v, AggSum, cmp, false)
	assert.Equal(t, [][]float64{{5, 4}, {5, 3}}, rows)
}

func TestSearchPermutationExpansion(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	req := mustResolve(t, PermNoRep, 4, 2, nil)
	cmp, err := NewComparison([]CompOp{EQ}, []float64{5}, 0)
	require.NoError(t, err)

	rows := collectRows(t, req, v, AggSum, cmp, false)
	assert.Equal(t, [][]float64{{1, 4}, {4, 1}, {2, 3}, {3, 2}}, rows)
}

func TestSearchMultisetRespectsSupply(t *testing.T) {
	// kinds 1, 2, 3 with supply (2, 1, 2): (2,2) is not available, so the
	// only pair summing to 4 is (1,3).
	v := []float64{1, 2, 3}
	freqs := []int{0, 0, 1, 2, 2}
	cmp, err := NewComparison([]CompOp{EQ}, []float64{4}, 0)
	require.NoError(t, err)

	req := mustResolve(t, CombMultiset, 3, 2, freqs)
	rows := collectRows(t, req, v, AggSum, cmp, false)
	assert.Equal(t, [][]float64{{1, 3}}, rows)

	req = mustResolve(t, PermMultiset, 3, 2, freqs)
	rows = collectRows(t, req, v, AggSum, cmp, false)
	assert.Equal(t, [][]float64{{1, 3}, {3, 1}}, rows)
}

func TestRequiresSpecialCase(t *testing.T) {
	assert.True(t, RequiresSpecialCase(AggSum, []float64{1, 2}, true))
	assert.True(t, RequiresSpecialCase(AggProd, []float64{-2, 1, 3}, false))
	assert.False(t, RequiresSpecialCase(AggProd, []float64{2, 1, 3}, false))
	assert.False(t, RequiresSpecialCase(AggSum, []float64{-2, 1, 3}, false))
}

func TestSearchBruteForceNegativeProduct(t *testing.T) {
	v := []float64{-2, 1, 3}
	req := mustResolve(t, CombNoRep, 3, 2, nil)
	cmp, err := NewComparison([]CompOp{GE}, []float64{3}, 0)
	require.NoError(t, err)

	rows := collectRows(t, req, v, AggProd, cmp, true)
	assert.Equal(t, [][]float64{{1, 3}}, rows)
}

func TestEqualityToleranceOnDoubles(t *testing.T) {
	v := []float64{0.1, 0.2, 0.3, 0.4}
	req := mustResolve(t, CombNoRep, 4, 2, nil)
	cmp, err := NewComparison([]CompOp{EQ}, []float64{0.5}, 1e-9)
	require.NoError(t, err)

	rows := collectRows(t, req, v, AggSum, cmp, false)
	require.Len(t, rows, 2)
	assert.InDelta(t, 0.5, rows[0][0]+rows[0][1], 1e-9)
	assert.InDelta(t, 0.5, rows[1][0]+rows[1][1], 1e-9)
}
