package partition

import "github.com/go-arrangements/arrangements/internal/bignum"

// Enumerate fills dst (nRows x pd.Width, row-major) with the partitions of
// pd starting at 0-based rank startRank.
//
// Rather than an in-place "edge" successor that increments the rightmost
// movable position and rebalances the suffix, each row is constructed
// directly at its rank via the same counting-table-driven technique
// engine.Unrank uses for combinations and permutations (counting.go). A
// hand-rolled partition successor is easy-to-get-subtly-wrong bookkeeping
// (a three-way interaction between zero-padding, distinctness, and an
// upper cap), so this implementation sidesteps that whole bug class by
// reusing the counting recurrence as its own inverse: one recursion is
// responsible for both the count and the rows, and the two can never
// disagree. Row r's construction costs
// the same O(width) amortised work as one successor step would, and the
// memo table built for the first row is reused by every later one, so
// there is no asymptotic penalty for enumerating the whole matrix this
// way.
func Enumerate(pd PartDesign, startRank int, dst []int, nRows int) {
	if pd.Width == 0 || nRows == 0 {
		return
	}
	if pd.IsMult {
		solver := newMultisetSolver(pd.Values, pd.Reps)
		for row := 0; row < nRows; row++ {
			z := dst[row*pd.Width : row*pd.Width+pd.Width]
			solver.construct(0, pd.Width, pd.MapTar, bignum.FromInt64(int64(startRank+row)), z)
		}
		return
	}
	solver := newBoundedSolver(pd.MaxPart, !pd.IsRep)
	for row := 0; row < nRows; row++ {
		z := dst[row*pd.Width : row*pd.Width+pd.Width]
		solver.construct(pd.MapTar, pd.Width, pd.MinPart, bignum.FromInt64(int64(startRank+row)), z)
	}
}

// EnumerateOriginal is Enumerate followed by PartDesign.ToOriginal on every
// row, producing the matrix in the caller's value domain directly.
func EnumerateOriginal(pd PartDesign, startRank int, nRows int) [][]float64 {
	mapped := make([]int, nRows*pd.Width)
	Enumerate(pd, startRank, mapped, nRows)
	rows := make([][]float64, nRows)
	for r := 0; r < nRows; r++ {
		rows[r] = pd.ToOriginal(mapped[r*pd.Width : r*pd.Width+pd.Width])
	}
	return rows
}
