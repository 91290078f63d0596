package partition

import (
	"github.com/go-arrangements/arrangements/internal/bignum"
	"github.com/go-arrangements/arrangements/internal/telemetry"
)

// Request is the already boundary-validated input to Recognize: a
// sum-equality constraint over an integral base sequence. Callers filter
// out non-sum aggregates and non-equality comparisons before calling
// Recognize; this package only does the arithmetic-progression/multiset
// recognition itself.
type Request struct {
	V         []int64 // base sequence, sorted ascending
	M         int     // tuple width; meaningless when MProvided is false
	MProvided bool
	Target    int64
	IsRep     bool
	Freqs     []int // expanded slot->kind index list; non-nil enables the Multiset shape
}

// Recognize classifies a sum-equality request as one of the canonical
// partition shapes. ok is false when the request cannot be reduced to a
// partition; the caller should then fall back to the general constraint
// search.
func Recognize(req Request) (PartDesign, bool) {
	if req.Freqs != nil {
		return recognizeMultiset(req)
	}
	return recognizeArithmetic(req)
}

func gcd64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// recognizeArithmetic handles the non-multiset shapes: it maps v to
// v' = (v - v[0]) / step and checks that v' is exactly 0, 1, 2, ..., n-1,
// then classifies the mapped request into one of the rep/distinct
// PartitionTypes.
func recognizeArithmetic(req Request) (PartDesign, bool) {
	n := len(req.V)
	if n == 0 {
		return PartDesign{}, false
	}
	shift := req.V[0]
	step := int64(0)
	for _, x := range req.V[1:] {
		step = gcd64(step, x-shift)
	}
	if step == 0 {
		step = 1
	}

	mapped := make([]int64, n)
	for i, x := range req.V {
		d := x - shift
		if d%step != 0 {
			return PartDesign{}, false
		}
		mapped[i] = d / step
	}
	for i := 1; i < n; i++ {
		if mapped[i] != mapped[i-1]+1 {
			return PartDesign{}, false
		}
	}

	ctype := PartMapping
	if shift == 0 && step == 1 {
		ctype = PartStandard
	}

	var mappedTarget int64
	if req.MProvided {
		numer := req.Target - int64(req.M)*shift
		if numer%step != 0 {
			return PartDesign{}, false
		}
		mappedTarget = numer / step
	} else {
		if shift != 0 || step != 1 {
			// A width-maximised request only has a well-defined inverse map
			// when v is already the canonical 0-based alphabet: the
			// shift/slope target map is defined in terms of m, which
			// width-maximised requests don't supply.
			return PartDesign{}, false
		}
		mappedTarget = req.Target
	}
	if mappedTarget < 0 {
		return PartDesign{}, false
	}

	minMapped := int(mapped[0])
	maxMapped := int(mapped[n-1])

	pd := PartDesign{
		IsRep:  req.IsRep,
		Shift:  shift,
		Slope:  step,
		Target: req.Target,
		CType:  ctype,
		MapTar: int(mappedTarget),
	}

	if !req.MProvided {
		pd.MIsNull = true
		pd.MinPart = 0
		if req.IsRep {
			pd.PType = RepStdAll
			pd.Width = maxRepWidth(int(mappedTarget))
			pd.MaxPart = min(int(mappedTarget), maxMapped)
		} else {
			pd.PType = DstctStdAll
			pd.Width = maxDistinctWidth(int(mappedTarget))
			pd.MaxPart = min(int(mappedTarget), maxMapped)
		}
		return finishArithmetic(pd)
	}

	width := req.M
	pd.Width = width
	capped := maxMapped < int(mappedTarget)
	zeroAllowed := minMapped == 0

	switch {
	case req.IsRep && capped:
		pd.PType = RepCapped
		pd.MinPart, pd.MaxPart = minMapped, maxMapped
		pd.Cap = maxMapped
	case req.IsRep && zeroAllowed:
		pd.MinPart, pd.MaxPart = 0, int(mappedTarget)
		if width >= int(mappedTarget) {
			pd.PType = RepStdAll
		} else {
			pd.PType = RepShort
		}
	case req.IsRep:
		pd.PType = RepNoZero
		pd.MinPart, pd.MaxPart = 1, int(mappedTarget)
	case !req.IsRep && capped:
		pd.PType = DistCapped
		pd.MinPart, pd.MaxPart = minMapped, maxMapped
		pd.Cap = maxMapped
	case !req.IsRep && zeroAllowed:
		pd.MinPart, pd.MaxPart = 0, int(mappedTarget)
		if width >= maxDistinctWidth(int(mappedTarget)) {
			pd.PType = DstctStdAll
		} else {
			pd.PType = DstctOneZero
		}
	default:
		pd.PType = DstctNoZero
		pd.MinPart, pd.MaxPart = 1, int(mappedTarget)
	}
	return finishArithmetic(pd)
}

// maxRepWidth is the greatest number of parts any partition of target can
// have when repetition is allowed and zero may pad the rest: the all-ones
// partition, one part per unit of target.
func maxRepWidth(target int) int {
	if target <= 0 {
		return 1
	}
	return target
}

// maxDistinctWidth is the greatest k such that 1+2+...+k <= target: the
// most parts a partition of target into distinct positive parts can have.
func maxDistinctWidth(target int) int {
	k := 0
	for k*(k+1)/2 <= target {
		k++
	}
	return k - 1
}

func finishArithmetic(pd PartDesign) (PartDesign, bool) {
	if pd.Width <= 0 {
		return PartDesign{}, false
	}
	solver := newBoundedSolver(pd.MaxPart, !pd.IsRep)
	total := solver.count(pd.MapTar, pd.Width, pd.MinPart)
	pd.Count = total
	pd.SolnExist = total.Cmp(bignum.FromInt64(0)) > 0
	pd.MapZeroFirst = pd.MinPart == 0
	if pd.SolnExist {
		z := make([]int, pd.Width)
		solver.construct(pd.MapTar, pd.Width, pd.MinPart, bignum.FromInt64(0), z)
		pd.StartZ = z
	}
	telemetry.Log.WithFields(map[string]any{
		"ptype":  pd.PType.String(),
		"width":  pd.Width,
		"target": pd.MapTar,
	}).Debug("partition request recognised")
	return pd, true
}

// recognizeMultiset handles the Multiset shape: req.V holds the n distinct
// kind values (already sorted ascending) and req.Freqs the expanded
// slot->kind index list whose run-lengths give each kind's multiplicity
// (a counting recurrence that respects per-kind supply).
func recognizeMultiset(req Request) (PartDesign, bool) {
	if !req.MProvided {
		// A width-maximised multiset partition has no single well-defined
		// matrix width (distinct multisets admit different maximum part
		// counts), so this shape always requires an explicit m.
		return PartDesign{}, false
	}
	kinds := len(req.V)
	if kinds == 0 {
		return PartDesign{}, false
	}
	reps := make([]int, kinds)
	for _, k := range req.Freqs {
		if k < 0 || k >= kinds {
			return PartDesign{}, false
		}
		reps[k]++
	}
	vals := make([]int, kinds)
	for i, x := range req.V {
		vals[i] = int(x)
	}

	solver := newMultisetSolver(vals, reps)
	total := solver.count(0, req.M, int(req.Target))

	pd := PartDesign{
		Width:     req.M,
		MapTar:    int(req.Target),
		IsRep:     req.IsRep,
		IsMult:    true,
		Shift:     0,
		Slope:     1,
		Target:    req.Target,
		CType:     General,
		PType:     Multiset,
		Count:     total,
		SolnExist: total.Cmp(bignum.FromInt64(0)) > 0,
		Values:    vals,
		Reps:      reps,
	}
	if pd.SolnExist {
		z := make([]int, req.M)
		solver.construct(0, req.M, int(req.Target), bignum.FromInt64(0), z)
		pd.StartZ = z
	}
	telemetry.Log.WithFields(map[string]any{
		"ptype":  "Multiset",
		"width":  pd.Width,
		"target": pd.MapTar,
	}).Debug("partition request recognised")
	return pd, true
}

// ToOriginal maps a row of partition-internal part values back onto the
// caller's original base sequence via the affine shift/slope map; for
// Multiset, Values already holds the caller's original numbers, so the
// map is the identity.
func (pd PartDesign) ToOriginal(row []int) []float64 {
	out := make([]float64, len(row))
	if pd.IsMult {
		for i, x := range row {
			out[i] = float64(x)
		}
		return out
	}
	for i, x := range row {
		out[i] = float64(pd.Shift + pd.Slope*int64(x))
	}
	return out
}
