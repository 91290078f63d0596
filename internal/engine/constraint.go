package engine

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/go-arrangements/arrangements/internal/bignum"
)

// Aggregate identifies which reduction combines a row's mapped values
// into the scalar tested against a Comparison.
type Aggregate int

const (
	AggSum Aggregate = iota
	AggProd
	AggMean
	AggMax
	AggMin
)

// Apply reduces vals to a single scalar per the aggregate's definition.
func (a Aggregate) Apply(vals []float64) float64 {
	switch a {
	case AggSum:
		s := 0.0
		for _, x := range vals {
			s += x
		}
		return s
	case AggProd:
		p := 1.0
		for _, x := range vals {
			p *= x
		}
		return p
	case AggMean:
		s := 0.0
		for _, x := range vals {
			s += x
		}
		return s / float64(len(vals))
	case AggMax:
		m := vals[0]
		for _, x := range vals[1:] {
			if x > m {
				m = x
			}
		}
		return m
	case AggMin:
		m := vals[0]
		for _, x := range vals[1:] {
			if x < m {
				m = x
			}
		}
		return m
	default:
		return 0
	}
}

// CompOp is one of the five recognised comparison directions; legacy
// "=<"/"=>" aliases are normalised to LE/GE before reaching this type.
type CompOp int

const (
	LT CompOp = iota
	LE
	GT
	GE
	EQ
)

type boundKind int

const (
	boundUpper boundKind = iota
	boundLower
)

func dirOf(op CompOp) boundKind {
	if op == LT || op == LE {
		return boundUpper
	}
	return boundLower
}

// Comparison is the tagged accept/continue predicate the constraint
// search evaluates: either single-sided (one op, one target, `==`
// optionally widened by a tolerance) or two-sided (a lower and an upper
// bound). Representing the two-sided case as a pair of bounds, rather
// than a pair of function values, keeps it inspectable for the sort
// direction and relaxation decisions below.
type Comparison struct {
	single    bool
	op        CompOp
	target    float64
	lowerIncl bool
	lowerVal  float64
	upperIncl bool
	upperVal  float64
	tolerance float64
}

// NewComparison builds and validates a Comparison from one or two raw
// ops/targets: one or two ops, one target per op, two equal targets
// rejected, `==` never combined with a second op, and two comparisons of
// the same direction rejected.
func NewComparison(ops []CompOp, targets []float64, tolerance float64) (Comparison, error) {
	if len(ops) == 0 || len(ops) > 2 {
		return Comparison{}, errors.New("comparison: must supply one or two comparison operators")
	}
	if len(ops) != len(targets) {
		return Comparison{}, errors.New("target: target count must match comparison count")
	}
	if len(ops) == 1 {
		return Comparison{single: true, op: ops[0], target: targets[0], tolerance: tolerance}, nil
	}
	if targets[0] == targets[1] {
		return Comparison{}, errors.New("target: two-limit comparison requires distinct targets")
	}
	if ops[0] == EQ || ops[1] == EQ {
		return Comparison{}, errors.New("comparison: == cannot be combined with a second comparison")
	}
	if dirOf(ops[0]) == dirOf(ops[1]) {
		return Comparison{}, errors.New("comparison: two-limit comparison requires one upper and one lower bound")
	}
	c := Comparison{tolerance: tolerance}
	for i, op := range ops {
		if dirOf(op) == boundUpper {
			c.upperVal = targets[i]
			c.upperIncl = op == LE
		} else {
			c.lowerVal = targets[i]
			c.lowerIncl = op == GE
		}
	}
	if c.lowerVal > c.upperVal {
		c.lowerVal, c.upperVal = c.upperVal, c.lowerVal
		c.lowerIncl, c.upperIncl = c.upperIncl, c.lowerIncl
	}
	return c, nil
}

// bounds resolves the comparison to explicit lower/upper limits, widening
// a single `==` into [target-tolerance, target+tolerance].
func (c Comparison) bounds() (hasLower bool, lowerVal float64, lowerIncl bool, hasUpper bool, upperVal float64, upperIncl bool) {
	if !c.single {
		return true, c.lowerVal, c.lowerIncl, true, c.upperVal, c.upperIncl
	}
	switch c.op {
	case EQ:
		return true, c.target - c.tolerance, true, true, c.target + c.tolerance, true
	case LT:
		return false, 0, false, true, c.target, false
	case LE:
		return false, 0, false, true, c.target, true
	case GT:
		return true, c.target, false, false, 0, false
	case GE:
		return true, c.target, true, false, 0, false
	}
	return
}

// StrictAccept is the predicate an emitted row must fully satisfy.
func (c Comparison) StrictAccept(val float64) bool {
	hasLower, lowerVal, lowerIncl, hasUpper, upperVal, upperIncl := c.bounds()
	if hasLower {
		if lowerIncl {
			if val < lowerVal {
				return false
			}
		} else if val <= lowerVal {
			return false
		}
	}
	if hasUpper {
		if upperIncl {
			if val > upperVal {
				return false
			}
		} else if val >= upperVal {
			return false
		}
	}
	return true
}

// SortAscending reports the direction v must be sorted in for the
// monotone prune below to be valid: ascending for `<`/`<=`, descending
// for `>`/`>=`, ascending for two-sided and `==`.
func (c Comparison) SortAscending() bool {
	if !c.single {
		return true
	}
	return c.op == LT || c.op == LE || c.op == EQ
}

// RelaxedContinue is the "still possibly reachable" predicate used to
// decide whether the current prefix is worth extending further. It is
// always at least as permissive as StrictAccept, which is what makes
// pruning on it safe.
func (c Comparison) RelaxedContinue(val float64) bool {
	hasLower, lowerVal, lowerIncl, hasUpper, upperVal, upperIncl := c.bounds()
	if c.SortAscending() {
		if !hasUpper {
			return true
		}
		if upperIncl {
			return val <= upperVal+c.tolerance
		}
		return val < upperVal+c.tolerance
	}
	if !hasLower {
		return true
	}
	if lowerIncl {
		return val >= lowerVal-c.tolerance
	}
	return val > lowerVal-c.tolerance
}

// RequiresSpecialCase reports whether the monotone prune is unsound for
// this request and the brute-force fallback must be used instead: an
// explicit rank lower-bound, or a `prod` aggregate over a base sequence
// containing a negative value.
func RequiresSpecialCase(agg Aggregate, v []float64, hasLowerRankBound bool) bool {
	if hasLowerRankBound {
		return true
	}
	if agg == AggProd {
		for _, x := range v {
			if x < 0 {
				return true
			}
		}
	}
	return false
}

// Search runs the constraint-driven enumeration: it walks the
// lexicographic tree of the family's index tuples, using
// Comparison.RelaxedContinue to skip whole subtrees that cannot possibly
// satisfy the comparison and Comparison.StrictAccept to decide which
// surviving tuples to emit. For permutation families it searches the
// equivalent combination space (the distinct multisets of chosen values,
// since every aggregate here is order-invariant) and expands each
// accepted multiset into all of its distinct arrangements via
// nextFullPermutation over a copy.
//
// emit receives z in Rank/Unrank/Successor's convention: slot indices
// into req.Freqs for CombMultiset, kind values directly for PermMultiset,
// and indices into v for every other family.
func Search(req Request, v []float64, agg Aggregate, cmp Comparison, emit func(z []int) error) error {
	switch req.Family {
	case CombNoRep:
		return searchCombNoRep(req.N, req.M, v, agg, cmp, false, emit)
	case PermNoRep:
		return searchCombNoRep(req.N, req.M, v, agg, cmp, true, emit)
	case CombRep:
		return searchCombRep(req.N, req.M, v, agg, cmp, false, emit)
	case PermRep:
		return searchCombRep(req.N, req.M, v, agg, cmp, true, emit)
	case CombMultiset:
		return searchCombMultiset(req.Freqs, req.M, v, agg, cmp, false, emit)
	case PermMultiset:
		return searchCombMultiset(req.Freqs, req.M, v, agg, cmp, true, emit)
	default:
		return nil
	}
}

func searchCombNoRep(n, m int, v []float64, agg Aggregate, cmp Comparison, isPerm bool, emit func([]int) error) error {
	if m < 1 || m > n {
		return nil
	}
	z := make([]int, m)
	for i := range z {
		z[i] = i
	}
	testVec := make([]float64, m)
	for {
		for i, idx := range z {
			testVec[i] = v[idx]
		}
		testVal := agg.Apply(testVec)
		relaxed := cmp.RelaxedContinue(testVal)
		if relaxed && cmp.StrictAccept(testVal) {
			if err := emitCombOrPerms(z, isPerm, emit); err != nil {
				return err
			}
		}
		if !relaxed {
			// Larger values at the last position only push testVal further
			// in the direction that already failed (v is sorted the way
			// SortAscending demands), so nothing between here and this
			// position's ceiling can succeed either. Jump straight to the
			// ceiling so the next_combination call below rolls over to the
			// position on its left instead of visiting every value in
			// between.
			z[m-1] = n - 1
		}
		if !nextCombination(z, n, m) {
			return nil
		}
	}
}

func searchCombRep(n, m int, v []float64, agg Aggregate, cmp Comparison, isPerm bool, emit func([]int) error) error {
	if m < 1 {
		return nil
	}
	z := make([]int, m)
	testVec := make([]float64, m)
	for {
		for i, idx := range z {
			testVec[i] = v[idx]
		}
		testVal := agg.Apply(testVec)
		relaxed := cmp.RelaxedContinue(testVal)
		if relaxed && cmp.StrictAccept(testVal) {
			if err := emitCombOrPerms(z, isPerm, emit); err != nil {
				return err
			}
		}
		if !relaxed {
			z[m-1] = n - 1
		}
		if !nextCombinationRep(z, n) {
			return nil
		}
	}
}

func searchCombMultiset(freqs []int, m int, v []float64, agg Aggregate, cmp Comparison, isPerm bool, emit func([]int) error) error {
	reps := repsFromFreqs(freqs)
	numKinds := len(reps)
	z := startMultisetKinds(reps, m)
	if len(z) < m {
		return nil
	}
	testVec := make([]float64, m)
	for {
		for i, k := range z {
			testVec[i] = v[k]
		}
		testVal := agg.Apply(testVec)
		relaxed := cmp.RelaxedContinue(testVal)
		if relaxed && cmp.StrictAccept(testVal) {
			var err error
			if isPerm {
				err = emitPermKinds(z, emit)
			} else {
				err = emit(kindsToSlotIndices(freqs, z))
			}
			if err != nil {
				return err
			}
		}
		if !relaxed {
			z[m-1] = numKinds - 1
		}
		if !nextCombinationMultisetKinds(z, reps) {
			return nil
		}
	}
}

// emitCombOrPerms emits z itself, or (isPerm) every distinct arrangement
// of it.
func emitCombOrPerms(z []int, isPerm bool, emit func([]int) error) error {
	if !isPerm {
		return emit(append([]int(nil), z...))
	}
	perm := append([]int(nil), z...)
	sort.Ints(perm)
	for {
		if err := emit(append([]int(nil), perm...)); err != nil {
			return err
		}
		if !nextFullPermutation(perm) {
			return nil
		}
	}
}

// emitPermKinds emits every distinct arrangement of the kind-value
// multiset z (PermMultiset's own convention: rows are kind values, not
// slot indices).
func emitPermKinds(z []int, emit func([]int) error) error {
	perm := append([]int(nil), z...)
	sort.Ints(perm)
	for {
		if err := emit(append([]int(nil), perm...)); err != nil {
			return err
		}
		if !nextFullPermutation(perm) {
			return nil
		}
	}
}

// startMultisetKinds builds the lexicographically smallest non-decreasing
// length-m sequence of kind values drawable from reps: as many of kind 0
// as available, then kind 1, and so on.
func startMultisetKinds(reps []int, m int) []int {
	kinds := make([]int, 0, m)
	for k, r := range reps {
		for i := 0; i < r && len(kinds) < m; i++ {
			kinds = append(kinds, k)
		}
		if len(kinds) == m {
			break
		}
	}
	return kinds
}

// nextCombinationMultisetKinds advances z, a non-decreasing sequence of
// kind values respecting each kind's multiplicity in reps, to the next
// such sequence in lexicographic order (the kind-value analogue of
// nextCombinationMultiset, which instead works over slot indices into an
// expanded freqs array).
func nextCombinationMultisetKinds(z []int, reps []int) bool {
	m := len(z)
	numKinds := len(reps)
	for j := m - 1; j >= 0; j-- {
		used := make([]int, numKinds)
		for i := 0; i <= j; i++ {
			used[z[i]]++
		}
		advanced := -1
		for k := z[j] + 1; k < numKinds; k++ {
			if used[k] < reps[k] {
				advanced = k
				break
			}
		}
		if advanced == -1 {
			continue
		}
		z[j] = advanced

		refillUsed := make([]int, numKinds)
		for i := 0; i <= j; i++ {
			refillUsed[z[i]]++
		}
		k := z[j]
		for idx := j + 1; idx < m; idx++ {
			for refillUsed[k] >= reps[k] {
				k++
			}
			z[idx] = k
			refillUsed[k]++
		}
		return true
	}
	return false
}

// rowValues resolves z (Unrank/Successor's own convention: slot indices
// into req.Freqs for CombMultiset, kind values directly for PermMultiset,
// indices into v otherwise) into actual values, mirroring the exported
// mapRow helper the top-level package uses for emitted rows.
func rowValues(req Request, v []float64, z []int, out []float64) {
	if req.Family == CombMultiset {
		for i, idx := range z {
			out[i] = v[req.Freqs[idx]]
		}
		return
	}
	for i, idx := range z {
		out[i] = v[idx]
	}
}

// SearchBruteForce enumerates the full family densely and filters,
// used whenever RequiresSpecialCase reports true.
func SearchBruteForce(req Request, v []float64, agg Aggregate, cmp Comparison, emit func(z []int) error) error {
	total := Count(req)
	if total.ExceedsInt32() {
		return errors.New("row count exceeds int32 range")
	}
	nRows := int(total.Float64())
	if nRows == 0 {
		return nil
	}
	z := Unrank(req, bignum.FromInt64(0))
	testVec := make([]float64, req.M)
	for row := 0; row < nRows; row++ {
		rowValues(req, v, z, testVec)
		testVal := agg.Apply(testVec)
		if cmp.StrictAccept(testVal) {
			if err := emit(append([]int(nil), z...)); err != nil {
				return err
			}
		}
		if row < nRows-1 {
			Successor(req, z)
		}
	}
	return nil
}
