package arrangements

import (
	"context"
	"math"
	"math/big"
	"runtime"
	"sort"

	"github.com/go-arrangements/arrangements/internal/bignum"
	"github.com/go-arrangements/arrangements/internal/engine"
	"github.com/go-arrangements/arrangements/internal/partition"
	"github.com/go-arrangements/arrangements/internal/telemetry"
)

// Combinatorics is the general entry point: depending on Options it
// returns the full enumeration, a rank-bounded slice, or (when
// Fun/Comparison/Target are set) only the rows whose aggregate satisfies
// the comparison.
func Combinatorics(opts Options) (Matrix, error) {
	if err := validateOptions(&opts); err != nil {
		return Matrix{}, err
	}
	if opts.hasConstraint() {
		return combinatoricsConstrained(opts)
	}
	return combinatoricsPlain(opts)
}

// Count returns the exact cardinality of the request.
func Count(opts Options) (Number, error) {
	if err := validateOptions(&opts); err != nil {
		return Number{}, err
	}
	if !opts.hasConstraint() {
		req, err := buildRequest(opts, opts.V, expandedFreqs(opts))
		if err != nil {
			return Number{}, err
		}
		return engine.Count(req), nil
	}

	if pd, reduced, err := tryPartition(opts); err != nil {
		return Number{}, err
	} else if reduced {
		return pd.Count, nil
	}

	n := 0
	if err := constrainedSearch(opts, func([]float64) error { n++; return nil }); err != nil {
		return Number{}, err
	}
	return bignum.FromInt64(int64(n)), nil
}

// Nth returns the tuple at 1-based rank index.
func Nth(opts Options, index int64) ([]float64, error) {
	if err := validateOptions(&opts); err != nil {
		return nil, err
	}
	freqs := expandedFreqs(opts)
	req, err := buildRequest(opts, opts.V, freqs)
	if err != nil {
		return nil, err
	}
	total := engine.Count(req)
	rank := bignum.FromInt64(index - 1)
	if index < 1 || rank.Cmp(total) >= 0 {
		return nil, invalidInput("index", "index %d out of range [1, %v]", index, total.Float64())
	}
	z := engine.Unrank(req, rank)
	return mapRow(req.Family, opts.V, freqs, z), nil
}

// NthBig is Nth for 1-based ranks beyond int64, e.g. permutation spaces
// whose cardinality exceeds 2^63.
func NthBig(opts Options, index *big.Int) ([]float64, error) {
	if err := validateOptions(&opts); err != nil {
		return nil, err
	}
	freqs := expandedFreqs(opts)
	req, err := buildRequest(opts, opts.V, freqs)
	if err != nil {
		return nil, err
	}
	total := engine.Count(req)
	rank := bignum.FromBig(index).Sub(bignum.FromInt64(1))
	if index.Sign() < 1 || rank.Cmp(total) >= 0 {
		return nil, invalidInput("index", "index %s out of range [1, %v]", index.String(), total.Float64())
	}
	z := engine.Unrank(req, rank)
	return mapRow(req.Family, opts.V, freqs, z), nil
}

// Apply enumerates the request and invokes fn on every row in rank order,
// returning the collected results. Any constraint/slice options on opts
// apply before fn sees a row.
func Apply[T any](opts Options, fn func(row []float64) T) ([]T, error) {
	mat, err := Combinatorics(opts)
	if err != nil {
		return nil, err
	}
	out := make([]T, mat.Rows)
	for r := 0; r < mat.Rows; r++ {
		out[r] = fn(mat.Row(r))
	}
	return out, nil
}

// DescribePartition exposes the partition recognition result without
// enumerating: which shape the request was classified into, its count,
// start vector, and the affine map back to V. ok is false when the
// request does not reduce to a partition.
func DescribePartition(opts Options) (partition.PartDesign, bool, error) {
	if err := validateOptions(&opts); err != nil {
		return partition.PartDesign{}, false, err
	}
	if !opts.hasConstraint() {
		return partition.PartDesign{}, false, nil
	}
	return tryPartition(opts)
}

// --- plain (unconstrained) path -------------------------------------------------

func combinatoricsPlain(opts Options) (Matrix, error) {
	freqs := expandedFreqs(opts)
	req, err := buildRequest(opts, opts.V, freqs)
	if err != nil {
		return Matrix{}, err
	}
	total := engine.Count(req)

	startRank := bignum.FromInt64(0)
	nRows := total
	if opts.Lower != nil {
		startRank = bignum.FromInt64(*opts.Lower - 1)
		if startRank.Cmp(bignum.FromInt64(0)) < 0 || startRank.Cmp(total) >= 0 {
			return Matrix{}, invalidInput("lower", "lower %d out of range", *opts.Lower)
		}
	}
	if opts.Upper != nil {
		upperRank := bignum.FromInt64(*opts.Upper - 1)
		if upperRank.Cmp(startRank) < 0 || upperRank.Cmp(total) >= 0 {
			return Matrix{}, invalidInput("upper", "upper %d out of range", *opts.Upper)
		}
		nRows = upperRank.Sub(startRank).Add(bignum.FromInt64(1))
	} else if opts.Lower != nil {
		nRows = total.Sub(startRank)
	}

	if nRows.ExceedsInt32() {
		return Matrix{}, overflow("upper", "row count %v exceeds the maximum matrix size", nRows.Float64())
	}
	n := int(nRows.Float64())
	m := req.M

	dst := make([]int, n*m)
	if n > 0 {
		if opts.Parallel && n >= engine.DefaultParallelThreshold {
			workers := opts.NThreads
			if workers <= 0 {
				workers = runtime.GOMAXPROCS(0)
			}
			if err := engine.EnumerateDenseParallel(context.Background(), req, startRank, dst, n, m, workers); err != nil {
				return Matrix{}, err
			}
		} else {
			z := engine.Unrank(req, startRank)
			engine.EnumerateDense(req, z, dst, n)
		}
	}

	cols := m
	extra := 0
	if opts.KeepResult && opts.HasFun {
		extra = 1
	}
	data := make([]float64, n*(cols+extra))
	for r := 0; r < n; r++ {
		row := mapRow(req.Family, opts.V, freqs, dst[r*m:r*m+m])
		copy(data[r*(cols+extra):], row)
		if extra == 1 {
			data[r*(cols+extra)+cols] = opts.Fun.Apply(row)
		}
	}
	if total.IsBig() {
		telemetry.Log.WithField("family", req.Family.String()).Debug("cardinality promoted to arbitrary precision")
	}
	return Matrix{Rows: n, Cols: cols + extra, Data: data}, nil
}

// --- constrained path -------------------------------------------------

func combinatoricsConstrained(opts Options) (Matrix, error) {
	if pd, reduced, err := tryPartition(opts); err != nil {
		return Matrix{}, err
	} else if reduced {
		return partitionMatrix(opts, pd)
	}

	var rows [][]float64
	if err := constrainedSearch(opts, func(row []float64) error {
		rows = append(rows, row)
		return nil
	}); err != nil {
		return Matrix{}, err
	}

	cols := opts.effectiveM()
	extra := 0
	if opts.KeepResult {
		extra = 1
	}
	data := make([]float64, len(rows)*(cols+extra))
	for r, row := range rows {
		copy(data[r*(cols+extra):], row)
		if extra == 1 {
			data[r*(cols+extra)+cols] = opts.Fun.Apply(row)
		}
	}
	return Matrix{Rows: len(rows), Cols: cols + extra, Data: data}, nil
}

func partitionMatrix(opts Options, pd partition.PartDesign) (Matrix, error) {
	total := pd.Count
	if opts.Upper == nil && total.ExceedsInt32() {
		return Matrix{}, overflow("upper", "partition count %v exceeds the maximum matrix size", total.Float64())
	}
	startRank := 0
	nRows := int(total.Float64())
	if opts.Lower != nil {
		startRank = int(*opts.Lower - 1)
	}
	if opts.Upper != nil {
		nRows = int(*opts.Upper) - startRank
	} else if opts.Lower != nil {
		nRows = int(total.Float64()) - startRank
	}
	if startRank < 0 || startRank+nRows > int(total.Float64()) || nRows < 0 {
		return Matrix{}, invalidInput("lower", "rank bounds out of range for partition result")
	}

	cols := pd.Width
	extra := 0
	if opts.KeepResult {
		extra = 1
	}
	out := make([]float64, nRows*(cols+extra))
	rows := partition.EnumerateOriginal(pd, startRank, nRows)
	for r, row := range rows {
		copy(out[r*(cols+extra):], row)
		if extra == 1 {
			out[r*(cols+extra)+cols] = opts.Fun.Apply(row)
		}
	}
	return Matrix{Rows: nRows, Cols: cols + extra, Data: out}, nil
}

// tryPartition attempts partition recognition. It only applies to
// combination requests whose constraint is a single "==" on a sum
// aggregate with an integral target over an integral, non-empty V.
func tryPartition(opts Options) (partition.PartDesign, bool, error) {
	if opts.Fun != Sum || len(opts.Comparison) != 1 || opts.Comparison[0] != Eq {
		return partition.PartDesign{}, false, nil
	}
	if !opts.IsComb || opts.Target[0] != math.Trunc(opts.Target[0]) {
		return partition.PartDesign{}, false, nil
	}
	if !opts.Kind.Arithmetic() {
		return partition.PartDesign{}, false, nil
	}
	sortedV, sortedFreqs := sortAscending(opts.V, opts.Freqs)
	intV := make([]int64, len(sortedV))
	for i, x := range sortedV {
		if x != math.Trunc(x) {
			return partition.PartDesign{}, false, nil
		}
		intV[i] = int64(x)
	}

	req := partition.Request{
		V:         intV,
		M:         opts.M,
		MProvided: opts.MProvided,
		Target:    int64(opts.Target[0]),
		IsRep:     opts.Rep,
	}
	if opts.Freqs != nil {
		req.Freqs = expandFreqs(sortedFreqs)
	}
	pd, ok := partition.Recognize(req)
	return pd, ok, nil
}

// constrainedSearch runs the general (non-partition) constraint path,
// honouring Lower/Upper as 1-based bounds on the rank of *matching*
// rows rather than the family's full lexicographic rank (partition
// requests, by contrast, slice on the family's own rank directly via
// PartitionEnumerate, since that enumerator is rank-addressable).
func constrainedSearch(opts Options, onMatch func(row []float64) error) error {
	cmp, err := engine.NewComparison(opts.Comparison, opts.Target, opts.Tolerance)
	if err != nil {
		return invalidInput("comparison", err.Error())
	}
	sortedV, sortedFreqs := sortAscending(opts.V, opts.Freqs)
	if !cmp.SortAscending() {
		sortedV, sortedFreqs = reverseVals(sortedV, sortedFreqs)
	}

	var freqsExpanded []int
	if opts.Freqs != nil {
		freqsExpanded = expandFreqs(sortedFreqs)
	}
	req, err := buildRequest(opts, sortedV, freqsExpanded)
	if err != nil {
		return err
	}

	matchIdx := int64(0)
	lower, upper := int64(1), int64(-1)
	if opts.Lower != nil {
		lower = *opts.Lower
	}
	if opts.Upper != nil {
		upper = *opts.Upper
	}
	emit := func(z []int) error {
		matchIdx++
		if matchIdx < lower {
			return nil
		}
		if upper >= 0 && matchIdx > upper {
			return errStopSearch
		}
		return onMatch(mapRow(req.Family, sortedV, freqsExpanded, z))
	}

	hasLower := opts.Lower != nil
	if engine.RequiresSpecialCase(opts.Fun, sortedV, hasLower) {
		err = engine.SearchBruteForce(req, sortedV, opts.Fun, cmp, emit)
	} else {
		err = engine.Search(req, sortedV, opts.Fun, cmp, emit)
	}
	if err == errStopSearch {
		return nil
	}
	return err
}

var errStopSearch = stopSearchError{}

type stopSearchError struct{}

func (stopSearchError) Error() string { return "stop search: upper bound reached" }

// --- shared helpers -------------------------------------------------

// expandedFreqs resolves opts.Freqs (one multiplicity per element of V)
// into the expanded slot->kind list the engine works over, or nil for
// non-multiset requests.
func expandedFreqs(opts Options) []int {
	if opts.Freqs == nil {
		return nil
	}
	return expandFreqs(opts.Freqs)
}

func buildRequest(opts Options, v []float64, freqs []int) (engine.Request, error) {
	family := opts.family()
	m := opts.M
	if !opts.MProvided && freqs != nil {
		m = len(freqs)
	}
	req, err := engine.Resolve(family, len(v), m, freqs)
	if err != nil {
		return engine.Request{}, invalidInput("m", err.Error())
	}
	return req, nil
}

// mapRow converts an index tuple z (engine convention: slot indices for
// every family except PermMultiset, which uses kind values directly) into
// the caller's value domain.
func mapRow(family engine.Family, v []float64, freqs []int, z []int) []float64 {
	out := make([]float64, len(z))
	for i, idx := range z {
		if family == engine.CombMultiset {
			out[i] = v[freqs[idx]]
		} else {
			out[i] = v[idx]
		}
	}
	return out
}

func (o Options) effectiveM() int {
	if !o.MProvided && o.Freqs != nil {
		return len(expandFreqs(o.Freqs))
	}
	return o.M
}

// sortAscending stably sorts v ascending, carrying its aligned per-value
// multiplicity vector reps along when present.
func sortAscending(v []float64, reps []int) ([]float64, []int) {
	type pair struct {
		v float64
		r int
	}
	pairs := make([]pair, len(v))
	for i, x := range v {
		r := 0
		if reps != nil {
			r = reps[i]
		}
		pairs[i] = pair{x, r}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].v < pairs[j].v })
	outV := make([]float64, len(v))
	var outR []int
	if reps != nil {
		outR = make([]int, len(v))
	}
	for i, p := range pairs {
		outV[i] = p.v
		if reps != nil {
			outR[i] = p.r
		}
	}
	return outV, outR
}

func reverseVals(v []float64, reps []int) ([]float64, []int) {
	n := len(v)
	outV := make([]float64, n)
	var outR []int
	if reps != nil {
		outR = make([]int, n)
	}
	for i := 0; i < n; i++ {
		outV[i] = v[n-1-i]
		if reps != nil {
			outR[i] = reps[n-1-i]
		}
	}
	return outV, outR
}

func validateOptions(opts *Options) error {
	if len(opts.V) == 0 {
		return invalidInput("v", "v must be non-empty")
	}
	if opts.Freqs != nil {
		if len(opts.Freqs) != len(opts.V) {
			return invalidInput("freqs", "freqs must have one entry per element of v")
		}
		for _, r := range opts.Freqs {
			if r < 1 {
				return invalidInput("freqs", "freqs must be positive")
			}
		}
	}
	if opts.MProvided && opts.M < 1 {
		return invalidInput("m", "m must be >= 1")
	}
	if !opts.MProvided && opts.Freqs == nil && !(opts.hasConstraint() && opts.Fun == Sum) {
		return invalidInput("m", "m is required unless freqs is set or the request is a width-maximised partition")
	}
	if opts.hasConstraint() && !opts.Kind.Arithmetic() {
		return unsupported("v", "limit constraints are not supported for %s base sequences", opts.Kind)
	}
	if opts.KeepResult && !opts.HasFun {
		return invalidInput("keep_result", "keep_result requires fun")
	}
	if opts.Tolerance < 0 {
		return invalidInput("tolerance", "tolerance must be non-negative")
	}
	if opts.hasConstraint() && opts.Tolerance == 0 {
		if opts.Fun == Mean || !integralValues(opts.V) {
			opts.Tolerance = defaultTolerance
		}
	}
	return nil
}

// defaultTolerance widens double/mean equality comparisons when the
// caller does not supply one; integral inputs with an exact aggregate
// keep zero tolerance.
const defaultTolerance = 1e-8

func integralValues(v []float64) bool {
	for _, x := range v {
		if x != math.Trunc(x) {
			return false
		}
	}
	return true
}
