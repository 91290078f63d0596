package arrangements

import (
	"github.com/go-arrangements/arrangements/internal/engine"
	"github.com/go-arrangements/arrangements/internal/value"
)

// Aggregate re-exports engine.Aggregate: one of "sum", "prod", "mean",
// "max", "min".
type Aggregate = engine.Aggregate

const (
	Sum  = engine.AggSum
	Prod = engine.AggProd
	Mean = engine.AggMean
	Max  = engine.AggMax
	Min  = engine.AggMin
)

// CompOp is one of the five recognised comparison directions. Legacy
// "=<"/"=>" tokens are normalised to Le/Ge during request parsing
// (ParseCompOp), never reaching this type directly.
type CompOp = engine.CompOp

const (
	Lt CompOp = engine.LT
	Le CompOp = engine.LE
	Gt CompOp = engine.GT
	Ge CompOp = engine.GE
	Eq CompOp = engine.EQ
)

// ParseCompOp normalises a raw comparison token, including the legacy
// "=<"/"=>" aliases.
func ParseCompOp(token string) (CompOp, error) {
	switch token {
	case "<":
		return Lt, nil
	case "<=", "=<":
		return Le, nil
	case ">":
		return Gt, nil
	case ">=", "=>":
		return Ge, nil
	case "==":
		return Eq, nil
	default:
		return 0, invalidInput("comparison", "unrecognised comparison token %q", token)
	}
}

// Kind re-exports value.Kind: the element type of the base sequence V.
type Kind = value.Kind

const (
	Integer   = value.Integer
	Double    = value.Double
	Logical   = value.Logical
	Raw       = value.Raw
	Complex   = value.Complex
	Character = value.Character
)

// Options is the public request record every entry point accepts.
type Options struct {
	// V is the base sequence. Kind's zero value is Integer. Integer and
	// Double are handled alike: both allow Fun/Comparison/Target, and
	// partition recognition checks the values of V themselves for
	// integrality. The opaque kinds (Logical, Raw, Complex, Character)
	// are for pure-enumeration calls that never use Fun/Comparison/Target.
	V    []float64
	Kind Kind

	// M is the tuple width. MProvided distinguishes an explicit M of 0
	// (invalid) from "absent", which is only legal alongside Freqs
	// (defaults to the sum of Freqs) or a width-maximised partition
	// request.
	M         int
	MProvided bool

	IsComb bool // combinations vs permutations
	Rep    bool // repetition allowed

	// Freqs, when non-nil, has one positive entry per element of V and
	// switches to the multiset family.
	Freqs []int

	// Lower/Upper are 1-based rank bounds restricting the result to a
	// contiguous slice. Both nil means "the whole enumeration".
	Lower, Upper *int64

	// Fun/Comparison/Target describe an aggregate constraint. Comparison
	// holds one or two ops (normalised through ParseCompOp when parsed
	// from raw tokens).
	Fun        Aggregate
	HasFun     bool
	Comparison []CompOp
	Target     []float64

	// Tolerance widens equality comparisons on doubles. Zero means "use
	// the default": exact comparison for integral V with Fun != Mean, a
	// small epsilon otherwise.
	Tolerance float64

	// KeepResult appends the aggregate value as a trailing matrix column.
	// Requires HasFun.
	KeepResult bool

	// Parallel/NThreads control dense-enumeration dispatch across worker
	// goroutines.
	// NThreads <= 0 uses runtime.GOMAXPROCS(0).
	Parallel bool
	NThreads int
}

// family resolves the combination/permutation Family this request
// describes.
func (o Options) family() engine.Family {
	switch {
	case o.Freqs != nil && o.IsComb:
		return engine.CombMultiset
	case o.Freqs != nil:
		return engine.PermMultiset
	case o.IsComb && o.Rep:
		return engine.CombRep
	case o.IsComb:
		return engine.CombNoRep
	case o.Rep:
		return engine.PermRep
	default:
		return engine.PermNoRep
	}
}

// expandFreqs turns the per-value multiplicity vector Freqs into the
// expanded, kind-sorted slot list engine.Request/partition.Request
// expect: kind 0 repeated reps[0] times, kind 1 repeated reps[1] times,
// and so on.
func expandFreqs(reps []int) []int {
	total := 0
	for _, r := range reps {
		total += r
	}
	out := make([]int, 0, total)
	for k, r := range reps {
		for i := 0; i < r; i++ {
			out = append(out, k)
		}
	}
	return out
}

// hasConstraint reports whether this request carries an aggregate
// constraint to filter rows by (as opposed to merely a keep_result
// column).
func (o Options) hasConstraint() bool {
	return o.HasFun && len(o.Comparison) > 0 && len(o.Target) > 0
}
