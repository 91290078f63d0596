// Command arrange exposes the arrangements library on the command line:
// count the enumeration, print a slice of it, or look up a single rank.
//
//	arrange count --v 1:20 --m 10 --comb
//	arrange generate --v 1:10 --m 3 --comb --fun sum --comparison == --target 15
//	arrange nth --v 0:3 --m 3 --rep --index 43
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/go-arrangements/arrangements"
	"github.com/go-arrangements/arrangements/internal/telemetry"
)

type flags struct {
	v          string
	m          int
	comb       bool
	rep        bool
	freqs      []int
	lower      int64
	upper      int64
	fun        string
	comparison []string
	target     []float64
	tolerance  float64
	keepResult bool
	parallel   bool
	nThreads   int
	verbose    bool
}

func main() {
	f := &flags{}

	root := &cobra.Command{
		Use:           "arrange",
		Short:         "Enumerate combinations, permutations, and partitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if f.verbose {
				telemetry.Log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.v, "v", "", `base sequence: "1:10" or "1,2,5,7"`)
	pf.IntVar(&f.m, "m", 0, "tuple width (omit with --freqs for the full multiset)")
	pf.BoolVar(&f.comb, "comb", false, "combinations instead of permutations")
	pf.BoolVar(&f.rep, "rep", false, "allow repeated elements")
	pf.IntSliceVar(&f.freqs, "freqs", nil, "per-element multiplicities (multiset mode)")
	pf.StringVar(&f.fun, "fun", "", "aggregate: sum, prod, mean, max, min")
	pf.StringSliceVar(&f.comparison, "comparison", nil, "one or two of <, <=, >, >=, ==")
	pf.Float64SliceVar(&f.target, "target", nil, "one or two comparison limits")
	pf.Float64Var(&f.tolerance, "tolerance", 0, "equality tolerance for doubles")
	pf.BoolVar(&f.verbose, "verbose", false, "log engine decisions")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Print the enumeration (or a rank slice of it) as rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			mat, err := arrangements.Combinatorics(opts)
			if err != nil {
				return err
			}
			for r := 0; r < mat.Rows; r++ {
				fmt.Println(formatRow(mat.Row(r)))
			}
			return nil
		},
	}
	gf := generate.Flags()
	gf.Int64Var(&f.lower, "lower", 0, "1-based first rank to emit")
	gf.Int64Var(&f.upper, "upper", 0, "1-based last rank to emit")
	gf.BoolVar(&f.keepResult, "keep-result", false, "append the aggregate as a trailing column")
	gf.BoolVar(&f.parallel, "parallel", false, "enumerate stripes on worker goroutines")
	gf.IntVar(&f.nThreads, "n-threads", 0, "worker count (0 = GOMAXPROCS)")

	count := &cobra.Command{
		Use:   "count",
		Short: "Print the exact cardinality of the request",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			n, err := arrangements.Count(opts)
			if err != nil {
				return err
			}
			if n.IsBig() {
				fmt.Println(n.BigInt().String())
			} else {
				fmt.Println(strconv.FormatFloat(n.Float64(), 'f', -1, 64))
			}
			return nil
		},
	}

	var index int64
	nth := &cobra.Command{
		Use:   "nth",
		Short: "Print the tuple at a single 1-based rank",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			row, err := arrangements.Nth(opts, index)
			if err != nil {
				return err
			}
			fmt.Println(formatRow(row))
			return nil
		},
	}
	nth.Flags().Int64Var(&index, "index", 1, "1-based rank to look up")

	root.AddCommand(generate, count, nth)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "arrange:", err)
		os.Exit(1)
	}
}

// options converts the raw flag values into an arrangements.Options,
// leaving all semantic validation to the library boundary.
func (f *flags) options() (arrangements.Options, error) {
	v, allIntegral, err := parseSequence(f.v)
	if err != nil {
		return arrangements.Options{}, err
	}
	opts := arrangements.Options{
		V:         v,
		IsComb:    f.comb,
		Rep:       f.rep,
		Tolerance: f.tolerance,
		Parallel:  f.parallel,
		NThreads:  f.nThreads,
	}
	if allIntegral {
		opts.Kind = arrangements.Integer
	} else {
		opts.Kind = arrangements.Double
	}
	if f.m > 0 {
		opts.M = f.m
		opts.MProvided = true
	}
	if len(f.freqs) > 0 {
		opts.Freqs = f.freqs
	}
	if f.lower > 0 {
		opts.Lower = &f.lower
	}
	if f.upper > 0 {
		opts.Upper = &f.upper
	}
	if f.fun != "" {
		agg, err := parseAggregate(f.fun)
		if err != nil {
			return arrangements.Options{}, err
		}
		opts.Fun = agg
		opts.HasFun = true
		opts.KeepResult = f.keepResult
	}
	for _, tok := range f.comparison {
		op, err := arrangements.ParseCompOp(tok)
		if err != nil {
			return arrangements.Options{}, err
		}
		opts.Comparison = append(opts.Comparison, op)
	}
	opts.Target = f.target
	return opts, nil
}

func parseAggregate(name string) (arrangements.Aggregate, error) {
	switch name {
	case "sum":
		return arrangements.Sum, nil
	case "prod":
		return arrangements.Prod, nil
	case "mean":
		return arrangements.Mean, nil
	case "max":
		return arrangements.Max, nil
	case "min":
		return arrangements.Min, nil
	default:
		return 0, fmt.Errorf("unknown aggregate %q", name)
	}
}

// parseSequence accepts either an inclusive "lo:hi" range or a
// comma-separated value list, and reports whether every value is an exact
// integer.
func parseSequence(s string) ([]float64, bool, error) {
	if s == "" {
		return nil, false, fmt.Errorf("--v is required")
	}
	if lo, hi, ok := strings.Cut(s, ":"); ok {
		start, err := strconv.ParseInt(lo, 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("bad range start %q", lo)
		}
		end, err := strconv.ParseInt(hi, 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("bad range end %q", hi)
		}
		if end < start {
			return nil, false, fmt.Errorf("range %q is empty", s)
		}
		out := make([]float64, 0, end-start+1)
		for x := start; x <= end; x++ {
			out = append(out, float64(x))
		}
		return out, true, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	allIntegral := true
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false, fmt.Errorf("bad value %q", p)
		}
		out[i] = x
		if x != float64(int64(x)) {
			allIntegral = false
		}
	}
	return out, allIntegral, nil
}

func formatRow(row []float64) string {
	parts := make([]string, len(row))
	for i, x := range row {
		parts[i] = strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}
