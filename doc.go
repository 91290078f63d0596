// Package arrangements is a high-performance enumeration engine for
// combinations, permutations, and integer partitions over finite
// sequences.
//
// Given a base sequence of values, a tuple width, and optional
// repetition/multiset rules, it produces: the full lexicographic
// enumeration as a dense row-major Matrix; a contiguous rank-bounded slice
// of that enumeration; the exact cardinality (Count); the k-th tuple at an
// arbitrary rank (Nth); or a stateful iterator (Cursor). It additionally
// supports applying an aggregate constraint (sum, product, mean, min, max
// combined with one or two comparisons and targets), returning only the
// rows whose aggregate satisfies it, with a dedicated fast path for
// constraints that reduce to an integer partition.
//
// The main entry points are Combinatorics, Count, Nth, and NewCursor;
// NthBig, Apply, and DescribePartition cover ranks beyond int64, per-row
// functions, and partition introspection. See Options for the full set of
// recognised request fields.
package arrangements
