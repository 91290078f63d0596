// Package partition implements the special-case integer-partition
// recognition and enumeration subsystem: recognising
// when a sum-equality constraint over an arithmetic base sequence
// reduces to one of the canonical partition shapes, and dispatching a
// dedicated ranked enumerator instead of the general constraint search in
// package engine.
package partition

import "github.com/go-arrangements/arrangements/internal/bignum"

// Count is the partition package's alias for the shared Small/Big
// cardinality representation.
type Count = bignum.Number

// ConstraintType classifies how directly a request maps onto an integer
// partition problem.
type ConstraintType int

const (
	General        ConstraintType = iota + 1 // cannot be reduced to a partition case
	PartitionEsque                           // subset-sum-shaped but not integer partitions
	PartMapping                              // reduces to a partition after an affine remap of v
	PartStandard                             // v is already 0, 1, ..., n-1 (Shift 0, Slope 1); no remap needed
)

// PartitionType is one of the canonical partition shapes produced by
// Recognize, distinguished by whether zero is allowed, whether parts are
// distinct, whether the width is maximised, and whether a cap binds.
type PartitionType int

const (
	NotPartition PartitionType = iota
	RepStdAll                  // all partitions of target, zero allowed, width maximised
	RepNoZero                  // exactly m positive parts, repetition allowed
	RepShort                   // as RepStdAll but width fixed and smaller than the maximum
	RepCapped                  // m parts from a bounded range, repetition allowed
	DstctStdAll                // all partitions into distinct parts, zero allowed, width maximised
	DstctShort                 // as DstctStdAll but width fixed
	DstctSpecial               // distinct parts, a non-zero-maximising start vector
	DstctOneZero               // distinct parts, at most one zero
	DstctNoZero                // exactly m distinct positive parts
	DistCapped                 // m distinct parts from a bounded range
	Multiset                   // partitions drawn from a non-trivial multiset
)

func (t PartitionType) String() string {
	switch t {
	case RepStdAll:
		return "RepStdAll"
	case RepNoZero:
		return "RepNoZero"
	case RepShort:
		return "RepShort"
	case RepCapped:
		return "RepCapped"
	case DstctStdAll:
		return "DstctStdAll"
	case DstctShort:
		return "DstctShort"
	case DstctSpecial:
		return "DstctSpecial"
	case DstctOneZero:
		return "DstctOneZero"
	case DstctNoZero:
		return "DstctNoZero"
	case DistCapped:
		return "DistCapped"
	case Multiset:
		return "Multiset"
	default:
		return "NotPartition"
	}
}

// PartDesign is the populated descriptor returned by Recognize and
// exposed verbatim by the public DescribePartition entry point.
type PartDesign struct {
	Width        int
	MapTar       int // mapped target value, in the 0/1-based alphabet used internally
	Count        Count
	IsRep        bool
	IsMult       bool
	MIsNull      bool // true when the caller omitted m and it was inferred
	SolnExist    bool
	MapZeroFirst bool
	StartZ       []int
	Shift        int64 // original = Shift + Slope*mapped
	Slope        int64
	Target       int64 // original (unmapped) target
	CType        ConstraintType
	PType        PartitionType

	// MinPart/MaxPart/Cap describe the internal mapped alphabet the
	// enumerator in enumerate.go walks; Cap == 0 means uncapped.
	MinPart int
	MaxPart int
	Cap     int

	// Values/Reps are populated only for PType == Multiset: the distinct
	// values (already shift/slope-mapped to integers) and their per-kind
	// multiplicities.
	Values []int
	Reps   []int
}
