package partition

import "github.com/go-arrangements/arrangements/internal/bignum"

// boundedSolver counts and constructs length-k sequences of integers drawn
// from [low, high], non-decreasing (or, when distinct is set, strictly
// increasing), summing to a target. This single recurrence is the counting
// engine behind every PartitionType except Multiset:
// RepStdAll/RepNoZero/RepShort/RepCapped set distinct=false and vary
// low/high; DstctStdAll/DstctShort/DstctSpecial/DstctOneZero/
// DstctNoZero/DistCapped set distinct=true and vary low/high the same
// way. The shapes differ only in which part values are allowed and
// whether repeats are permitted, never in the shape of the recurrence
// itself.
//
// count and construct are two views of the same recursion, mirroring how
// engine.Count and engine.Unrank share the combinatorial-number-system
// recurrence for combinations: construct descends exactly the way
// engine.Unrank does, trying the smallest legal next value first and using
// count to decide whether the target rank falls within that choice's block
// or must be skipped past it.
type boundedSolver struct {
	high     int
	distinct bool
	memo     map[[3]int]bignum.Number
}

func newBoundedSolver(high int, distinct bool) *boundedSolver {
	return &boundedSolver{high: high, distinct: distinct, memo: make(map[[3]int]bignum.Number)}
}

func minAchievable(low, parts int, distinct bool) int {
	if parts <= 0 {
		return 0
	}
	if distinct {
		return parts*low + parts*(parts-1)/2
	}
	return parts * low
}

func maxAchievable(high, parts int, distinct bool) int {
	if parts <= 0 {
		return 0
	}
	if distinct {
		return parts*high - parts*(parts-1)/2
	}
	return parts * high
}

// count returns the number of length-partsLeft sequences with values in
// [low, s.high] (non-decreasing, or strictly increasing if s.distinct)
// summing to remTarget.
func (s *boundedSolver) count(remTarget, partsLeft, low int) bignum.Number {
	if partsLeft == 0 {
		if remTarget == 0 {
			return bignum.FromInt64(1)
		}
		return bignum.FromInt64(0)
	}
	if remTarget < 0 || low > s.high {
		return bignum.FromInt64(0)
	}
	if remTarget < minAchievable(low, partsLeft, s.distinct) || remTarget > maxAchievable(s.high, partsLeft, s.distinct) {
		return bignum.FromInt64(0)
	}

	key := [3]int{remTarget, partsLeft, low}
	if v, ok := s.memo[key]; ok {
		return v
	}

	total := bignum.FromInt64(0)
	for x := low; x <= s.high; x++ {
		nextLow := x
		if s.distinct {
			nextLow = x + 1
		}
		total = total.Add(s.count(remTarget-x, partsLeft-1, nextLow))
	}
	s.memo[key] = total
	return total
}

// construct writes the rank-th (0-based, in the same order count assigns
// blocks) sequence into dst, which must have length partsLeft.
func (s *boundedSolver) construct(remTarget, partsLeft, low int, rank bignum.Number, dst []int) {
	for x := low; x <= s.high && partsLeft > 0; x++ {
		nextLow := x
		if s.distinct {
			nextLow = x + 1
		}
		c := s.count(remTarget-x, partsLeft-1, nextLow)
		if c.Cmp(rank) > 0 {
			dst[0] = x
			s.construct(remTarget-x, partsLeft-1, nextLow, rank, dst[1:])
			return
		}
		rank = rank.Sub(c)
	}
}

// multisetSolver is the Multiset PartitionType's counterpart: it counts and
// constructs length-k non-decreasing sequences of *kind values* drawn from
// vals[0], vals[1], ... in order, each kind i usable at most reps[i] times,
// summing to a target. It is the sum-constrained analogue of
// engine.countMultisetCombination/unrankCombMultiset.
type multisetSolver struct {
	vals []int
	reps []int
	memo map[[3]int]bignum.Number
}

func newMultisetSolver(vals, reps []int) *multisetSolver {
	return &multisetSolver{vals: vals, reps: reps, memo: make(map[[3]int]bignum.Number)}
}

func (s *multisetSolver) count(startIdx, partsLeft, remTarget int) bignum.Number {
	if partsLeft == 0 {
		if remTarget == 0 {
			return bignum.FromInt64(1)
		}
		return bignum.FromInt64(0)
	}
	if startIdx >= len(s.vals) || remTarget < 0 {
		return bignum.FromInt64(0)
	}
	key := [3]int{startIdx, partsLeft, remTarget}
	if v, ok := s.memo[key]; ok {
		return v
	}
	total := bignum.FromInt64(0)
	for take := 0; take <= s.reps[startIdx] && take <= partsLeft; take++ {
		total = total.Add(s.count(startIdx+1, partsLeft-take, remTarget-take*s.vals[startIdx]))
	}
	s.memo[key] = total
	return total
}

func (s *multisetSolver) construct(startIdx, partsLeft, remTarget int, rank bignum.Number, dst []int) {
	if partsLeft == 0 {
		return
	}
	// More copies of the current (smallest remaining) value give a
	// lexicographically smaller sequence, so blocks are visited from the
	// largest take down.
	for take := min(s.reps[startIdx], partsLeft); take >= 0; take-- {
		c := s.count(startIdx+1, partsLeft-take, remTarget-take*s.vals[startIdx])
		if c.Cmp(rank) > 0 {
			for i := 0; i < take; i++ {
				dst[i] = s.vals[startIdx]
			}
			s.construct(startIdx+1, partsLeft-take, remTarget-take*s.vals[startIdx], rank, dst[take:])
			return
		}
		rank = rank.Sub(c)
	}
}
