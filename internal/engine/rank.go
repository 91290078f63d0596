package engine

import (
	"github.com/go-arrangements/arrangements/internal/bignum"
	"github.com/go-arrangements/arrangements/internal/kindpart"
)

// Unrank builds the index tuple z at the given 0-based rank.
// For permutation families the returned tuple has length req.M; the
// "remaining indices" state needed to resume successor calls is
// reconstructed by successor.go from z itself plus req, so no extra state
// needs to be returned here.
func Unrank(req Request, rank bignum.Number) []int {
	switch req.Family {
	case CombNoRep:
		return unrankCombNoRep(req.N, req.M, rank)
	case CombRep:
		return unrankCombRep(req.N, req.M, rank)
	case PermNoRep:
		return unrankPermNoRep(req.N, req.M, rank)
	case PermRep:
		return unrankPermRep(req.N, req.M, rank)
	case CombMultiset:
		return unrankCombMultiset(req.Freqs, req.M, rank)
	case PermMultiset:
		return unrankPermMultiset(req.Freqs, req.M, rank)
	default:
		return nil
	}
}

// Rank computes the 0-based lexicographic position of z, the inverse of
// Unrank.
func Rank(req Request, z []int) bignum.Number {
	switch req.Family {
	case CombNoRep:
		return rankCombNoRep(req.N, req.M, z)
	case CombRep:
		return rankCombRep(req.N, req.M, z)
	case PermNoRep:
		return rankPermNoRep(req.N, z)
	case PermRep:
		return rankPermRep(req.N, z)
	case CombMultiset:
		return rankCombMultiset(req.Freqs, z)
	case PermMultiset:
		return rankPermMultiset(req.Freqs, z)
	default:
		return bignum.FromInt64(0)
	}
}

func unrankCombNoRep(n, m int, rank bignum.Number) []int {
	z := make([]int, m)
	remaining := rank
	x := 0
	for j := 0; j < m; j++ {
		for {
			c := binomial(n-x-1, m-j-1)
			if c.Cmp(remaining) > 0 {
				break
			}
			remaining = remaining.Sub(c)
			x++
		}
		z[j] = x
		x++
	}
	return z
}

func rankCombNoRep(n, m int, z []int) bignum.Number {
	rank := bignum.FromInt64(0)
	prev := -1
	for j := 0; j < m; j++ {
		for x := prev + 1; x < z[j]; x++ {
			rank = rank.Add(binomial(n-x-1, m-j-1))
		}
		prev = z[j]
	}
	return rank
}

func unrankCombRep(n, m int, rank bignum.Number) []int {
	z := make([]int, m)
	remaining := rank
	x := 0
	for j := 0; j < m; j++ {
		for {
			c := suffixCountCombRep(n, x, m-j-1)
			if c.Cmp(remaining) > 0 {
				break
			}
			remaining = remaining.Sub(c)
			x++
		}
		z[j] = x
	}
	return z
}

// suffixCountCombRep counts the number of non-decreasing length-`rem`
// suffixes drawable from an alphabet of size n-x (values in [x, n)).
func suffixCountCombRep(n, x, rem int) bignum.Number {
	alphabet := n - x
	if alphabet <= 0 {
		if rem == 0 {
			return bignum.FromInt64(1)
		}
		return bignum.FromInt64(0)
	}
	return binomial(alphabet+rem-1, rem)
}

func rankCombRep(n, m int, z []int) bignum.Number {
	rank := bignum.FromInt64(0)
	prev := 0
	for j := 0; j < m; j++ {
		for x := prev; x < z[j]; x++ {
			rank = rank.Add(suffixCountCombRep(n, x, m-j-1))
		}
		prev = z[j]
	}
	return rank
}

func unrankPermNoRep(n, m int, rank bignum.Number) []int {
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	z := make([]int, m)
	rem := rank
	for j := 0; j < m; j++ {
		suffix := fallingFactorial(len(remaining)-1, m-j-1)
		q, r := rem.DivMod(suffix)
		idx := int(q.Float64())
		z[j] = remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		rem = r
	}
	return z
}

func rankPermNoRep(n int, z []int) bignum.Number {
	m := len(z)
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	rank := bignum.FromInt64(0)
	for j := 0; j < m; j++ {
		idx := indexOf(remaining, z[j])
		suffix := fallingFactorial(len(remaining)-1, m-j-1)
		rank = rank.Add(bignum.FromInt64(int64(idx)).Mul(suffix))
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return rank
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func unrankPermRep(n, m int, rank bignum.Number) []int {
	z := make([]int, m)
	tmp := rank
	base := bignum.FromInt64(int64(n))
	for j := m - 1; j >= 0; j-- {
		q, r := tmp.DivMod(base)
		z[j] = int(r.Float64())
		tmp = q
	}
	return z
}

func rankPermRep(n int, z []int) bignum.Number {
	rank := bignum.FromInt64(0)
	base := bignum.FromInt64(int64(n))
	for _, digit := range z {
		rank = rank.Mul(base).Add(bignum.FromInt64(int64(digit)))
	}
	return rank
}

// unrankCombMultiset mirrors unrankCombNoRep/unrankCombRep: at each
// position it tries successive kinds k (never decreasing from the
// previously chosen kind, since multiset combinations read as
// freqs[z[j]] must be non-decreasing), tentatively draws one item of kind
// k and asks how many ways the remaining m-j-1 slots could be filled from
// what is left at kind k or later; if that count exceeds the residual
// rank the draw is kept, otherwise it is undone and subtracted from the
// residual rank before trying the next kind.
func unrankCombMultiset(freqs []int, m int, rank bignum.Number) []int {
	reps := repsFromFreqs(freqs)
	avail := append([]int(nil), reps...)
	kinds := make([]int, m)
	remaining := rank
	startKind := 0
	for j := 0; j < m; j++ {
		for k := startKind; k < len(avail); k++ {
			if avail[k] == 0 {
				continue
			}
			avail[k]--
			c := countMultisetCombination(expandReps(avail[k:]), m-j-1)
			if c.Cmp(remaining) > 0 {
				kinds[j] = k
				startKind = k
				break
			}
			avail[k]++
			remaining = remaining.Sub(c)
		}
	}
	return kindsToSlotIndices(freqs, kinds)
}

// expandReps turns a per-kind multiplicity slice back into an (unsorted
// but count-equivalent) expanded list suitable for countMultisetCombination,
// which only inspects multiplicities via repsFromFreqs-compatible input;
// since that helper only cares about run-lengths of equal adjacent values,
// we synthesize a trivially-sorted expansion here.
func expandReps(reps []int) []int {
	out := make([]int, 0)
	for k, r := range reps {
		for i := 0; i < r; i++ {
			out = append(out, k)
		}
	}
	return out
}

// kindsToSlotIndices maps a length-m sequence of kind indices to slot
// indices into freqs (the first not-yet-used slot of that kind), the
// canonical z representation for multiset combinations. The per-kind slot
// lists are built with kindpart.GroupByKind, a single-pass counting
// grouping of slots by kind.
func kindsToSlotIndices(freqs []int, kinds []int) []int {
	numKinds := 0
	for _, k := range freqs {
		if k+1 > numKinds {
			numKinds = k + 1
		}
	}
	grouped := kindpart.GroupByKind(len(freqs), numKinds, func(i int) int { return freqs[i] })

	used := make([]int, numKinds)
	z := make([]int, len(kinds))
	for i, k := range kinds {
		z[i] = grouped.Block(k)[used[k]]
		used[k]++
	}
	return z
}

func rankCombMultiset(freqs []int, z []int) bignum.Number {
	kinds := slotIndicesToKinds(freqs, z)
	reps := repsFromFreqs(freqs)
	m := len(z)
	avail := append([]int(nil), reps...)
	rank := bignum.FromInt64(0)
	kindCursor := 0
	for j := 0; j < m; j++ {
		for kindCursor < kinds[j] {
			if avail[kindCursor] > 0 {
				avail[kindCursor]--
				rank = rank.Add(countMultisetCombination(expandReps(avail[kindCursor:]), m-j-1))
				avail[kindCursor]++
			}
			kindCursor++
		}
		avail[kinds[j]]--
	}
	return rank
}

func slotIndicesToKinds(freqs []int, z []int) []int {
	kinds := make([]int, len(z))
	for i, slot := range z {
		kinds[i] = freqs[slot]
	}
	return kinds
}

// unrankPermMultiset picks, at each position, the kind k such that the
// count of suffixes starting with k strictly exceeds the residual rank,
// then decrements that kind's remaining supply.
func unrankPermMultiset(freqs []int, m int, rank bignum.Number) []int {
	reps := repsFromFreqs(freqs)
	avail := append([]int(nil), reps...)
	kinds := make([]int, m)
	remaining := rank
	for j := 0; j < m; j++ {
		for k := 0; k < len(avail); k++ {
			if avail[k] == 0 {
				continue
			}
			avail[k]--
			c := countMultisetPartialPermutation(avail, m-j-1)
			avail[k]++
			if c.Cmp(remaining) > 0 {
				avail[k]--
				kinds[j] = k
				break
			}
			remaining = remaining.Sub(c)
		}
	}
	return kinds
}

func rankPermMultiset(freqs []int, z []int) bignum.Number {
	kinds := z
	reps := repsFromFreqs(freqs)
	avail := append([]int(nil), reps...)
	m := len(z)
	rank := bignum.FromInt64(0)
	for j := 0; j < m; j++ {
		for k := 0; k < kinds[j]; k++ {
			if avail[k] == 0 {
				continue
			}
			avail[k]--
			rank = rank.Add(countMultisetPartialPermutation(avail, m-j-1))
			avail[k]++
		}
		avail[kinds[j]]--
	}
	return rank
}
