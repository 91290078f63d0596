package engine

import "github.com/go-arrangements/arrangements/internal/bignum"

// Count computes the exact cardinality of the family described by req.
// The result stays in float64 while exact and transparently promotes to
// arbitrary precision on overflow.
func Count(req Request) bignum.Number {
	switch req.Family {
	case CombNoRep:
		return binomial(req.N, req.M)
	case CombRep:
		return binomial(req.N+req.M-1, req.M)
	case PermNoRep:
		return fallingFactorial(req.N, req.M)
	case PermRep:
		return power(req.N, req.M)
	case CombMultiset:
		return countMultisetCombination(req.Freqs, req.M)
	case PermMultiset:
		reps := repsFromFreqs(req.Freqs)
		if req.M == len(req.Freqs) {
			return countMultisetFullPermutation(reps)
		}
		return countMultisetPartialPermutation(reps, req.M)
	default:
		return bignum.FromInt64(0)
	}
}

// binomial computes C(n, k) via the standard multiplicative recurrence,
// promoting to BigInt the moment the running value would exceed
// bignum.MaxExact.
func binomial(n, k int) bignum.Number {
	if k < 0 || k > n {
		return bignum.FromInt64(0)
	}
	if k > n-k {
		k = n - k
	}
	result := bignum.FromInt64(1)
	for i := 0; i < k; i++ {
		result = result.Mul(bignum.FromInt64(int64(n - i)))
		q, _ := result.DivMod(bignum.FromInt64(int64(i + 1)))
		result = q
	}
	return result
}

// fallingFactorial computes n*(n-1)*...*(n-m+1).
func fallingFactorial(n, m int) bignum.Number {
	result := bignum.FromInt64(1)
	for i := 0; i < m; i++ {
		result = result.Mul(bignum.FromInt64(int64(n - i)))
	}
	return result
}

// power computes n^m via repeated squaring-free iterative multiplication
// (m is always small relative to realistic row counts, so no need for
// exponentiation by squaring here).
func power(n, m int) bignum.Number {
	result := bignum.FromInt64(1)
	base := bignum.FromInt64(int64(n))
	for i := 0; i < m; i++ {
		result = result.Mul(base)
	}
	return result
}

// factorial computes n!.
func factorial(n int) bignum.Number {
	result := bignum.FromInt64(1)
	for i := 2; i <= n; i++ {
		result = result.Mul(bignum.FromInt64(int64(i)))
	}
	return result
}

// repsFromFreqs recovers the per-kind multiplicities from an expanded,
// sorted frequency list.
func repsFromFreqs(freqs []int) []int {
	if len(freqs) == 0 {
		return nil
	}
	reps := []int{1}
	for i := 1; i < len(freqs); i++ {
		if freqs[i] == freqs[i-1] {
			reps[len(reps)-1]++
		} else {
			reps = append(reps, 1)
		}
	}
	return reps
}

// countMultisetCombination counts length-m combinations from a multiset
// with per-kind multiplicities recovered from freqs: f(i, s) is the
// number of ways to choose s items from the first i distinct kinds
// respecting reps[0..i].
func countMultisetCombination(freqs []int, m int) bignum.Number {
	reps := repsFromFreqs(freqs)
	kinds := len(reps)
	total := len(freqs)
	if m > total {
		return bignum.FromInt64(0)
	}

	// f[s] after processing kinds 0..i-1
	f := make([]bignum.Number, m+1)
	f[0] = bignum.FromInt64(1)
	for s := 1; s <= m; s++ {
		f[s] = bignum.FromInt64(0)
	}

	for i := 0; i < kinds; i++ {
		next := make([]bignum.Number, m+1)
		for s := 0; s <= m; s++ {
			next[s] = bignum.FromInt64(0)
		}
		for s := 0; s <= m; s++ {
			if f[s].Cmp(bignum.FromInt64(0)) == 0 {
				continue
			}
			for take := 0; take <= reps[i] && s+take <= m; take++ {
				next[s+take] = next[s+take].Add(f[s])
			}
		}
		f = next
	}
	return f[m]
}

// countMultisetFullPermutation counts arrangements of the whole multiset:
// (sum reps)! / prod(reps[i]!).
func countMultisetFullPermutation(reps []int) bignum.Number {
	total := 0
	for _, r := range reps {
		total += r
	}
	result := factorial(total)
	for _, r := range reps {
		q, _ := result.DivMod(factorial(r))
		result = q
	}
	return result
}

// countMultisetPartialPermutation counts length-m permutations drawn from
// a multiset, via a length-m DP marginalising over each kind's usage from
// 0 to reps[i].
func countMultisetPartialPermutation(reps []int, m int) bignum.Number {
	kinds := len(reps)
	total := 0
	for _, r := range reps {
		total += r
	}
	if m > total {
		return bignum.FromInt64(0)
	}

	// dp[used] = number of ways to arrange `used` slots with kinds
	// processed so far, counting arrangements (not just selections): each
	// new kind with count c contributes a multinomial-style fold.
	dp := make([]bignum.Number, m+1)
	dp[0] = bignum.FromInt64(1)
	for s := 1; s <= m; s++ {
		dp[s] = bignum.FromInt64(0)
	}

	for i := 0; i < kinds; i++ {
		next := make([]bignum.Number, m+1)
		for s := 0; s <= m; s++ {
			next[s] = bignum.FromInt64(0)
		}
		for used := 0; used <= m; used++ {
			if dp[used].Cmp(bignum.FromInt64(0)) == 0 {
				continue
			}
			maxTake := reps[i]
			for take := 0; take <= maxTake && used+take <= m; take++ {
				// Ways to interleave `take` identical new items into a
				// sequence that already has `used` arranged slots and will
				// have used+take total: choose which of the used+take
				// positions belong to the new kind: C(used+take, take).
				ways := binomial(used+take, take)
				contribution := dp[used].Mul(ways)
				next[used+take] = next[used+take].Add(contribution)
			}
		}
		dp = next
	}
	return dp[m]
}
