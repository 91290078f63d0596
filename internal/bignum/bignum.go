// Package bignum implements the count/rank representation used across
// the engine: a tagged union that stays in float64 while exact, and
// promotes itself to arbitrary precision the moment an operation would
// lose precision. No call site ever mixes a Small and a Big value without
// going through one of the methods here, so the promotion is invisible to
// callers.
package bignum

import (
	"math/big"
)

// MaxExact is 2^53 - 1, the largest integer float64 can represent
// exactly; every counting formula promotes past it.
const MaxExact = (1 << 53) - 1

// Number is either an exact float64 (Big == nil) or an arbitrary-precision
// integer (Big != nil, Small ignored).
type Number struct {
	Small float64
	Big   *big.Int
}

// FromInt64 builds a Number from a plain int64, promoting to Big when
// |n| exceeds MaxExact.
func FromInt64(n int64) Number {
	if n > MaxExact || n < -MaxExact {
		return Number{Big: big.NewInt(n)}
	}
	return Number{Small: float64(n)}
}

// FromBig wraps an arbitrary-precision value. The input is copied.
func FromBig(x *big.Int) Number {
	return Number{Big: new(big.Int).Set(x)}
}

// FromFloat64 builds a Number from an already-computed float64. The value
// is assumed to be an exact integer representation; callers that compute
// incrementally should prefer Add/Mul so promotion triggers at the right
// point.
func FromFloat64(f float64) Number {
	if f > MaxExact {
		bi := new(big.Int)
		big.NewFloat(f).Int(bi)
		return Number{Big: bi}
	}
	return Number{Small: f}
}

// IsBig reports whether the value has been promoted to arbitrary
// precision.
func (n Number) IsBig() bool {
	return n.Big != nil
}

// BigInt returns the value as a *big.Int regardless of which
// representation it is stored in. The returned value is always a fresh
// copy safe for the caller to mutate.
func (n Number) BigInt() *big.Int {
	if n.Big != nil {
		return new(big.Int).Set(n.Big)
	}
	bi := new(big.Int)
	big.NewFloat(n.Small).Int(bi)
	return bi
}

// Float64 returns the best float64 approximation of the value. Used only
// for display/heuristics, never for further exact arithmetic once a value
// has promoted.
func (n Number) Float64() float64 {
	if n.Big != nil {
		f := new(big.Float).SetInt(n.Big)
		out, _ := f.Float64()
		return out
	}
	return n.Small
}

// promote upgrades a Small value to a *big.Int, a no-op if already Big.
func (n Number) promote() *big.Int {
	if n.Big != nil {
		return n.Big
	}
	bi := new(big.Int)
	big.NewFloat(n.Small).Int(bi)
	return bi
}

// Add returns n + m, promoting to Big the moment the float64 sum would
// exceed MaxExact.
func (n Number) Add(m Number) Number {
	if !n.IsBig() && !m.IsBig() {
		s := n.Small + m.Small
		if s <= MaxExact {
			return Number{Small: s}
		}
	}
	return Number{Big: new(big.Int).Add(n.promote(), m.promote())}
}

// Mul returns n * m, promoting to Big the moment the float64 product would
// exceed MaxExact.
func (n Number) Mul(m Number) Number {
	if !n.IsBig() && !m.IsBig() {
		p := n.Small * m.Small
		if p <= MaxExact {
			return Number{Small: p}
		}
	}
	return Number{Big: new(big.Int).Mul(n.promote(), m.promote())}
}

// Sub returns n - m. Counting formulas never go negative by construction,
// but Sub stays in whichever representation the operands are already in.
func (n Number) Sub(m Number) Number {
	if !n.IsBig() && !m.IsBig() {
		return Number{Small: n.Small - m.Small}
	}
	return Number{Big: new(big.Int).Sub(n.promote(), m.promote())}
}

// Cmp compares n and m, returning -1, 0, or 1.
func (n Number) Cmp(m Number) int {
	if !n.IsBig() && !m.IsBig() {
		switch {
		case n.Small < m.Small:
			return -1
		case n.Small > m.Small:
			return 1
		default:
			return 0
		}
	}
	return n.promote().Cmp(m.promote())
}

// DivMod returns floor(n/m) and n mod m, promoting if either operand is
// already Big.
func (n Number) DivMod(m Number) (q, r Number) {
	if !n.IsBig() && !m.IsBig() {
		qf := float64(int64(n.Small) / int64(m.Small))
		rf := float64(int64(n.Small) % int64(m.Small))
		return Number{Small: qf}, Number{Small: rf}
	}
	qi, ri := new(big.Int), new(big.Int)
	qi.DivMod(n.promote(), m.promote(), ri)
	return Number{Big: qi}, Number{Big: ri}
}

// ExceedsInt32 reports whether the value is too large to serve as a row
// count.
func (n Number) ExceedsInt32() bool {
	if n.Big != nil {
		return !n.Big.IsInt64() || n.Big.Int64() > int64(1)<<31-1
	}
	return n.Small > float64(int64(1)<<31-1)
}

// ToBytes renders the external big-integer wire format: a 4-byte
// little-endian header word of 1 followed by the unsigned magnitude of
// the value as big-endian bytes (big.Int.Bytes), tagged "bigz" by the
// caller.
func (n Number) ToBytes() []byte {
	mag := n.BigInt().Bytes()
	out := make([]byte, 4+len(mag))
	out[0] = 1
	copy(out[4:], mag)
	return out
}
