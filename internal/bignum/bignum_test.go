package bignum

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddStaysSmallUntilThreshold(t *testing.T) {
	n := FromInt64(MaxExact - 1)
	sum := n.Add(FromInt64(1))
	assert.False(t, sum.IsBig())
	assert.Equal(t, float64(MaxExact), sum.Float64())

	over := sum.Add(FromInt64(1))
	assert.True(t, over.IsBig())
	assert.Equal(t, big.NewInt(MaxExact+1), over.Big)
}

func TestMulPromotes(t *testing.T) {
	n := FromInt64(1 << 30)
	m := FromInt64(1 << 30)
	p := n.Mul(m)
	assert.True(t, p.IsBig())
	want := new(big.Int).Mul(big.NewInt(1<<30), big.NewInt(1<<30))
	assert.Equal(t, want, p.Big)
}

func TestCmp(t *testing.T) {
	assert.Equal(t, -1, FromInt64(3).Cmp(FromInt64(4)))
	assert.Equal(t, 0, FromInt64(4).Cmp(FromInt64(4)))
	assert.Equal(t, 1, FromInt64(5).Cmp(FromInt64(4)))

	big1 := Number{Big: big.NewInt(1).Lsh(big.NewInt(1), 100)}
	assert.Equal(t, 1, big1.Cmp(FromInt64(1)))
}

func TestDivMod(t *testing.T) {
	q, r := FromInt64(17).DivMod(FromInt64(5))
	assert.Equal(t, float64(3), q.Float64())
	assert.Equal(t, float64(2), r.Float64())
}

func TestExceedsInt32(t *testing.T) {
	assert.False(t, FromInt64(100).ExceedsInt32())
	assert.True(t, FromInt64(int64(1)<<32).ExceedsInt32())
}

func TestToBytesHeader(t *testing.T) {
	b := FromInt64(300).ToBytes()
	assert.Equal(t, byte(1), b[0])
	assert.Equal(t, byte(0), b[1])
	assert.Equal(t, byte(0), b[2])
	assert.Equal(t, byte(0), b[3])
	assert.Equal(t, big.NewInt(300).Bytes(), b[4:])
}
