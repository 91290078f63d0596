package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindArithmetic(t *testing.T) {
	assert.True(t, Integer.Arithmetic())
	assert.True(t, Double.Arithmetic())
	assert.False(t, Logical.Arithmetic())
	assert.False(t, Raw.Arithmetic())
	assert.False(t, Complex.Arithmetic())
	assert.False(t, Character.Arithmetic())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]int{1, 2, 3}, []int{1, 2, 3}))
	assert.False(t, Equal([]int{1, 2}, []int{1, 2, 3}))
	assert.False(t, Equal([]int{1, 2, 4}, []int{1, 2, 3}))
}

func TestCompareLexicographic(t *testing.T) {
	assert.Equal(t, -1, Compare([]int{1, 2, 3}, []int{1, 2, 4}))
	assert.Equal(t, 1, Compare([]int{1, 3, 0}, []int{1, 2, 9}))
	assert.Equal(t, 0, Compare([]int{1, 2, 3}, []int{1, 2, 3}))
	assert.Equal(t, -1, Compare([]int{1, 2}, []int{1, 2, 3}))
}
