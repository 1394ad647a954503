package utils

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMin(t *testing.T) {
	assert.Equal(t, 1, Min(1, 2))
	assert.Equal(t, -3, Min(4, -3))
}

func TestDescending(t *testing.T) {
	assert.Equal(t, []int32{5, 4, 3, 2, 1}, Descending(5))
	assert.Empty(t, Descending(0))
}

func TestAscending(t *testing.T) {
	arr := Ascending(100)
	assert.Len(t, arr, 100)
	assert.True(t, slices.IsSorted(arr))
	assert.Equal(t, int32(1), arr[0])
}

func TestRandomIsDeterministic(t *testing.T) {
	a := Random(50, 1000, 42)
	b := Random(50, 1000, 42)
	assert.Equal(t, a, b)
	for _, v := range a {
		assert.True(t, v >= 0 && v < 1000)
	}
}

func TestInput(t *testing.T) {
	assert.Equal(t, Descending(8), Input("descending", 8, 0))
	assert.Equal(t, Ascending(8), Input("sorted", 8, 0))
	assert.Len(t, Input("random", 8, 1), 8)
	assert.Nil(t, Input("sideways", 8, 0))
}

func TestIsPermutation(t *testing.T) {
	assert.True(t, IsPermutation([]int32{3, 1, 2}, []int32{1, 2, 3}))
	assert.True(t, IsPermutation([]int32{2, 2, 1}, []int32{2, 1, 2}))
	assert.False(t, IsPermutation([]int32{2, 2, 1}, []int32{2, 1, 1}))
	assert.False(t, IsPermutation([]int32{1}, []int32{1, 1}))
}
