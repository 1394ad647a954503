package oddeven

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func inversions(arr []int32) int {
	n := 0
	for i := range arr {
		for j := i + 1; j < len(arr); j++ {
			if arr[i] > arr[j] {
				n++
			}
		}
	}
	return n
}

func TestSortInPlaceEmpty(t *testing.T) {
	assert.Equal(t, 0, SortInPlace([]int32{}))
	assert.Equal(t, 0, SortInPlace[int32](nil))
	assert.Equal(t, 0, SortInPlace([]int32{42}))
}

func TestSortInPlaceSorted(t *testing.T) {
	arr := []int32{1, 2, 2, 3, 8, 9}
	assert.Equal(t, 0, SortInPlace(arr))
	assert.Equal(t, []int32{1, 2, 2, 3, 8, 9}, arr)
}

func TestSortInPlaceReversed(t *testing.T) {
	arr := []int32{8, 7, 6, 5, 4, 3, 2, 1}
	assert.Equal(t, 28, SortInPlace(arr))
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6, 7, 8}, arr)
}

func TestSortInPlaceCountsInversions(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for n := 0; n < 60; n++ {
		arr := make([]int32, n)
		for i := range arr {
			arr[i] = r.Int31n(20)
		}
		want := inversions(arr)
		wasSorted := slices.IsSorted(arr)
		got := SortInPlace(arr)
		assert.Equal(t, want, got)
		assert.True(t, slices.IsSorted(arr))
		assert.Equal(t, wasSorted, got == 0)
	}
}

func TestSortInPlaceStrings(t *testing.T) {
	words := []string{"b", "a", "c", "a"}
	assert.Equal(t, 3, SortInPlace(words))
	assert.Equal(t, []string{"a", "a", "b", "c"}, words)
}
