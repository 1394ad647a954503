package utils

import (
	"math/rand"
	"slices"
)

func Min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// Descending returns n, n-1, ..., 1. This is the input the lab fills on the root.
func Descending(n int) []int32 {
	arr := make([]int32, n)
	for i := range arr {
		arr[i] = int32(n - i)
	}
	return arr
}

func Ascending(n int) []int32 {
	arr := make([]int32, n)
	for i := range arr {
		arr[i] = int32(i + 1)
	}
	return arr
}

// Random returns n values in [0, max) drawn from a source seeded with seed.
func Random(n int, max int32, seed int64) []int32 {
	r := rand.New(rand.NewSource(seed))
	arr := make([]int32, n)
	for i := range arr {
		arr[i] = r.Int31n(max)
	}
	return arr
}

// Input builds a sequence by name: "descending", "ascending" or "random".
// Unknown names return nil.
func Input(kind string, n int, seed int64) []int32 {
	switch kind {
	case "descending":
		return Descending(n)
	case "ascending", "sorted":
		return Ascending(n)
	case "random":
		return Random(n, int32(Min(n*10, 1<<30)+1), seed)
	}
	return nil
}

// IsPermutation reports whether a and b hold the same multiset of values.
func IsPermutation(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
