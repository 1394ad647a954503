package oddeven

import "cmp"

/*
	SortInPlace sorts buf ascending with adjacent swaps and returns how many it
	made. That is exactly the number of inversions buf had, so it is 0 if and
	only if buf was already sorted. Equal elements keep their order.
*/
func SortInPlace[T cmp.Ordered](buf []T) int {
	swaps := 0
	for i := 1; i < len(buf); i++ {
		for j := i; j > 0 && buf[j-1] > buf[j]; j-- {
			buf[j-1], buf[j] = buf[j], buf[j-1]
			swaps++
		}
	}
	return swaps
}
