package fsm

import "github.com/bits-and-blooms/bitset"

// grow extends s with zero values until it holds at least size elements.
func grow[T any](s []T, size int) []T {
	if len(s) >= size {
		return s
	}
	return append(s, make([]T, size-len(s))...)
}

// members lists the set bits of b in ascending order.
func members(b *bitset.BitSet) []int {
	out := make([]int, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}
