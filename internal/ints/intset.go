// Package ints contains a bit set of small non-negative integers.
package ints

import "math/bits"

const chunkBits = bits.UintSize

// Set grows on demand, negative items are never contained.
type Set struct {
	chunks []uint
}

func NewSet(items ...int) *Set {
	s := &Set{}
	return s.Add(items...)
}

func (s *Set) Add(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}

		i := item / chunkBits
		if i >= len(s.chunks) {
			s.chunks = append(s.chunks, make([]uint, i+1-len(s.chunks))...)
		}
		s.chunks[i] |= 1 << (item % chunkBits)
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < 0 {
		return false
	}

	i := item / chunkBits
	return i < len(s.chunks) && s.chunks[i]&(1<<(item%chunkBits)) != 0
}

func (s *Set) Len() int {
	result := 0
	for _, chunk := range s.chunks {
		result += bits.OnesCount(chunk)
	}
	return result
}

// ToSlice returns items in ascending order.
func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	for i, chunk := range s.chunks {
		for chunk != 0 {
			bit := bits.TrailingZeros(chunk)
			result = append(result, i*chunkBits+bit)
			chunk &= chunk - 1
		}
	}
	return result
}
