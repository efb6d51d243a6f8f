// Package bitutil holds the packed bit containers scanned by the row decoder
// and filled by writers.
package bitutil

import (
	"fmt"
	"math/bits"
	"strings"
)

const loadFactor = 0.75

// BitArray is a row of pixels packed into uint32 words; a set bit is a bar.
type BitArray struct {
	bits []uint32
	size int
}

// NewBitArray creates a new BitArray with the given size.
func NewBitArray(size int) *BitArray {
	if size <= 0 {
		return &BitArray{}
	}
	return &BitArray{
		bits: makeArray(size),
		size: size,
	}
}

// ParseBitArray builds a BitArray from a picture of the row, where 'X', '1'
// and '#' are bars and '.', '0', '_' and ' ' are spaces.
func ParseBitArray(repr string) (*BitArray, error) {
	ba := &BitArray{}
	for i, ch := range repr {
		switch ch {
		case 'X', '1', '#':
			ba.AppendBit(true)
		case '.', '0', '_', ' ':
			ba.AppendBit(false)
		default:
			return nil, fmt.Errorf("bitarray: illegal character %q at %d", ch, i)
		}
	}
	return ba, nil
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int {
	return ba.size
}

func (ba *BitArray) ensureCapacity(newSize int) {
	if newSize > len(ba.bits)*32 {
		newBits := makeArray(int(float64(newSize) / loadFactor))
		copy(newBits, ba.bits)
		ba.bits = newBits
	}
}

// Get returns true if bit i is set.
func (ba *BitArray) Get(i int) bool {
	return (ba.bits[i/32] & (1 << uint(i&0x1F))) != 0
}

// Set sets bit i.
func (ba *BitArray) Set(i int) {
	ba.bits[i/32] |= 1 << uint(i&0x1F)
}

// GetNextSet returns the index of the first set bit at or after from, or
// Size() if there is none.
func (ba *BitArray) GetNextSet(from int) int {
	if from >= ba.size {
		return ba.size
	}
	if from < 0 {
		from = 0
	}
	offset := from / 32
	current := ba.bits[offset] & (^uint32(0) << uint(from&0x1F))
	for current == 0 {
		offset++
		if offset == len(ba.bits) {
			return ba.size
		}
		current = ba.bits[offset]
	}
	return min(offset*32+bits.TrailingZeros32(current), ba.size)
}

// GetNextUnset returns the index of the first unset bit at or after from, or
// Size() if there is none.
func (ba *BitArray) GetNextUnset(from int) int {
	if from >= ba.size {
		return ba.size
	}
	if from < 0 {
		from = 0
	}
	offset := from / 32
	current := ^ba.bits[offset] & (^uint32(0) << uint(from&0x1F))
	for current == 0 {
		offset++
		if offset == len(ba.bits) {
			return ba.size
		}
		current = ^ba.bits[offset]
	}
	return min(offset*32+bits.TrailingZeros32(current), ba.size)
}

// rangeMasks calls fn with each word index and the mask of bits in
// [start, end) that fall in that word. end must be greater than start.
func rangeMasks(start, end int, fn func(word int, mask uint32) bool) {
	last := end - 1
	firstWord, lastWord := start/32, last/32
	for i := firstWord; i <= lastWord; i++ {
		firstBit, lastBit := 0, 31
		if i == firstWord {
			firstBit = start & 0x1F
		}
		if i == lastWord {
			lastBit = last & 0x1F
		}
		mask := uint32((2 << uint(lastBit)) - (1 << uint(firstBit)))
		if !fn(i, mask) {
			return
		}
	}
}

// SetRange sets every bit in [start, end).
func (ba *BitArray) SetRange(start, end int) {
	if end < start || start < 0 || end > ba.size {
		panic("bitarray: invalid range")
	}
	if end == start {
		return
	}
	rangeMasks(start, end, func(word int, mask uint32) bool {
		ba.bits[word] |= mask
		return true
	})
}

// IsRange reports whether every bit in [start, end) equals value. An empty
// range is uniformly any value.
func (ba *BitArray) IsRange(start, end int, value bool) bool {
	if end < start || start < 0 || end > ba.size {
		panic("bitarray: invalid range")
	}
	if end == start {
		return true
	}
	uniform := true
	rangeMasks(start, end, func(word int, mask uint32) bool {
		got := ba.bits[word] & mask
		if (value && got != mask) || (!value && got != 0) {
			uniform = false
		}
		return uniform
	})
	return uniform
}

// Clear clears all bits.
func (ba *BitArray) Clear() {
	for i := range ba.bits {
		ba.bits[i] = 0
	}
}

// AppendBit appends a single bit.
func (ba *BitArray) AppendBit(bit bool) {
	ba.ensureCapacity(ba.size + 1)
	if bit {
		ba.bits[ba.size/32] |= 1 << uint(ba.size&0x1F)
	}
	ba.size++
}

// Reverse mirrors the row in place so that bit i moves to Size()-1-i.
func (ba *BitArray) Reverse() {
	if ba.size == 0 {
		return
	}
	newBits := make([]uint32, len(ba.bits))
	last := (ba.size - 1) / 32
	used := last + 1
	for i := 0; i < used; i++ {
		newBits[last-i] = bits.Reverse32(ba.bits[i])
	}
	if ba.size != used*32 {
		shift := uint(used*32 - ba.size)
		current := newBits[0] >> shift
		for i := 1; i < used; i++ {
			next := newBits[i]
			current |= next << (32 - shift)
			newBits[i-1] = current
			current = next >> shift
		}
		newBits[used-1] = current
	}
	ba.bits = newBits
}

// Clone returns a copy of this BitArray.
func (ba *BitArray) Clone() *BitArray {
	b := make([]uint32, len(ba.bits))
	copy(b, ba.bits)
	return &BitArray{bits: b, size: ba.size}
}

// String returns the row using 'X' for bars and '.' for spaces.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size)
	for i := 0; i < ba.size; i++ {
		if ba.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func makeArray(size int) []uint32 {
	return make([]uint32, (size+31)/32)
}
