// Package bitmap implements a packed occupancy bitmap stored inside a memspace.Space. Bit i lives in
// bit (i mod 8) of the byte at base + i/8. A clear bit is free and a set bit is used.
//
// A Bitmap does not range-check indices: callers must keep indices in [0, Size()). The address
// space underneath still panics if an access leaves its storage.
package bitmap

import (
	"fmt"
	"math/bits"

	"github.com/cockroachdb/errors"
	"github.com/hstde/MemoryManager/memspace"
	"github.com/hstde/MemoryManager/memutils"
)

const (
	// MaxSize is the largest number of bits a Bitmap can track, and the "unbounded" run length
	MaxSize = 0x7fffffff

	wordBits  = 64
	wordBytes = wordBits / 8
)

type Bitmap struct {
	data memspace.Pointer
	size int
}

// New creates a Bitmap of size bits over the storage at data. The storage must hold at least
// ByteSize() bytes. The bits are not cleared; call Fill to initialize them.
func New(data memspace.Pointer, size int) *Bitmap {
	if size < 0 || size > MaxSize {
		panic(errors.AssertionFailedf("bitmap size %d is outside of [0, %d]", size, MaxSize))
	}

	return &Bitmap{data: data, size: size}
}

// Size is the number of tracked bits
func (b *Bitmap) Size() int { return b.size }

// ByteSize is the number of bytes of storage the bitmap covers, padding included
func (b *Bitmap) ByteSize() int { return memutils.CeilDiv(b.size, 8) }

// Data is the address of the first storage byte
func (b *Bitmap) Data() memspace.Pointer { return b.data }

func (b *Bitmap) Get(index int) bool {
	return b.data.Add(index/8).Uint8()&(1<<(index%8)) != 0
}

func (b *Bitmap) Set(index int, value bool) {
	addr := b.data.Add(index / 8)
	current := addr.Uint8()

	if value {
		addr.PutUint8(current | 1<<(index%8))
	} else {
		addr.PutUint8(current &^ (1 << (index % 8)))
	}
}

// firstByteMask selects bit and every higher bit of a byte
func firstByteMask(bit int) byte { return byte(0xFF << bit) }

// lastByteMask selects every bit of a byte below bit
func lastByteMask(bit int) byte { return byte(1<<bit - 1) }

func applyMask(addr memspace.Pointer, mask byte, value bool) {
	if mask == 0 {
		return
	}

	if value {
		addr.PutUint8(addr.Uint8() | mask)
	} else {
		addr.PutUint8(addr.Uint8() &^ mask)
	}
}

// SetRange sets length bits starting at start to value. Partially covered bytes at either end are
// masked and the bytes in between are filled in one pass.
func (b *Bitmap) SetRange(start, length int, value bool) {
	if length == 0 {
		return
	}

	end := start + length
	first := b.data.Add(start / 8)
	last := b.data.Add(end / 8)
	mask := firstByteMask(start % 8)

	if first == last {
		applyMask(first, mask&lastByteMask(end%8), value)
		return
	}

	applyMask(first, mask, value)
	applyMask(last, lastByteMask(end%8), value)

	first = first.Add(1)
	if first.Less(last) {
		first.Fill(fillByte(value), last.Sub(first))
	}
}

// Fill sets every storage byte, padding bits included
func (b *Bitmap) Fill(value bool) {
	b.data.Fill(fillByte(value), b.ByteSize())
}

func fillByte(value bool) byte {
	if value {
		return 0xFF
	}
	return 0x00
}

// CountSet returns the number of set bits among the first Size() bits
func (b *Bitmap) CountSet() int {
	count := 0
	wholeBytes := b.size / 8

	for i := 0; i < wholeBytes; i++ {
		count += bits.OnesCount8(b.data.Add(i).Uint8())
	}

	if tail := b.size % 8; tail != 0 {
		count += bits.OnesCount8(b.data.Add(wholeBytes).Uint8() & lastByteMask(tail))
	}

	return count
}

// VisitRuns calls visit once per maximal run of equal bits, left to right. Iteration stops at the
// first error returned by visit.
func (b *Bitmap) VisitRuns(visit func(start, length int, used bool) error) error {
	if b.size == 0 {
		return nil
	}

	runStart := 0
	runValue := b.Get(0)

	for i := 1; i < b.size; i++ {
		value := b.Get(i)
		if value == runValue {
			continue
		}

		if err := visit(runStart, i-runStart, runValue); err != nil {
			return err
		}
		runStart = i
		runValue = value
	}

	return visit(runStart, b.size-runStart, runValue)
}

func (b *Bitmap) String() string {
	return fmt.Sprintf("Bitmap{size: %d, used: %d}", b.size, b.CountSet())
}
