// Package memspace provides a fixed-capacity flat address space: raw byte storage addressed by
// integer offsets, with fixed-width little-endian accessors and a bulk fill. Address 0 is reserved
// as the null address. Addresses belong to exactly one Space and mean nothing in any other.
package memspace

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// Address is a byte offset into a single Space
type Address int

// Null is the reserved null address
const Null Address = 0

// Space is a contiguous block of bytes with a fixed capacity. Every accessor checks that the bytes it
// touches lie inside the space and panics otherwise; this is the one place where address arithmetic
// performed elsewhere gets validated.
type Space struct {
	data []byte
}

// New allocates a zeroed Space of the provided capacity in bytes
func New(capacity int) (*Space, error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "capacity is %d", capacity)
	}

	return &Space{data: make([]byte, capacity)}, nil
}

// Wrap builds a Space over caller-owned storage. The Space does not copy buf.
func Wrap(buf []byte) *Space {
	return &Space{data: buf}
}

// Capacity is the number of addressable bytes in the space
func (s *Space) Capacity() int { return len(s.data) }

// Bytes exposes the backing storage
func (s *Space) Bytes() []byte { return s.data }

// Pointer returns a Pointer to addr within this space
func (s *Space) Pointer(addr Address) Pointer {
	return Pointer{space: s, addr: addr}
}

// Contains reports whether length bytes starting at addr are inside the space
func (s *Space) Contains(addr Address, length int) bool {
	return addr >= 0 && length >= 0 && int(addr) <= len(s.data)-length
}

func (s *Space) slice(addr Address, width int) []byte {
	if !s.Contains(addr, width) {
		panic(errors.Mark(
			errors.AssertionFailedf("access of %d bytes at address %#x is outside of a space with capacity %d", width, int(addr), len(s.data)),
			ErrOutOfBounds,
		))
	}

	return s.data[addr : int(addr)+width]
}

func (s *Space) Uint8(addr Address) uint8 { return s.slice(addr, 1)[0] }

func (s *Space) PutUint8(addr Address, value uint8) { s.slice(addr, 1)[0] = value }

func (s *Space) Int8(addr Address) int8 { return int8(s.Uint8(addr)) }

func (s *Space) PutInt8(addr Address, value int8) { s.PutUint8(addr, uint8(value)) }

func (s *Space) Uint16(addr Address) uint16 {
	return binary.LittleEndian.Uint16(s.slice(addr, 2))
}

func (s *Space) PutUint16(addr Address, value uint16) {
	binary.LittleEndian.PutUint16(s.slice(addr, 2), value)
}

func (s *Space) Int16(addr Address) int16 { return int16(s.Uint16(addr)) }

func (s *Space) PutInt16(addr Address, value int16) { s.PutUint16(addr, uint16(value)) }

func (s *Space) Uint32(addr Address) uint32 {
	return binary.LittleEndian.Uint32(s.slice(addr, 4))
}

func (s *Space) PutUint32(addr Address, value uint32) {
	binary.LittleEndian.PutUint32(s.slice(addr, 4), value)
}

func (s *Space) Int32(addr Address) int32 { return int32(s.Uint32(addr)) }

func (s *Space) PutInt32(addr Address, value int32) { s.PutUint32(addr, uint32(value)) }

func (s *Space) Uint64(addr Address) uint64 {
	return binary.LittleEndian.Uint64(s.slice(addr, 8))
}

func (s *Space) PutUint64(addr Address, value uint64) {
	binary.LittleEndian.PutUint64(s.slice(addr, 8), value)
}

func (s *Space) Int64(addr Address) int64 { return int64(s.Uint64(addr)) }

func (s *Space) PutInt64(addr Address, value int64) { s.PutUint64(addr, uint64(value)) }

// Fill sets length bytes starting at addr to value
func (s *Space) Fill(addr Address, value byte, length int) {
	if length == 0 {
		return
	}

	region := s.slice(addr, length)
	for i := range region {
		region[i] = value
	}
}
