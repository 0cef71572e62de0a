package memspace

import "fmt"

// Pointer is an Address bound to the Space it belongs to. The zero value is the null pointer.
type Pointer struct {
	space *Space
	addr  Address
}

// NullPointer is the null pointer. It is not bound to any space.
var NullPointer = Pointer{}

// Space returns the space this pointer addresses, or nil for an unbound null pointer
func (p Pointer) Space() *Space { return p.space }

// Address returns the raw offset of this pointer
func (p Pointer) Address() Address { return p.addr }

// IsNull reports whether this pointer holds the reserved null address
func (p Pointer) IsNull() bool { return p.addr == Null }

// Add returns a pointer offset bytes away in the same space
func (p Pointer) Add(offset int) Pointer {
	return Pointer{space: p.space, addr: p.addr + Address(offset)}
}

// Sub returns the distance in bytes from other to p. Both must belong to the same space.
func (p Pointer) Sub(other Pointer) int {
	return int(p.addr - other.addr)
}

// SameSpace reports whether both pointers address the same space
func (p Pointer) SameSpace(other Pointer) bool { return p.space == other.space }

// Less orders pointers by address
func (p Pointer) Less(other Pointer) bool { return p.addr < other.addr }

func (p Pointer) String() string {
	return fmt.Sprintf("%08X", int(p.addr))
}

func (p Pointer) Uint8() uint8           { return p.space.Uint8(p.addr) }
func (p Pointer) PutUint8(value uint8)   { p.space.PutUint8(p.addr, value) }
func (p Pointer) Int8() int8             { return p.space.Int8(p.addr) }
func (p Pointer) PutInt8(value int8)     { p.space.PutInt8(p.addr, value) }
func (p Pointer) Uint16() uint16         { return p.space.Uint16(p.addr) }
func (p Pointer) PutUint16(value uint16) { p.space.PutUint16(p.addr, value) }
func (p Pointer) Int16() int16           { return p.space.Int16(p.addr) }
func (p Pointer) PutInt16(value int16)   { p.space.PutInt16(p.addr, value) }
func (p Pointer) Uint32() uint32         { return p.space.Uint32(p.addr) }
func (p Pointer) PutUint32(value uint32) { p.space.PutUint32(p.addr, value) }
func (p Pointer) Int32() int32           { return p.space.Int32(p.addr) }
func (p Pointer) PutInt32(value int32)   { p.space.PutInt32(p.addr, value) }
func (p Pointer) Uint64() uint64         { return p.space.Uint64(p.addr) }
func (p Pointer) PutUint64(value uint64) { p.space.PutUint64(p.addr, value) }
func (p Pointer) Int64() int64           { return p.space.Int64(p.addr) }
func (p Pointer) PutInt64(value int64)   { p.space.PutInt64(p.addr, value) }

// Ptr reads a 32-bit address stored at p and returns it as a pointer into the same space
func (p Pointer) Ptr() Pointer {
	return Pointer{space: p.space, addr: Address(p.Int32())}
}

// PutPtr stores the address of value at p as a 32-bit integer
func (p Pointer) PutPtr(value Pointer) {
	p.PutInt32(int32(value.addr))
}

// Fill sets length bytes starting at p to value
func (p Pointer) Fill(value byte, length int) {
	p.space.Fill(p.addr, value, length)
}
