package heap

import "github.com/hstde/MemoryManager/memspace"

// allocHeader is a view over the first HeaderSize bytes of an allocation, which hold the number
// of chunks the allocation covers, header included. It is only meaningful while those chunks are
// marked used.
type allocHeader struct {
	ptr memspace.Pointer
}

func headerOf(payload memspace.Pointer) allocHeader {
	return allocHeader{ptr: payload.Add(-HeaderSize)}
}

func (h allocHeader) Chunks() int {
	return int(h.ptr.Uint32())
}

func (h allocHeader) SetChunks(chunks int) {
	h.ptr.PutUint32(uint32(chunks))
}

func (h allocHeader) Payload() memspace.Pointer {
	return h.ptr.Add(HeaderSize)
}
