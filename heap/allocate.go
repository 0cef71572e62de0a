package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/hstde/MemoryManager/memspace"
	"github.com/hstde/MemoryManager/memutils"
	"golang.org/x/exp/slog"
)

// Allocate reserves at least size bytes and returns a pointer to them. Requests below the best fit
// threshold take the first free run that fits; larger ones take the smallest. The null pointer is
// returned when no run of free chunks is large enough. That is not an error, but the caller must
// check for it.
func (h *Heap) Allocate(size int) memspace.Pointer {
	return h.AllocateWithStrategy(size, AllocationStrategyDefault)
}

// AllocateWithStrategy is Allocate with an explicit search strategy. AllocationStrategyDefault
// behaves exactly like Allocate.
func (h *Heap) AllocateWithStrategy(size int, strategy AllocationStrategy) memspace.Pointer {
	// Larger sizes could never fit, and rounding them up to chunks would overflow
	if size < 0 || size > h.TotalBytes() {
		h.logger.Debug("Heap::Allocate rejected",
			slog.Int("Size", size),
			slog.Int("TotalBytes", h.TotalBytes()))
		return memspace.NullPointer
	}

	chunks := chunksNeeded(size)

	// Not enough free chunks in total, no need to search for a contiguous run
	if chunks > h.FreeChunks() {
		h.logger.Debug("Heap::Allocate exhausted",
			slog.Int("Size", size),
			slog.Int("ChunksNeeded", chunks),
			slog.Int("FreeChunks", h.FreeChunks()))
		return memspace.NullPointer
	}

	if strategy == AllocationStrategyDefault {
		strategy = AllocationStrategyMinTime
		if chunks >= h.bestFitThreshold {
			strategy = AllocationStrategyMinMemory
		}
	}

	var firstChunk int
	var found bool
	if strategy&AllocationStrategyMinMemory != 0 {
		firstChunk, found = h.bitmap.FindBestFit(chunks)
	} else {
		firstChunk, found = h.bitmap.FindFirstFit(chunks)
	}

	if !found {
		h.logger.Debug("Heap::Allocate fragmented",
			slog.Int("Size", size),
			slog.Int("ChunksNeeded", chunks),
			slog.Int("FreeChunks", h.FreeChunks()),
			slog.String("Strategy", strategy.String()))
		return memspace.NullPointer
	}

	header := allocHeader{ptr: h.chunkAddress(firstChunk)}
	header.SetChunks(chunks)
	h.bitmap.SetRange(firstChunk, chunks, true)
	h.allocatedChunks += chunks
	h.allocationCount++

	if h.live != nil {
		h.live.Put(header.ptr.Address(), chunks)
	}

	h.logger.Debug("Heap::Allocate",
		slog.Int("Size", size),
		slog.Int("ChunksNeeded", chunks),
		slog.Int("FirstChunk", firstChunk),
		slog.String("Strategy", strategy.String()))

	memutils.DebugValidate(h)

	return header.Payload()
}

// Deallocate releases the allocation ptr points to and returns the number of bytes returned to the
// heap, header and rounding included. Deallocating the null pointer does nothing and returns 0.
//
// ptr must have been returned by Allocate on this heap and must not have been deallocated since.
// That is not checked unless the heap was created with CreateTrackAllocations, in which case a
// violation panics with an error marked ErrUnknownAllocation.
func (h *Heap) Deallocate(ptr memspace.Pointer) int {
	if ptr.IsNull() {
		return 0
	}

	header := headerOf(ptr)

	if h.live != nil {
		_, live := h.live.Get(header.ptr.Address())
		if !live || !ptr.SameSpace(h.chunks) {
			panic(errors.Mark(
				errors.AssertionFailedf("attempted to deallocate %s, which is not a live allocation of this heap", ptr),
				ErrUnknownAllocation,
			))
		}
		h.live.Delete(header.ptr.Address())
	}

	chunks := header.Chunks()
	start := h.chunkIndex(header.ptr)

	h.bitmap.SetRange(start, chunks, false)
	h.allocatedChunks -= chunks
	h.allocationCount--

	h.logger.Debug("Heap::Deallocate",
		slog.Int("FirstChunk", start),
		slog.Int("Chunks", chunks))

	memutils.DebugValidate(h)

	return chunks * ChunkSize
}

// Contains reports whether ptr and the header in front of it both lie inside this heap's chunks. It
// does not check that ptr is a live allocation.
func (h *Heap) Contains(ptr memspace.Pointer) bool {
	if !ptr.SameSpace(h.chunks) {
		return false
	}

	header := headerOf(ptr).ptr
	if header.Less(h.chunks) {
		return false
	}

	return ptr.Less(h.chunkAddress(h.totalChunks))
}

// SizeOf returns the number of usable payload bytes of the live allocation at ptr, which is at least
// the size that was requested
func (h *Heap) SizeOf(ptr memspace.Pointer) int {
	if ptr.IsNull() {
		return 0
	}

	return headerOf(ptr).Chunks()*ChunkSize - HeaderSize
}

// Reset frees every allocation at once
func (h *Heap) Reset() {
	h.bitmap.Fill(false)
	h.allocatedChunks = 0
	h.allocationCount = 0

	if h.live != nil {
		h.live = swiss.NewMap[memspace.Address, int](42)
	}
}
