// Package heap implements a chunk heap: a general purpose allocator that carves a region of a
// memspace.Space into ChunkSize-byte chunks and tracks their occupancy with a bitmap stored right
// after the chunks, inside the same region.
//
// Every allocation starts with a HeaderSize-byte little-endian header holding the number of chunks
// it spans, so Deallocate only needs the payload pointer. Free space is never merged explicitly:
// clearing the bits of a freed allocation makes it part of whatever free run surrounds it.
package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/hstde/MemoryManager/bitmap"
	"github.com/hstde/MemoryManager/memspace"
	"github.com/hstde/MemoryManager/memutils"
	"golang.org/x/exp/slog"
)

// Heap is a chunk allocator over a fixed region of a memspace.Space.
//
// A Heap is not synchronized. Callers that share one between goroutines must serialize every call,
// for instance with one mutex per heap, or give each goroutine its own heap.
type Heap struct {
	logger *slog.Logger

	chunks          memspace.Pointer
	totalChunks     int
	allocatedChunks int
	allocationCount int
	bitmap          *bitmap.Bitmap

	bestFitThreshold int
	flags            CreateFlags
	live             *swiss.Map[memspace.Address, int]
}

// chunksForRegion returns the number of chunks that fit in regionSize bytes together with one
// bitmap bit per chunk
func chunksForRegion(regionSize int) int {
	return regionSize / (ChunkSize + 1)
}

// RequiredRegionSize returns the smallest region size for which New produces a heap able to hold
// a single allocation of size bytes
func RequiredRegionSize(size int) int {
	return chunksNeeded(size) * (ChunkSize + 1)
}

func chunksNeeded(size int) int {
	return memutils.AlignUp(size+HeaderSize, ChunkSize) / ChunkSize
}

// New creates a heap over regionSize bytes starting at base. The chunks start at base and the
// occupancy bitmap follows them; every chunk starts out free.
func New(logger *slog.Logger, base memspace.Pointer, regionSize int, options CreateOptions) (*Heap, error) {
	memutils.DebugCheckPow2(ChunkSize, "ChunkSize")

	if base.Space() == nil || base.IsNull() {
		return nil, ErrNullBase
	}

	if !base.Space().Contains(base.Address(), regionSize) {
		return nil, errors.Wrapf(ErrRegionOutOfBounds, "region of %d bytes at %s, space capacity %d",
			regionSize, base, base.Space().Capacity())
	}

	totalChunks := chunksForRegion(regionSize)
	if totalChunks < 1 {
		return nil, errors.Wrapf(ErrRegionTooSmall, "region is %d bytes but needs at least %d", regionSize, ChunkSize+1)
	}

	if options.BestFitThreshold < 0 {
		return nil, errors.Wrapf(ErrInvalidThreshold, "threshold is %d", options.BestFitThreshold)
	}

	threshold := options.BestFitThreshold
	if threshold == 0 {
		threshold = DefaultBestFitThreshold
	}

	if logger == nil {
		logger = slog.Default()
	}

	h := &Heap{
		logger:           logger,
		chunks:           base,
		totalChunks:      totalChunks,
		bitmap:           bitmap.New(base.Add(totalChunks*ChunkSize), totalChunks),
		bestFitThreshold: threshold,
		flags:            options.Flags,
	}
	h.bitmap.Fill(false)

	if h.flags&CreateTrackAllocations != 0 {
		h.live = swiss.NewMap[memspace.Address, int](42)
	}

	h.logger.Debug("Heap::New",
		slog.Int("Base", int(base.Address())),
		slog.Int("RegionSize", regionSize),
		slog.Int("TotalChunks", totalChunks),
		slog.String("Flags", options.Flags.String()))

	return h, nil
}

func (h *Heap) TotalChunks() int     { return h.totalChunks }
func (h *Heap) TotalBytes() int      { return h.totalChunks * ChunkSize }
func (h *Heap) FreeChunks() int      { return h.totalChunks - h.allocatedChunks }
func (h *Heap) FreeBytes() int       { return h.FreeChunks() * ChunkSize }
func (h *Heap) AllocatedChunks() int { return h.allocatedChunks }
func (h *Heap) AllocatedBytes() int  { return h.allocatedChunks * ChunkSize }

// AllocationCount is the number of live allocations
func (h *Heap) AllocationCount() int { return h.allocationCount }

// IsEmpty returns true if the heap has no live allocations
func (h *Heap) IsEmpty() bool { return h.allocationCount == 0 }

// ChunksBase is the address of chunk 0
func (h *Heap) ChunksBase() memspace.Pointer { return h.chunks }

// Bitmap exposes the occupancy bitmap. Modifying it directly corrupts the heap.
func (h *Heap) Bitmap() *bitmap.Bitmap { return h.bitmap }

// BestFitThreshold is the smallest chunk count placed with a best fit search
func (h *Heap) BestFitThreshold() int { return h.bestFitThreshold }

func (h *Heap) chunkAddress(index int) memspace.Pointer {
	return h.chunks.Add(index * ChunkSize)
}

func (h *Heap) chunkIndex(ptr memspace.Pointer) int {
	return ptr.Sub(h.chunks) / ChunkSize
}
