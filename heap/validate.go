package heap

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/hstde/MemoryManager/memspace"
	"golang.org/x/exp/slog"
)

// visitAllocations walks the used runs of the bitmap and splits them into allocations by following
// the chunk counts in their headers
func (h *Heap) visitAllocations(visitFree func(firstChunk, chunks int) error, visitUsed func(firstChunk, chunks int) error) error {
	return h.bitmap.VisitRuns(func(start, length int, used bool) error {
		if !used {
			return visitFree(start, length)
		}

		end := start + length
		for chunk := start; chunk < end; {
			chunks := allocHeader{ptr: h.chunkAddress(chunk)}.Chunks()
			if chunks < 1 || chunk+chunks > end {
				return errors.Errorf("allocation header at chunk %d claims %d chunks, but its used run only has %d chunks left", chunk, chunks, end-chunk)
			}

			if err := visitUsed(chunk, chunks); err != nil {
				return err
			}
			chunk += chunks
		}

		return nil
	})
}

// Validate performs internal consistency checks on the heap: the bitmap must agree with the
// allocation counters, and every used run must be exactly covered by allocation headers. When the
// heap tracks allocations, the table must match the headers too. These checks walk the whole
// bitmap and should only be used for diagnostics.
func (h *Heap) Validate() error {
	if h.allocatedChunks < 0 || h.allocatedChunks > h.totalChunks {
		return errors.Errorf("the heap has %d allocated chunks out of %d total chunks", h.allocatedChunks, h.totalChunks)
	}

	usedBits := h.bitmap.CountSet()
	if usedBits != h.allocatedChunks {
		return errors.Errorf("the heap has %d allocated chunks, but the bitmap has %d used bits", h.allocatedChunks, usedBits)
	}

	allocationCount := 0
	err := h.visitAllocations(
		func(firstChunk, chunks int) error { return nil },
		func(firstChunk, chunks int) error {
			allocationCount++

			if h.live == nil {
				return nil
			}

			tracked, ok := h.live.Get(h.chunkAddress(firstChunk).Address())
			if !ok {
				return errors.Errorf("the allocation at chunk %d is not tracked", firstChunk)
			}
			if tracked != chunks {
				return errors.Errorf("the allocation at chunk %d is tracked with %d chunks, but its header has %d", firstChunk, tracked, chunks)
			}
			return nil
		})
	if err != nil {
		return err
	}

	if allocationCount != h.allocationCount {
		return errors.Errorf("the allocation count of the heap is %d, but the headers only added up to %d", h.allocationCount, allocationCount)
	}

	if h.live != nil && h.live.Count() != allocationCount {
		return errors.Errorf("the heap tracks %d allocations, but the headers only added up to %d", h.live.Count(), allocationCount)
	}

	return nil
}

// VisitAllRegions will call the provided callback once for each allocation and each maximal free run
// in the heap, in address order. Offsets and sizes are in bytes relative to ChunksBase. Allocation
// regions include their header.
func (h *Heap) VisitAllRegions(handleRegion func(offset int, size int, free bool) error) error {
	return h.visitAllocations(
		func(firstChunk, chunks int) error {
			return handleRegion(firstChunk*ChunkSize, chunks*ChunkSize, true)
		},
		func(firstChunk, chunks int) error {
			return handleRegion(firstChunk*ChunkSize, chunks*ChunkSize, false)
		})
}

// LogUnreleased logs every live allocation at error level and returns how many there were. It is
// meant to be called when the owner of the heap is done with it.
func (h *Heap) LogUnreleased() int {
	count := 0

	err := h.VisitAllRegions(func(offset int, size int, free bool) error {
		if free {
			return nil
		}

		count++
		payload := h.chunks.Add(offset + HeaderSize)
		h.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed allocation",
			slog.Int("offset", offset),
			slog.Int("size", size),
			slog.String("payload", payload.String()),
		)
		return nil
	})
	if err != nil {
		h.logger.LogAttrs(context.Background(),
			slog.LevelError,
			"[UNRELEASED MEMORY] error while iterating unreleased memory",
			slog.Any("error", err))
	}

	return count
}

// Allocations returns the payload pointers of every live allocation in address order
func (h *Heap) Allocations() ([]memspace.Pointer, error) {
	var pointers []memspace.Pointer

	err := h.VisitAllRegions(func(offset int, size int, free bool) error {
		if !free {
			pointers = append(pointers, h.chunks.Add(offset+HeaderSize))
		}
		return nil
	})

	return pointers, err
}
