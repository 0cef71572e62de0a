package heap

import (
	"github.com/hstde/MemoryManager/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// AddStatistics sums this heap's allocation statistics into stats
func (h *Heap) AddStatistics(stats *memutils.Statistics) {
	stats.HeapCount++
	stats.AllocationCount += h.allocationCount
	stats.HeapBytes += h.TotalBytes()
	stats.AllocationBytes += h.AllocatedBytes()
}

// AddDetailedStatistics sums this heap's allocation statistics, including the size of every
// allocation and free run, into stats. It walks the whole bitmap.
func (h *Heap) AddDetailedStatistics(stats *memutils.DetailedStatistics) error {
	stats.HeapCount++
	stats.HeapBytes += h.TotalBytes()

	return h.VisitAllRegions(func(offset int, size int, free bool) error {
		if free {
			stats.AddFreeRun(size)
		} else {
			stats.AddAllocation(size)
		}
		return nil
	})
}

// PrintDetailedMap writes a json object describing the heap totals and every region in it
func (h *Heap) PrintDetailedMap(writer *jwriter.Writer) error {
	var stats memutils.DetailedStatistics
	stats.Clear()
	if err := h.AddDetailedStatistics(&stats); err != nil {
		return err
	}

	obj := writer.Object()
	defer obj.End()

	obj.Name("ChunkSize").Int(ChunkSize)
	obj.Name("TotalChunks").Int(h.totalChunks)
	obj.Name("AllocatedChunks").Int(h.allocatedChunks)

	statsObj := obj.Name("Statistics").Object()
	stats.WriteJSON(statsObj)
	statsObj.End()

	regions := obj.Name("Regions").Array()
	defer regions.End()

	return h.VisitAllRegions(func(offset int, size int, free bool) error {
		region := regions.Object()
		defer region.End()

		region.Name("Offset").Int(offset)
		region.Name("Size").Int(size)
		if free {
			region.Name("Type").String("FREE")
		} else {
			region.Name("Type").String("USED")
		}
		return nil
	})
}
