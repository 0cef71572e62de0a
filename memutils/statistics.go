package memutils

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics summarizes one or more heaps. Byte counts are always whole chunks.
type Statistics struct {
	HeapCount       int
	AllocationCount int
	HeapBytes       int
	AllocationBytes int
}

func (s *Statistics) Clear() {
	s.HeapCount = 0
	s.AllocationCount = 0
	s.HeapBytes = 0
	s.AllocationBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.HeapCount += other.HeapCount
	s.AllocationCount += other.AllocationCount
	s.HeapBytes += other.HeapBytes
	s.AllocationBytes += other.AllocationBytes
}

// FreeBytes is the number of heap bytes not covered by an allocation
func (s *Statistics) FreeBytes() int {
	return s.HeapBytes - s.AllocationBytes
}

// DetailedStatistics extends Statistics with size extremes for allocations and for maximal
// free runs
type DetailedStatistics struct {
	Statistics
	FreeRunCount      int
	AllocationSizeMin int
	AllocationSizeMax int
	FreeRunSizeMin    int
	FreeRunSizeMax    int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRunCount = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.FreeRunSizeMin = math.MaxInt
	s.FreeRunSizeMax = 0
}

func (s *DetailedStatistics) AddFreeRun(size int) {
	s.FreeRunCount++

	if size < s.FreeRunSizeMin {
		s.FreeRunSizeMin = size
	}

	if size > s.FreeRunSizeMax {
		s.FreeRunSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.AllocationCount++
	s.AllocationBytes += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeRunCount += other.FreeRunCount

	if other.FreeRunSizeMin < s.FreeRunSizeMin {
		s.FreeRunSizeMin = other.FreeRunSizeMin
	}

	if other.FreeRunSizeMax > s.FreeRunSizeMax {
		s.FreeRunSizeMax = other.FreeRunSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}

// WriteJSON populates a json object with these statistics. Extremes that were never observed are
// omitted.
func (s *DetailedStatistics) WriteJSON(json jwriter.ObjectState) {
	json.Name("Heaps").Int(s.HeapCount)
	json.Name("TotalBytes").Int(s.HeapBytes)
	json.Name("UnusedBytes").Int(s.FreeBytes())
	json.Name("Allocations").Int(s.AllocationCount)
	json.Name("AllocationBytes").Int(s.AllocationBytes)
	json.Name("UnusedRanges").Int(s.FreeRunCount)

	if s.AllocationCount > 0 {
		json.Name("AllocationSizeMin").Int(s.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(s.AllocationSizeMax)
	}

	if s.FreeRunCount > 0 {
		json.Name("UnusedRangeSizeMin").Int(s.FreeRunSizeMin)
		json.Name("UnusedRangeSizeMax").Int(s.FreeRunSizeMax)
	}
}
