package heap

import "strings"

// CreateFlags indicate specific heap behaviors to activate or deactivate
type CreateFlags int32

const (
	// CreateTrackAllocations keeps a table of live allocations next to the bitmap. Deallocate will
	// panic when it receives a pointer that is not in the table, which catches double frees and
	// foreign pointers at the cost of a map operation on every Allocate and Deallocate.
	CreateTrackAllocations CreateFlags = 1 << iota
)

var createFlagsMapping = map[CreateFlags]string{
	CreateTrackAllocations: "CreateTrackAllocations",
}

func (f CreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for flag := CreateFlags(1); flag != 0 && flag <= f; flag <<= 1 {
		if f&flag == 0 {
			continue
		}

		name, ok := createFlagsMapping[flag]
		if !ok {
			name = "Unknown"
		}
		names = append(names, name)
	}

	return strings.Join(names, "|")
}

const (
	// ChunkSize is the allocation granularity in bytes
	ChunkSize = 32
	// HeaderSize is the size in bytes of the header stored in front of every allocation
	HeaderSize = 4
	// DefaultBestFitThreshold is the chunk count at which Allocate switches from first fit to best fit
	DefaultBestFitThreshold = 128
)

// CreateOptions contains optional settings when creating a heap
type CreateOptions struct {
	// Flags indicates specific heap behaviors to activate or deactivate
	Flags CreateFlags
	// BestFitThreshold is the smallest allocation, in chunks, that is placed with a best fit search.
	// Smaller allocations use first fit. Zero selects DefaultBestFitThreshold.
	BestFitThreshold int
}
