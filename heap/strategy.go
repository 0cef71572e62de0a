package heap

// AllocationStrategy chooses how AllocateWithStrategy searches the bitmap for free chunks
type AllocationStrategy uint32

const (
	// AllocationStrategyMinMemory walks the whole bitmap for the smallest free run that fits,
	// which reduces fragmentation at the cost of a full scan
	AllocationStrategyMinMemory AllocationStrategy = 1 << iota
	// AllocationStrategyMinTime takes the first free run that fits
	AllocationStrategyMinTime

	// AllocationStrategyDefault picks MinTime or MinMemory from the size of the request
	AllocationStrategyDefault AllocationStrategy = 0
)

var allocationStrategyMapping = map[AllocationStrategy]string{
	AllocationStrategyDefault:   "Default",
	AllocationStrategyMinMemory: "MinMemory",
	AllocationStrategyMinTime:   "MinTime",
}

func (s AllocationStrategy) String() string {
	str, ok := allocationStrategyMapping[s]
	if !ok {
		return "Unknown"
	}
	return str
}
