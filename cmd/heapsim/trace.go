package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/hstde/MemoryManager/heap"
	"github.com/hstde/MemoryManager/memspace"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

// Trace describes a heap and a sequence of operations to run against it
type Trace struct {
	Space            int       `yaml:"space"`
	Base             int       `yaml:"base"`
	Region           int       `yaml:"region"`
	BestFitThreshold int       `yaml:"bestFitThreshold"`
	Track            bool      `yaml:"track"`
	Ops              []TraceOp `yaml:"ops"`
}

// TraceOp is a single step of a trace. Op is one of alloc, free, write32, reset or validate.
type TraceOp struct {
	Op       string `yaml:"op"`
	Name     string `yaml:"name"`
	Size     int    `yaml:"size"`
	Value    uint32 `yaml:"value"`
	Strategy string `yaml:"strategy"`
}

// OpResult records the outcome of one trace step
type OpResult struct {
	Index   int
	Op      string
	Name    string
	Address memspace.Address
	Bytes   int
	Failed  bool
}

var strategiesByName = map[string]heap.AllocationStrategy{
	"":          heap.AllocationStrategyDefault,
	"default":   heap.AllocationStrategyDefault,
	"firstfit":  heap.AllocationStrategyMinTime,
	"mintime":   heap.AllocationStrategyMinTime,
	"bestfit":   heap.AllocationStrategyMinMemory,
	"minmemory": heap.AllocationStrategyMinMemory,
}

func loadTrace(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trace{}, errors.Wrapf(err, "opening trace %s", path)
	}
	defer f.Close()

	return decodeTrace(f)
}

func decodeTrace(r io.Reader) (Trace, error) {
	trace := Trace{
		Space:  1 * mib,
		Base:   1024,
		Region: 64 * kib,
	}

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&trace); err != nil {
		return Trace{}, errors.Wrap(err, "decoding trace")
	}

	return trace, nil
}

// runTrace builds the heap a trace describes and applies its operations in order. Failed
// allocations are recorded, not treated as errors; unknown names and operations are errors.
func runTrace(logger *slog.Logger, trace Trace) (*heap.Heap, []OpResult, error) {
	space, err := memspace.New(trace.Space)
	if err != nil {
		return nil, nil, err
	}

	options := heap.CreateOptions{BestFitThreshold: trace.BestFitThreshold}
	if trace.Track {
		options.Flags |= heap.CreateTrackAllocations
	}

	h, err := heap.New(logger, space.Pointer(memspace.Address(trace.Base)), trace.Region, options)
	if err != nil {
		return nil, nil, err
	}

	named := make(map[string]memspace.Pointer)
	results := make([]OpResult, 0, len(trace.Ops))

	for i, op := range trace.Ops {
		result := OpResult{Index: i, Op: op.Op, Name: op.Name}

		switch op.Op {
		case "alloc":
			strategy, ok := strategiesByName[op.Strategy]
			if !ok {
				return h, results, errors.Errorf("op %d: unknown strategy %q", i, op.Strategy)
			}

			ptr := h.AllocateWithStrategy(op.Size, strategy)
			result.Failed = ptr.IsNull()
			result.Address = ptr.Address()
			if !result.Failed {
				result.Bytes = h.SizeOf(ptr) + heap.HeaderSize
				if op.Name != "" {
					named[op.Name] = ptr
				}
			}

		case "free":
			ptr, ok := named[op.Name]
			if !ok {
				return h, results, errors.Errorf("op %d: no live allocation named %q", i, op.Name)
			}
			delete(named, op.Name)
			result.Address = ptr.Address()
			result.Bytes = h.Deallocate(ptr)

		case "write32":
			ptr, ok := named[op.Name]
			if !ok {
				return h, results, errors.Errorf("op %d: no live allocation named %q", i, op.Name)
			}
			ptr.PutUint32(op.Value)
			result.Address = ptr.Address()
			result.Bytes = 4

		case "reset":
			h.Reset()
			named = make(map[string]memspace.Pointer)

		case "validate":
			if err := h.Validate(); err != nil {
				return h, results, errors.Wrapf(err, "op %d", i)
			}

		default:
			return h, results, errors.Errorf("op %d: unknown operation %q", i, op.Op)
		}

		results = append(results, result)
	}

	return h, results, nil
}
