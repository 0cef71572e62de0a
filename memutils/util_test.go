package memutils_test

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hstde/MemoryManager/memutils"
	"github.com/stretchr/testify/require"
)

func TestCeilDiv(t *testing.T) {
	require.Equal(t, 0, memutils.CeilDiv(0, 8))
	require.Equal(t, 1, memutils.CeilDiv(1, 8))
	require.Equal(t, 1, memutils.CeilDiv(8, 8))
	require.Equal(t, 2, memutils.CeilDiv(9, 8))
	require.Equal(t, 33, memutils.CeilDiv(1028, 32))
	require.Equal(t, uint32(4), memutils.CeilDiv[uint32](25, 8))
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, memutils.CheckPow2(32, "chunk size"))
	require.NoError(t, memutils.CheckPow2(uint(1), "one"))

	err := memutils.CheckPow2(24, "chunk size")
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.PowerOfTwoError))
	require.Contains(t, err.Error(), "chunk size is 24")

	require.Error(t, memutils.CheckPow2(0, "zero"))
}

func TestAlign(t *testing.T) {
	require.Equal(t, 32, memutils.AlignUp(1, 32))
	require.Equal(t, 32, memutils.AlignUp(32, 32))
	require.Equal(t, 64, memutils.AlignUp(33, 32))
	require.Equal(t, 32, memutils.AlignDown(63, 32))
	require.Equal(t, 0, memutils.AlignDown(31, 32))
}

func TestDetailedStatistics(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()

	require.Equal(t, memutils.DetailedStatistics{
		AllocationSizeMin: math.MaxInt,
		FreeRunSizeMin:    math.MaxInt,
	}, stats)

	stats.HeapCount = 1
	stats.HeapBytes = 1024
	stats.AddAllocation(64)
	stats.AddAllocation(256)
	stats.AddFreeRun(128)
	stats.AddFreeRun(576)

	var other memutils.DetailedStatistics
	other.Clear()
	other.HeapCount = 1
	other.HeapBytes = 512
	other.AddAllocation(32)
	other.AddFreeRun(480)

	stats.AddDetailedStatistics(&other)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			HeapCount:       2,
			AllocationCount: 3,
			HeapBytes:       1536,
			AllocationBytes: 352,
		},
		FreeRunCount:      3,
		AllocationSizeMin: 32,
		AllocationSizeMax: 256,
		FreeRunSizeMin:    128,
		FreeRunSizeMax:    576,
	}, stats)
	require.Equal(t, 1184, stats.FreeBytes())
}
