package bitmap_test

import (
	"math/rand"
	"testing"

	"github.com/hstde/MemoryManager/bitmap"
	"github.com/hstde/MemoryManager/memspace"
	"github.com/hstde/MemoryManager/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
)

func createBitmap(t require.TestingT, size int, initValue bool) *bitmap.Bitmap {
	space, err := memspace.New(max(memutils.CeilDiv(size, 8), 1))
	require.NoError(t, err)

	bm := bitmap.New(space.Pointer(0), size)
	bm.Fill(initValue)
	return bm
}

func bitmapFromBools(t require.TestingT, bits []bool) *bitmap.Bitmap {
	bm := createBitmap(t, len(bits), false)
	for i, used := range bits {
		bm.Set(i, used)
	}
	return bm
}

func TestSetGet(t *testing.T) {
	for _, size := range []int{1, 7, 8, 9, 64, 100, 130} {
		bm := createBitmap(t, size, false)

		for i := 0; i < size; i++ {
			bm.Set(i, true)
			require.True(t, bm.Get(i))
			for j := 0; j < size; j++ {
				if j != i {
					require.False(t, bm.Get(j), "size %d: setting bit %d changed bit %d", size, i, j)
				}
			}

			bm.Set(i, false)
			require.False(t, bm.Get(i))
		}

		bm.Fill(true)
		for i := 0; i < size; i++ {
			bm.Set(i, false)
			require.False(t, bm.Get(i))
			require.Equal(t, size-1, bm.CountSet())
			bm.Set(i, true)
		}
	}
}

func TestFillCoversPadding(t *testing.T) {
	space, err := memspace.New(4)
	require.NoError(t, err)

	bm := bitmap.New(space.Pointer(1), 10)
	require.Equal(t, 2, bm.ByteSize())

	bm.Fill(true)
	require.Equal(t, []byte{0x00, 0xFF, 0xFF, 0x00}, space.Bytes())
	require.Equal(t, 10, bm.CountSet())

	bm.Fill(false)
	require.Equal(t, []byte{0, 0, 0, 0}, space.Bytes())
	require.Equal(t, 0, bm.CountSet())
}

func TestSetRangeMatchesSet(t *testing.T) {
	const size = 200
	rng := rand.New(rand.NewSource(7))

	for iteration := 0; iteration < 500; iteration++ {
		start := rng.Intn(size)
		length := rng.Intn(size - start + 1)
		value := rng.Intn(2) == 1

		pattern := make([]bool, size)
		for i := range pattern {
			pattern[i] = rng.Intn(2) == 1
		}

		ranged := bitmapFromBools(t, pattern)
		single := bitmapFromBools(t, pattern)

		ranged.SetRange(start, length, value)
		for i := start; i < start+length; i++ {
			single.Set(i, value)
		}

		for i := 0; i < size; i++ {
			require.Equal(t, single.Get(i), ranged.Get(i), "start %d length %d value %v bit %d", start, length, value, i)
		}
	}
}

func TestSetRangeRoundTrip(t *testing.T) {
	const size = 130

	for start := 0; start < size; start += 3 {
		for length := 0; start+length <= size; length += 5 {
			bm := createBitmap(t, size, false)

			bm.SetRange(start, length, true)
			require.Equal(t, length, bm.CountSet())

			bm.SetRange(start, length, false)
			require.Equal(t, 0, bm.CountSet())
		}
	}
}

func TestSetRangeEndingAtStorageEnd(t *testing.T) {
	space, err := memspace.New(4)
	require.NoError(t, err)

	bm := bitmap.New(space.Pointer(0), 32)
	bm.Fill(false)

	bm.SetRange(8, 24, true)
	require.Equal(t, []byte{0x00, 0xFF, 0xFF, 0xFF}, space.Bytes())

	bm.SetRange(3, 2, true)
	require.Equal(t, byte(0x18), space.Uint8(0))

	bm.SetRange(0, 32, false)
	require.Equal(t, []byte{0, 0, 0, 0}, space.Bytes())
}

func TestVisitRuns(t *testing.T) {
	bm := createBitmap(t, 20, false)
	bm.SetRange(3, 4, true)
	bm.Set(19, true)

	type run struct {
		start, length int
		used          bool
	}
	var runs []run
	err := bm.VisitRuns(func(start, length int, used bool) error {
		runs = append(runs, run{start, length, used})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []run{
		{0, 3, false},
		{3, 4, true},
		{7, 12, false},
		{19, 1, true},
	}, runs)
}

func TestWriteJSON(t *testing.T) {
	bm := createBitmap(t, 16, true)
	bm.SetRange(2, 3, false)
	bm.Set(15, false)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	bm.WriteJSON(obj)
	obj.End()

	require.NoError(t, writer.Error())
	require.JSONEq(t, `{
		"Size": 16,
		"UsedBits": 12,
		"FreeRuns": [
			{"Start": 2, "Length": 3},
			{"Start": 15, "Length": 1}
		]
	}`, string(writer.Bytes()))
}

func TestNewRejectsNegativeSize(t *testing.T) {
	space, err := memspace.New(8)
	require.NoError(t, err)

	require.Panics(t, func() {
		bitmap.New(space.Pointer(0), -1)
	})
}
