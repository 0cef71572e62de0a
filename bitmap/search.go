package bitmap

import (
	"math"
	"math/bits"

	"github.com/hstde/MemoryManager/memutils"
)

// FindFirstFit returns the start of the first run of at least minLength free bits, scanning from
// index 0. The boolean is false when no such run exists.
func (b *Bitmap) FindFirstFit(minLength int) (int, bool) {
	minLength = max(minLength, 1)

	start := 0
	_, found := b.findNextFreeRun(&start, minLength, minLength)
	if !found {
		return 0, false
	}

	return start, true
}

// FindBestFit walks the whole bitmap and returns the start of the smallest run of at least
// minLength free bits. Once a candidate of length n is known, later runs are only measured up to n,
// so a later run is reported as soon as it reaches n bits and scanning resumes right after those n
// bits. A later run only replaces the candidate if it is strictly shorter, so ties go to the
// leftmost run.
func (b *Bitmap) FindBestFit(minLength int) (int, bool) {
	minLength = max(minLength, 1)

	start := 0
	bestStart := 0
	bestSize := MaxSize
	found := false

	for {
		length, ok := b.findNextFreeRun(&start, minLength, bestSize)
		if !ok {
			break
		}

		if length < bestSize || !found {
			bestStart = start
			bestSize = length
			found = true
		}

		start += length
	}

	return bestStart, found
}

func (b *Bitmap) word(index int) uint64 {
	return b.data.Add(index * wordBytes).Uint64()
}

// findNextFreeRun searches for a run of at least minLength clear bits beginning at or after *from.
// On success it returns the run length capped at maxLength and leaves the run's first index in
// *from. Whole 64-bit words are examined at once; words that mix set and clear bits are taken apart
// with trailing-zero counts, and bits past the last whole word are scanned one at a time.
func (b *Bitmap) findNextFreeRun(from *int, minLength, maxLength int) (int, bool) {
	if minLength > maxLength {
		return 0, false
	}

	origin := *from
	tailStart := memutils.AlignDown(b.size, wordBits)
	wholeWords := tailStart / wordBits
	startBit := origin % wordBits
	free := 0

	for wordIndex := origin / wordBits; wordIndex < wholeWords; wordIndex++ {
		bucket := b.word(wordIndex)

		// A cursor in the middle of a word must not see the bits below it, so only aligned
		// words take the whole-word shortcuts.
		if startBit == 0 {
			if bucket == math.MaxUint64 {
				if free >= minLength {
					return min(free, maxLength), true
				}
				free = 0
				continue
			}

			if bucket == 0 {
				if free == 0 {
					*from = wordIndex * wordBits
				}
				free += wordBits
				if free >= maxLength {
					return maxLength, true
				}
				continue
			}
		}

		viewed := startBit
		bucket >>= uint(startBit)
		startBit = 0

		for viewed < wordBits {
			if bucket == 0 {
				if free == 0 {
					*from = wordIndex*wordBits + viewed
				}
				free += wordBits - viewed
				viewed = wordBits
				continue
			}

			zeros := bits.TrailingZeros64(bucket)
			bucket >>= uint(zeros)

			if free == 0 {
				*from = wordIndex*wordBits + viewed
			}
			free += zeros
			viewed += zeros

			if free >= minLength {
				return min(free, maxLength), true
			}

			ones := bits.TrailingZeros64(^bucket)
			bucket >>= uint(ones)
			viewed += ones
			free = 0
		}
	}

	if free >= minLength {
		return min(free, maxLength), true
	}

	for i := max(tailStart, origin); i < b.size; i++ {
		if b.Get(i) {
			free = 0
			continue
		}

		if free == 0 {
			*from = i
		}
		free++
		if free >= minLength {
			return min(free, maxLength), true
		}
	}

	return 0, false
}
