package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hstde/MemoryManager/bitmap"
	"github.com/hstde/MemoryManager/memspace"
	"github.com/hstde/MemoryManager/memutils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newBitmapSelfTestCmd())
}

func newBitmapSelfTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bitmap-selftest",
		Short: "Check the bitmap first fit search on known patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			failures, err := runBitmapSelfTest(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if failures > 0 {
				return errors.Newf("%d bitmap checks failed", failures)
			}
			return nil
		},
	}
}

func createBitmap(size int, initValue bool) (*bitmap.Bitmap, error) {
	space, err := memspace.New(max(memutils.CeilDiv(size, 8), 1))
	if err != nil {
		return nil, err
	}

	bm := bitmap.New(space.Pointer(0), size)
	bm.Fill(initValue)
	return bm, nil
}

type bitmapCheck struct {
	name      string
	size      int
	clear     []int
	minLength int
	want      int
	wantFound bool
}

func bitmapChecks() []bitmapCheck {
	checks := []bitmapCheck{
		{name: "full", size: 32, minLength: 1},
		{name: "last bit", size: 32, clear: []int{31}, minLength: 1, want: 31, wantFound: true},
	}

	for i := 0; i < 128; i++ {
		checks = append(checks, bitmapCheck{
			name:      fmt.Sprintf("single bit %d", i),
			size:      128,
			clear:     []int{i},
			minLength: 1,
			want:      i,
			wantFound: true,
		})
	}

	for i := 0; i < 127; i++ {
		checks = append(checks, bitmapCheck{
			name:      fmt.Sprintf("bit pair %d", i),
			size:      128,
			clear:     []int{i, i + 1},
			minLength: 2,
			want:      i,
			wantFound: true,
		})
	}

	return checks
}

func runBitmapSelfTest(out io.Writer) (int, error) {
	failures := 0

	for _, check := range bitmapChecks() {
		bm, err := createBitmap(check.size, true)
		if err != nil {
			return failures, err
		}
		for _, index := range check.clear {
			bm.Set(index, false)
		}

		fit, found := bm.FindFirstFit(check.minLength)
		ok := found == check.wantFound && (!found || fit == check.want)
		if !ok {
			failures++
		}

		if verbose || !ok {
			fmt.Fprintf(out, "%-16s fit=%d found=%v ok=%v\n", check.name, fit, found, ok)
		}
	}

	fmt.Fprintf(out, "%d checks, %d failed\n", len(bitmapChecks()), failures)
	return failures, nil
}
