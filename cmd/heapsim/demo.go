package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hstde/MemoryManager/heap"
	"github.com/hstde/MemoryManager/memspace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the reference allocation scenario and dump memory",
		Long: `The demo command reserves a 1 MiB address space, places a 64 KiB heap at
address 1024, makes three allocations, writes a marker into each and dumps the
chunk region and the bitmap.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func printUsage(out io.Writer, h *heap.Heap) {
	fmt.Fprintf(out, "allocated bytes: %d\n", h.AllocatedBytes())
	fmt.Fprintf(out, "free bytes: %d\n", h.FreeBytes())
}

func runDemo(out, logOut io.Writer) error {
	space, err := memspace.New(1 * mib)
	if err != nil {
		return err
	}

	h, err := heap.New(newLogger(logOut), space.Pointer(1024), 64*kib, heap.CreateOptions{})
	if err != nil {
		return err
	}

	ptr := h.Allocate(1 * kib)
	if ptr.IsNull() {
		return errors.Newf("allocation of %d bytes failed", 1*kib)
	}
	fmt.Fprintf(out, "ptr1 @ %s\n", ptr)
	ptr.PutUint32(0xDEADBEEF)

	ptr2 := h.Allocate(100)
	if ptr2.IsNull() {
		return errors.Newf("allocation of %d bytes failed", 100)
	}
	fmt.Fprintf(out, "ptr2 @ %s\n", ptr2)
	ptr2.PutUint32(0xC0FFEE)

	fmt.Fprintf(out, "%X\n", ptr.Uint32())
	fmt.Fprintf(out, "%X\n", ptr2.Uint32())
	printUsage(out, h)

	ptr3 := h.Allocate(10)
	if ptr3.IsNull() {
		return errors.Newf("allocation of %d bytes failed", 10)
	}
	fmt.Fprintf(out, "ptr3 @ %s\n", ptr3)
	fmt.Fprintf(out, "%X\n", ptr3.Uint32())
	ptr3.PutUint32(0x80808080)
	fmt.Fprintf(out, "%X\n", ptr3.Uint32())
	printUsage(out, h)

	for _, addr := range []memspace.Address{1024, 2048, h.Bitmap().Data().Address()} {
		if err := space.Dump(out, addr, 128); err != nil {
			return err
		}
	}

	return h.Validate()
}
