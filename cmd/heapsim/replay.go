package main

import (
	"fmt"
	"io"

	"github.com/hstde/MemoryManager/heap"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"
)

var (
	replayLeaks bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().BoolVar(&replayLeaks, "leaks", false, "Log allocations that are still live at the end of the trace")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <trace.yaml>",
		Short: "Replay an allocation trace against a fresh heap",
		Long: `The replay command builds a heap as described by a YAML trace file and runs
its operations in order, then prints the outcome of each step and the final heap map.

Example trace:
  region: 65536
  track: true
  ops:
    - {op: alloc, name: a, size: 1024}
    - {op: write32, name: a, value: 0xDEADBEEF}
    - {op: alloc, name: b, size: 100, strategy: bestfit}
    - {op: free, name: a}
    - {op: validate}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := loadTrace(args[0])
			if err != nil {
				return err
			}
			return runReplay(cmd.OutOrStdout(), cmd.ErrOrStderr(), trace)
		},
	}
}

func runReplay(out, logOut io.Writer, trace Trace) error {
	h, results, err := runTrace(newLogger(logOut), trace)
	if err != nil {
		return err
	}

	if replayLeaks {
		h.LogUnreleased()
	}

	if jsonOut {
		return printReplayJSON(out, h, results)
	}

	for _, result := range results {
		status := "ok"
		if result.Failed {
			status = "FAILED"
		}
		fmt.Fprintf(out, "%4d %-8s %-12s @%08X %6d bytes %s\n",
			result.Index, result.Op, result.Name, int(result.Address), result.Bytes, status)
	}
	fmt.Fprintf(out, "allocated bytes: %d\n", h.AllocatedBytes())
	fmt.Fprintf(out, "free bytes: %d\n", h.FreeBytes())

	return nil
}

func printReplayJSON(out io.Writer, h *heap.Heap, results []OpResult) error {
	writer := jwriter.NewWriter()

	obj := writer.Object()
	steps := obj.Name("Steps").Array()
	for _, result := range results {
		step := steps.Object()
		step.Name("Op").String(result.Op)
		if result.Name != "" {
			step.Name("Name").String(result.Name)
		}
		step.Name("Address").Int(int(result.Address))
		step.Name("Bytes").Int(result.Bytes)
		step.Name("Failed").Bool(result.Failed)
		step.End()
	}
	steps.End()

	if err := h.PrintDetailedMap(obj.Name("Heap")); err != nil {
		return err
	}
	obj.End()

	if err := writer.Error(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(out, string(writer.Bytes()))
	return err
}
