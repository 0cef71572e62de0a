package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	// Global flags
	verbose bool
	jsonOut bool
)

const (
	kib = 1024
	mib = 1024 * kib
)

var rootCmd = &cobra.Command{
	Use:   "heapsim",
	Short: "Exercise the chunk heap over a simulated address space",
	Long: `heapsim drives the chunk heap allocator over a simulated flat address space.
It can run the reference demo scenario, check the bitmap search routines and replay
allocation traces described in YAML files.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every allocator decision")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the logger handed to every heap, at debug level when --verbose is set
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.HandlerOptions{Level: level}.NewTextHandler(w))
}
