package main

import (
	"fmt"
	"io"

	"github.com/matgat/prctime/pkg/lib"
)

// printReport writes the measurement in the fixed three-line format.
func printReport(w io.Writer, actualSeconds float64, stats lib.ExecutionStats) error {
	_, err := fmt.Fprintf(w,
		"actual: %.6f s\n"+
			"system: %.6f s (kernel:%.6f + user:%.6f)\n"+
			"cpu-cycles: %d\n",
		actualSeconds,
		stats.SystemSeconds(), stats.KernelSeconds(), stats.UserSeconds(),
		stats.CPUCycles)
	return err
}
