package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hl7play/internal/prof"
)

// setupProfiling starts the profilers requested by the persistent flags.
func setupProfiling(cmd *cobra.Command) (*prof.Profiler, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}
