// File: cmd/concurrency_bench/summary.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/momentics/refbench/control"
	"github.com/momentics/refbench/report"
)

func newSummaryCmd() *cobra.Command {
	var base, candidate string
	cmd := &cobra.Command{
		Use:   "summary [dir]",
		Short: "Print the acceleration of every labelled result under dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := control.DefaultConfig().ResultDir
			if len(args) == 1 {
				dir = args[0]
			}
			sums, errs, err := report.SummarizeDir(dir, base, candidate)
			if err != nil {
				return err
			}
			for _, e := range errs {
				slog.Default().Warn("skipping result", "error", e)
			}
			if len(sums) == 0 {
				return fmt.Errorf("no usable %s files under %s", control.ResultSuffix, dir)
			}
			out := cmd.OutOrStdout()
			return report.WriteSummary(out, sums, report.ColorEnabled(out))
		},
	}
	cmd.Flags().StringVar(&base, "base", control.FlavorShared, "flavor whose time is the numerator")
	cmd.Flags().StringVar(&candidate, "candidate", control.FlavorRef, "flavor whose time is the denominator")
	return cmd
}
