// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/audpractice/formats"
	"github.com/ik5/audpractice/peaks"
)

func newPeaksCmd(a *app) *cobra.Command {
	var buckets, width int

	cmd := &cobra.Command{
		Use:   "peaks <file>",
		Short: "Print a waveform overview of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if buckets <= 0 {
				buckets = a.cfg.PeakBuckets
			}

			p, err := peaks.ComputeFile(cmd.Context(), args[0], formats.NewRegistry(), buckets)
			if err != nil {
				return err
			}
			a.log.Debug("peaks computed", zap.String("path", args[0]), zap.Int("buckets", p.Buckets))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %d buckets\n", filepath.Base(args[0]), formatTime(p.DurationSec), p.Buckets)
			fmt.Fprintln(out, waveform(p, width, -1))
			return nil
		},
	}
	cmd.Flags().IntVar(&buckets, "buckets", 0, "number of peak buckets (default from config)")
	cmd.Flags().IntVar(&width, "width", 72, "columns of the printed waveform")

	return cmd
}
