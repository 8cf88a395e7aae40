// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/audpractice"
	"github.com/ik5/audpractice/formats"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		from, to float64
		rate     int
	)

	cmd := &cobra.Command{
		Use:   "export <file> <out.wav>",
		Short: "Bounce a region of a track to a mono 16-bit WAV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if to <= from {
				return fmt.Errorf("--to (%g) must be after --from (%g)", to, from)
			}

			buf, err := decodeFile(cmd.Context(), formats.NewRegistry(), args[0])
			if err != nil {
				return err
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, out.Close())
			}()

			if err := audpractice.ExportRegion(out, buf, from, to, rate); err != nil {
				return fmt.Errorf("exporting %s: %w", args[0], err)
			}

			a.log.Info("region exported",
				zap.String("from_file", args[0]),
				zap.String("to_file", args[1]),
				zap.Float64("from_sec", from),
				zap.Float64("to_sec", to),
				zap.Int("rate", rate),
			)
			return nil
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "region start in seconds")
	cmd.Flags().Float64Var(&to, "to", 0, "region end in seconds")
	cmd.Flags().IntVar(&rate, "rate", 0, "output sample rate (default keeps the track rate)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
