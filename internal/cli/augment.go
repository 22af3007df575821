package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costajob/image-augmenter/pkg/errors"
)

// augmentCommand creates the augment command for expanding a single image.
func (c *CLI) augmentCommand() *cobra.Command {
	opts := c.Config.Options()
	var (
		destDir   string
		noCache   bool
		redisAddr = c.Config.RedisAddr
	)

	cmd := &cobra.Command{
		Use:   "augment [image]",
		Short: "Materialize the augmented variants of a single image",
		Long: `Materialize the augmented variants of a single image.

The image is normalized and expanded exactly as 'pack' would, but the
variants are written as plain files named label_NNN.ext into the output
directory instead of being archived. Useful for inspecting what a given
cutoff and filter configuration produces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := expandHome(args[0])
			opts.Folder = "." // unused by Materialize, satisfies validation
			opts.Logger = c.Logger

			runner, err := c.newRunner(cmd, noCache, redisAddr)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			spinner := newSpinner(cmd.Context(), fmt.Sprintf("Augmenting %s...", file))
			spinner.Start()
			written, err := runner.Materialize(cmd.Context(), opts, file, expandHome(destDir))
			if err != nil {
				spinner.StopWithError(fmt.Sprintf("Augmentation failed: %s", errors.UserMessage(err)))
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Wrote %d variants", written))
			printDetail("Directory: %s", destDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destDir, "output", "o", ".", "directory receiving the variants")
	cmd.Flags().IntVar(&opts.Size, "size", opts.Size, "normalization target for the larger dimension")
	cmd.Flags().StringVar(&opts.Canvas, "canvas", opts.Canvas, "square canvas padding: 'square', a RRGGBB color, or a background image file")
	cmd.Flags().Float64Var(&opts.Cutoff, "cutoff", opts.Cutoff, "fraction of each filter's parameter range to exercise, in [0, 1]; 0 writes only the normalized image")
	cmd.Flags().StringVar(&opts.ShiftAxis, "shift-axis", opts.ShiftAxis, "shift filter axis: horizontal, vertical or diagonal")
	cmd.Flags().StringVar(&opts.RankKind, "rank", opts.RankKind, "pixel filter rank: max, median, min or mode")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisAddr, "redis", redisAddr, "redis address for a shared normalization cache (host:port)")

	return cmd
}
