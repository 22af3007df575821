package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/costajob/image-augmenter/pkg/dataset"
	"github.com/costajob/image-augmenter/pkg/errors"
	"github.com/costajob/image-augmenter/pkg/observability"
)

// packCommand creates the pack command, the main entry point of the tool.
func (c *CLI) packCommand() *cobra.Command {
	opts := c.Config.Options()
	var (
		noCache   bool
		redisAddr = c.Config.RedisAddr
	)

	cmd := &cobra.Command{
		Use:   "pack [folder]",
		Short: "Augment every image in a folder into zip archives",
		Long: `Augment every image in a folder into zip archives.

Each recognized image (png, jpg, jpeg) is labelled from its filename,
normalized to a fixed size, and expanded into augmented variants. Variants
are grouped under their label inside capacity-bounded zip archives written
to the output directory.

Normalized images are cached locally, so repeated runs over the same folder
skip the decode and resize work.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Folder = expandHome(args[0])
			opts.OutputDir = expandHome(opts.OutputDir)
			opts.Logger = c.Logger
			return c.runPack(cmd.Context(), cmd, opts, noCache, redisAddr)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", opts.OutputDir, "directory receiving the archives (default current directory)")
	cmd.Flags().IntVar(&opts.Size, "size", opts.Size, fmt.Sprintf("normalization target for the larger dimension (default %d)", dataset.DefaultSize))
	cmd.Flags().StringVar(&opts.Canvas, "canvas", opts.Canvas, "square canvas padding: 'square', a RRGGBB color, or a background image file")
	cmd.Flags().Float64Var(&opts.Cutoff, "cutoff", opts.Cutoff, "fraction of each filter's parameter range to exercise, in [0, 1]; 0 packs only the normalized images (default 1)")
	cmd.Flags().StringVar(&opts.ShiftAxis, "shift-axis", opts.ShiftAxis, "shift filter axis: horizontal, vertical or diagonal (default)")
	cmd.Flags().StringVar(&opts.RankKind, "rank", opts.RankKind, "pixel filter rank: max, median, min (default) or mode")
	cmd.Flags().IntVar(&opts.BatchCapacity, "batch", opts.BatchCapacity, "variants per archive; 0 seals a single archive (default 0)")
	cmd.Flags().IntVar(&opts.LabelDigits, "label-digits", opts.LabelDigits, "meaningful characters accumulated by the labeller (default 13)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the normalization cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisAddr, "redis", redisAddr, "redis address for a shared normalization cache (host:port)")

	return cmd
}

// runPack executes the dataset pipeline and reports the outcome.
func (c *CLI) runPack(ctx context.Context, cmd *cobra.Command, opts dataset.Options, noCache bool, redisAddr string) error {
	runner, err := c.newRunner(cmd, noCache, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	bar := newPackProgress()
	observability.SetPipelineHooks(bar)
	defer observability.Reset()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	bar.finish()
	if err != nil {
		printError("Packing failed: %s", errors.UserMessage(err))
		return err
	}
	prog.done(fmt.Sprintf("Packed %d variants from %d files", result.Variants, result.Files))

	if len(result.Archives) == 0 {
		printWarning("No archives produced (no eligible images in %s)", opts.Folder)
		return nil
	}
	printSuccess("Created %d archive(s)", len(result.Archives))
	for _, archivePath := range result.Archives {
		printFile(archivePath)
	}
	printRunStats(result)
	return nil
}

// =============================================================================
// Progress Reporting
// =============================================================================

// packProgress renders an indeterminate progress bar fed by pipeline hooks.
// Batch events are surfaced through the logger, not the bar.
type packProgress struct {
	bar *progressbar.ProgressBar
}

func newPackProgress() *packProgress {
	return &packProgress{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("augmenting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSpinnerType(14),
		),
	}
}

func (p *packProgress) OnFileStart(context.Context, string) {}

func (p *packProgress) OnFileComplete(_ context.Context, _ string, variants int, _ time.Duration, err error) {
	if err == nil {
		_ = p.bar.Add(variants)
	}
}

func (p *packProgress) OnBatchSealed(context.Context, int, int) {}

func (p *packProgress) OnBatchArchived(context.Context, int, string, time.Duration, error) {}

func (p *packProgress) finish() {
	_ = p.bar.Finish()
}
