package dataset

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/costajob/image-augmenter/pkg/augment"
	"github.com/costajob/image-augmenter/pkg/errors"
	"github.com/costajob/image-augmenter/pkg/imgio"
	"github.com/costajob/image-augmenter/pkg/label"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config
// =============================================================================

const (
	// DefaultSize is the normalization target for the larger dimension.
	DefaultSize = imgio.DefaultSize

	// DefaultCutoff exercises every parameter of every filter. It is the
	// flag and config default; a caller-supplied cutoff of zero is honored
	// as the skip-augmentation mode.
	DefaultCutoff = 1.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a dataset run.
// This struct supports JSON serialization for the preview API.
type Options struct {
	// Selection options
	Folder    string `json:"folder"`
	OutputDir string `json:"output_dir,omitempty"`

	// Normalization options
	Size   int    `json:"size,omitempty"`
	Canvas string `json:"canvas,omitempty"` // "", "square", RRGGBB or a background file

	// Augmentation options. Cutoff zero skips augmentation: only the
	// normalized image is produced.
	Cutoff    float64 `json:"cutoff"`
	ShiftAxis string  `json:"shift_axis,omitempty"`
	RankKind  string  `json:"rank_kind,omitempty"`

	// Batching options. Capacity zero means unlimited: the run seals one
	// archive holding every variant.
	BatchCapacity int `json:"batch_capacity,omitempty"`

	// Labelling options
	LabelDigits int `json:"label_digits,omitempty"`

	// Refresh bypasses cache reads so every file is normalized anew.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Parsed collaborator configuration, populated by ValidateAndSetDefaults.
	canvas imgio.Canvas
	axis   augment.Axis
	rank   augment.Rank

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Folder == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source folder is required")
	}
	st, err := os.Stat(o.Folder)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "source folder %s", o.Folder)
	}
	if !st.IsDir() {
		return errors.New(errors.ErrCodeInvalidInput, "source %s is not a folder", o.Folder)
	}

	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Size < 0 {
		return errors.New(errors.ErrCodeInvalidSize, "normalization size %d must be positive", o.Size)
	}

	// Cutoff zero is a meaningful value, not "unset": the engine yields
	// only the normalized image. Callers wanting the full catalog pass
	// DefaultCutoff; the CLI layer does so for its flag defaults.
	if o.Cutoff < 0 || o.Cutoff > 1 {
		return errors.New(errors.ErrCodeInvalidCutoff, "cutoff %v must lie within [0, 1]", o.Cutoff)
	}

	if o.BatchCapacity < 0 {
		return errors.New(errors.ErrCodeInvalidBatch, "batch capacity %d must be zero or positive", o.BatchCapacity)
	}

	if o.LabelDigits == 0 {
		o.LabelDigits = label.DefaultDigits
	}
	if o.LabelDigits < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "label digits %d must be positive", o.LabelDigits)
	}

	if o.canvas, err = imgio.ParseCanvas(o.Canvas); err != nil {
		return err
	}
	if o.axis, err = augment.ParseAxis(o.ShiftAxis); err != nil {
		return err
	}
	if o.rank, err = augment.ParseRank(o.RankKind); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// CatalogConfig returns the filter catalog configuration parsed from the
// options. Only valid after ValidateAndSetDefaults.
func (o *Options) CatalogConfig() augment.CatalogConfig {
	return augment.CatalogConfig{ShiftAxis: o.axis, RankKind: o.rank}
}

// ParsedCanvas returns the parsed canvas configuration. Only valid after
// ValidateAndSetDefaults.
func (o *Options) ParsedCanvas() imgio.Canvas {
	return o.canvas
}
